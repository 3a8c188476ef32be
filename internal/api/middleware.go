package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireBearer authorizes requests carrying one of the given shared secrets
// as a bearer token. Empty secrets are ignored; with no secrets configured
// every request is rejected. Comparison is constant-time.
func RequireBearer(secrets ...string) gin.HandlerFunc {
	valid := make([]string, 0, len(secrets))
	for _, secret := range secrets {
		if trimmed := strings.TrimSpace(secret); trimmed != "" {
			valid = append(valid, trimmed)
		}
	}

	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || len(valid) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "agent authorization required",
			})
			return
		}

		token = strings.TrimSpace(token)
		for _, secret := range valid {
			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "agent authorization required",
		})
	}
}
