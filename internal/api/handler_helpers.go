package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
	"github.com/moltnews/newsdesk/internal/queue"
)

// writeError maps repository errors to HTTP status codes. Validation errors
// surface their own message; anything unexpected gets the fallback so
// backend details never leak to callers.
func writeError(c *gin.Context, log logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, models.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
	case errors.Is(err, models.ErrTitleRequired),
		errors.Is(err, models.ErrContentRequired),
		errors.Is(err, models.ErrInvalidAgentAddress),
		errors.Is(err, models.ErrCommentRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrBackendUnavailable),
		errors.Is(err, queue.ErrQueueClosed):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": models.ErrBackendUnavailable.Error()})
	default:
		log.Error("Request failed",
			logger.Error(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// positiveQueryInt parses an optional positive integer query parameter;
// missing or invalid values yield zero.
func positiveQueryInt(c *gin.Context, name string) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 0 {
		return 0
	}
	return value
}
