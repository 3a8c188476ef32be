package api

import (
	"github.com/gin-gonic/gin"

	"github.com/moltnews/newsdesk/internal/config"
	"github.com/moltnews/newsdesk/internal/telemetry"
)

// Router holds the API dependencies
type Router struct {
	handlers *Handlers
	metrics  *telemetry.Metrics
	cfg      *config.Config
}

// NewRouter creates a new API router
func NewRouter(handlers *Handlers, metrics *telemetry.Metrics, cfg *config.Config) *Router {
	return &Router{
		handlers: handlers,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// SetupRoutes builds the gin engine with all service routes.
func (r *Router) SetupRoutes() *gin.Engine {
	// Set Gin mode based on config
	if !r.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Public endpoints
	router.GET("/health", r.handlers.Health)
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	v1 := router.Group("/api/v1")
	v1.GET("/articles", r.handlers.ListArticles)
	v1.GET("/articles/:slug", r.handlers.GetArticle)
	v1.GET("/leaderboard", r.handlers.GetLeaderboard)

	// Publishing requires the webhook secret
	publish := v1.Group("", RequireBearer(r.cfg.Auth.WebhookSecret))
	publish.POST("/articles", r.handlers.PublishArticle)

	// Engagement accepts the agent secret, falling back to the webhook secret
	engage := v1.Group("", RequireBearer(r.cfg.Auth.AgentSecret, r.cfg.Auth.WebhookSecret))
	engage.POST("/articles/:slug/upvote", r.handlers.UpvoteArticle)
	engage.POST("/articles/:slug/comments", r.handlers.CommentOnArticle)

	return router
}
