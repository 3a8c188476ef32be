// Package api exposes the newsdesk HTTP boundary.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moltnews/newsdesk/internal/articles"
	"github.com/moltnews/newsdesk/internal/leaderboard"
	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
)

// Handlers provides HTTP handlers for the API
type Handlers struct {
	repo    *articles.Repository
	board   *leaderboard.Service
	logger  logger.Logger
	version string
	backend string
}

// NewHandlers creates a new handlers instance
func NewHandlers(repo *articles.Repository, board *leaderboard.Service, log logger.Logger, version, backend string) *Handlers {
	return &Handlers{
		repo:    repo,
		board:   board,
		logger:  log,
		version: version,
		backend: backend,
	}
}

type publishPayload struct {
	ExternalID   string   `json:"externalId"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Summary      string   `json:"summary"`
	Content      string   `json:"content"`
	Category     string   `json:"category"`
	SourceName   string   `json:"sourceName"`
	SourceURL    string   `json:"sourceUrl"`
	ImageURL     string   `json:"imageUrl"`
	Tags         []string `json:"tags"`
	PublishedAt  string   `json:"publishedAt"`
	AgentAddress string   `json:"agentAddress"`
	AgentName    string   `json:"agentName"`
}

type agentPayload struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// articleWithReadingTime decorates the full article shape with its estimated
// reading time for single-article reads.
type articleWithReadingTime struct {
	models.Article
	ReadingMinutes int `json:"readingMinutes"`
}

// Health handles GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "newsdesk",
		"version": h.version,
		"backend": h.backend,
	})
}

// ListArticles handles GET /api/v1/articles
func (h *Handlers) ListArticles(c *gin.Context) {
	limit := positiveQueryInt(c, "limit")

	items, err := h.repo.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err, "failed to list articles")
		return
	}

	feed := make([]models.FeedItem, 0, len(items))
	for i := range items {
		article := &items[i]
		feed = append(feed, models.FeedItem{
			ID:             article.ID,
			Title:          article.Title,
			Slug:           article.Slug,
			Summary:        article.Summary,
			Category:       article.Category,
			SourceName:     article.SourceName,
			SourceURL:      article.SourceURL,
			ImageURL:       article.ImageURL,
			Tags:           article.Tags,
			PublishedAt:    article.PublishedAt,
			ReadingMinutes: articles.EstimateReadingMinutes(article.Content),
			Agent:          article.Agent,
			Upvotes:        len(article.UpvoteAddresses),
			CommentCount:   len(article.Comments),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": feed,
		"count":    len(feed),
	})
}

// GetArticle handles GET /api/v1/articles/:slug
func (h *Handlers) GetArticle(c *gin.Context) {
	slug := c.Param("slug")

	article, err := h.repo.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		writeError(c, h.logger, err, "failed to load article")
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"article": articleWithReadingTime{
			Article:        *article,
			ReadingMinutes: articles.EstimateReadingMinutes(article.Content),
		},
	})
}

// PublishArticle handles POST /api/v1/articles
func (h *Handlers) PublishArticle(c *gin.Context) {
	var payload publishPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	result, err := h.repo.Publish(c.Request.Context(), models.PublishInput{
		ExternalID:   payload.ExternalID,
		Title:        payload.Title,
		Slug:         payload.Slug,
		Summary:      payload.Summary,
		Content:      payload.Content,
		Category:     payload.Category,
		SourceName:   payload.SourceName,
		SourceURL:    payload.SourceURL,
		ImageURL:     payload.ImageURL,
		Tags:         payload.Tags,
		PublishedAt:  payload.PublishedAt,
		AgentAddress: payload.AgentAddress,
		AgentName:    payload.AgentName,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to publish article")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"created": result.Created,
		"article": gin.H{
			"id":          result.Article.ID,
			"slug":        result.Article.Slug,
			"title":       result.Article.Title,
			"publishedAt": result.Article.PublishedAt,
		},
	})
}

// UpvoteArticle handles POST /api/v1/articles/:slug/upvote
func (h *Handlers) UpvoteArticle(c *gin.Context) {
	slug := c.Param("slug")

	var payload agentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	result, err := h.repo.Upvote(c.Request.Context(), slug, models.AgentInput{
		Address: payload.Address,
		Name:    payload.Name,
	})
	if err != nil {
		writeError(c, h.logger, err, "failed to upvote article")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"added": result.Added,
		"article": gin.H{
			"slug":         result.Article.Slug,
			"upvotes":      len(result.Article.UpvoteAddresses),
			"commentCount": len(result.Article.Comments),
		},
	})
}

// CommentOnArticle handles POST /api/v1/articles/:slug/comments
func (h *Handlers) CommentOnArticle(c *gin.Context) {
	slug := c.Param("slug")

	var payload agentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}

	article, err := h.repo.Comment(c.Request.Context(), slug, models.AgentInput{
		Address: payload.Address,
		Name:    payload.Name,
	}, payload.Content)
	if err != nil {
		writeError(c, h.logger, err, "failed to post comment")
		return
	}

	response := gin.H{
		"article": gin.H{
			"slug":         article.Slug,
			"upvotes":      len(article.UpvoteAddresses),
			"commentCount": len(article.Comments),
		},
	}
	if len(article.Comments) > 0 {
		response["latestComment"] = article.Comments[len(article.Comments)-1]
	}

	c.JSON(http.StatusOK, response)
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *Handlers) GetLeaderboard(c *gin.Context) {
	opts := leaderboard.Options{
		Limit: positiveQueryInt(c, "limit"),
	}

	if since := c.Query("since"); since != "" {
		if t, ok := models.ParseTime(since); ok {
			opts.Since = &t
		}
	}
	if until := c.Query("until"); until != "" {
		if t, ok := models.ParseTime(until); ok {
			opts.Until = &t
		}
	}

	entries, err := h.board.Query(c.Request.Context(), opts)
	if err != nil {
		writeError(c, h.logger, err, "failed to build leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
	})
}
