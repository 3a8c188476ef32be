// Package articles implements the article repository: publication with
// deduplication and slug assignment, engagement mutations, and feed reads.
package articles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
	"github.com/moltnews/newsdesk/internal/queue"
	"github.com/moltnews/newsdesk/internal/storage"
	"github.com/moltnews/newsdesk/internal/telemetry"
)

// Repository is the sole owner and mutator of article records. All mutating
// operations are funneled through the write serializer; reads go straight to
// the backend and may observe a snapshot an in-flight write is about to
// supersede.
type Repository struct {
	backend storage.Backend
	writes  queue.Serializer
	metrics *telemetry.Metrics
	logger  logger.Logger

	now   func() time.Time
	newID func() string
}

// NewRepository creates a repository over the given backend and serializer.
func NewRepository(backend storage.Backend, writes queue.Serializer, metrics *telemetry.Metrics, log logger.Logger) *Repository {
	return &Repository{
		backend: backend,
		writes:  writes,
		metrics: metrics,
		logger:  log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// PublishResult reports whether a publish created a new article or resolved
// to an existing one through a dedup key.
type PublishResult struct {
	Article models.Article
	Created bool
}

// UpvoteResult reports whether the upvote was added or was a repeat.
type UpvoteResult struct {
	Article models.Article
	Added   bool
}

// List returns articles ordered by publish time descending. A positive limit
// truncates the result. Never mutates.
func (r *Repository) List(ctx context.Context, limit int) ([]models.Article, error) {
	return r.backend.List(ctx, limit)
}

// GetBySlug returns the article with the exact slug, or nil when absent.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.backend.GetBySlug(ctx, slug)
}

// Publish stores a new article, or returns the existing one unchanged when an
// external-id or source-url dedup key matches. Duplicate detection is a
// success path, never an error.
func (r *Repository) Publish(ctx context.Context, input models.PublishInput) (PublishResult, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return PublishResult{}, models.ErrTitleRequired
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return PublishResult{}, models.ErrContentRequired
	}

	var result PublishResult
	err := r.writes.Enqueue(ctx, func(ctx context.Context) error {
		published, err := r.publish(ctx, input, title, content)
		if err != nil {
			return err
		}
		result = published
		return nil
	})
	return result, err
}

// publish runs inside the serializer: the dedup check, slug assignment and
// insert form one read-modify-write sequence that never interleaves with
// another mutation in this process.
func (r *Repository) publish(ctx context.Context, input models.PublishInput, title, content string) (PublishResult, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	sourceURL := strings.TrimSpace(input.SourceURL)

	if externalID != "" {
		existing, err := r.backend.FindByExternalID(ctx, externalID)
		if err != nil {
			return PublishResult{}, fmt.Errorf("external-id dedup lookup: %w", err)
		}
		if existing != nil {
			r.recordDuplicate(existing.Slug, "externalId")
			return PublishResult{Article: *existing, Created: false}, nil
		}
	}

	if sourceURL != "" {
		existing, err := r.backend.FindBySourceURL(ctx, sourceURL)
		if err != nil {
			return PublishResult{}, fmt.Errorf("source-url dedup lookup: %w", err)
		}
		if existing != nil {
			r.recordDuplicate(existing.Slug, "sourceUrl")
			return PublishResult{Article: *existing, Created: false}, nil
		}
	}

	now := r.now()

	slugSource := strings.TrimSpace(input.Slug)
	if slugSource == "" {
		slugSource = title
	}
	slug, err := r.uniqueSlug(ctx, normalizeSlug(slugSource, now))
	if err != nil {
		return PublishResult{}, err
	}

	article := models.Article{
		ID:              r.newID(),
		ExternalID:      externalID,
		Title:           title,
		Slug:            slug,
		Summary:         summarize(input.Summary, content),
		Content:         content,
		Category:        trimOr(input.Category, defaultCategory),
		SourceName:      trimOr(input.SourceName, defaultSourceName),
		SourceURL:       sourceURL,
		ImageURL:        strings.TrimSpace(input.ImageURL),
		Tags:            normalizeTags(input.Tags),
		PublishedAt:     normalizeTimestamp(input.PublishedAt, now),
		CreatedAt:       models.FormatTime(now),
		Agent:           resolveAgentIdentity(input.AgentAddress, input.AgentName, input.SourceName),
		UpvoteAddresses: []string{},
		Comments:        []models.ArticleComment{},
	}

	if err := r.backend.Insert(ctx, &article); err != nil {
		if r.metrics != nil {
			r.metrics.PublishFailures.Inc()
		}
		return PublishResult{}, fmt.Errorf("persist article: %w", err)
	}

	if r.metrics != nil {
		r.metrics.ArticlesPublished.Inc()
	}
	r.logger.Info("Article published",
		logger.String("slug", article.Slug),
		logger.String("category", article.Category),
		logger.Bool("attributed", article.Agent != nil),
	)

	return PublishResult{Article: article, Created: true}, nil
}

// uniqueSlug resolves slug collisions by deterministic numeric suffixing.
// Assigned slugs are never revisited, so the suffix of an existing article
// stays stable forever.
func (r *Repository) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for suffix := 2; ; suffix++ {
		exists, err := r.backend.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug availability: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

// Upvote records a membership upvote from the given agent. A repeat upvote
// from the same address is a no-op reporting Added=false.
func (r *Repository) Upvote(ctx context.Context, slug string, input models.AgentInput) (UpvoteResult, error) {
	agent, err := normalizeAgentInput(input)
	if err != nil {
		return UpvoteResult{}, err
	}

	var result UpvoteResult
	err = r.writes.Enqueue(ctx, func(ctx context.Context) error {
		article, err := r.backend.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("load article: %w", err)
		}
		if article == nil {
			return models.ErrArticleNotFound
		}

		if article.HasUpvoteFrom(agent.Address) {
			result = UpvoteResult{Article: *article, Added: false}
			return nil
		}

		article.UpvoteAddresses = append(article.UpvoteAddresses, agent.Address)
		if err := r.backend.Update(ctx, article); err != nil {
			return fmt.Errorf("persist upvote: %w", err)
		}

		if r.metrics != nil {
			r.metrics.UpvotesRecorded.Inc()
		}
		r.logger.Debug("Upvote recorded",
			logger.String("slug", slug),
			logger.String("address", agent.Address),
		)

		result = UpvoteResult{Article: *article, Added: true}
		return nil
	})
	return result, err
}

// Comment appends an agent comment, evicting the oldest entries beyond the
// per-article cap, and returns the updated article.
func (r *Repository) Comment(ctx context.Context, slug string, input models.AgentInput, content string) (models.Article, error) {
	agent, err := normalizeAgentInput(input)
	if err != nil {
		return models.Article{}, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.Article{}, models.ErrCommentRequired
	}

	var result models.Article
	err = r.writes.Enqueue(ctx, func(ctx context.Context) error {
		article, err := r.backend.GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("load article: %w", err)
		}
		if article == nil {
			return models.ErrArticleNotFound
		}

		comment := models.ArticleComment{
			ID:        r.newID(),
			Agent:     agent,
			Content:   truncateRunes(trimmed, models.MaxCommentLength),
			CreatedAt: models.FormatTime(r.now()),
		}

		article.Comments = append(article.Comments, comment)
		if overflow := len(article.Comments) - models.MaxCommentsPerArticle; overflow > 0 {
			article.Comments = article.Comments[overflow:]
		}

		if err := r.backend.Update(ctx, article); err != nil {
			return fmt.Errorf("persist comment: %w", err)
		}

		if r.metrics != nil {
			r.metrics.CommentsRecorded.Inc()
		}
		r.logger.Debug("Comment recorded",
			logger.String("slug", slug),
			logger.String("address", agent.Address),
			logger.Int("comment_count", len(article.Comments)),
		)

		result = *article
		return nil
	})
	return result, err
}

func (r *Repository) recordDuplicate(slug, key string) {
	if r.metrics != nil {
		r.metrics.PublishDuplicates.Inc()
	}
	r.logger.Info("Publish resolved to existing article",
		logger.String("slug", slug),
		logger.String("dedup_key", key),
	)
}

func trimOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
