package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
)

// Redis key layout. Article bodies are keyed by slug; a publish-time sorted
// set orders the feed; two auxiliary key spaces give O(1) dedup lookups.
const (
	publishedSetKey     = "newsdesk:published"
	articleKeyPrefix    = "newsdesk:article:slug:"
	externalIDKeyPrefix = "newsdesk:index:external:"
	sourceURLKeyPrefix  = "newsdesk:index:source:"
)

// RedisStore keeps each article as a keyed JSON entry with a sorted set
// ordering slugs by publish time. A publish writes the article body, the
// sorted-set member and both dedup index entries in one MULTI/EXEC
// transaction; any sub-command failure fails the whole operation so partial
// index updates are never visible.
type RedisStore struct {
	client redis.UniversalClient
	logger logger.Logger
}

// NewRedisStore creates a Redis-backed store on an established client.
func NewRedisStore(client redis.UniversalClient, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: log,
	}
}

func (s *RedisStore) Name() string {
	return "redis"
}

func articleKey(slug string) string {
	return articleKeyPrefix + slug
}

func externalIDKey(externalID string) string {
	return externalIDKeyPrefix + externalID
}

// sourceURLKey fingerprints the URL so arbitrary characters never leak into
// the key space.
func sourceURLKey(sourceURL string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return sourceURLKeyPrefix + hex.EncodeToString(sum[:])
}

func (s *RedisStore) List(ctx context.Context, limit int) ([]models.Article, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	slugs, err := s.client.ZRevRange(ctx, publishedSetKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("range published set: %w", err)
	}
	if len(slugs) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	gets := make([]*redis.StringCmd, len(slugs))
	for i, slug := range slugs {
		gets[i] = pipe.Get(ctx, articleKey(slug))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	articles := make([]models.Article, 0, len(slugs))
	for i, get := range gets {
		raw, err := get.Result()
		if errors.Is(err, redis.Nil) {
			// Sorted-set member without a body; skip rather than fail
			// the whole feed.
			s.logger.Warn("Published set references missing article",
				logger.String("slug", slugs[i]),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("fetch article %q: %w", slugs[i], err)
		}

		var article models.Article
		if err := json.Unmarshal([]byte(raw), &article); err != nil {
			s.logger.Warn("Skipping unparseable stored article",
				logger.String("slug", slugs[i]),
				logger.Error(err),
			)
			continue
		}
		articles = append(articles, article)
	}

	return articles, nil
}

func (s *RedisStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	raw, err := s.client.Get(ctx, articleKey(slug)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article %q: %w", slug, err)
	}

	var article models.Article
	if err := json.Unmarshal([]byte(raw), &article); err != nil {
		return nil, fmt.Errorf("parse article %q: %w", slug, err)
	}
	return &article, nil
}

func (s *RedisStore) FindByExternalID(ctx context.Context, externalID string) (*models.Article, error) {
	if externalID == "" {
		return nil, nil
	}
	return s.resolveIndex(ctx, externalIDKey(externalID))
}

func (s *RedisStore) FindBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error) {
	if sourceURL == "" {
		return nil, nil
	}
	return s.resolveIndex(ctx, sourceURLKey(sourceURL))
}

// resolveIndex follows a dedup index key to its article. A dangling index
// entry resolves to nil so a half-deleted record never blocks publication.
func (s *RedisStore) resolveIndex(ctx context.Context, key string) (*models.Article, error) {
	slug, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve dedup index: %w", err)
	}
	return s.GetBySlug(ctx, slug)
}

func (s *RedisStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := s.client.Exists(ctx, articleKey(slug)).Result()
	if err != nil {
		return false, fmt.Errorf("check slug %q: %w", slug, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Insert(ctx context.Context, article *models.Article) error {
	return s.persist(ctx, article)
}

func (s *RedisStore) Update(ctx context.Context, article *models.Article) error {
	return s.persist(ctx, article)
}

// persist writes the article body, its sorted-set insertion and, when
// present, both dedup index entries as one transaction.
func (s *RedisStore) persist(ctx context.Context, article *models.Article) error {
	payload, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("encode article %q: %w", article.Slug, err)
	}

	score := float64(article.PublishedTime().UnixMilli())

	cmds, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, articleKey(article.Slug), payload, 0)
		pipe.ZAdd(ctx, publishedSetKey, redis.Z{Score: score, Member: article.Slug})
		if article.ExternalID != "" {
			pipe.Set(ctx, externalIDKey(article.ExternalID), article.Slug, 0)
		}
		if article.SourceURL != "" {
			pipe.Set(ctx, sourceURLKey(article.SourceURL), article.Slug, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist article %q: %w", article.Slug, err)
	}
	for _, cmd := range cmds {
		if cmdErr := cmd.Err(); cmdErr != nil {
			return fmt.Errorf("persist article %q: %w", article.Slug, cmdErr)
		}
	}

	return nil
}
