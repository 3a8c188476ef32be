package storage_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
	"github.com/moltnews/newsdesk/internal/storage"
)

func newRedisStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return storage.NewRedisStore(client, logger.NewNopLogger()), mr
}

func TestRedisStoreInsertWritesAllKeys(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	publishedAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	article := testArticle("breaking-story", publishedAt)
	article.ExternalID = "ext-42"
	article.SourceURL = "https://example.com/breaking"

	require.NoError(t, store.Insert(ctx, article))

	// Article body
	raw, err := mr.Get("newsdesk:article:slug:breaking-story")
	require.NoError(t, err)
	var stored models.Article
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, article.ID, stored.ID)

	// Sorted set member scored by publish time
	score, err := mr.ZScore("newsdesk:published", "breaking-story")
	require.NoError(t, err)
	assert.Equal(t, float64(publishedAt.UnixMilli()), score)

	// External-id index
	slug, err := mr.Get("newsdesk:index:external:ext-42")
	require.NoError(t, err)
	assert.Equal(t, "breaking-story", slug)

	// Source-url index is keyed by fingerprint
	sum := sha256.Sum256([]byte("https://example.com/breaking"))
	slug, err = mr.Get("newsdesk:index:source:" + hex.EncodeToString(sum[:]))
	require.NoError(t, err)
	assert.Equal(t, "breaking-story", slug)
}

func TestRedisStoreListOrdering(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(ctx, testArticle("oldest", base)))
	require.NoError(t, store.Insert(ctx, testArticle("newest", base.Add(2*time.Hour))))
	require.NoError(t, store.Insert(ctx, testArticle("middle", base.Add(time.Hour))))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "newest", all[0].Slug)
	assert.Equal(t, "middle", all[1].Slug)
	assert.Equal(t, "oldest", all[2].Slug)

	limited, err := store.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "newest", limited[0].Slug)
}

func TestRedisStoreDedupLookups(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	article := testArticle("story", time.Now())
	article.ExternalID = "ext-1"
	article.SourceURL = "https://example.com/story"
	require.NoError(t, store.Insert(ctx, article))

	byExternal, err := store.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, byExternal)
	assert.Equal(t, "story", byExternal.Slug)

	bySource, err := store.FindBySourceURL(ctx, "https://example.com/story")
	require.NoError(t, err)
	require.NotNil(t, bySource)
	assert.Equal(t, "story", bySource.Slug)

	none, err := store.FindByExternalID(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, none)

	none, err = store.FindBySourceURL(ctx, "https://example.com/other")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRedisStoreDanglingIndexResolvesToNil(t *testing.T) {
	store, mr := newRedisStore(t)

	require.NoError(t, mr.Set("newsdesk:index:external:orphan", "deleted-slug"))

	got, err := store.FindByExternalID(context.Background(), "orphan")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreListSkipsMissingBodies(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testArticle("kept", time.Now())))

	// Sorted-set member whose body was lost
	mr.ZAdd("newsdesk:published", 1, "ghost")

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Slug)
}

func TestRedisStoreSlugExists(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testArticle("taken", time.Now())))

	exists, err := store.SlugExists(ctx, "taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.SlugExists(ctx, "free")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisStoreUpdatePersistsEngagement(t *testing.T) {
	store, _ := newRedisStore(t)
	ctx := context.Background()

	article := testArticle("story", time.Now())
	require.NoError(t, store.Insert(ctx, article))

	article.UpvoteAddresses = []string{"0xabcdef"}
	require.NoError(t, store.Update(ctx, article))

	got, err := store.GetBySlug(ctx, "story")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"0xabcdef"}, got.UpvoteAddresses)
}
