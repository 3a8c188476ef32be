package storage_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
	"github.com/moltnews/newsdesk/internal/storage"
)

func newFileStore(t *testing.T) (*storage.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "articles.json")
	return storage.NewFileStore(path, true, logger.NewNopLogger()), path
}

func testArticle(slug string, publishedAt time.Time) *models.Article {
	return &models.Article{
		ID:              "id-" + slug,
		Title:           "Title " + slug,
		Slug:            slug,
		Summary:         "summary",
		Content:         "content",
		Category:        "Top Story",
		SourceName:      "OpenClaw",
		Tags:            []string{},
		PublishedAt:     models.FormatTime(publishedAt),
		CreatedAt:       models.FormatTime(publishedAt),
		UpvoteAddresses: []string{},
		Comments:        []models.ArticleComment{},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()

	article := testArticle("first-story", time.Now())
	article.ExternalID = "ext-1"
	article.SourceURL = "https://example.com/first"
	require.NoError(t, store.Insert(ctx, article))

	got, err := store.GetBySlug(ctx, "first-story")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, article.ID, got.ID)

	byExternal, err := store.FindByExternalID(ctx, "ext-1")
	require.NoError(t, err)
	require.NotNil(t, byExternal)
	assert.Equal(t, "first-story", byExternal.Slug)

	bySource, err := store.FindBySourceURL(ctx, "https://example.com/first")
	require.NoError(t, err)
	require.NotNil(t, bySource)
	assert.Equal(t, "first-story", bySource.Slug)

	exists, err := store.SlugExists(ctx, "first-story")
	require.NoError(t, err)
	assert.True(t, exists)

	missing, err := store.GetBySlug(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestFileStoreListOrdering(t *testing.T) {
	store, _ := newFileStore(t)
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

	limited, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "newest", limited[0].Slug)
}

func TestFileStoreUpdate(t *testing.T) {
	store, _ := newFileStore(t)
	ctx := context.Background()

	article := testArticle("story", time.Now())
	require.NoError(t, store.Insert(ctx, article))

	article.UpvoteAddresses = []string{"0xabc"}
	require.NoError(t, store.Update(ctx, article))

	got, err := store.GetBySlug(ctx, "story")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"0xabc"}, got.UpvoteAddresses)
}

func TestFileStoreUpdateMissingArticle(t *testing.T) {
	store, _ := newFileStore(t)

	err := store.Update(context.Background(), testArticle("ghost", time.Now()))
	assert.ErrorIs(t, err, models.ErrArticleNotFound)
}

func TestFileStoreNotWritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.json")
	store := storage.NewFileStore(path, false, logger.NewNopLogger())
	ctx := context.Background()

	err := store.Insert(ctx, testArticle("story", time.Now()))
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)

	err = store.Update(ctx, testArticle("story", time.Now()))
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)

	// The document must remain untouched
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileStoreFailedWriteLeavesDocumentIntact(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testArticle("survivor", time.Now())))

	// Occupy the temp path with a directory so the next temp write fails
	// before the rename ever happens.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	err := store.Insert(ctx, testArticle("casualty", time.Now()))
	require.Error(t, err)

	// The primary document is unchanged and still parseable
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)

	var doc struct {
		Articles []models.Article `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Articles, 1)
	assert.Equal(t, "survivor", doc.Articles[0].Slug)
}

func TestFileStoreSkipsMalformedEntries(t *testing.T) {
	store, path := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte(`{
		"articles": [
			{"id": "", "slug": "", "title": "no identity"},
			{"id": "a1", "slug": "kept", "title": "kept",
			 "publishedAt": "2026-03-01T00:00:00.000Z", "createdAt": "2026-03-01T00:00:00.000Z"}
		]
	}`), 0o644))

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "kept", all[0].Slug)
}
