// Package storage provides the article storage port and its two backends:
// a local single-document file store and a remote Redis store. The backend
// is selected once at startup and never re-evaluated mid-request.
package storage

import (
	"context"

	"github.com/moltnews/newsdesk/internal/models"
)

// Backend is the storage port used by the article repository. Implementations
// return (nil, nil) from the lookup methods when no record matches; absence is
// not an error at this layer.
type Backend interface {
	// List returns articles ordered by publish time descending. A positive
	// limit truncates the result; zero or negative returns everything.
	List(ctx context.Context, limit int) ([]models.Article, error)

	// GetBySlug returns the article with the exact slug, or nil.
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)

	// FindByExternalID resolves the external-id dedup key, or nil.
	FindByExternalID(ctx context.Context, externalID string) (*models.Article, error)

	// FindBySourceURL resolves the source-url dedup key, or nil.
	FindBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error)

	// SlugExists reports whether any article already owns the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Insert persists a newly created article together with its ordering and
	// dedup index entries. The Redis backend writes everything in one atomic
	// transaction; the file backend rewrites the whole document atomically.
	Insert(ctx context.Context, article *models.Article) error

	// Update persists engagement changes to an existing article.
	Update(ctx context.Context, article *models.Article) error

	// Name identifies the backend in health and log output.
	Name() string
}
