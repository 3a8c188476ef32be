package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/moltnews/newsdesk/internal/logger"
	"github.com/moltnews/newsdesk/internal/models"
)

const (
	dataDirPerm  = 0o755
	dataFilePerm = 0o644
)

// fileDocument is the on-disk layout: one JSON document holding the whole
// article collection.
type fileDocument struct {
	Articles []models.Article `json:"articles"`
}

// FileStore keeps the entire article collection in a single JSON document.
// Every write serializes the collection to a temporary path and renames it
// into place, so a crash mid-write never leaves a corrupted primary document.
// Suitable for small corpora; larger deployments should prefer the indexed
// Redis backend.
type FileStore struct {
	path     string
	writable bool
	logger   logger.Logger
}

// NewFileStore creates a file-backed store at path. When writable is false
// (deployment forbids local writes), Insert and Update fail fast with
// models.ErrBackendUnavailable before touching the filesystem.
func NewFileStore(path string, writable bool, log logger.Logger) *FileStore {
	return &FileStore{
		path:     path,
		writable: writable,
		logger:   log,
	}
}

func (s *FileStore) Name() string {
	return "file"
}

func (s *FileStore) List(ctx context.Context, limit int) ([]models.Article, error) {
	articles, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(articles) {
		articles = articles[:limit]
	}
	return articles, nil
}

func (s *FileStore) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.find(ctx, func(a *models.Article) bool { return a.Slug == slug })
}

func (s *FileStore) FindByExternalID(ctx context.Context, externalID string) (*models.Article, error) {
	if externalID == "" {
		return nil, nil
	}
	return s.find(ctx, func(a *models.Article) bool { return a.ExternalID == externalID })
}

func (s *FileStore) FindBySourceURL(ctx context.Context, sourceURL string) (*models.Article, error) {
	if sourceURL == "" {
		return nil, nil
	}
	return s.find(ctx, func(a *models.Article) bool { return a.SourceURL == sourceURL })
}

func (s *FileStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	article, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	return article != nil, nil
}

func (s *FileStore) Insert(ctx context.Context, article *models.Article) error {
	if !s.writable {
		return models.ErrBackendUnavailable
	}

	articles, err := s.readAll(ctx)
	if err != nil {
		return err
	}

	next := make([]models.Article, 0, len(articles)+1)
	next = append(next, *article)
	next = append(next, articles...)

	return s.writeAll(next)
}

func (s *FileStore) Update(ctx context.Context, article *models.Article) error {
	if !s.writable {
		return models.ErrBackendUnavailable
	}

	articles, err := s.readAll(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range articles {
		if articles[i].Slug == article.Slug {
			articles[i] = *article
			replaced = true
			break
		}
	}
	if !replaced {
		return models.ErrArticleNotFound
	}

	return s.writeAll(articles)
}

// find scans the full document for the first article matching the predicate.
// There are no auxiliary indexes on this backend; dedup is a linear scan.
func (s *FileStore) find(ctx context.Context, match func(*models.Article) bool) (*models.Article, error) {
	articles, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range articles {
		if match(&articles[i]) {
			found := articles[i]
			return &found, nil
		}
	}
	return nil, nil
}

func (s *FileStore) readAll(_ context.Context) ([]models.Article, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read articles document: %w", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse articles document: %w", err)
	}

	// Skip stored entries missing their identity rather than failing the
	// whole read.
	articles := make([]models.Article, 0, len(doc.Articles))
	for _, article := range doc.Articles {
		if article.ID == "" || article.Slug == "" {
			s.logger.Warn("Skipping malformed stored article",
				logger.String("slug", article.Slug),
			)
			continue
		}
		articles = append(articles, article)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedTime().After(articles[j].PublishedTime())
	})

	return articles, nil
}

// writeAll rewrites the document wholesale. The temporary file is fully
// written before the rename, so readers only ever observe a complete
// document.
func (s *FileStore) writeAll(articles []models.Article) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dataDirPerm); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedTime().After(articles[j].PublishedTime())
	})

	payload, err := json.MarshalIndent(fileDocument{Articles: articles}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode articles document: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, payload, dataFilePerm); err != nil {
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("replace articles document: %w", err)
	}

	return nil
}
