// Package leaderboard derives ranked per-agent engagement statistics from the
// article corpus. Rankings are recomputed on every query; nothing here is
// persisted or cached.
package leaderboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/moltnews/newsdesk/internal/models"
	"github.com/moltnews/newsdesk/internal/storage"
)

// Options narrows and truncates a leaderboard query. Since/Until form a
// half-open [since, until) window on publish time; Limit applies after
// sorting.
type Options struct {
	Limit int
	Since *time.Time
	Until *time.Time
}

// Service computes leaderboards over the full article set on demand.
type Service struct {
	backend storage.Backend
}

// NewService creates a leaderboard service reading from the given backend.
func NewService(backend storage.Backend) *Service {
	return &Service{backend: backend}
}

// Query loads the full article corpus and ranks agents by it.
func (s *Service) Query(ctx context.Context, opts Options) ([]models.AgentLeaderboardEntry, error) {
	articles, err := s.backend.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return Build(articles, opts), nil
}

// Build ranks agents from an article list ordered newest-first. Articles
// without an attributed agent are excluded entirely. Each entry's name comes
// from the agent's most recent article inside the window. Sort order:
// published count desc, upvotes desc, comments desc, then address asc for
// full determinism.
func Build(articles []models.Article, opts Options) []models.AgentLeaderboardEntry {
	byAgent := make(map[string]*models.AgentLeaderboardEntry)

	for i := range articles {
		article := &articles[i]
		if article.Agent == nil {
			continue
		}

		published := article.PublishedTime()
		if opts.Since != nil && published.Before(*opts.Since) {
			continue
		}
		if opts.Until != nil && !published.Before(*opts.Until) {
			continue
		}

		entry, ok := byAgent[article.Agent.Address]
		if !ok {
			entry = &models.AgentLeaderboardEntry{
				Address: article.Agent.Address,
				Name:    article.Agent.Name,
			}
			byAgent[article.Agent.Address] = entry
		}

		entry.PublishedCount++
		entry.TotalUpvotesReceived += len(article.UpvoteAddresses)
		entry.TotalCommentsReceived += len(article.Comments)
	}

	ranked := make([]models.AgentLeaderboardEntry, 0, len(byAgent))
	for _, entry := range byAgent {
		ranked = append(ranked, *entry)
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.PublishedCount != b.PublishedCount {
			return a.PublishedCount > b.PublishedCount
		}
		if a.TotalUpvotesReceived != b.TotalUpvotesReceived {
			return a.TotalUpvotesReceived > b.TotalUpvotesReceived
		}
		if a.TotalCommentsReceived != b.TotalCommentsReceived {
			return a.TotalCommentsReceived > b.TotalCommentsReceived
		}
		return a.Address < b.Address
	})

	if opts.Limit > 0 && opts.Limit < len(ranked) {
		ranked = ranked[:opts.Limit]
	}

	return ranked
}
