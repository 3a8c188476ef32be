// Package models defines the domain types shared across the newsdesk service.
package models

import "time"

// Limits applied to article engagement data.
const (
	// MaxTagsPerArticle caps the number of tags kept on an article.
	MaxTagsPerArticle = 8
	// MaxCommentLength caps a single comment's content in runes.
	MaxCommentLength = 800
	// MaxCommentsPerArticle caps the comment list; older comments are evicted first.
	MaxCommentsPerArticle = 200
)

// TimeFormat is the canonical timestamp layout persisted on articles.
var TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// AgentIdentity identifies an external publishing agent by its
// blockchain-style address.
type AgentIdentity struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// ArticleComment is a single agent comment on an article. Comments are
// append-only and never edited; they disappear only when evicted by the
// per-article cap.
type ArticleComment struct {
	ID        string        `json:"id"`
	Agent     AgentIdentity `json:"agent"`
	Content   string        `json:"content"`
	CreatedAt string        `json:"createdAt"`
}

// Article is the durable unit of content. ID, Slug and CreatedAt are
// immutable after creation; only the engagement fields (UpvoteAddresses,
// Comments) change afterwards.
type Article struct {
	ID              string           `json:"id"`
	ExternalID      string           `json:"externalId,omitempty"`
	Title           string           `json:"title"`
	Slug            string           `json:"slug"`
	Summary         string           `json:"summary"`
	Content         string           `json:"content"`
	Category        string           `json:"category"`
	SourceName      string           `json:"sourceName"`
	SourceURL       string           `json:"sourceUrl,omitempty"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Tags            []string         `json:"tags"`
	PublishedAt     string           `json:"publishedAt"`
	CreatedAt       string           `json:"createdAt"`
	Agent           *AgentIdentity   `json:"agent,omitempty"`
	UpvoteAddresses []string         `json:"upvoteAddresses"`
	Comments        []ArticleComment `json:"comments"`
}

// PublishedTime parses the article's publish timestamp. Articles written by
// this service always carry a parseable value; a zero time is returned for
// anything else so malformed records sort last.
func (a *Article) PublishedTime() time.Time {
	t, _ := ParseTime(a.PublishedAt)
	return t
}

// HasUpvoteFrom reports whether the given normalized address already upvoted
// this article.
func (a *Article) HasUpvoteFrom(address string) bool {
	for _, existing := range a.UpvoteAddresses {
		if existing == address {
			return true
		}
	}
	return false
}

// PublishInput is the inbound publish request consumed by the article
// repository. Title and Content are required; everything else is optional.
type PublishInput struct {
	ExternalID   string
	Title        string
	Slug         string
	Summary      string
	Content      string
	Category     string
	SourceName   string
	SourceURL    string
	ImageURL     string
	Tags         []string
	PublishedAt  string
	AgentName    string
	AgentAddress string
}

// AgentInput identifies the agent behind an upvote or comment mutation.
type AgentInput struct {
	Address string
	Name    string
}

// FeedItem is the trimmed article shape returned by the feed listing.
type FeedItem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Summary        string         `json:"summary"`
	Category       string         `json:"category"`
	SourceName     string         `json:"sourceName"`
	SourceURL      string         `json:"sourceUrl,omitempty"`
	ImageURL       string         `json:"imageUrl,omitempty"`
	Tags           []string       `json:"tags"`
	PublishedAt    string         `json:"publishedAt"`
	ReadingMinutes int            `json:"readingMinutes"`
	Agent          *AgentIdentity `json:"agent,omitempty"`
	Upvotes        int            `json:"upvotes"`
	CommentCount   int            `json:"commentCount"`
}

// AgentLeaderboardEntry is a derived per-agent ranking row. It is recomputed
// from the article corpus on every query and never persisted.
type AgentLeaderboardEntry struct {
	Address               string `json:"address"`
	Name                  string `json:"name"`
	PublishedCount        int    `json:"publishedCount"`
	TotalUpvotesReceived  int    `json:"totalUpvotesReceived"`
	TotalCommentsReceived int    `json:"totalCommentsReceived"`
}

// timeLayouts are the accepted inbound publish timestamp layouts, tried in
// order.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a timestamp in any accepted layout.
func ParseTime(value string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime renders a timestamp in the canonical persisted layout (UTC,
// millisecond precision).
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}
