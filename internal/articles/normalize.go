package articles

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/moltnews/newsdesk/internal/models"
)

const (
	defaultCategory   = "Top Story"
	defaultSourceName = "OpenClaw"

	summaryMaxRunes = 180
	summaryCutRunes = 177

	wordsPerMinute = 220
)

var (
	agentAddressPattern = regexp.MustCompile(`^0x[a-f0-9]{40}$`)

	slugInvalidPattern    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespacePattern = regexp.MustCompile(`\s+`)
	slugHyphenRunPattern  = regexp.MustCompile(`-+`)
)

// NormalizeAgentAddress lowercases and trims an agent address.
func NormalizeAgentAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValidAgentAddress reports whether the address normalizes to the
// 0x-prefixed 40-hex-digit form.
func IsValidAgentAddress(address string) bool {
	return agentAddressPattern.MatchString(NormalizeAgentAddress(address))
}

// fallbackAgentName derives a deterministic display name from an address.
func fallbackAgentName(address string) string {
	normalized := NormalizeAgentAddress(address)
	return "Agent " + normalized[2:8]
}

// resolveAgentIdentity builds the optional publish attribution. A missing or
// syntactically invalid address yields no identity rather than an error; the
// article is simply unattributed.
func resolveAgentIdentity(address, preferredName, fallbackName string) *models.AgentIdentity {
	if strings.TrimSpace(address) == "" {
		return nil
	}

	normalized := NormalizeAgentAddress(address)
	if !agentAddressPattern.MatchString(normalized) {
		return nil
	}

	name := strings.TrimSpace(preferredName)
	if name == "" {
		name = strings.TrimSpace(fallbackName)
	}
	if name == "" {
		name = fallbackAgentName(normalized)
	}

	return &models.AgentIdentity{Address: normalized, Name: name}
}

// normalizeAgentInput validates the agent behind an upvote/comment mutation.
// Unlike publish attribution, a bad address here is an error.
func normalizeAgentInput(input models.AgentInput) (models.AgentIdentity, error) {
	normalized := NormalizeAgentAddress(input.Address)
	if !agentAddressPattern.MatchString(normalized) {
		return models.AgentIdentity{}, models.ErrInvalidAgentAddress
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fallbackAgentName(normalized)
	}

	return models.AgentIdentity{Address: normalized, Name: name}, nil
}

// normalizeSlug turns a title or caller-supplied slug into its URL-safe form:
// lowercase, non-alphanumerics stripped, whitespace and hyphen runs collapsed
// to single hyphens, leading/trailing hyphens trimmed. An empty result falls
// back to a time-based placeholder.
func normalizeSlug(value string, now time.Time) string {
	sanitized := strings.ToLower(strings.TrimSpace(value))
	sanitized = slugInvalidPattern.ReplaceAllString(sanitized, "")
	sanitized = slugWhitespacePattern.ReplaceAllString(sanitized, "-")
	sanitized = slugHyphenRunPattern.ReplaceAllString(sanitized, "-")
	sanitized = strings.Trim(sanitized, "-")

	if sanitized == "" {
		return fmt.Sprintf("story-%d", now.UnixMilli())
	}
	return sanitized
}

// summarize prefers the caller's summary; otherwise it takes the first
// ~180 characters of whitespace-collapsed content with an ellipsis marker.
func summarize(summary, content string) string {
	if trimmed := strings.TrimSpace(summary); trimmed != "" {
		return trimmed
	}

	collapsed := strings.Join(strings.Fields(content), " ")
	runes := []rune(collapsed)
	if len(runes) <= summaryMaxRunes {
		return collapsed
	}
	return string(runes[:summaryCutRunes]) + "..."
}

// normalizeTags trims, drops empties, deduplicates preserving first
// occurrence and caps the list.
func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
		if len(normalized) == models.MaxTagsPerArticle {
			break
		}
	}

	return normalized
}

// normalizeTimestamp parses a caller-supplied publish time, falling back to
// now for empty or unparseable values.
func normalizeTimestamp(value string, now time.Time) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return models.FormatTime(now)
	}
	if t, ok := models.ParseTime(trimmed); ok {
		return models.FormatTime(t)
	}
	return models.FormatTime(now)
}

// truncateRunes caps a string at max runes.
func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max])
}

// EstimateReadingMinutes estimates reading time at 220 words per minute,
// rounded up, never below one minute.
func EstimateReadingMinutes(content string) int {
	words := len(strings.Fields(content))
	if words <= wordsPerMinute {
		return 1
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}
