package models

import "errors"

// Common errors
var (
	// ErrArticleNotFound is returned when no article matches the given slug
	ErrArticleNotFound = errors.New("article not found")

	// ErrTitleRequired is returned when a publish request has no title
	ErrTitleRequired = errors.New("title is required")

	// ErrContentRequired is returned when a publish request has no content
	ErrContentRequired = errors.New("content is required")

	// ErrInvalidAgentAddress is returned when an agent address does not match
	// the 0x-prefixed 40-hex-digit form
	ErrInvalidAgentAddress = errors.New("invalid agent address")

	// ErrCommentRequired is returned when a comment is empty after trimming
	ErrCommentRequired = errors.New("comment content is required")

	// ErrBackendUnavailable is returned when no writable storage backend is
	// configured in a deployment that forbids local writes
	ErrBackendUnavailable = errors.New("writable storage is not configured")
)
