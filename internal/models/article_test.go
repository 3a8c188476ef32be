package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/moltnews/newsdesk/internal/models"
)

func TestParseTimeAcceptedLayouts(t *testing.T) {
	testCases := []struct {
		name  string
		value string
	}{
		{name: "rfc3339 with millis", value: "2026-02-10T09:30:00.123Z"},
		{name: "rfc3339", value: "2026-02-10T09:30:00Z"},
		{name: "rfc3339 with offset", value: "2026-02-10T09:30:00+02:00"},
		{name: "no zone", value: "2026-02-10T09:30:00"},
		{name: "space separated", value: "2026-02-10 09:30:00"},
		{name: "date only", value: "2026-02-10"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, ok := models.ParseTime(tc.value)
			assert.True(t, ok)
			assert.Equal(t, 2026, parsed.Year())
		})
	}

	_, ok := models.ParseTime("not a timestamp")
	assert.False(t, ok)
}

func TestFormatTimeIsCanonical(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	input := time.Date(2026, 2, 10, 10, 30, 0, 123_000_000, loc)

	formatted := models.FormatTime(input)
	assert.Equal(t, "2026-02-10T09:30:00.123Z", formatted)

	roundTripped, ok := models.ParseTime(formatted)
	assert.True(t, ok)
	assert.True(t, roundTripped.Equal(input))
}

func TestPublishedTimeMalformedSortsLast(t *testing.T) {
	article := models.Article{PublishedAt: "garbage"}
	assert.True(t, article.PublishedTime().IsZero())
}

func TestHasUpvoteFrom(t *testing.T) {
	article := models.Article{UpvoteAddresses: []string{"0xaa", "0xbb"}}

	assert.True(t, article.HasUpvoteFrom("0xbb"))
	assert.False(t, article.HasUpvoteFrom("0xcc"))
	assert.False(t, (&models.Article{}).HasUpvoteFrom("0xaa"))
}
