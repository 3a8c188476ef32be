// Package telemetry exposes Prometheus metrics for the newsdesk service.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the newsdesk Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	// Publication metrics
	ArticlesPublished prometheus.Counter
	PublishDuplicates prometheus.Counter
	PublishFailures   prometheus.Counter

	// Engagement metrics
	UpvotesRecorded  prometheus.Counter
	CommentsRecorded prometheus.Counter
}

// New creates a Metrics instance with its own registry, so tests can build
// as many instances as they need without duplicate-registration panics.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		ArticlesPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_articles_published_total",
			Help: "Total new articles created by publish requests",
		}),
		PublishDuplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_publish_duplicates_total",
			Help: "Total publish requests resolved to an existing article by a dedup key",
		}),
		PublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_publish_failures_total",
			Help: "Total publish requests that failed at the storage layer",
		}),
		UpvotesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_upvotes_recorded_total",
			Help: "Total upvotes added to articles (repeat upvotes excluded)",
		}),
		CommentsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsdesk_comments_recorded_total",
			Help: "Total comments appended to articles",
		}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
