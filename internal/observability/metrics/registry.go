// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Ingestion metrics track the feed ingestion pipeline
var (
	// IngestCyclesTotal counts ingestion cycles by outcome: completed or skipped
	IngestCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_cycles_total",
			Help: "Total number of ingestion cycles",
		},
		[]string{"outcome"}, // outcome: completed, skipped
	)

	// IngestCycleDuration measures wall time of a full ingestion cycle
	IngestCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_cycle_duration_seconds",
			Help:    "Time taken by a full ingestion cycle",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// FeedFetchDuration measures time to fetch and parse one feed
	FeedFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feed_fetch_duration_seconds",
			Help:    "Time taken to fetch and parse a feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"feed"},
	)

	// FeedFetchErrors counts feed fetch failures by error type
	FeedFetchErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetch_errors_total",
			Help: "Total number of feed fetch errors",
		},
		[]string{"feed", "error_type"}, // error_type: fetch, parse, other
	)

	// FeedsDisabledTotal counts feeds auto-disabled for repeated failures
	FeedsDisabledTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feeds_disabled_total",
			Help: "Total number of feeds auto-disabled after repeated failures",
		},
		[]string{"feed"},
	)

	// ArticlesIngestedTotal counts new articles persisted per feed
	ArticlesIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_ingested_total",
			Help: "Total number of new articles ingested",
		},
		[]string{"feed"},
	)

	// ArticlesDuplicatedTotal counts items skipped as duplicates per feed
	ArticlesDuplicatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_duplicated_total",
			Help: "Total number of feed items skipped as duplicates",
		},
		[]string{"feed"},
	)

	// EnrichmentJobsTotal counts enrichment jobs enqueued by result
	EnrichmentJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_jobs_total",
			Help: "Total number of enrichment jobs enqueued",
		},
		[]string{"result"}, // result: enqueued, failed
	)

	// ContentFetchAttemptsTotal counts article page content fetches by result
	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of content fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	// ContentFetchDuration measures time to fetch article content
	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
