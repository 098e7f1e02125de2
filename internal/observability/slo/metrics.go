// Package slo tracks the service level objectives of the ingestion pipeline.
// The gauges are recomputed after every cycle from that cycle's outcome, so
// dashboards can alert on objective violations without PromQL gymnastics.
package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for the ingestion pipeline.
const (
	// FeedAvailabilitySLO is the target fraction of due feeds fetched
	// successfully per cycle (99% = at most 1 in 100 due fetches failing)
	FeedAvailabilitySLO = 0.99

	// CycleDurationSLO is the target upper bound for a full ingestion
	// cycle in seconds
	CycleDurationSLO = 120.0

	// IngestErrorRateSLO is the maximum acceptable fraction of items that
	// fail to persist per cycle
	IngestErrorRateSLO = 0.01
)

var (
	// feedAvailability is the fraction of due feeds fetched successfully
	// in the most recent cycle (0-1)
	feedAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_feed_availability_ratio",
			Help: "Fraction of due feeds fetched successfully in the last cycle (0-1), target: 0.99",
		},
	)

	// lastCycleDuration is the wall-clock duration of the most recent
	// completed cycle
	lastCycleDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_last_cycle_duration_seconds",
			Help: "Duration of the last completed ingestion cycle in seconds, target: <120",
		},
	)

	// ingestErrorRate is the fraction of processed items that failed to
	// persist in the most recent cycle (0-1)
	ingestErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_ingest_error_rate_ratio",
			Help: "Fraction of items that failed to persist in the last cycle (0-1), target: 0.01",
		},
	)
)

// RecordCycle updates the SLO gauges from one completed cycle.
// feedsDue is the number of feeds selected for fetching, feedsFailed the
// number whose fetch failed; itemsProcessed and itemsFailed count individual
// articles. Zero denominators report a perfect ratio, not a division error.
func RecordCycle(feedsDue, feedsFailed, itemsProcessed, itemsFailed int, durationSeconds float64) {
	availability := 1.0
	if feedsDue > 0 {
		availability = float64(feedsDue-feedsFailed) / float64(feedsDue)
	}
	feedAvailability.Set(availability)

	errorRate := 0.0
	if itemsProcessed > 0 {
		errorRate = float64(itemsFailed) / float64(itemsProcessed)
	}
	ingestErrorRate.Set(errorRate)

	lastCycleDuration.Set(durationSeconds)
}
