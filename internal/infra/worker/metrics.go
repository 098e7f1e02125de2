package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ogooue-feed/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the ingestion worker. It
// embeds the shared ConfigMetrics for configuration fallback monitoring
// and adds cycle-level execution metrics.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CycleRunsTotal counts ingestion cycle runs by status (success/failure).
	CycleRunsTotal *prometheus.CounterVec

	// CycleDurationSeconds measures wall time of ingestion cycle runs.
	CycleDurationSeconds prometheus.Histogram

	// CycleFeedsProcessedTotal counts feeds processed across all runs.
	CycleFeedsProcessedTotal prometheus.Counter

	// CycleLastSuccessTimestamp records the Unix time of the last
	// successful run, for staleness alerts.
	CycleLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics. Registration happens via
// promauto at creation time.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		CycleRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cycle_runs_total",
			Help: "Total number of ingestion cycle runs by status (success/failure)",
		}, []string{"status"}),

		CycleDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cycle_duration_seconds",
			Help:    "Duration of ingestion cycle runs in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		CycleFeedsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cycle_feeds_processed_total",
			Help: "Total number of feeds processed across all cycle runs",
		}),

		CycleLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cycle_last_success_timestamp",
			Help: "Unix timestamp of the last successful ingestion cycle",
		}),
	}
}

// RecordCycleRun increments the cycle run counter. Status should be
// "success" or "failure".
func (m *WorkerMetrics) RecordCycleRun(status string) {
	m.CycleRunsTotal.WithLabelValues(status).Inc()
}

// RecordCycleDuration observes the duration of a cycle run, in seconds.
func (m *WorkerMetrics) RecordCycleDuration(seconds float64) {
	m.CycleDurationSeconds.Observe(seconds)
}

// RecordFeedsProcessed adds to the processed-feed total.
func (m *WorkerMetrics) RecordFeedsProcessed(count int) {
	m.CycleFeedsProcessedTotal.Add(float64(count))
}

// RecordLastSuccess sets the last-success gauge to the current time.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CycleLastSuccessTimestamp.SetToCurrentTime()
}
