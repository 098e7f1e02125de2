package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// The tests build metrics by hand on private registries to avoid the
// duplicate-registration panic that a second NewWorkerMetrics would cause
// via promauto.

func testMetrics(reg *prometheus.Registry) *WorkerMetrics {
	m := &WorkerMetrics{
		CycleRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "test_worker_cycle_runs_total",
			Help: "Test counter",
		}, []string{"status"}),
		CycleDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "test_worker_cycle_duration_seconds",
			Help:    "Test histogram",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),
		CycleFeedsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "test_worker_cycle_feeds_processed_total",
			Help: "Test counter",
		}),
		CycleLastSuccessTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "test_worker_cycle_last_success_timestamp",
			Help: "Test gauge",
		}),
	}
	reg.MustRegister(m.CycleRunsTotal, m.CycleDurationSeconds, m.CycleFeedsProcessedTotal, m.CycleLastSuccessTimestamp)
	return m
}

func TestWorkerMetrics_RecordCycleRun(t *testing.T) {
	m := testMetrics(prometheus.NewRegistry())

	m.RecordCycleRun("success")
	m.RecordCycleRun("success")
	m.RecordCycleRun("failure")

	if got := testutil.ToFloat64(m.CycleRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success count = %f, want 2", got)
	}
	if got := testutil.ToFloat64(m.CycleRunsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure count = %f, want 1", got)
	}
}

func TestWorkerMetrics_RecordCycleDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := testMetrics(reg)

	m.RecordCycleDuration(10.5)
	m.RecordCycleDuration(120.0)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != "test_worker_cycle_duration_seconds" {
			continue
		}
		if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 2 {
			t.Errorf("sample count = %d, want 2", count)
		}
		return
	}
	t.Fatal("histogram not found in registry")
}

func TestWorkerMetrics_RecordFeedsProcessed(t *testing.T) {
	m := testMetrics(prometheus.NewRegistry())

	m.RecordFeedsProcessed(10)
	m.RecordFeedsProcessed(0)
	m.RecordFeedsProcessed(5)

	if got := testutil.ToFloat64(m.CycleFeedsProcessedTotal); got != 15 {
		t.Errorf("total = %f, want 15", got)
	}
}

func TestWorkerMetrics_RecordLastSuccess(t *testing.T) {
	m := testMetrics(prometheus.NewRegistry())

	if got := testutil.ToFloat64(m.CycleLastSuccessTimestamp); got != 0 {
		t.Errorf("initial value = %f, want 0", got)
	}
	m.RecordLastSuccess()
	if got := testutil.ToFloat64(m.CycleLastSuccessTimestamp); got <= 0 {
		t.Errorf("timestamp = %f, want positive", got)
	}
}
