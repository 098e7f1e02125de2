package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Component names are unique per test because promauto registers with the
// default registry and duplicate names panic.

func TestNewConfigMetrics_PrefixesComponentName(t *testing.T) {
	metrics := NewConfigMetrics("ingest_prefix_test")

	assert.Equal(t, "ingest_prefix_test", metrics.componentName)
	metrics.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
}

func TestConfigMetrics_ValidationErrorsByField(t *testing.T) {
	metrics := NewConfigMetrics("ingest_validation_test")

	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("cron_schedule")
	metrics.RecordValidationError("timezone")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("cron_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ValidationErrorsTotal.WithLabelValues("timezone")))
}

func TestConfigMetrics_FallbacksByField(t *testing.T) {
	metrics := NewConfigMetrics("ingest_fallback_test")

	metrics.RecordFallback("batch_size")
	metrics.RecordFallback("batch_size")

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("batch_size")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("timezone")))
}

func TestConfigMetrics_FallbackActiveGauge(t *testing.T) {
	metrics := NewConfigMetrics("ingest_gauge_test")

	metrics.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))

	metrics.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
}
