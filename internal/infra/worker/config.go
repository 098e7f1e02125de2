package worker

import (
	"fmt"
	"log/slog"
	"time"

	"ogooue-feed/internal/pkg/config"
	"ogooue-feed/internal/usecase/ingest"
)

// WorkerConfig holds the configuration for the ingestion worker: the cron
// schedule driving cycles, the cycle timeout, and the tuning knobs handed
// down to the ingestion service.
//
// Configuration is loaded fail-open: an invalid environment value falls
// back to its default with a warning and a metric, never a crash. A worker
// running on defaults ingests news; a worker that refuses to start does
// not.
type WorkerConfig struct {
	// CronSchedule is the cron expression for ingestion cycles.
	// Default: "*/15 * * * *" (every fifteen minutes)
	CronSchedule string

	// Timezone is the IANA timezone name for cron scheduling.
	// Default: "Africa/Libreville"
	Timezone string

	// CycleTimeout is the maximum duration of a single ingestion cycle.
	// Default: 10 minutes
	CycleTimeout time.Duration

	// BatchSize caps the number of items persisted per feed per cycle.
	// Default: ingest.DefaultBatchSize
	BatchSize int

	// PacingInterval is the minimum gap between feed fetch starts.
	// Default: ingest.DefaultPacing
	PacingInterval time.Duration

	// FeedConcurrency bounds the number of feeds processed in parallel.
	// Default: ingest.DefaultFeedConcurrency
	FeedConcurrency int

	// HealthPort is the port for the worker's health check HTTP server.
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns production-ready defaults: a cycle every fifteen
// minutes on Libreville time, bounded to ten minutes.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:    "*/15 * * * *",
		Timezone:        "Africa/Libreville",
		CycleTimeout:    10 * time.Minute,
		BatchSize:       ingest.DefaultBatchSize,
		PacingInterval:  ingest.DefaultPacing,
		FeedConcurrency: ingest.DefaultFeedConcurrency,
		HealthPort:      9091,
	}
}

// Validate checks every field, collecting all failures rather than
// stopping at the first.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errs = append(errs, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.CycleTimeout, time.Minute, time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("cycle timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.BatchSize, 1, 100); err != nil {
		errs = append(errs, fmt.Errorf("batch size: %w", err))
	}
	if err := config.ValidateDuration(c.PacingInterval, 100*time.Millisecond, time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("pacing interval: %w", err))
	}
	if err := config.ValidateIntRange(c.FeedConcurrency, 1, 32); err != nil {
		errs = append(errs, fmt.Errorf("feed concurrency: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// IngestConfig translates the worker configuration into the ingestion
// service's tuning knobs.
func (c *WorkerConfig) IngestConfig() ingest.Config {
	return ingest.Config{
		BatchSize:       c.BatchSize,
		Pacing:          c.PacingInterval,
		FeedConcurrency: c.FeedConcurrency,
	}
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with fail-open fallback: every invalid value is replaced by its default,
// logged, and counted in the config metrics. The returned error is always
// nil; the signature keeps the conventional shape.
//
// Environment variables:
//   - CRON_SCHEDULE: cron expression (default: "*/15 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "Africa/Libreville")
//   - CYCLE_TIMEOUT: duration string, e.g. "10m" (default: 10 minutes)
//   - INGEST_BATCH_SIZE: integer 1-100 (default: 10)
//   - INGEST_PACING: duration string, e.g. "1500ms" (default: 1.5s)
//   - INGEST_FEED_CONCURRENCY: integer 1-32 (default: 4)
//   - WORKER_HEALTH_PORT: integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	apply := func(field, envKey string, result config.ConfigLoadResult) {
		if !result.FallbackApplied {
			return
		}
		fallbackApplied = true
		metrics.RecordValidationError(field)
		metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("env_key", envKey),
				slog.String("warning", warning))
		}
	}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	apply("cron_schedule", "CRON_SCHEDULE", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	apply("timezone", "WORKER_TIMEZONE", result)

	result = config.LoadEnvDuration("CYCLE_TIMEOUT", cfg.CycleTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, time.Minute, time.Hour)
	})
	cfg.CycleTimeout = result.Value.(time.Duration)
	apply("cycle_timeout", "CYCLE_TIMEOUT", result)

	result = config.LoadEnvInt("INGEST_BATCH_SIZE", cfg.BatchSize, func(v int) error {
		return config.ValidateIntRange(v, 1, 100)
	})
	cfg.BatchSize = result.Value.(int)
	apply("batch_size", "INGEST_BATCH_SIZE", result)

	result = config.LoadEnvDuration("INGEST_PACING", cfg.PacingInterval, func(d time.Duration) error {
		return config.ValidateDuration(d, 100*time.Millisecond, time.Minute)
	})
	cfg.PacingInterval = result.Value.(time.Duration)
	apply("pacing_interval", "INGEST_PACING", result)

	result = config.LoadEnvInt("INGEST_FEED_CONCURRENCY", cfg.FeedConcurrency, func(v int) error {
		return config.ValidateIntRange(v, 1, 32)
	})
	cfg.FeedConcurrency = result.Value.(int)
	apply("feed_concurrency", "INGEST_FEED_CONCURRENCY", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	apply("health_port", "WORKER_HEALTH_PORT", result)

	metrics.SetFallbackActive(fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
