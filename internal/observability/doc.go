// Package observability groups the monitoring infrastructure of the pipeline:
// structured logging, Prometheus metrics, OpenTelemetry tracing, and SLO
// tracking.
//
// Subpackages:
//   - logging: slog-based structured logging with request ID propagation
//   - metrics: Prometheus registry and recorders for pipeline and HTTP metrics
//   - tracing: OpenTelemetry span helpers and HTTP middleware
//   - slo: per-cycle service level objective gauges
package observability
