// Package logging provides structured logging helpers built on log/slog.
//
// Key features:
//   - JSON and text output formats
//   - Request ID propagation
//   - Context-aware logging
//   - Log level control via LOG_LEVEL
package logging
