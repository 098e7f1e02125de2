// Package logging builds the slog loggers used across the binaries: JSON
// output for the services, text output for operator tooling.
package logging

import (
	"context"
	"log/slog"
	"os"

	"ogooue-feed/internal/handler/http/requestid"
)

// levelFromEnv maps LOG_LEVEL to a slog level, defaulting to info.
func levelFromEnv() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger on stdout. Source locations are recorded
// when the level is warn or lower, which keeps error lines traceable without
// bloating routine output.
func NewLogger() *slog.Logger {
	level := levelFromEnv()
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}))
}

// NewTextLogger returns a human-readable logger for CLI tools and local runs.
func NewTextLogger() *slog.Logger {
	level := levelFromEnv()
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelWarn,
	}))
}

// WithRequestID attaches the request ID from ctx as a logger field, so every
// line from one request carries the same ID. Outside a request scope the
// logger is returned unchanged.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := requestid.FromContext(ctx)
	if id == "" {
		return logger
	}
	return logger.With("request_id", id)
}
