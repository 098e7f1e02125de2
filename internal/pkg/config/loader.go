package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ConfigLoadResult carries a loaded configuration value together with any
// warnings produced while loading it. FallbackApplied is true when the
// environment held an unusable value and the default was used instead; an
// unset variable uses the default silently.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func usedDefault(envKey, raw string, reason error, defaultValue interface{}) ConfigLoadResult {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
		envKey, raw, reason, defaultValue)
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}

func usedValue(value interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: value}
}

// LoadEnvString returns the environment variable value, or defaultValue when
// the variable is unset or empty. No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback reads a string from the environment and runs it through
// validator (nil skips validation). An invalid value falls back to
// defaultValue with a warning; the function never returns an error, so a bad
// environment cannot stop the process from starting.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return usedValue(defaultValue)
	}
	if validator != nil {
		if err := validator(raw); err != nil {
			return usedDefault(envKey, raw, err, defaultValue)
		}
	}
	return usedValue(raw)
}

// LoadEnvDuration reads a Go duration string ("30s", "5m", "1h30m") from the
// environment. Parse or validation failures fall back to defaultValue with a
// warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return usedValue(defaultValue)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return usedDefault(envKey, raw, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return usedDefault(envKey, raw, err, defaultValue)
		}
	}
	return usedValue(parsed)
}

// LoadEnvInt reads an integer from the environment. Parse or validation
// failures fall back to defaultValue with a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return usedValue(defaultValue)
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return usedDefault(envKey, raw, fmt.Errorf("invalid integer format"), defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return usedDefault(envKey, raw, err, defaultValue)
		}
	}
	return usedValue(parsed)
}

// LoadEnvBool reads a boolean from the environment. Accepted spellings are
// those of strconv.ParseBool ("1", "t", "true", "0", "f", "false" in any
// case); anything else falls back to defaultValue with a warning.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return usedValue(defaultValue)
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return usedDefault(envKey, raw, fmt.Errorf("invalid boolean format, expected 'true' or 'false'"), defaultValue)
	}
	return usedValue(parsed)
}
