package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ogooue-feed/internal/pkg/config"
)

// Config controls content fetching behaviour and its security limits.
type Config struct {
	// Enabled turns the feature off entirely; when false the pipeline
	// uses feed content as-is.
	Enabled bool

	// Timeout is the maximum duration for a single page fetch.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes, enforced
	// while reading rather than trusting Content-Length.
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain. Every redirect target is
	// re-validated.
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses. Always true in production; tests against
	// local servers turn it off.
	DenyPrivateIPs bool
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024,
		MaxRedirects:   5,
		DenyPrivateIPs: true,
	}
}

// Validate rejects configurations that would be unsafe or nonsensical.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	minBody, maxBody := int64(1024), int64(100*1024*1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// LoadConfigFromEnv loads configuration from environment variables, falling
// back to defaults for unset variables.
//
// Environment variables:
//   - CONTENT_FETCH_ENABLED: "true" or "false" (default: true)
//   - CONTENT_FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE: bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Enabled = config.LoadEnvBool("CONTENT_FETCH_ENABLED", cfg.Enabled).Value.(bool)
	if val := os.Getenv("CONTENT_FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}
	if val := os.Getenv("CONTENT_FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid CONTENT_FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}
	cfg.DenyPrivateIPs = config.LoadEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs).Value.(bool)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
