package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

var errUpstream = errors.New("flux unreachable")

func testConfig(timeout time.Duration) Config {
	return Config{
		Name:             "feed-fetch-test",
		MaxRequests:      2,
		Interval:         10 * time.Second,
		Timeout:          timeout,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func fail(cb *CircuitBreaker) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return nil, errUpstream
	})
	return err
}

func succeed(cb *CircuitBreaker) error {
	_, err := cb.Execute(func() (interface{}, error) {
		return "ok", nil
	})
	return err
}

func TestNew(t *testing.T) {
	cb := New(testConfig(time.Second))

	if cb.Name() != "feed-fetch-test" {
		t.Errorf("unexpected name %q", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("expected Closed, got %v", cb.State())
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig(time.Second))

	result, err := cb.Execute(func() (interface{}, error) {
		return "parsed", nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result != "parsed" {
		t.Errorf("unexpected result %v", result)
	}

	if err := fail(cb); err != errUpstream {
		t.Errorf("expected upstream error back, got %v", err)
	}
	if cb.State() != gobreaker.StateClosed {
		t.Errorf("single failure opened the circuit: %v", cb.State())
	}
}

func TestCircuitBreaker_TripsAboveThreshold(t *testing.T) {
	cb := New(testConfig(time.Second))

	// 4 failures + 1 success puts the window at 80%; the next failure
	// re-evaluates and trips the 60% threshold.
	for i := 0; i < 4; i++ {
		_ = fail(cb)
	}
	_ = succeed(cb)
	_ = fail(cb)

	if !cb.IsOpen() {
		t.Fatalf("expected open circuit, got %v", cb.State())
	}

	_, err := cb.Execute(func() (interface{}, error) {
		t.Error("function must not run while circuit is open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("expected ErrOpenState, got %v", err)
	}
}

func TestCircuitBreaker_StaysClosedBelowMinRequests(t *testing.T) {
	cfg := testConfig(time.Second)
	cfg.FailureThreshold = 0.5
	cfg.MinRequests = 10
	cb := New(cfg)

	for i := 0; i < 4; i++ {
		_ = fail(cb)
	}

	if cb.State() != gobreaker.StateClosed {
		t.Errorf("circuit tripped below MinRequests: %v", cb.State())
	}
}

func TestCircuitBreaker_ClosesAfterHalfOpenSuccess(t *testing.T) {
	cb := New(testConfig(100 * time.Millisecond))

	for i := 0; i < 6; i++ {
		_ = fail(cb)
	}
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("expected open circuit, got %v", cb.State())
	}

	time.Sleep(150 * time.Millisecond)

	if err := succeed(cb); err != nil {
		t.Errorf("half-open probe failed: %v", err)
	}
	if cb.State() == gobreaker.StateOpen {
		t.Errorf("circuit still open after successful probe: %v", cb.State())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("ingest")

	if cfg.Name != "ingest" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.MaxRequests != 3 || cfg.MinRequests != 5 {
		t.Errorf("unexpected request limits: %+v", cfg)
	}
	if cfg.Interval != 30*time.Second || cfg.Timeout != 60*time.Second {
		t.Errorf("unexpected windows: %+v", cfg)
	}
	if cfg.FailureThreshold != 0.6 {
		t.Errorf("unexpected threshold %f", cfg.FailureThreshold)
	}
}

func TestContentFetchConfig(t *testing.T) {
	cfg := ContentFetchConfig()

	if cfg.Name != "content-fetch" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.MaxRequests != 5 {
		t.Errorf("unexpected MaxRequests %d", cfg.MaxRequests)
	}
}

func TestPageScrapeConfig(t *testing.T) {
	cfg := PageScrapeConfig()

	if cfg.Name != "page-scrape" {
		t.Errorf("unexpected name %q", cfg.Name)
	}
	if cfg.FailureThreshold != 0.8 {
		t.Errorf("unexpected threshold %f", cfg.FailureThreshold)
	}
}
