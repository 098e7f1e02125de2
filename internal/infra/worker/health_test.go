package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestHealthServer(addr string) *HealthServer {
	return NewHealthServer(addr, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decodeStatus(t *testing.T, body io.Reader) string {
	t.Helper()
	var resp healthResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	return resp.Status
}

func TestHealthServer_LivenessAlwaysOK(t *testing.T) {
	server := newTestHealthServer(":0")
	rec := httptest.NewRecorder()

	server.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if status := decodeStatus(t, rec.Body); status != "ok" {
		t.Errorf("expected status ok, got %q", status)
	}
}

func TestHealthServer_ReadinessFollowsState(t *testing.T) {
	server := newTestHealthServer(":0")

	// Starts not ready.
	rec := httptest.NewRecorder()
	server.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 before SetReady, got %d", rec.Code)
	}
	if status := decodeStatus(t, rec.Body); status != "not ready" {
		t.Errorf("expected status 'not ready', got %q", status)
	}

	server.SetReady(true)
	rec = httptest.NewRecorder()
	server.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 after SetReady(true), got %d", rec.Code)
	}

	server.SetReady(false)
	rec = httptest.NewRecorder()
	server.handleReadiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 after SetReady(false), got %d", rec.Code)
	}
}

func TestHealthServer_ContentType(t *testing.T) {
	server := newTestHealthServer(":0")
	rec := httptest.NewRecorder()

	server.handleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestHealthServer_StartAndGracefulShutdown(t *testing.T) {
	server := newTestHealthServer("localhost:19096")
	ctx, cancel := context.WithCancel(context.Background())

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(ctx)
	}()
	time.Sleep(100 * time.Millisecond)

	resp, err := http.Get("http://localhost:19096/health")
	if err != nil {
		t.Fatalf("health endpoint unreachable: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()

	select {
	case err := <-errChan:
		if err != http.ErrServerClosed {
			t.Errorf("expected ErrServerClosed, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown timed out")
	}

	if _, err := http.Get("http://localhost:19096/health"); err == nil {
		t.Error("server still reachable after shutdown")
	}
}

func TestNewHealthServer_StartsNotReady(t *testing.T) {
	server := newTestHealthServer(":9091")

	if server.addr != ":9091" {
		t.Errorf("unexpected addr %q", server.addr)
	}
	if server.isReady.Load() {
		t.Error("expected not-ready on construction")
	}
}
