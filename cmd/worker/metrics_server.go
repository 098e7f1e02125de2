package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	redisQueue "ogooue-feed/internal/infra/queue"
	envcfg "ogooue-feed/internal/pkg/config"
	"ogooue-feed/internal/usecase/enrich"
)

// queueHealthResponse reports the enrichment queue backlog per priority.
type queueHealthResponse struct {
	Healthy bool             `json:"healthy"`
	Depths  map[string]int64 `json:"depths,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// startMetricsServer starts the Prometheus metrics HTTP server.
//
// Endpoints:
//   - GET /metrics - Prometheus scrape endpoint
//   - GET /health - simple liveness probe
//   - GET /health/queue - enrichment queue reachability and backlog depths
//
// The port comes from METRICS_PORT (default 9090). When ctx is canceled the
// server shuts down gracefully within 5 seconds.
func startMetricsServer(ctx context.Context, logger *slog.Logger, q *redisQueue.RedisQueue) *http.Server {
	port := getMetricsPort()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/health/queue", queueHealthHandler(q))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("metrics server starting", slog.Int("port", port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", slog.Any("error", err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", slog.Any("error", err))
		} else {
			logger.Info("metrics server stopped")
		}
	}()

	return server
}

// getMetricsPort reads METRICS_PORT, defaulting to 9090 on unset or invalid
// values.
func getMetricsPort() int {
	result := envcfg.LoadEnvInt("METRICS_PORT", 9090, func(v int) error {
		return envcfg.ValidateIntRange(v, 1, 65535)
	})
	return result.Value.(int)
}

// queueHealthHandler reports the enrichment queue state. Returns 503 when
// the queue is configured but unreachable; a disabled queue reports healthy
// with no depths.
func queueHealthHandler(q *redisQueue.RedisQueue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if q == nil {
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(queueHealthResponse{Healthy: true})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := q.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(queueHealthResponse{Healthy: false, Error: err.Error()})
			return
		}

		depths := make(map[string]int64, 2)
		for _, priority := range []enrich.Priority{enrich.PriorityNormal, enrich.PriorityHigh} {
			depth, err := q.Depth(ctx, priority)
			if err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(queueHealthResponse{Healthy: false, Error: err.Error()})
				return
			}
			depths[string(priority)] = depth
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(queueHealthResponse{Healthy: true, Depths: depths})
	}
}
