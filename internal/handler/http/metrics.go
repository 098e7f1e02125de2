package http

import (
	"net/http"
	"strconv"
	"time"

	"ogooue-feed/internal/handler/http/pathutil"
	"ogooue-feed/internal/handler/http/responsewriter"
	"ogooue-feed/internal/observability/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsMiddleware records request count and latency per method, path, and
// status. Paths are normalized (e.g. /feeds/123 -> /feeds/:id) to keep the
// label cardinality bounded.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		normalizedPath := pathutil.NormalizePath(r.URL.Path)
		wrapped := responsewriter.Wrap(w)

		start := time.Now()
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)

		status := strconv.Itoa(wrapped.StatusCode())
		metrics.RecordHTTPRequest(r.Method, normalizedPath, status, duration)
	})
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
