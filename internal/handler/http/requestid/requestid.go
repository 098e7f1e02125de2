// Package requestid assigns each HTTP request an ID that travels with the
// request context, so log lines from different layers can be tied back to
// one call.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is the header clients may supply to carry their own ID
// through the pipeline; the same header echoes the ID back on the response.
const RequestIDHeader = "X-Request-ID"

// FromContext returns the request ID, or "" outside a request scope.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID stores an ID on the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// Middleware reuses the caller's X-Request-ID when present and mints a UUID
// otherwise. The ID is set on the response header before the handler runs so
// it survives early error responses.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
