package http

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout returns middleware that bounds request handling time. When the
// deadline passes before the handler writes anything, the client gets a 504
// and the handler's later writes are discarded; the shared guard guarantees
// exactly one of the two ever touches the underlying ResponseWriter.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			guarded := &guardedWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				next.ServeHTTP(guarded, r)
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				guarded.abort()
			}
		})
	}
}

// guardedWriter lets either the handler or the timeout path win the response,
// never both.
type guardedWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (g *guardedWriter) WriteHeader(statusCode int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timedOut || g.written {
		return
	}
	g.written = true
	g.ResponseWriter.WriteHeader(statusCode)
}

func (g *guardedWriter) Write(data []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !g.written {
		g.written = true
		g.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return g.ResponseWriter.Write(data)
}

// abort claims the response for the timeout path. A handler that already
// started writing keeps the connection; the client sees a truncated body
// rather than a contradictory status code.
func (g *guardedWriter) abort() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.timedOut = true
	if g.written {
		return
	}
	g.ResponseWriter.Header().Set("Content-Type", "application/json")
	g.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	_, _ = g.ResponseWriter.Write([]byte(`{"error":"request timeout"}`))
}
