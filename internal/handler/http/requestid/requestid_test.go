package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	assert.Equal(t, "abc-123", FromContext(WithRequestID(context.Background(), "abc-123")))
	assert.Equal(t, "", FromContext(context.Background()))
}

func TestMiddleware_ReusesCallerID(t *testing.T) {
	var seenInHandler string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenInHandler = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/feeds", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied-7")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-7", seenInHandler)
	assert.Equal(t, "caller-supplied-7", rec.Header().Get(RequestIDHeader))
}

func TestMiddleware_MintsUUIDWhenAbsent(t *testing.T) {
	var seenInHandler string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenInHandler = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feeds", nil))

	_, err := uuid.Parse(seenInHandler)
	assert.NoError(t, err)
	assert.Equal(t, seenInHandler, rec.Header().Get(RequestIDHeader))
}

func TestMiddleware_UniquePerRequest(t *testing.T) {
	seen := make(map[string]bool)
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[FromContext(r.Context())] = true
	}))

	for i := 0; i < 10; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/feeds", nil))
	}

	assert.Len(t, seen, 10)
}
