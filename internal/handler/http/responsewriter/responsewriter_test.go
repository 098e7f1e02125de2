package responsewriter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_Defaults(t *testing.T) {
	wrapped := Wrap(httptest.NewRecorder())

	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, 0, wrapped.BytesWritten())
}

func TestResponseWriter_RecordsStatus(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusServiceUnavailable} {
		rec := httptest.NewRecorder()
		wrapped := Wrap(rec)

		wrapped.WriteHeader(status)

		assert.Equal(t, status, wrapped.StatusCode())
		assert.Equal(t, status, rec.Code)
	}
}

func TestResponseWriter_SecondWriteHeaderDropped(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	wrapped.WriteHeader(http.StatusAccepted)
	wrapped.WriteHeader(http.StatusNotFound)

	assert.Equal(t, http.StatusAccepted, wrapped.StatusCode())
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResponseWriter_CountsBytesAcrossWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	_, err := wrapped.Write([]byte("dépêche "))
	require.NoError(t, err)
	_, err = wrapped.Write([]byte("du jour"))
	require.NoError(t, err)

	assert.Equal(t, len("dépêche ")+len("du jour"), wrapped.BytesWritten())
	assert.Equal(t, "dépêche du jour", rec.Body.String())
}

func TestResponseWriter_ImplicitOKOnFirstWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := Wrap(rec)

	_, err := wrapped.Write([]byte("corps"))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, wrapped.StatusCode())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseWriter_Unwrap(t *testing.T) {
	rec := httptest.NewRecorder()

	assert.Equal(t, rec, Wrap(rec).Unwrap())
}

func TestResponseWriter_AsMiddlewareObserver(t *testing.T) {
	var gotStatus, gotBytes int

	observe := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := Wrap(w)
			next.ServeHTTP(wrapped, r)
			gotStatus = wrapped.StatusCode()
			gotBytes = wrapped.BytesWritten()
		})
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("flux introuvable"))
	})

	rec := httptest.NewRecorder()
	observe(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feeds/absent", nil))

	assert.Equal(t, http.StatusNotFound, gotStatus)
	assert.Equal(t, len("flux introuvable"), gotBytes)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
