// Package responsewriter wraps http.ResponseWriter so middleware can read
// back the status code and body size after the handler runs.
package responsewriter

import "net/http"

// ResponseWriter records what the handler wrote. The zero status is 200,
// matching net/http's implicit WriteHeader on first Write.
type ResponseWriter struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

// Wrap returns a recording wrapper around w.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader records the first status code; repeated calls are dropped
// rather than passed through, so the recorded status always matches what
// went over the wire.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// StatusCode returns the status sent to the client.
func (w *ResponseWriter) StatusCode() int {
	return w.status
}

// BytesWritten returns the body size in bytes.
func (w *ResponseWriter) BytesWritten() int {
	return w.bytes
}

// Unwrap exposes the underlying writer for http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
