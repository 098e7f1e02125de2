package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveWithTimeout(d time.Duration, handler http.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/feeds", nil)
	rec := httptest.NewRecorder()
	Timeout(d)(handler).ServeHTTP(rec, req)
	return rec
}

func TestTimeout_FastHandlerPassesThrough(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Errorf("expected body 'ok', got %q", rec.Body.String())
	}
}

func TestTimeout_SlowHandlerGets504(t *testing.T) {
	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "request timeout") {
		t.Errorf("expected timeout body, got %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
}

func TestTimeout_HandlerContextIsCanceled(t *testing.T) {
	canceled := make(chan struct{}, 1)

	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
			canceled <- struct{}{}
		case <-time.After(300 * time.Millisecond):
		}
	})

	select {
	case <-canceled:
	case <-time.After(400 * time.Millisecond):
		t.Fatal("handler context was never canceled")
	}
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
}

func TestTimeout_DeadlineVisibleToHandler(t *testing.T) {
	deadlines := make(chan time.Time, 1)

	serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		if deadline, ok := r.Context().Deadline(); ok {
			deadlines <- deadline
		}
		w.WriteHeader(http.StatusOK)
	})

	select {
	case deadline := <-deadlines:
		if until := time.Until(deadline); until > time.Second {
			t.Errorf("deadline too far out: %v", until)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("handler saw no deadline")
	}
}

func TestTimeout_LateWriteIsDiscarded(t *testing.T) {
	rec := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(50 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("too late"))
	})

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("expected status 504, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "too late") {
		t.Errorf("late handler write leaked into response: %q", rec.Body.String())
	}
}

func TestTimeout_ImplicitWriteHeader(t *testing.T) {
	rec := serveWithTimeout(time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("premier "))
		_, _ = w.Write([]byte("second"))
	})

	if rec.Code != http.StatusOK {
		t.Errorf("expected implicit 200, got %d", rec.Code)
	}
	if rec.Body.String() != "premier second" {
		t.Errorf("expected combined body, got %q", rec.Body.String())
	}
}
