package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// withTestExporter installs an in-memory exporter and rebinds the package
// tracer to it, restoring the globals on cleanup.
func withTestExporter(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tracer = otel.Tracer("ogooue-feed")
	t.Cleanup(func() {
		_ = tp.ForceFlush(context.Background())
		otel.SetTracerProvider(sdktrace.NewTracerProvider())
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator())
		tracer = otel.Tracer("ogooue-feed")
	})
	return exporter
}

func serveTraced(status int, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})).ServeHTTP(rec, req)
	return rec
}

func spanAttr(span tracetest.SpanStub, key attribute.Key) (attribute.Value, bool) {
	for _, attr := range span.Attributes {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestMiddleware_RecordsRequestSpan(t *testing.T) {
	exporter := withTestExporter(t)

	serveTraced(http.StatusOK, httptest.NewRequest(http.MethodGet, "/feeds", nil))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "GET /feeds" {
		t.Errorf("unexpected span name %q", span.Name)
	}
	if v, ok := spanAttr(span, "http.method"); !ok || v.AsString() != "GET" {
		t.Errorf("http.method attribute missing or wrong: %v", v)
	}
	if v, ok := spanAttr(span, "http.path"); !ok || v.AsString() != "/feeds" {
		t.Errorf("http.path attribute missing or wrong: %v", v)
	}
	if v, ok := spanAttr(span, "http.status_code"); !ok || v.AsInt64() != http.StatusOK {
		t.Errorf("http.status_code attribute missing or wrong: %v", v)
	}
}

func TestMiddleware_EchoesTraceIDHeader(t *testing.T) {
	withTestExporter(t)

	rec := serveTraced(http.StatusOK, httptest.NewRequest(http.MethodGet, "/feeds", nil))

	traceID := rec.Header().Get("X-Trace-Id")
	if len(traceID) != 32 {
		t.Errorf("expected 32-char trace ID, got %q", traceID)
	}
}

func TestMiddleware_JoinsUpstreamTrace(t *testing.T) {
	exporter := withTestExporter(t)

	req := httptest.NewRequest(http.MethodGet, "/feeds", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	serveTraced(http.StatusOK, req)

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("span did not join upstream trace, got %s", got)
	}
}

func TestMiddleware_ErrorAttributeOnlyFor5xx(t *testing.T) {
	exporter := withTestExporter(t)

	serveTraced(http.StatusInternalServerError, httptest.NewRequest(http.MethodGet, "/broken", nil))
	serveTraced(http.StatusNotFound, httptest.NewRequest(http.MethodGet, "/absent", nil))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if v, ok := spanAttr(spans[0], "error"); !ok || !v.AsBool() {
		t.Error("expected error attribute on 5xx span")
	}
	if _, ok := spanAttr(spans[1], "error"); ok {
		t.Error("unexpected error attribute on 4xx span")
	}
}

func TestStatusRecorder_TracksExplicitStatus(t *testing.T) {
	recorder := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	recorder.WriteHeader(http.StatusCreated)

	if recorder.status != http.StatusCreated {
		t.Errorf("expected 201, got %d", recorder.status)
	}
}
