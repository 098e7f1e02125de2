// Package tracing provides OpenTelemetry integration: a shared tracer for
// the ingestion pipeline spans and HTTP middleware that propagates W3C trace
// context on the operational API.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "ingest.cycle")
//	defer span.End()
package tracing
