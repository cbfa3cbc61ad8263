// Package tracer provides a lightweight tracing abstraction.
//
// Callers depend on the Tracer interface rather than OpenTelemetry directly.
// NoopTracer is used in tests; OTelTracer adapts the global OpenTelemetry provider.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a span; the returned context carries it to child operations.
	//
	// Example:
	//   ctx, span := t.Start(ctx, tracer.SpanQuoteAPIFetchPlans,
	//       tracer.String(tracer.AttrEndpoint, "/plans.json"),
	//   )
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

func Float64(key string, value float64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanQuoteAPIFetchUser  = "quoteapi.fetch_user"
	SpanQuoteAPIFetchPlans = "quoteapi.fetch_plans"
	SpanFlowSubmitEntry    = "flow.submit_entry"
	SpanFlowPlans          = "flow.plans"
	SpanFlowSelectPlan     = "flow.select_plan"
)

// Attribute keys.
const (
	AttrEndpoint     = "http.endpoint"
	AttrStatusCode   = "http.status_code"
	AttrErrorKind    = "error.category"
	AttrPlanCount    = "plans.count"
	AttrEligible     = "plans.eligible"
	AttrForSomeone   = "coverage.for_someone_else"
	AttrDocumentType = "document.type"
)
