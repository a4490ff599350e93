package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CallMeta identifies one upstream provider call for telemetry purposes.
type CallMeta struct {
	Provider  string // Provider name, e.g. "openai" or "anthropic" (required)
	Operation string // Logical operation, e.g. "report.generate" (required)
	Model     string // Model identifier (optional)
}

// SpanName returns the deterministic span name for this call.
// Format: upstream.call.<provider>.<operation>
func (m CallMeta) SpanName() string {
	return "upstream.call." + m.Provider + "." + m.Operation
}

// Tracer wraps OpenTelemetry tracing with call-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for an upstream call.
	StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with call metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta CallMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("upstream.provider", meta.Provider),
		attribute.String("upstream.operation", meta.Operation),
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("upstream.model", meta.Model))
	}

	return t.tracer.Start(ctx, meta.SpanName(), trace.WithAttributes(attrs...))
}

// EndSpan ends the span, marking it failed if err is non-nil.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("upstream.error", true))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
