package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StartRunSpan starts a span covering an entire benchmark run.
func StartRunSpan(ctx context.Context, tracer trace.Tracer, mode string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "throttle.run",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(attribute.String("throttle.mode", mode))
	return ctx, span
}

// StartAdmissionSpan starts a span covering a single admitted call,
// identified by its correlation id.
func StartAdmissionSpan(ctx context.Context, tracer trace.Tracer, correlationID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "throttle.admission",
		trace.WithSpanKind(trace.SpanKindClient),
	)
	span.SetAttributes(attribute.String("throttle.correlation_id", correlationID))
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
