package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "hookline"

// StartEventSpan starts a span for dispatching one webhook event.
func StartEventSpan(ctx context.Context, deliveryID, eventType, action string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "webhook.dispatch",
		trace.WithAttributes(
			attribute.String("event.delivery_id", deliveryID),
			attribute.String("event.type", eventType),
			attribute.String("event.action", action),
		),
	)
}

// StartTrackerSpan starts a span for an outbound tracker API call.
func StartTrackerSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "tracker."+operation)
}

// StartCompletionSpan starts a span for an outbound completion call.
func StartCompletionSpan(ctx context.Context, issueID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "completion.respond",
		trace.WithAttributes(attribute.String("issue.id", issueID)),
	)
}
