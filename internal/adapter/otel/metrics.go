package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "hookline"

// Metrics holds all hookline metric instruments.
type Metrics struct {
	EventsReceived  metric.Int64Counter
	EventsUnhandled metric.Int64Counter
	CommentsCreated metric.Int64Counter
	CompletionTime  metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.EventsReceived, err = meter.Int64Counter("hookline.events.received",
		metric.WithDescription("Number of webhook events received"))
	if err != nil {
		return nil, err
	}

	m.EventsUnhandled, err = meter.Int64Counter("hookline.events.unhandled",
		metric.WithDescription("Number of webhook events with no handler"))
	if err != nil {
		return nil, err
	}

	m.CommentsCreated, err = meter.Int64Counter("hookline.comments.created",
		metric.WithDescription("Number of AI comments posted to the tracker"))
	if err != nil {
		return nil, err
	}

	m.CompletionTime, err = meter.Float64Histogram("hookline.completion.duration_seconds",
		metric.WithDescription("Completion call duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
