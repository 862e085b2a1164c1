package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RecordExternalCall records duration and count for one external API call.
// Safe to call before Init; it no-ops when the instruments are not set up,
// which keeps unit tests free of metric bootstrapping.
func RecordExternalCall(ctx context.Context, provider string, start time.Time) {
	if ExternalAPICallsTotal == nil || ExternalAPIDuration == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String("provider", provider)}
	ExternalAPIDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
	ExternalAPICallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDuration records elapsed seconds on a histogram if it has been
// initialized.
func RecordDuration(ctx context.Context, hist metric.Float64Histogram, start time.Time) {
	if hist == nil {
		return
	}
	hist.Record(ctx, time.Since(start).Seconds())
}

// AddCounter bumps a counter if it has been initialized.
func AddCounter(ctx context.Context, counter metric.Int64Counter, n int64) {
	if counter == nil {
		return
	}
	counter.Add(ctx, n)
}
