package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/lichtwerk/api/internal/platform/observability")

// CalculationRecorder emits one structured measurement per pricing
// calculation and per price-board sync attempt. Pricing code narrates its
// results through this hook instead of logging every intermediate step.
type CalculationRecorder struct {
	quotes       metric.Int64Counter
	quoteLatency metric.Float64Histogram
	syncs        metric.Int64Counter
	syncLatency  metric.Float64Histogram
}

// NewCalculationRecorder builds the recorder against the global meter
// provider. Instrument creation errors leave the corresponding instrument
// nil, which the record methods tolerate.
func NewCalculationRecorder() *CalculationRecorder {
	rec := &CalculationRecorder{}
	rec.quotes, _ = meter.Int64Counter("pricing.quotes",
		metric.WithDescription("Number of order quotes computed"))
	rec.quoteLatency, _ = meter.Float64Histogram("pricing.quote.duration",
		metric.WithDescription("Quote computation duration"),
		metric.WithUnit("ms"))
	rec.syncs, _ = meter.Int64Counter("pricing.syncs",
		metric.WithDescription("Price board refresh attempts"))
	rec.syncLatency, _ = meter.Float64Histogram("pricing.sync.duration",
		metric.WithDescription("Price board refresh duration"),
		metric.WithUnit("ms"))
	return rec
}

// RecordQuote registers one completed quote computation.
func (r *CalculationRecorder) RecordQuote(ctx context.Context, lines int, totalCents int64, elapsed time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Int("lines", lines),
	)
	if r.quotes != nil {
		r.quotes.Add(ctx, 1, attrs)
	}
	if r.quoteLatency != nil {
		r.quoteLatency.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	}
}

// RecordSync registers one price board refresh attempt.
func (r *CalculationRecorder) RecordSync(ctx context.Context, ok bool, entries int, elapsed time.Duration) {
	if r == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.Bool("success", ok),
		attribute.Int("entries", entries),
	)
	if r.syncs != nil {
		r.syncs.Add(ctx, 1, attrs)
	}
	if r.syncLatency != nil {
		r.syncLatency.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
	}
}
