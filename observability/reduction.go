package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Reduction status values recorded on spans and the duration histogram.
const (
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
	StatusFailed    = "failed"
)

// Reduction tracks one running reduction at a named stage.
// If Metrics is nil, metric recording is silently skipped.
type Reduction struct {
	Stage     string
	ID        string
	StartTime time.Time
	Metrics   *Metrics
}

// NewReduction creates a reduction scope starting now.
func NewReduction(stage, id string, metrics *Metrics) *Reduction {
	return &Reduction{
		Stage:     stage,
		ID:        id,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type reductionKey struct{}

// WithReduction stores a Reduction in the context.
func WithReduction(ctx context.Context, r *Reduction) context.Context {
	return context.WithValue(ctx, reductionKey{}, r)
}

// ReductionFromContext retrieves the Reduction from context, or nil.
func ReductionFromContext(ctx context.Context) *Reduction {
	if r, ok := ctx.Value(reductionKey{}).(*Reduction); ok {
		return r
	}
	return nil
}

// StartSpan starts the reduction span and records the start metric.
func (r *Reduction) StartSpan(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := StartSpan(ctx, SpanReduction)
	span.SetAttributes(attribute.String(AttrStage, r.Stage))
	if r.ID != "" {
		span.SetAttributes(attribute.String(AttrReductionID, r.ID))
	}
	if r.Metrics != nil {
		r.Metrics.RecordStart(ctx, r.Stage)
	}
	return ctx, span
}

// End ends the span and records end-of-reduction metrics.
func (r *Reduction) End(ctx context.Context, span trace.Span, steps int64, stopped bool, err error) {
	duration := time.Since(r.StartTime)

	status := StatusCompleted
	switch {
	case err != nil:
		status = StatusFailed
		span.RecordError(err)
		span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
	case stopped:
		status = StatusStopped
	}

	span.SetAttributes(
		attribute.Int64(AttrSteps, steps),
		attribute.Bool(AttrStopped, stopped),
		attribute.Int64(AttrDurationMs, duration.Milliseconds()),
	)
	span.End()

	if r.Metrics != nil {
		r.Metrics.RecordEnd(ctx, r.Stage, status, duration)
	}
}

// Duration returns the elapsed time since the reduction started.
func (r *Reduction) Duration() time.Duration {
	return time.Since(r.StartTime)
}
