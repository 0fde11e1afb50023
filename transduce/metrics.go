package transduce

import (
	"context"
	"time"

	"github.com/kbukum/reducekit/observability"
)

// WithMetrics passes every input through unchanged and records reduction
// metrics for stage: one step per input, one stop on early termination,
// one error on failure and the reduction duration when it ends.
func WithMetrics[A, T any](ctx context.Context, m *observability.Metrics, stage string) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		if m == nil {
			return inner
		}
		return &metricsReducer[A, T]{next: next[A, T]{inner}, ctx: ctx, m: m, stage: stage}
	})
}

type metricsReducer[A, T any] struct {
	next[A, T]
	ctx   context.Context
	m     *observability.Metrics
	stage string
	start time.Time
	observed
}

func (r *metricsReducer[A, T]) begin() {
	if r.start.IsZero() {
		r.start = time.Now()
		r.m.RecordStart(r.ctx, r.stage)
	}
}

func (r *metricsReducer[A, T]) end(status string) {
	if r.ended {
		return
	}
	r.ended = true
	r.m.RecordEnd(r.ctx, r.stage, status, time.Since(r.start))
}

func (r *metricsReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	r.begin()
	r.count++
	r.m.RecordStep(r.ctx, r.stage)
	sig, err := r.inner.Step(acc, in)
	if err != nil {
		r.m.RecordError(r.ctx, r.stage, string(errorCode(err)))
		r.end(observability.StatusFailed)
		return sig, err
	}
	if sig.Stopped() {
		r.stopped = true
		r.m.RecordStop(r.ctx, r.stage)
	}
	return sig, nil
}

func (r *metricsReducer[A, T]) Finish(acc A) (A, error) {
	r.begin()
	out, err := r.inner.Finish(acc)
	switch {
	case err != nil:
		r.m.RecordError(r.ctx, r.stage, string(errorCode(err)))
		r.end(observability.StatusFailed)
	case r.stopped:
		r.end(observability.StatusStopped)
	default:
		r.end(observability.StatusCompleted)
	}
	return out, err
}

func (r *metricsReducer[A, T]) Abort(err error) {
	if !r.start.IsZero() && !r.ended {
		r.m.RecordError(r.ctx, r.stage, string(errorCode(err)))
		r.end(observability.StatusFailed)
	}
	r.next.Abort(err)
}
