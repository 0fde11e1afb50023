package transduce

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/reducekit/observability"
)

// WithTracing passes every input through unchanged and wraps the reduction
// in one span named after stage. The span starts with the first Step or
// Finish and ends in Finish, in the Step that fails, or in Abort when a
// stage around it fails.
func WithTracing[A, T any](ctx context.Context, stage string) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &traceReducer[A, T]{next: next[A, T]{inner}, parent: ctx, stage: stage}
	})
}

type traceReducer[A, T any] struct {
	next[A, T]
	parent context.Context
	stage  string
	scope  *observability.Reduction
	ctx    context.Context
	span   trace.Span
	observed
}

func (r *traceReducer[A, T]) begin() {
	if r.span == nil {
		r.scope = observability.NewReduction(r.stage, "", nil)
		r.ctx, r.span = r.scope.StartSpan(r.parent)
	}
}

func (r *traceReducer[A, T]) end(err error) {
	if r.ended {
		return
	}
	r.ended = true
	r.scope.End(r.ctx, r.span, r.count, r.stopped, err)
}

func (r *traceReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	r.begin()
	r.count++
	sig, err := r.inner.Step(acc, in)
	if err != nil {
		r.end(err)
		return sig, err
	}
	if sig.Stopped() {
		r.stopped = true
	}
	return sig, nil
}

func (r *traceReducer[A, T]) Finish(acc A) (A, error) {
	r.begin()
	out, err := r.inner.Finish(acc)
	r.end(err)
	return out, err
}

func (r *traceReducer[A, T]) Abort(err error) {
	if r.span != nil {
		r.end(err)
	}
	r.next.Abort(err)
}
