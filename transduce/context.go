package transduce

import "context"

// WithContext stops the reduction once ctx is done. The input that observes
// the cancellation is not passed on. Use it to bound a reduction in time
// without a cooperating source.
func WithContext[A, T any](ctx context.Context) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return ctxReducer[A, T]{next: next[A, T]{inner}, ctx: ctx}
	})
}

type ctxReducer[A, T any] struct {
	next[A, T]
	ctx context.Context
}

func (r ctxReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if r.ctx.Err() != nil {
		return Stop(acc), nil
	}
	return r.inner.Step(acc, in)
}
