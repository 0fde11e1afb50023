package transduce

// Reducer is one stage of a reduction.
//
// Finish is called exactly once per reduction, after the source is exhausted
// or a Step returned Stop. A wrapping stage does its own flush work first and
// then calls the wrapped stage's Finish. Step is never called after Stop.
type Reducer[A, T any] interface {
	// Start returns the initial accumulator when no seed is given.
	Start() A
	// Step folds one input into acc.
	Step(acc A, in T) (Signal[A], error)
	// Finish flushes buffered state and returns the final accumulator.
	Finish(acc A) (A, error)
}

// StepFunc is the step operation of a Reducer.
type StepFunc[A, T any] func(acc A, in T) (Signal[A], error)

type funcReducer[A, T any] struct {
	start  func() A
	step   StepFunc[A, T]
	finish func(A) (A, error)
}

func (r funcReducer[A, T]) Start() A {
	if r.start == nil {
		var zero A
		return zero
	}
	return r.start()
}

func (r funcReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	return r.step(acc, in)
}

func (r funcReducer[A, T]) Finish(acc A) (A, error) {
	if r.finish == nil {
		return acc, nil
	}
	return r.finish(acc)
}

// NewReducer builds a Reducer from its three operations.
// A nil start yields the zero value and a nil finish is the identity.
// NewReducer panics if step is nil.
func NewReducer[A, T any](start func() A, step StepFunc[A, T], finish func(A) (A, error)) Reducer[A, T] {
	if step == nil {
		panic("transduce.NewReducer: step must not be nil")
	}
	return funcReducer[A, T]{start: start, step: step, finish: finish}
}

// Fold turns a plain fold function into a Reducer that never stops.
func Fold[A, T any](f func(acc A, in T) A) Reducer[A, T] {
	return NewReducer(nil, func(acc A, in T) (Signal[A], error) {
		return Continue(f(acc, in)), nil
	}, nil)
}

// Append returns a Reducer that collects every input into a slice.
func Append[T any]() Reducer[[]T, T] {
	return Fold(func(acc []T, in T) []T {
		return append(acc, in)
	})
}

// next carries the wrapped reducer and passes Start and Finish through
// unchanged. Stateless stages embed it and only define Step.
type next[A, T any] struct {
	inner Reducer[A, T]
}

func (n next[A, T]) Start() A { return n.inner.Start() }

func (n next[A, T]) Finish(acc A) (A, error) { return n.inner.Finish(acc) }

func (n next[A, T]) Abort(err error) { Abort(n.inner, err) }

// Aborter is implemented by stages that hold something open across steps,
// such as a span. When a reduction is abandoned after a failure, Abort runs
// instead of Finish. Wrapping stages forward it to the reducer they wrap.
type Aborter interface {
	Abort(err error)
}

// Abort tells rf, and through it every stage rf wraps, that the reduction
// was abandoned with err. Reducers that do not implement Aborter are left
// alone. The drivers call it once on every failed reduction.
func Abort[A, T any](rf Reducer[A, T], err error) {
	if a, ok := rf.(Aborter); ok {
		a.Abort(err)
	}
}
