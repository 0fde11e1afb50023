package transduce

import stderrors "errors"

// Sink is an external consumer that accepts one item at a time into its
// state. Returning an error matching ErrSinkClosed means the item was
// rejected because the sink no longer accepts input.
type Sink[S, T any] interface {
	Add(state S, item T) (S, error)
}

// AddFunc adapts a plain function to the Sink interface.
type AddFunc[S, T any] func(state S, item T) (S, error)

// Add calls f(state, item).
func (f AddFunc[S, T]) Add(state S, item T) (S, error) { return f(state, item) }

// Opener is implemented by sinks that produce their own initial state.
type Opener[S any] interface {
	Open() S
}

// Flusher is implemented by sinks with buffered state to flush at the end
// of a reduction. A Flush error matching ErrSinkClosed means the sink closed
// before the buffered state could be delivered; the reduction still
// finishes with the unflushed state.
type Flusher[S any] interface {
	Flush(state S) (S, error)
}

// Closer is implemented by sinks that can report they no longer accept input.
type Closer interface {
	Closed() bool
}

// Into adapts a Sink into a terminal Reducer. A closed or rejecting sink
// yields Stop with the accumulator unchanged, so upstream stages stop
// producing into it. A sink that closes during Flush finishes with the
// unflushed state. Any other sink error is returned as is.
func Into[S, T any](s Sink[S, T]) Reducer[S, T] {
	return sinkReducer[S, T]{sink: s}
}

type sinkReducer[S, T any] struct {
	sink Sink[S, T]
}

func (r sinkReducer[S, T]) Start() S {
	if o, ok := r.sink.(Opener[S]); ok {
		return o.Open()
	}
	var zero S
	return zero
}

func (r sinkReducer[S, T]) Step(acc S, item T) (Signal[S], error) {
	if c, ok := r.sink.(Closer); ok && c.Closed() {
		return Stop(acc), nil
	}
	state, err := r.sink.Add(acc, item)
	if err != nil {
		if stderrors.Is(err, ErrSinkClosed) {
			return Stop(acc), nil
		}
		return Continue(acc), err
	}
	return Continue(state), nil
}

func (r sinkReducer[S, T]) Finish(acc S) (S, error) {
	f, ok := r.sink.(Flusher[S])
	if !ok {
		return acc, nil
	}
	state, err := f.Flush(acc)
	if err != nil {
		if stderrors.Is(err, ErrSinkClosed) {
			return acc, nil
		}
		return acc, err
	}
	return state, nil
}
