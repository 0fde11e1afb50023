package transduce

// Stateful stages keep their state in the reducer built by Apply, never in
// the Transducer value, so every reduction starts from fresh state.

// counter is the state cell of counting stages.
type counter struct {
	seen  int
	limit int
}

// reached reports whether limit inputs have been counted.
func (c *counter) reached() bool { return c.seen >= c.limit }

// inc counts one input and reports whether the limit is now reached.
func (c *counter) inc() bool {
	c.seen++
	return c.reached()
}

// Take passes on the first n inputs and then stops the reduction. The step
// that accepts the n-th input returns Stop even when the inner reducer would
// continue. Take(0) stops on the first step without calling the inner
// reducer. Take panics if n is negative.
func Take[A, T any](n int) Transducer[A, T, T] {
	if n < 0 {
		panic("transduce.Take: n must be non-negative")
	}
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &takeReducer[A, T]{next: next[A, T]{inner}, count: counter{limit: n}}
	})
}

type takeReducer[A, T any] struct {
	next[A, T]
	count counter
}

func (r *takeReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if r.count.reached() {
		return Stop(acc), nil
	}
	done := r.count.inc()
	sig, err := r.inner.Step(acc, in)
	if err != nil || sig.Stopped() {
		return sig, err
	}
	if done {
		return Stop(sig.Value()), nil
	}
	return sig, nil
}

// TakeWhile passes on inputs while pred holds and stops at the first input
// for which it does not. That input is not passed on.
func TakeWhile[A, T any](pred func(T) bool) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return takeWhileReducer[A, T]{next: next[A, T]{inner}, pred: pred}
	})
}

type takeWhileReducer[A, T any] struct {
	next[A, T]
	pred func(T) bool
}

func (r takeWhileReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if !r.pred(in) {
		return Stop(acc), nil
	}
	return r.inner.Step(acc, in)
}

// TakeNth passes on the first input and every n-th input after it.
// TakeNth panics if n is not positive.
func TakeNth[A, T any](n int) Transducer[A, T, T] {
	if n <= 0 {
		panic("transduce.TakeNth: n must be positive")
	}
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &takeNthReducer[A, T]{next: next[A, T]{inner}, n: n}
	})
}

type takeNthReducer[A, T any] struct {
	next[A, T]
	n     int
	index int
}

func (r *takeNthReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	i := r.index
	r.index++
	if i%r.n != 0 {
		return Continue(acc), nil
	}
	return r.inner.Step(acc, in)
}

// Drop discards the first n inputs and passes on the rest.
// Drop panics if n is negative.
func Drop[A, T any](n int) Transducer[A, T, T] {
	if n < 0 {
		panic("transduce.Drop: n must be non-negative")
	}
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &dropReducer[A, T]{next: next[A, T]{inner}, count: counter{limit: n}}
	})
}

type dropReducer[A, T any] struct {
	next[A, T]
	count counter
}

func (r *dropReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if !r.count.reached() {
		r.count.inc()
		return Continue(acc), nil
	}
	return r.inner.Step(acc, in)
}

// DropWhile discards inputs while pred holds, then passes on everything from
// the first input for which it does not.
func DropWhile[A, T any](pred func(T) bool) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &dropWhileReducer[A, T]{next: next[A, T]{inner}, pred: pred, dropping: true}
	})
}

type dropWhileReducer[A, T any] struct {
	next[A, T]
	pred     func(T) bool
	dropping bool
}

func (r *dropWhileReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if r.dropping && r.pred(in) {
		return Continue(acc), nil
	}
	r.dropping = false
	return r.inner.Step(acc, in)
}

// Dedupe drops inputs equal to the input immediately before them.
func Dedupe[A any, T comparable]() Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &dedupeReducer[A, T]{next: next[A, T]{inner}}
	})
}

type dedupeReducer[A any, T comparable] struct {
	next[A, T]
	prev T
	seen bool
}

func (r *dedupeReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if r.seen && r.prev == in {
		return Continue(acc), nil
	}
	r.prev, r.seen = in, true
	return r.inner.Step(acc, in)
}

// Interpose passes on sep between consecutive inputs.
func Interpose[A, T any](sep T) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return &interposeReducer[A, T]{next: next[A, T]{inner}, sep: sep}
	})
}

type interposeReducer[A, T any] struct {
	next[A, T]
	sep     T
	started bool
}

func (r *interposeReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if !r.started {
		r.started = true
		return r.inner.Step(acc, in)
	}
	sig, err := r.inner.Step(acc, r.sep)
	if err != nil || sig.Stopped() {
		return sig, err
	}
	return r.inner.Step(sig.Value(), in)
}
