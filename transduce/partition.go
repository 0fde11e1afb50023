package transduce

// PartitionAll groups inputs into slices of n and passes each full group on.
// Finish passes on the final partial group before finishing the inner
// reducer, unless the inner reducer already stopped.
// PartitionAll panics if n is not positive.
func PartitionAll[A, T any](n int) Transducer[A, T, []T] {
	if n <= 0 {
		panic("transduce.PartitionAll: n must be positive")
	}
	return Func[A, T, []T](func(inner Reducer[A, []T]) Reducer[A, T] {
		return &partitionAllReducer[A, T]{inner: inner, n: n}
	})
}

type partitionAllReducer[A, T any] struct {
	inner   Reducer[A, []T]
	n       int
	buf     []T
	stopped bool
}

func (r *partitionAllReducer[A, T]) Start() A { return r.inner.Start() }

func (r *partitionAllReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if r.buf == nil {
		r.buf = make([]T, 0, r.n)
	}
	r.buf = append(r.buf, in)
	if len(r.buf) < r.n {
		return Continue(acc), nil
	}
	group := r.buf
	r.buf = nil
	sig, err := r.inner.Step(acc, group)
	r.stopped = sig.Stopped()
	return sig, err
}

func (r *partitionAllReducer[A, T]) Finish(acc A) (A, error) {
	if len(r.buf) > 0 && !r.stopped {
		group := r.buf
		r.buf = nil
		sig, err := r.inner.Step(acc, group)
		if err != nil {
			Abort(r.inner, err)
			return acc, err
		}
		acc = sig.Value()
	}
	return r.inner.Finish(acc)
}

func (r *partitionAllReducer[A, T]) Abort(err error) { Abort(r.inner, err) }

// PartitionBy groups consecutive inputs for which key returns the same value
// and passes each group on when the key changes. Finish passes on the last
// group, unless the inner reducer already stopped.
func PartitionBy[A, T any, K comparable](key func(T) K) Transducer[A, T, []T] {
	return Func[A, T, []T](func(inner Reducer[A, []T]) Reducer[A, T] {
		return &partitionByReducer[A, T, K]{inner: inner, key: key}
	})
}

type partitionByReducer[A, T any, K comparable] struct {
	inner   Reducer[A, []T]
	key     func(T) K
	buf     []T
	current K
	stopped bool
}

func (r *partitionByReducer[A, T, K]) Start() A { return r.inner.Start() }

func (r *partitionByReducer[A, T, K]) Step(acc A, in T) (Signal[A], error) {
	k := r.key(in)
	if len(r.buf) == 0 || k == r.current {
		r.current = k
		r.buf = append(r.buf, in)
		return Continue(acc), nil
	}
	group := r.buf
	r.buf = []T{in}
	r.current = k
	sig, err := r.inner.Step(acc, group)
	if sig.Stopped() {
		r.stopped = true
		r.buf = nil
	}
	return sig, err
}

func (r *partitionByReducer[A, T, K]) Finish(acc A) (A, error) {
	if len(r.buf) > 0 && !r.stopped {
		group := r.buf
		r.buf = nil
		sig, err := r.inner.Step(acc, group)
		if err != nil {
			Abort(r.inner, err)
			return acc, err
		}
		acc = sig.Value()
	}
	return r.inner.Finish(acc)
}

func (r *partitionByReducer[A, T, K]) Abort(err error) { Abort(r.inner, err) }
