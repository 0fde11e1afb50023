package transduce

// Feeder drives an applied reducer stack in push mode: an external producer
// hands it items one at a time instead of the driver pulling from a source.
//
// A Feeder is not safe for concurrent use. When several goroutines produce
// into one Feeder, the owner must serialize Feed and Close.
type Feeder[A, T any] struct {
	rf       Reducer[A, T]
	acc      A
	stopped  bool
	finished bool
	err      error
}

// NewFeeder applies xf to rf and returns a Feeder seeded with init.
func NewFeeder[A, In, Out any](xf Transducer[A, In, Out], rf Reducer[A, Out], init A) *Feeder[A, In] {
	return &Feeder[A, In]{rf: xf.Apply(rf), acc: init}
}

// StartFeeder is NewFeeder seeded from the stack's Start.
func StartFeeder[A, In, Out any](xf Transducer[A, In, Out], rf Reducer[A, Out]) *Feeder[A, In] {
	stack := xf.Apply(rf)
	return &Feeder[A, In]{rf: stack, acc: stack.Start()}
}

// Feed steps one item through the stack. It reports whether the stack still
// accepts input; once it returns false, the producer should stop and call
// Close. Feeding a stopped Feeder returns ErrStopped and feeding a closed
// one returns ErrFinished. A failed step aborts the stack and leaves the
// Feeder failed with that error.
func (f *Feeder[A, T]) Feed(item T) (bool, error) {
	switch {
	case f.err != nil:
		return false, f.err
	case f.finished:
		return false, ErrFinished
	case f.stopped:
		return false, ErrStopped
	}
	sig, err := f.rf.Step(f.acc, item)
	if err != nil {
		f.err = err
		Abort(f.rf, err)
		return false, err
	}
	f.acc = sig.Value()
	f.stopped = sig.Stopped()
	return !f.stopped, nil
}

// Stopped reports whether the stack signalled Stop.
func (f *Feeder[A, T]) Stopped() bool { return f.stopped }

// Close finishes the reduction and returns its result. Finish runs at most
// once: later calls return ErrFinished. After a failed Feed, Close returns
// that failure without finishing.
func (f *Feeder[A, T]) Close() (A, error) {
	var zero A
	if f.err != nil {
		return zero, f.err
	}
	if f.finished {
		return zero, ErrFinished
	}
	f.finished = true
	acc, err := f.rf.Finish(f.acc)
	if err != nil {
		f.err = err
		return zero, err
	}
	return acc, nil
}
