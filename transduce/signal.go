package transduce

// Signal is the result of a Step: the new accumulator plus whether the
// reduction must stop after this step.
type Signal[A any] struct {
	acc  A
	stop bool
}

// Continue returns a Signal that keeps the reduction going.
func Continue[A any](acc A) Signal[A] {
	return Signal[A]{acc: acc}
}

// Stop returns a Signal that requests termination. The accumulator is still
// the reduction's result; Stop only annotates it.
func Stop[A any](acc A) Signal[A] {
	return Signal[A]{acc: acc, stop: true}
}

// Value returns the accumulator carried by the signal.
func (s Signal[A]) Value() A { return s.acc }

// Stopped reports whether the signal requests termination.
func (s Signal[A]) Stopped() bool { return s.stop }
