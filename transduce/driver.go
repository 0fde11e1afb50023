package transduce

import "iter"

// Transduce applies xf to rf once and drives the resulting stack over src,
// starting from init.
//
// Each element is stepped in order. A Stop ends the loop immediately and src
// is not advanced past the element that produced it. Finish then runs
// exactly once and its result is returned. If a step fails, the reduction is
// abandoned: Finish is not called, the stack is aborted and the error is
// returned unchanged with the zero accumulator.
func Transduce[A, In, Out any](xf Transducer[A, In, Out], rf Reducer[A, Out], init A, src iter.Seq[In]) (A, error) {
	return drive(xf.Apply(rf), init, src)
}

// TransduceStart is Transduce seeded from the stack's Start.
func TransduceStart[A, In, Out any](xf Transducer[A, In, Out], rf Reducer[A, Out], src iter.Seq[In]) (A, error) {
	stack := xf.Apply(rf)
	return drive(stack, stack.Start(), src)
}

// Reduce drives rf over src with no transformation.
func Reduce[A, T any](rf Reducer[A, T], init A, src iter.Seq[T]) (A, error) {
	return drive(rf, init, src)
}

func drive[A, T any](rf Reducer[A, T], acc A, src iter.Seq[T]) (A, error) {
	if src != nil {
		for in := range src {
			sig, err := rf.Step(acc, in)
			if err != nil {
				Abort(rf, err)
				var zero A
				return zero, err
			}
			acc = sig.Value()
			if sig.Stopped() {
				break
			}
		}
	}
	return rf.Finish(acc)
}
