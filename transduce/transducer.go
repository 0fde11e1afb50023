package transduce

// Transducer wraps a Reducer of Out into a Reducer of In.
//
// Implementations carry no mutable state: anything a stage needs per
// reduction is allocated inside Apply, so one Transducer value can serve
// many reductions, concurrently if needed.
type Transducer[A, In, Out any] interface {
	Apply(inner Reducer[A, Out]) Reducer[A, In]
}

// Func adapts a plain function to the Transducer interface.
type Func[A, In, Out any] func(inner Reducer[A, Out]) Reducer[A, In]

// Apply calls f(inner).
func (f Func[A, In, Out]) Apply(inner Reducer[A, Out]) Reducer[A, In] {
	return f(inner)
}

// Identity returns a Transducer that applies no transformation.
func Identity[A, T any]() Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return inner
	})
}

// Compose stacks transducers over the same element type. The first
// transducer sees each input first and the terminal reducer sees it last:
//
// Compose(a, b, c).Apply(rf) is equivalent to a.Apply(b.Apply(c.Apply(rf))).
func Compose[A, T any](xfs ...Transducer[A, T, T]) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		for i := len(xfs) - 1; i >= 0; i-- {
			inner = xfs[i].Apply(inner)
		}
		return inner
	})
}

// Chain stacks two transducers whose element types differ. first processes
// each input before second.
func Chain[A, In, Mid, Out any](first Transducer[A, In, Mid], second Transducer[A, Mid, Out]) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return first.Apply(second.Apply(inner))
	})
}
