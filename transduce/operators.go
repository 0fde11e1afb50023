package transduce

import "iter"

// Map transforms each input with f.
func Map[A, In, Out any](f func(In) Out) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return mapReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type mapReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) Out
}

func (r mapReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	return r.inner.Step(acc, r.f(in))
}

// TryMap transforms each input with a fallible f. An error from f abandons
// the reduction with a TransformError carrying the input.
func TryMap[A, In, Out any](f func(In) (Out, error)) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return tryMapReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type tryMapReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) (Out, error)
}

func (r tryMapReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	out, err := r.f(in)
	if err != nil {
		return Continue(acc), transformError(in, err)
	}
	return r.inner.Step(acc, out)
}

// Filter passes on only the inputs for which pred returns true.
func Filter[A, T any](pred func(T) bool) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return filterReducer[A, T]{next: next[A, T]{inner}, pred: pred}
	})
}

// Remove drops the inputs for which pred returns true.
func Remove[A, T any](pred func(T) bool) Transducer[A, T, T] {
	return Filter[A](func(in T) bool { return !pred(in) })
}

type filterReducer[A, T any] struct {
	next[A, T]
	pred func(T) bool
}

func (r filterReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	if !r.pred(in) {
		return Continue(acc), nil
	}
	return r.inner.Step(acc, in)
}

// TryFilter is Filter with a fallible predicate.
func TryFilter[A, T any](pred func(T) (bool, error)) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return tryFilterReducer[A, T]{next: next[A, T]{inner}, pred: pred}
	})
}

type tryFilterReducer[A, T any] struct {
	next[A, T]
	pred func(T) (bool, error)
}

func (r tryFilterReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	ok, err := r.pred(in)
	if err != nil {
		return Continue(acc), transformError(in, err)
	}
	if !ok {
		return Continue(acc), nil
	}
	return r.inner.Step(acc, in)
}

// Keep transforms each input with f and passes on only the results f marks ok.
func Keep[A, In, Out any](f func(In) (Out, bool)) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return keepReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type keepReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) (Out, bool)
}

func (r keepReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	out, ok := r.f(in)
	if !ok {
		return Continue(acc), nil
	}
	return r.inner.Step(acc, out)
}

// Tap calls f for each input as a side effect and passes the input on unchanged.
func Tap[A, T any](f func(T)) Transducer[A, T, T] {
	return Map[A](func(in T) T {
		f(in)
		return in
	})
}

// MapCat expands each input into zero or more outputs and steps the inner
// reducer once per output, in order. A Stop from the inner reducer abandons
// the rest of that expansion.
func MapCat[A, In, Out any](f func(In) []Out) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return mapCatReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type mapCatReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) []Out
}

func (r mapCatReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	return stepEach(r.inner, acc, r.f(in))
}

// TryMapCat is MapCat with a fallible expansion.
func TryMapCat[A, In, Out any](f func(In) ([]Out, error)) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return tryMapCatReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type tryMapCatReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) ([]Out, error)
}

func (r tryMapCatReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	outs, err := r.f(in)
	if err != nil {
		return Continue(acc), transformError(in, err)
	}
	return stepEach(r.inner, acc, outs)
}

// Cat flattens slice inputs into their elements.
func Cat[A, T any]() Transducer[A, []T, T] {
	return MapCat[A](func(in []T) []T { return in })
}

// MapCatSeq is MapCat over a lazy expansion. The expansion is not advanced
// past the element whose step stopped or failed.
func MapCatSeq[A, In, Out any](f func(In) iter.Seq[Out]) Transducer[A, In, Out] {
	return Func[A, In, Out](func(inner Reducer[A, Out]) Reducer[A, In] {
		return mapCatSeqReducer[A, In, Out]{next: next[A, Out]{inner}, f: f}
	})
}

type mapCatSeqReducer[A, In, Out any] struct {
	next[A, Out]
	f func(In) iter.Seq[Out]
}

func (r mapCatSeqReducer[A, In, Out]) Step(acc A, in In) (Signal[A], error) {
	seq := r.f(in)
	if seq == nil {
		return Continue(acc), nil
	}
	for out := range seq {
		sig, err := r.inner.Step(acc, out)
		if err != nil || sig.Stopped() {
			return sig, err
		}
		acc = sig.Value()
	}
	return Continue(acc), nil
}

func stepEach[A, T any](inner Reducer[A, T], acc A, outs []T) (Signal[A], error) {
	for _, out := range outs {
		sig, err := inner.Step(acc, out)
		if err != nil || sig.Stopped() {
			return sig, err
		}
		acc = sig.Value()
	}
	return Continue(acc), nil
}
