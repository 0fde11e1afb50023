package transduce

import (
	"errors"
	"iter"
	"slices"
	"testing"
)

// upTo yields 0..n-1 and counts how many elements were pulled.
func upTo(n int, pulled *int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range n {
			if pulled != nil {
				*pulled++
			}
			if !yield(i) {
				return
			}
		}
	}
}

// countSteps counts calls into the stack it wraps.
func countSteps[A, T any](n *int) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		return NewReducer(inner.Start, func(acc A, in T) (Signal[A], error) {
			*n++
			return inner.Step(acc, in)
		}, inner.Finish)
	})
}

func even(n int) bool   { return n%2 == 0 }
func square(n int) int  { return n * n }
func inc(n int) int     { return n + 1 }
func twice(n int) []int { return []int{n, n} }

func collect[In, Out any](t *testing.T, xf Transducer[[]Out, In, Out], src iter.Seq[In]) []Out {
	t.Helper()
	out, err := Transduce(xf, Append[Out](), nil, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestComposedPipeline(t *testing.T) {
	xf := Compose(
		Filter[[]int](even),
		Filter[[]int](func(n int) bool { return n < 10 }),
		Map[[]int](square),
		Map[[]int](inc),
	)

	got := collect(t, xf, upTo(10, nil))
	want := []int{1, 5, 17, 37, 65}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMapMatchesElementwise(t *testing.T) {
	src := []int{3, -1, 7, 0}
	got := collect(t, Map[[]int](square), slices.Values(src))
	want := []int{9, 1, 49, 0}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	src := []int{5, 2, 8, 3, 4}
	got := collect(t, Filter[[]int](even), slices.Values(src))
	want := []int{2, 8, 4}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestComposeOrderIsProcessingOrder(t *testing.T) {
	xf := Compose(
		Filter[[]int](func(n int) bool { return n > 2 }),
		Map[[]int](func(n int) int { return n * 10 }),
	)
	got := collect(t, xf, upTo(6, nil))
	want := []int{30, 40, 50}
	if !slices.Equal(got, want) {
		t.Errorf("filter must run before map: got %v, want %v", got, want)
	}
}

func TestChainChangesType(t *testing.T) {
	xf := Chain(
		Map[[]string](func(n int) string { return string(rune('a' + n)) }),
		Filter[[]string](func(s string) bool { return s != "b" }),
	)
	got := collect(t, xf, upTo(4, nil))
	want := []string{"a", "c", "d"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMapCatFlattens(t *testing.T) {
	got := collect(t, MapCat[[]int](twice), upTo(10, nil))
	want := []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4, 5, 5, 6, 6, 7, 7, 8, 8, 9, 9}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestTake(t *testing.T) {
	tests := []struct {
		name       string
		n, size    int
		want       []int
		wantPulled int
	}{
		{"fewer than source", 3, 10, []int{0, 1, 2}, 3},
		{"equal to source", 4, 4, []int{0, 1, 2, 3}, 4},
		{"more than source", 5, 2, []int{0, 1}, 2},
		{"zero", 0, 10, nil, 1},
		{"empty source", 3, 0, nil, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var pulled, steps, terminal int
			xf := Compose(countSteps[[]int, int](&steps), Take[[]int, int](tc.n), countSteps[[]int, int](&terminal))

			got := collect(t, xf, upTo(tc.size, &pulled))
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
			if pulled != tc.wantPulled {
				t.Errorf("pulled %d source elements, want %d", pulled, tc.wantPulled)
			}
			if steps != tc.wantPulled {
				t.Errorf("stack stepped %d times, want %d", steps, tc.wantPulled)
			}
			if terminal != len(tc.want) {
				t.Errorf("terminal stepped %d times, want %d", terminal, len(tc.want))
			}
		})
	}
}

func TestTakeReuse(t *testing.T) {
	xf := Take[[]int, int](3)
	for i := range 2 {
		got := collect(t, xf, upTo(10, nil))
		if !slices.Equal(got, []int{0, 1, 2}) {
			t.Errorf("run %d: got %v, want [0 1 2]", i, got)
		}
	}
}

func TestTakeInnerStopWins(t *testing.T) {
	var pulled int
	got := collect(t, Compose(Take[[]int, int](5), Take[[]int, int](2)), upTo(10, &pulled))
	if !slices.Equal(got, []int{0, 1}) {
		t.Errorf("got %v, want [0 1]", got)
	}
	if pulled != 2 {
		t.Errorf("pulled %d, want 2", pulled)
	}
}

func TestTakeStopsAfterStop(t *testing.T) {
	rf := Take[[]int, int](1).Apply(Append[int]())
	sig, _ := rf.Step(nil, 1)
	if !sig.Stopped() {
		t.Fatal("expected Stop after the first input")
	}
	sig, _ = rf.Step(sig.Value(), 2)
	if !sig.Stopped() || !slices.Equal(sig.Value(), []int{1}) {
		t.Errorf("a step after Stop must be a no-op Stop, got %v stopped=%v", sig.Value(), sig.Stopped())
	}
}

func TestTakePanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Take[[]int, int](-1)
}

func TestSinglePass(t *testing.T) {
	var steps int
	xf := Compose(
		countSteps[[]int, int](&steps),
		Map[[]int](inc),
		Filter[[]int](even),
		Take[[]int, int](100),
	)
	collect(t, xf, upTo(10, nil))
	if steps != 10 {
		t.Errorf("outermost stage stepped %d times, want 10", steps)
	}
}

func TestMapCatAbandonsExpansionOnStop(t *testing.T) {
	var expanded int
	expand := func(n int) iter.Seq[int] {
		return func(yield func(int) bool) {
			for range 3 {
				expanded++
				if !yield(n) {
					return
				}
			}
		}
	}

	got := collect(t, Chain(MapCatSeq[[]int](expand), Take[[]int, int](2)), upTo(5, nil))
	if !slices.Equal(got, []int{0, 0}) {
		t.Errorf("got %v, want [0 0]", got)
	}
	if expanded != 2 {
		t.Errorf("expansion advanced %d times, want 2", expanded)
	}

	got = collect(t, Chain(MapCat[[]int](func(n int) []int { return []int{n, n, n} }), Take[[]int, int](4)), upTo(5, nil))
	if !slices.Equal(got, []int{0, 0, 0, 1}) {
		t.Errorf("got %v, want [0 0 0 1]", got)
	}
}

func TestMapCatSeqNilExpansion(t *testing.T) {
	got := collect(t, MapCatSeq[[]int](func(int) iter.Seq[int] { return nil }), upTo(3, nil))
	if len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestTransformErrorAbandonsReduction(t *testing.T) {
	cause := errors.New("bad input")
	finished := false
	rf := NewReducer(nil, Append[int]().Step, func(acc []int) ([]int, error) {
		finished = true
		return acc, nil
	})
	xf := TryMap[[]int](func(n int) (int, error) {
		if n == 3 {
			return 0, cause
		}
		return n, nil
	})

	var pulled int
	out, err := Transduce(xf, rf, nil, upTo(10, &pulled))
	if out != nil {
		t.Errorf("expected zero accumulator, got %v", out)
	}
	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransformError, got %T", err)
	}
	if te.Input != 3 {
		t.Errorf("Input = %v, want 3", te.Input)
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause in the chain")
	}
	if finished {
		t.Error("Finish must not run after a failed step")
	}
	if pulled != 4 {
		t.Errorf("pulled %d, want 4", pulled)
	}
}

func TestTransformErrorWrappedOnce(t *testing.T) {
	cause := errors.New("inner")
	xf := Compose(
		TryMap[[]int](func(n int) (int, error) { return n, nil }),
		TryFilter[[]int](func(int) (bool, error) { return false, cause }),
	)
	_, err := Transduce(xf, Append[int](), nil, upTo(1, nil))

	var te *TransformError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransformError, got %v", err)
	}
	if te.Cause != cause {
		t.Errorf("outer stage rewrapped the error: cause = %v", te.Cause)
	}
	if te.Code() != "TRANSFORM_FAILED" {
		t.Errorf("Code = %s", te.Code())
	}
}

func TestTryMapCatError(t *testing.T) {
	cause := errors.New("split failed")
	xf := TryMapCat[[]int](func(n int) ([]int, error) {
		if n == 1 {
			return nil, cause
		}
		return []int{n}, nil
	})
	_, err := Transduce(xf, Append[int](), nil, upTo(3, nil))
	if !errors.Is(err, cause) {
		t.Errorf("expected cause, got %v", err)
	}
}

func TestStepErrorFromTerminalPassesUnchanged(t *testing.T) {
	sentinel := errors.New("terminal failed")
	rf := NewReducer(nil, func(acc int, in int) (Signal[int], error) {
		return Continue(acc), sentinel
	}, nil)
	_, err := Transduce(Map[int](inc), rf, 0, upTo(3, nil))
	if err != sentinel {
		t.Errorf("got %v, want the terminal error unchanged", err)
	}
}

func TestFinishErrorReturned(t *testing.T) {
	sentinel := errors.New("flush failed")
	rf := NewReducer(nil, Append[int]().Step, func(acc []int) ([]int, error) {
		return acc, sentinel
	})
	_, err := Transduce(Identity[[]int, int](), rf, nil, upTo(2, nil))
	if err != sentinel {
		t.Errorf("got %v, want flush error", err)
	}
}

func TestSignal(t *testing.T) {
	c := Continue(4)
	if c.Stopped() || c.Value() != 4 {
		t.Errorf("Continue(4) = %v, stopped=%v", c.Value(), c.Stopped())
	}
	s := Stop("x")
	if !s.Stopped() || s.Value() != "x" {
		t.Errorf("Stop(x) = %v, stopped=%v", s.Value(), s.Stopped())
	}
}

func TestNewReducerDefaults(t *testing.T) {
	rf := NewReducer(nil, func(acc int, in int) (Signal[int], error) {
		return Continue(acc + in), nil
	}, nil)
	if rf.Start() != 0 {
		t.Errorf("Start = %d, want zero value", rf.Start())
	}
	if out, err := rf.Finish(7); out != 7 || err != nil {
		t.Errorf("Finish = %d, %v, want identity", out, err)
	}
}

func TestNewReducerPanicsOnNilStep(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewReducer[int, int](nil, nil, nil)
}

func TestReduceAndStart(t *testing.T) {
	sum := Fold(func(acc, in int) int { return acc + in })
	got, err := Reduce(sum, 10, upTo(5, nil))
	if err != nil || got != 20 {
		t.Errorf("Reduce = %d, %v, want 20", got, err)
	}

	seeded := NewReducer(func() int { return 100 }, sum.Step, nil)
	got, err = TransduceStart(Take[int, int](2), seeded, upTo(5, nil))
	if err != nil || got != 101 {
		t.Errorf("TransduceStart = %d, %v, want 101", got, err)
	}
}

func TestNilSourceFinishes(t *testing.T) {
	finished := 0
	rf := NewReducer(nil, Append[int]().Step, func(acc []int) ([]int, error) {
		finished++
		return acc, nil
	})
	if _, err := Transduce(Identity[[]int, int](), rf, nil, nil); err != nil {
		t.Fatal(err)
	}
	if finished != 1 {
		t.Errorf("Finish ran %d times, want 1", finished)
	}
}

func TestMapCatStopsExpansionAtInnerStop(t *testing.T) {
	var steps int
	stopAtTwo := NewReducer(nil, func(acc []int, in int) (Signal[[]int], error) {
		steps++
		acc = append(acc, in)
		if steps == 2 {
			return Stop(acc), nil
		}
		return Continue(acc), nil
	}, nil)
	triple := func(n int) []int { return []int{n, n, n} }

	var pulled int
	got, err := Transduce(MapCat[[]int](triple), stopAtTwo, nil, upTo(5, &pulled))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{0, 0}) {
		t.Errorf("got %v, want [0 0]", got)
	}
	if steps != 2 {
		t.Errorf("inner stepped %d times, want 2", steps)
	}
	if pulled != 1 {
		t.Errorf("pulled %d inputs, want 1", pulled)
	}
}

func TestMapCatStopsExpansionAtInnerError(t *testing.T) {
	broken := errors.New("rejected")
	var steps int
	failAtTwo := NewReducer(nil, func(acc []int, in int) (Signal[[]int], error) {
		steps++
		if steps == 2 {
			return Continue(acc), broken
		}
		return Continue(append(acc, in)), nil
	}, nil)

	_, err := Transduce(MapCat[[]int](func(n int) []int { return []int{n, n, n} }), failAtTwo, nil, upTo(5, nil))
	if !errors.Is(err, broken) {
		t.Fatalf("got %v, want inner error", err)
	}
	if steps != 2 {
		t.Errorf("inner stepped %d times, want 2", steps)
	}
}

// abortRecorder is a terminal reducer that records Finish and Abort calls.
type abortRecorder struct {
	finished int
	aborted  []error
}

func (r *abortRecorder) Start() []int { return nil }

func (r *abortRecorder) Step(acc []int, in int) (Signal[[]int], error) {
	return Continue(append(acc, in)), nil
}

func (r *abortRecorder) Finish(acc []int) ([]int, error) {
	r.finished++
	return acc, nil
}

func (r *abortRecorder) Abort(err error) { r.aborted = append(r.aborted, err) }

func TestFailedStepAbortsStack(t *testing.T) {
	cause := errors.New("bad")
	failOnThree := TryMap[[]int](func(n int) (int, error) {
		if n == 3 {
			return 0, cause
		}
		return n, nil
	})
	xf := Compose(Filter[[]int](func(int) bool { return true }), failOnThree, Take[[]int, int](10))

	rec := &abortRecorder{}
	if _, err := Transduce(xf, Reducer[[]int, int](rec), nil, upTo(5, nil)); !errors.Is(err, cause) {
		t.Fatalf("got %v", err)
	}
	if len(rec.aborted) != 1 || !errors.Is(rec.aborted[0], cause) {
		t.Errorf("aborted = %v, want one abort with the step error", rec.aborted)
	}
	if rec.finished != 0 {
		t.Error("Finish must not run on an abandoned reduction")
	}

	rec = &abortRecorder{}
	if _, err := Transduce(xf, Reducer[[]int, int](rec), nil, upTo(3, nil)); err != nil {
		t.Fatal(err)
	}
	if len(rec.aborted) != 0 || rec.finished != 1 {
		t.Errorf("completed reduction: aborted=%v finished=%d", rec.aborted, rec.finished)
	}
}

func TestFailedPartitionFlushAbortsInner(t *testing.T) {
	cause := errors.New("bad group")
	rec := &abortRecorder{}
	xf := Chain(
		PartitionAll[[]int, int](2),
		TryMap[[]int](func(g []int) (int, error) {
			if len(g) == 1 {
				return 0, cause
			}
			return g[0] + g[1], nil
		}),
	)
	if _, err := Transduce(xf, Reducer[[]int, int](rec), nil, upTo(3, nil)); !errors.Is(err, cause) {
		t.Fatalf("got %v", err)
	}
	if len(rec.aborted) != 1 || rec.finished != 0 {
		t.Errorf("aborted=%v finished=%d", rec.aborted, rec.finished)
	}
}
