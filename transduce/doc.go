// Package transduce provides composable reducing functions and transducers.
//
// A Reducer is one stage of a reduction: Start produces an initial
// accumulator, Step folds one input into it and Finish flushes whatever the
// stage buffered. A Transducer wraps one Reducer into another, so
// element-wise transformations are written once and reused with any
// accumulator and any driving loop, in a single pass with no intermediate
// collections.
//
// Step returns a Signal. Continue keeps the reduction going; Stop asks every
// enclosing stage and the driver to halt. Stop is not an error: failures of
// user-supplied functions travel as TransformError on the error return.
//
// # Operators
//
// Stock:
//
//   - Map, Filter, MapCat, Take
//
// Additional:
//
//   - TryMap, TryFilter, TryMapCat: fallible user functions
//   - MapCatSeq, Cat: expansion from iter.Seq or slices
//   - Remove, Keep, Tap, Interpose
//   - TakeWhile, TakeNth, Drop, DropWhile, Dedupe, Distinct, DistinctBy
//   - PartitionAll, PartitionBy: buffering stages flushed by Finish
//   - WithContext: turns cancellation into Stop
//   - WithLogging, WithMetrics, WithTracing: instrumentation
//
// # Composition
//
// Compose(t1, t2, t3) processes each input with t1 first and the terminal
// reducer last, although it builds t1.Apply(t2.Apply(t3.Apply(rf))).
//
// # Usage
//
//	xf := transduce.Compose(
//	    transduce.Filter[[]int](func(n int) bool { return n%2 == 0 }),
//	    transduce.Map[[]int](func(n int) int { return n * n }),
//	)
//	out, err := transduce.Transduce(xf, transduce.Append[int](), nil, slices.Values(nums))
//
// Push mode feeds items one at a time into an applied stack:
//
//	f := transduce.NewFeeder(xf, transduce.Into(queue), 0)
//	for ev := range events {
//	    if ok, err := f.Feed(ev); err != nil || !ok {
//	        break
//	    }
//	}
//	n, err := f.Close()
//
// Transducer values are immutable and may be shared across goroutines.
// An applied Reducer is not safe for concurrent use.
package transduce
