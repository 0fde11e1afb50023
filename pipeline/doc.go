// Package pipeline is the pull-based source boundary for reductions.
//
// A Pipeline is a lazy, context-aware source: nothing is pulled until Into,
// Collect or ForEach runs it. Sources come from slices, iter.Seq
// values, channels or any Iterator; Buffer and Merge decouple or combine
// producers running in their own goroutines.
//
// Into drives a transducer stack over a pipeline and never pulls past the
// value that produced Stop:
//
//	total, err := pipeline.Into(ctx, pipeline.FromChan(events),
//		transduce.Compose(transduce.Filter[int](valid), transduce.Take[int, Event](1000)),
//		transduce.Fold(addScore), 0)
//
// Transduce turns a pipeline and a transducer into a new pipeline, stepping
// the stack only as far as each pull requires:
//
//	firstTen := pipeline.Transduce(lines, transduce.Take[[]string, string](10))
//	got, err := pipeline.Collect(ctx, firstTen)
package pipeline
