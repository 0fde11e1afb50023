package transduce

import (
	"context"
	"iter"

	"golang.org/x/sync/errgroup"
)

// TransduceAll runs one independent reduction per source concurrently,
// sharing the single transducer value xf. newRF supplies a fresh terminal
// reducer per reduction; results are returned in source order.
//
// The first failing reduction cancels the others: they stop at their next
// step and the error is returned. Cancelling ctx stops every reduction the
// same way, and ctx's error is returned.
func TransduceAll[A, In, Out any](
	ctx context.Context,
	xf Transducer[A, In, Out],
	newRF func() Reducer[A, Out],
	sources []iter.Seq[In],
) ([]A, error) {
	g, gctx := errgroup.WithContext(ctx)
	bounded := Chain(WithContext[A, In](gctx), xf)
	results := make([]A, len(sources))

	for i, src := range sources {
		g.Go(func() error {
			acc, err := TransduceStart(bounded, newRF(), src)
			if err != nil {
				return err
			}
			results[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
