package pipeline

import (
	"context"

	"github.com/kbukum/reducekit/transduce"
)

// Iterator is a pull source for reductions. Next returns (zero, false, nil)
// once the source is exhausted and must honour ctx while it waits.
type Iterator[T any] interface {
	Next(ctx context.Context) (T, bool, error)
	Close() error
}

// Pipeline is a reusable recipe for an Iterator. Each run (Into, Collect,
// ForEach or Iter) creates a fresh iterator bound to the run's context.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// From wraps an existing Iterator. The iterator is shared, so the pipeline
// can be run only once.
func From[T any](it Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: func(context.Context) Iterator[T] { return it }}
}

// FromSlice yields the items in order on every run.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{create: func(context.Context) Iterator[T] { return &sliceIter[T]{items: items} }}
}

// Iter starts a run and returns its iterator. The caller must Close it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// Collect pulls every value into a slice. On a source error it returns the
// values pulled so far together with the error.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	it := p.create(ctx)
	defer it.Close()
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok {
			return out, err
		}
		out = append(out, v)
	}
}

// ForEach calls fn on every value and stops at the first error from fn or
// the source.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	visit := transduce.NewReducer(nil, func(acc struct{}, v T) (transduce.Signal[struct{}], error) {
		return transduce.Continue(acc), fn(ctx, v)
	}, nil)
	_, err := Into(ctx, p, transduce.Identity[struct{}, T](), visit, struct{}{})
	return err
}

type sliceIter[T any] struct {
	items []T
	pos   int
}

func (it *sliceIter[T]) Next(context.Context) (T, bool, error) {
	if it.pos == len(it.items) {
		var zero T
		return zero, false, nil
	}
	it.pos++
	return it.items[it.pos-1], true, nil
}

func (it *sliceIter[T]) Close() error { return nil }
