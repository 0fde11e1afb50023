package pipeline

import (
	"context"
	"iter"
	"sync"
)

// FromSeq creates a pipeline from a range-over-func sequence. Each pull
// advances the sequence by one element; Close stops it.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			next, stop := iter.Pull(seq)
			return &seqIter[T]{next: next, stop: stop}
		},
	}
}

// FromChan creates a pipeline that receives from ch until it is closed or
// the context is done.
func FromChan[T any](ch <-chan T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(_ context.Context) Iterator[T] {
			return &chanIter[T]{ch: ch}
		},
	}
}

// Buffer adds a buffered channel between the source and its consumer.
// This decouples the production rate from the consumption rate.
func Buffer[T any](p *Pipeline[T], size int) *Pipeline[T] {
	if size <= 0 {
		size = 1
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			source := p.create(ctx)
			bufCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], size)
			done := make(chan struct{})

			go func() {
				defer close(done)
				defer close(ch)
				pump(bufCtx, source, ch)
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					<-done
					return source.Close()
				},
			}
		},
	}
}

// Merge combines multiple pipelines concurrently.
// Values are yielded as they become available from any source.
// Order is NOT preserved.
func Merge[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			mergeCtx, cancel := context.WithCancel(ctx)
			ch := make(chan result[T], len(pipelines))
			var wg sync.WaitGroup
			iters := make([]Iterator[T], len(pipelines))

			for i, p := range pipelines {
				iters[i] = p.create(mergeCtx)
				wg.Add(1)
				go func(it Iterator[T]) {
					defer wg.Done()
					pump(mergeCtx, it, ch)
				}(iters[i])
			}

			go func() {
				wg.Wait()
				close(ch)
			}()

			return &channelIter[T]{
				ch: ch,
				closer: func() error {
					cancel()
					wg.Wait()
					var firstErr error
					for _, it := range iters {
						if err := it.Close(); err != nil && firstErr == nil {
							firstErr = err
						}
					}
					return firstErr
				},
			}
		},
	}
}

// pump forwards values from source to ch until the source is exhausted,
// fails, or ctx is done.
func pump[T any](ctx context.Context, source Iterator[T], ch chan<- result[T]) {
	for {
		val, ok, err := source.Next(ctx)
		if err != nil {
			select {
			case ch <- result[T]{err: err}:
			case <-ctx.Done():
			}
			return
		}
		if !ok {
			return
		}
		select {
		case ch <- result[T]{val: val, ok: true}:
		case <-ctx.Done():
			return
		}
	}
}

// result carries a value or error through a channel.
type result[T any] struct {
	val T
	ok  bool
	err error
}

// channelIter reads values from a channel. Used by concurrent sources.
type channelIter[T any] struct {
	ch     <-chan result[T]
	closer func() error
	once   sync.Once
	err    error
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case r, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return r.val, r.ok, r.err
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error {
	it.once.Do(func() {
		if it.closer != nil {
			it.err = it.closer()
		}
	})
	return it.err
}

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next(ctx context.Context) (T, bool, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, false, err
	}
	v, ok := it.next()
	return v, ok, nil
}

func (it *seqIter[T]) Close() error {
	it.stop()
	return nil
}

type chanIter[T any] struct {
	ch <-chan T
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case v, open := <-it.ch:
		return v, open, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return nil }
