package sink

import (
	"context"
	"sync"

	"github.com/kbukum/reducekit/transduce"
)

// Chan is a bounded queue sink. Add blocks while the buffer is full and
// rejects items with transduce.ErrSinkClosed once Close has been called or
// the bound context is done. The state counts delivered items.
type Chan[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
	ctx  context.Context
}

// NewChan creates a Chan buffering up to capacity items. A non-positive
// capacity yields an unbuffered channel.
func NewChan[T any](ctx context.Context, capacity int) *Chan[T] {
	if capacity < 0 {
		capacity = 0
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Chan[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
		ctx:  ctx,
	}
}

// C returns the receive side of the queue. The channel is never closed,
// because a concurrent Add could still be sending on it, so a consumer
// selects on Done as well and then empties what is left in the buffer:
//
//	for {
//		select {
//		case v := <-q.C():
//			handle(v)
//		case <-q.Done():
//			for q.Len() > 0 {
//				handle(<-q.C())
//			}
//			return
//		}
//	}
func (c *Chan[T]) C() <-chan T { return c.ch }

// Done is closed when the queue stops accepting items.
func (c *Chan[T]) Done() <-chan struct{} { return c.done }

// Len returns the number of buffered items.
func (c *Chan[T]) Len() int { return len(c.ch) }

// Close makes the queue reject further items. Buffered items stay readable.
// Safe to call from the consuming goroutine and more than once.
func (c *Chan[T]) Close() {
	c.once.Do(func() { close(c.done) })
}

// Closed reports whether the queue rejects further items.
func (c *Chan[T]) Closed() bool {
	select {
	case <-c.done:
		return true
	case <-c.ctx.Done():
		return true
	default:
		return false
	}
}

// Add enqueues item, blocking while the buffer is full.
func (c *Chan[T]) Add(delivered int, item T) (int, error) {
	if c.Closed() {
		return delivered, transduce.ErrSinkClosed
	}
	select {
	case c.ch <- item:
		return delivered + 1, nil
	case <-c.done:
		return delivered, transduce.ErrSinkClosed
	case <-c.ctx.Done():
		return delivered, transduce.ErrSinkClosed
	}
}
