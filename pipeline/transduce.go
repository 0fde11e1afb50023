package pipeline

import (
	"context"

	"github.com/kbukum/reducekit/transduce"
)

// Into drives xf applied to rf over the values of p, starting from init.
//
// It pulls one value at a time and never pulls past the value whose step
// produced Stop. Finish runs exactly once after the source is exhausted or
// the stack stopped. A source or step error abandons the reduction: Finish
// is not called, the stack is aborted and the zero accumulator is returned
// with the error. The
// source iterator is closed before Into returns.
func Into[A, In, Out any](ctx context.Context, p *Pipeline[In], xf transduce.Transducer[A, In, Out], rf transduce.Reducer[A, Out], init A) (A, error) {
	return into(ctx, p, xf.Apply(rf), init)
}

// IntoStart is Into seeded from the stack's Start.
func IntoStart[A, In, Out any](ctx context.Context, p *Pipeline[In], xf transduce.Transducer[A, In, Out], rf transduce.Reducer[A, Out]) (A, error) {
	stack := xf.Apply(rf)
	return into(ctx, p, stack, stack.Start())
}

func into[A, T any](ctx context.Context, p *Pipeline[T], stack transduce.Reducer[A, T], acc A) (A, error) {
	it := p.create(ctx)
	defer it.Close()
	for {
		in, ok, err := it.Next(ctx)
		if err != nil {
			return abandon[A](stack, err)
		}
		if !ok {
			break
		}
		sig, err := stack.Step(acc, in)
		if err != nil {
			return abandon[A](stack, err)
		}
		acc = sig.Value()
		if sig.Stopped() {
			break
		}
	}
	return stack.Finish(acc)
}

func abandon[A, T any](stack transduce.Reducer[A, T], err error) (A, error) {
	transduce.Abort(stack, err)
	var zero A
	return zero, err
}

// Transduce returns a pipeline of the values xf produces from p.
//
// The transformation is lazy: each pull steps the stack only until it has
// buffered at least one output, so a Stop (from Take, for example) ends the
// pipeline without pulling further source values. Values flushed by Finish,
// such as a partial PartitionAll group, are yielded last.
func Transduce[In, Out any](p *Pipeline[In], xf transduce.Transducer[[]Out, In, Out]) *Pipeline[Out] {
	return &Pipeline[Out]{
		create: func(ctx context.Context) Iterator[Out] {
			return &eductionIter[In, Out]{
				source: p.create(ctx),
				stack:  xf.Apply(transduce.Append[Out]()),
			}
		},
	}
}

type eductionIter[In, Out any] struct {
	source Iterator[In]
	stack  transduce.Reducer[[]Out, In]
	buf    []Out
	pos    int
	done   bool
}

func (it *eductionIter[In, Out]) Next(ctx context.Context) (Out, bool, error) {
	var zero Out
	for it.pos >= len(it.buf) {
		if it.done {
			return zero, false, nil
		}
		it.buf, it.pos = it.buf[:0], 0

		in, ok, err := it.source.Next(ctx)
		if err != nil {
			it.abort(err)
			return zero, false, err
		}
		if !ok {
			if err := it.finish(); err != nil {
				return zero, false, err
			}
			continue
		}
		sig, err := it.stack.Step(it.buf, in)
		if err != nil {
			it.abort(err)
			return zero, false, err
		}
		it.buf = sig.Value()
		if sig.Stopped() {
			if err := it.finish(); err != nil {
				return zero, false, err
			}
		}
	}
	v := it.buf[it.pos]
	it.pos++
	return v, true, nil
}

func (it *eductionIter[In, Out]) finish() error {
	it.done = true
	buf, err := it.stack.Finish(it.buf)
	if err != nil {
		return err
	}
	it.buf = buf
	return nil
}

func (it *eductionIter[In, Out]) abort(err error) {
	it.done = true
	transduce.Abort(it.stack, err)
}

func (it *eductionIter[In, Out]) Close() error { return it.source.Close() }
