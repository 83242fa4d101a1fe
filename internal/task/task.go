// Package task runs a function on its own goroutine and hands back its result
// once, with cancellation.
package task

import (
	"context"
	"sync"
)

type Task[T any] struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	val T
	err error
}

// Go starts fn with a context derived from ctx. Cancel cancels that context.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task[T]{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.val, t.err = fn(ctx)
		if t.err == nil && ctx.Err() != nil {
			// fn ignored the cancellation; the caller still sees it.
			t.err = ctx.Err()
		}
	}()
	return t
}

// Done is closed once fn has returned.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until fn returns.
func (t *Task[T]) Wait() (T, error) {
	<-t.done
	return t.val, t.err
}

// Cancel is safe to call more than once and after completion.
func (t *Task[T]) Cancel() {
	t.once.Do(t.cancel)
}
