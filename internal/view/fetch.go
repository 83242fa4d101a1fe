package view

import (
	"context"
	"sync"

	"skinanalyze/internal/task"
)

// Status is the state of one mount of a fetching view.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent read of a Fetch. Data is only meaningful when
// Status is StatusLoaded and Err only when it is StatusError.
type Snapshot[T any] struct {
	Status Status
	Data   T
	Err    error
}

// Fetch drives idle -> loading -> error|loaded for a single resource.
// Loaded and error are terminal until the next Mount. A result that arrives
// after Unmount (or after a newer Mount) is dropped.
type Fetch[T any] struct {
	mu       sync.Mutex
	status   Status
	data     T
	err      error
	gen      uint64
	inFlight *task.Task[T]
	settled  chan struct{}
}

// Mount starts load on its own goroutine. Any previous mount is cancelled
// first.
func (f *Fetch[T]) Mount(ctx context.Context, load func(context.Context) (T, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()

	gen := f.gen
	settled := make(chan struct{})
	f.status = StatusLoading
	f.settled = settled
	t := task.Go(ctx, load)
	f.inFlight = t
	go f.apply(gen, t, settled)
}

func (f *Fetch[T]) apply(gen uint64, t *task.Task[T], settled chan struct{}) {
	v, err := t.Wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return
	}
	if err != nil {
		f.status, f.err = StatusError, err
	} else {
		f.status, f.data = StatusLoaded, v
	}
	f.inFlight = nil
	f.settled = nil
	close(settled)
}

// Unmount cancels an in-flight load and returns to idle.
func (f *Fetch[T]) Unmount() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Fetch[T]) resetLocked() {
	f.gen++
	if f.inFlight != nil {
		f.inFlight.Cancel()
		f.inFlight = nil
	}
	if f.settled != nil {
		close(f.settled)
		f.settled = nil
	}
	var zero T
	f.status, f.data, f.err = StatusIdle, zero, nil
}

// Wait blocks until the current mount settles, is unmounted, or ctx ends.
func (f *Fetch[T]) Wait(ctx context.Context) error {
	f.mu.Lock()
	ch := f.settled
	f.mu.Unlock()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetch[T]) State() Snapshot[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot[T]{Status: f.status, Data: f.data, Err: f.err}
}
