// Package task runs a long pipeline step on its own goroutine so a front end
// can observe progress and cancel it.
package task

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Task is a single run of a Func.
type Task[P, R any] struct {
	ID string

	cancel   context.CancelFunc
	progress chan P
	done     chan struct{}

	once   sync.Once
	result R
	err    error
}

// Start launches fn on a new goroutine. Cancelling parent cancels the task.
// fn reports progress through emit, which never blocks: when the consumer
// lags, intermediate events are dropped.
func Start[P, R any](parent context.Context, fn func(ctx context.Context, emit func(P)) (R, error)) *Task[P, R] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[P, R]{
		ID:       uuid.NewString(),
		cancel:   cancel,
		progress: make(chan P, 64),
		done:     make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		defer close(t.progress)
		defer cancel()
		t.result, t.err = fn(ctx, t.emit)
	}()
	return t
}

func (t *Task[P, R]) emit(p P) {
	select {
	case t.progress <- p:
	default:
	}
}

// Progress delivers progress events. It is closed when the task finishes.
func (t *Task[P, R]) Progress() <-chan P {
	return t.progress
}

// Cancel asks the task to stop. The task decides how soon it honours it.
func (t *Task[P, R]) Cancel() {
	t.once.Do(t.cancel)
}

// Done is closed once the task has finished.
func (t *Task[P, R]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its outcome.
func (t *Task[P, R]) Wait() (R, error) {
	<-t.done
	return t.result, t.err
}
