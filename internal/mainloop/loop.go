// SPDX-License-Identifier: MPL-2.0

// Package mainloop provides a single-consumer task queue that stands in for the
// application's main execution context.
//
// Any goroutine may Post work; only the goroutine that calls Run (or Drain) executes
// it, one task at a time, in posting order. Post never blocks and never runs the task
// inline, so callers observe the same call-stack shape whether or not the loop is busy.
package mainloop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Post after Close was called.
var ErrClosed = errors.New("main loop closed")

// Loop is an unbounded FIFO of tasks drained by a single consumer.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	// wake has capacity 1; a pending token means "tasks may be available".
	wake chan struct{}

	dispatching atomic.Bool
}

// New creates an empty, open Loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues fn for execution on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending returns the number of queued tasks that have not started yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Dispatching reports whether the loop is currently executing a task. Called from
// inside a posted task it reports true, which tests use to assert where a callback ran.
func (l *Loop) Dispatching() bool {
	return l.dispatching.Load()
}

// Drain runs every task queued at the time of the call, plus any they post, and
// returns the number executed. It does not block waiting for new work.
func (l *Loop) Drain() int {
	n := 0
	for {
		fn, ok := l.next()
		if !ok {
			return n
		}
		l.dispatch(fn)
		n++
	}
}

// Run executes tasks until ctx is cancelled or the loop is closed. After Close,
// Run finishes the tasks already queued before returning nil.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()

		l.mu.Lock()
		closed := l.closed && len(l.tasks) == 0
		l.mu.Unlock()
		if closed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunUntil executes tasks until done is closed and the queue is empty, or ctx is
// cancelled.
func (l *Loop) RunUntil(ctx context.Context, done <-chan struct{}) error {
	for {
		l.Drain()

		select {
		case <-done:
			// Tasks posted right before done closed still belong to this run.
			l.Drain()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting new tasks and wakes a blocked Run.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil, false
	}
	fn := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return fn, true
}

func (l *Loop) dispatch(fn func()) {
	l.dispatching.Store(true)
	defer l.dispatching.Store(false)
	fn()
}
