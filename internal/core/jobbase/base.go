// SPDX-License-Identifier: MPL-2.0

package jobbase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Base holds the lifecycle state of a single-run job. Concrete jobs embed or own it.
//
// A Base is single-use: once Completed or Failed it never returns to NotStarted.
type Base struct {
	// State management (atomic for lock-free reads)
	state atomic.Int32

	// Terminal transition protection
	stateMu sync.Mutex

	doneCh     chan struct{}
	errCh      chan error
	lastErr    error
	onTerminal func(State, error)
}

// NewBase creates a new Base with the given options.
// Default error channel buffer size is 1.
func NewBase(opts ...Option) *Base {
	b := &Base{
		doneCh: make(chan struct{}),
		errCh:  make(chan error, 1),
	}
	b.state.Store(int32(StateNotStarted))

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// State returns the current job state (atomic, lock-free read).
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsRunning returns true if the job is in the Running state.
func (b *Base) IsRunning() bool {
	return b.State() == StateRunning
}

// Err returns a channel for receiving the job's failure, if any.
func (b *Base) Err() <-chan error {
	return b.errCh
}

// LastError returns the error that caused the Failed state, or nil.
func (b *Base) LastError() error {
	b.stateMu.Lock()
	defer b.stateMu.Unlock()
	return b.lastErr
}

// Done returns a channel that is closed once the job reaches a terminal state.
func (b *Base) Done() <-chan struct{} {
	return b.doneCh
}

// TransitionToRunning attempts the NotStarted -> Running transition.
// It returns false when the job was already started, which callers treat as a no-op.
func (b *Base) TransitionToRunning() bool {
	return b.state.CompareAndSwap(int32(StateNotStarted), int32(StateRunning))
}

// TransitionToCompleted marks a running job as completed.
// Returns false if the job was not Running.
func (b *Base) TransitionToCompleted() bool {
	return b.finish(StateCompleted, nil)
}

// TransitionToFailed marks a running job as failed with the given error.
// Returns false if the job was not Running.
func (b *Base) TransitionToFailed(err error) bool {
	if !b.finish(StateFailed, err) {
		return false
	}

	// Send error to channel for Err() consumers (non-blocking)
	select {
	case b.errCh <- err:
	default:
	}
	return true
}

func (b *Base) finish(target State, err error) bool {
	b.stateMu.Lock()
	if !b.state.CompareAndSwap(int32(StateRunning), int32(target)) {
		b.stateMu.Unlock()
		return false
	}
	b.lastErr = err
	b.stateMu.Unlock()

	if b.onTerminal != nil {
		b.onTerminal(target, err)
	}
	close(b.doneCh)
	return true
}

// Wait blocks until the job reaches a terminal state or ctx is cancelled.
// It returns the job's failure, nil on completion, or the wrapped ctx error.
// Waiting on a job that was never started blocks until it is started and finishes.
func (b *Base) Wait(ctx context.Context) error {
	select {
	case <-b.doneCh:
		return b.LastError()
	case <-ctx.Done():
		return fmt.Errorf("waiting for job: %w", ctx.Err())
	}
}
