// SPDX-License-Identifier: MPL-2.0

package jobbase

import (
	"errors"
	"fmt"
)

const (
	// StateNotStarted indicates the job was created but never started.
	StateNotStarted State = iota
	// StateRunning indicates the job's worker is executing.
	StateRunning
	// StateCompleted is terminal: the job finished successfully.
	StateCompleted
	// StateFailed is terminal: the job hit an unrecoverable error.
	StateFailed
)

// ErrInvalidState is returned when a State value is not one of the defined lifecycle states.
var ErrInvalidState = errors.New("invalid state")

type (
	// State represents the lifecycle state of a job.
	State int32

	// InvalidStateError is returned when a State value is not recognized.
	// It wraps ErrInvalidState for errors.Is() compatibility.
	InvalidStateError struct {
		Value State
	}
)

// String returns a human-readable representation of the job state.
func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Error implements the error interface for InvalidStateError.
func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %d (valid: 0=not-started, 1=running, 2=completed, 3=failed)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// Validate returns nil if the State is one of the defined lifecycle states,
// or an error wrapping ErrInvalidState if it is not.
func (s State) Validate() error {
	switch s {
	case StateNotStarted, StateRunning, StateCompleted, StateFailed:
		return nil
	default:
		return &InvalidStateError{Value: s}
	}
}

// IsTerminal returns true if the state is a terminal state (Completed or Failed).
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateFailed
}
