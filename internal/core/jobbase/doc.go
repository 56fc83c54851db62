// SPDX-License-Identifier: MPL-2.0

// Package jobbase provides the lifecycle state machine for single-run background jobs.
//
// A job moves NotStarted -> Running -> (Completed | Failed) exactly once. State reads
// are atomic and lock-free; the start transition is a compare-and-swap so concurrent
// Start calls collapse into one run; terminal transitions close a done channel that
// blocking waiters select on.
package jobbase
