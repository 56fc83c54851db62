// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"sync"

	"github.com/charmbracelet/log"
)

type (
	// Poster schedules work on the designated main execution context.
	// Post must not run fn inline and must not block.
	Poster interface {
		Post(fn func()) error
	}

	// Registry holds completion callbacks and runs each exactly once on the main
	// context: queued ones in registration order when the job completes, late ones
	// as soon as they are registered.
	Registry struct {
		mu        sync.Mutex
		main      Poster
		queue     []func()
		completed bool
		abandoned bool
		logger    *log.Logger
	}
)

// NewRegistry creates a Registry that delivers callbacks through main.
func NewRegistry(main Poster, logger *log.Logger) *Registry {
	if logger == nil {
		logger = discardLogger()
	}
	return &Registry{main: main, logger: logger}
}

// OnComplete registers cb. After completion it is posted right away; before
// completion it waits in the queue. Callbacks registered after a failure are dropped.
func (r *Registry) OnComplete(cb func()) {
	if cb == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.completed:
		r.post(cb)
	case r.abandoned:
		r.logger.Debug("dropping completion callback registered after failure")
	default:
		r.queue = append(r.queue, cb)
	}
}

// Complete posts every queued callback in order and switches to immediate delivery.
// Calls after the first are no-ops.
func (r *Registry) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed || r.abandoned {
		return
	}
	r.completed = true

	// Posting under the lock keeps queued callbacks ahead of any late registration.
	for _, cb := range r.queue {
		r.post(cb)
	}
	r.queue = nil
}

// Abandon drops the queued callbacks after a failed job.
func (r *Registry) Abandon() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed || r.abandoned {
		return
	}
	r.abandoned = true
	if n := len(r.queue); n > 0 {
		r.logger.Debug("dropping completion callbacks after failure", "count", n)
	}
	r.queue = nil
}

// Completed reports whether Complete has run.
func (r *Registry) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completed
}

// Pending returns the number of callbacks waiting for completion.
func (r *Registry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}

func (r *Registry) post(cb func()) {
	if err := r.main.Post(cb); err != nil {
		r.logger.Warn("unable to schedule completion callback", "err", err)
	}
}
