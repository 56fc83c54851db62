// SPDX-License-Identifier: MPL-2.0

package jobbase

// Option configures a Base instance.
type Option func(*Base)

// WithErrorChannel sets a custom error channel buffer size.
// Default buffer size is 1.
func WithErrorChannel(size int) Option {
	return func(b *Base) {
		b.errCh = make(chan error, size)
	}
}

// WithOnTerminal registers a hook invoked exactly once, on the goroutine that performs
// the terminal transition, after the state is stored and before the done channel closes.
func WithOnTerminal(fn func(State, error)) Option {
	return func(b *Base) {
		b.onTerminal = fn
	}
}
