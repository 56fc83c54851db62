// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"slices"
	"sync"
)

type (
	// Plan is the frozen extraction configuration handed to a Job.
	// Its required set cannot change once built.
	Plan struct {
		assets      []AssetName
		interceptor Interceptor
	}

	// Builder collects the required set and interceptor before the job starts.
	// Build freezes it; any later mutation fails with a ConfigError.
	Builder struct {
		mu          sync.Mutex
		assets      []AssetName
		interceptor Interceptor
		frozen      bool
	}
)

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetAssets replaces the ordered required set.
func (b *Builder) SetAssets(names ...AssetName) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return &ConfigError{Reason: "required set cannot change after extraction has started"}
	}
	for _, n := range names {
		if ok, errs := n.IsValid(); !ok {
			return errs[0]
		}
	}
	b.assets = slices.Clone(names)
	return nil
}

// SetInterceptor installs the optional interceptor. A nil value removes it.
func (b *Builder) SetInterceptor(icp Interceptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return &ConfigError{Reason: "interceptor cannot change after extraction has started"}
	}
	b.interceptor = icp
	return nil
}

// Build freezes the builder and returns the immutable Plan.
func (b *Builder) Build() Plan {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true
	return Plan{assets: slices.Clone(b.assets), interceptor: b.interceptor}
}

// Frozen reports whether Build has been called.
func (b *Builder) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// Assets returns a copy of the required set in declaration order.
func (p Plan) Assets() []AssetName { return slices.Clone(p.assets) }

// Len returns the size of the required set.
func (p Plan) Len() int { return len(p.assets) }

// IsEmpty reports whether there is nothing to extract.
func (p Plan) IsEmpty() bool { return len(p.assets) == 0 }

// Interceptor returns the configured interceptor, or nil.
func (p Plan) Interceptor() Interceptor { return p.interceptor }
