// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"sync"
)

// CountingFS wraps an fs.FS and records every Open call by name.
type CountingFS struct {
	FS fs.FS

	mu    sync.Mutex
	opens map[string]int
}

// NewCountingFS wraps fsys.
func NewCountingFS(fsys fs.FS) *CountingFS {
	return &CountingFS{FS: fsys, opens: make(map[string]int)}
}

// Open implements fs.FS.
func (c *CountingFS) Open(name string) (fs.File, error) {
	c.mu.Lock()
	c.opens[name]++
	c.mu.Unlock()
	return c.FS.Open(name)
}

// Opens returns how many times name was opened.
func (c *CountingFS) Opens(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

// TotalOpens returns the number of Open calls across all names.
func (c *CountingFS) TotalOpens() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.opens {
		total += n
	}
	return total
}
