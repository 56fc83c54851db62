// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"os"
	"slices"
)

// IsUpToDate reports whether every required asset already exists under its suffixed name.
//
// A nil existing slice means the directory could not be listed and is never up to date.
// An empty required set is trivially up to date; Job short-circuits before calling this.
func IsUpToDate(existing []string, required []AssetName, suffix string) bool {
	if existing == nil {
		return false
	}
	for _, name := range required {
		if !slices.Contains(existing, string(name)+suffix) {
			return false
		}
	}
	return true
}

// ListNames returns the entry names of dir. It returns nil when dir cannot be read and
// a non-nil (possibly empty) slice otherwise, which is the distinction IsUpToDate relies on.
func ListNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
