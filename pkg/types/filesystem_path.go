// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidFilesystemPath is the sentinel error wrapped by InvalidFilesystemPathError.
var ErrInvalidFilesystemPath = errors.New("invalid filesystem path")

type (
	// FilesystemPath is a path read from configuration or flags. The zero value
	// means "not set"; IsValid rejects it.
	FilesystemPath string

	// InvalidFilesystemPathError is returned when a FilesystemPath is blank or
	// contains a NUL byte.
	InvalidFilesystemPathError struct {
		Value  FilesystemPath
		Reason string
	}
)

// String returns the string representation of the FilesystemPath.
func (p FilesystemPath) String() string { return string(p) }

// IsSet reports whether the path has a non-blank value.
func (p FilesystemPath) IsSet() bool { return strings.TrimSpace(string(p)) != "" }

// IsValid returns whether the FilesystemPath can be handed to the OS.
func (p FilesystemPath) IsValid() (bool, []error) {
	switch {
	case !p.IsSet():
		return false, []error{&InvalidFilesystemPathError{Value: p, Reason: "must be non-empty"}}
	case strings.ContainsRune(string(p), 0):
		return false, []error{&InvalidFilesystemPathError{Value: p, Reason: "contains a NUL byte"}}
	}
	return true, nil
}

// Clean returns the lexically cleaned path. An unset path stays unset.
func (p FilesystemPath) Clean() FilesystemPath {
	if !p.IsSet() {
		return ""
	}
	return FilesystemPath(filepath.Clean(string(p)))
}

// Abs returns the absolute form of the path.
func (p FilesystemPath) Abs() (FilesystemPath, error) {
	abs, err := filepath.Abs(string(p))
	if err != nil {
		return p, fmt.Errorf("resolve %s: %w", p, err)
	}
	return FilesystemPath(abs), nil
}

// Error implements the error interface for InvalidFilesystemPathError.
func (e *InvalidFilesystemPathError) Error() string {
	return fmt.Sprintf("invalid filesystem path %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidFilesystemPath for errors.Is() compatibility.
func (e *InvalidFilesystemPathError) Unwrap() error { return ErrInvalidFilesystemPath }
