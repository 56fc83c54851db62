// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks programmer errors such as mutating the required set after start.
	ErrConfig = errors.New("invalid extraction config")
	// ErrVersionLookup is returned when package metadata cannot be read.
	ErrVersionLookup = errors.New("package version lookup failed")
	// ErrSourceNotFound is returned when an asset is missing from the package or interceptor.
	ErrSourceNotFound = errors.New("asset not found")
	// ErrIO is returned for directory creation, copy and rename failures.
	ErrIO = errors.New("extraction I/O failure")
	// ErrInvalidAssetName is the sentinel error wrapped by InvalidAssetNameError.
	ErrInvalidAssetName = errors.New("invalid asset name")
)

type (
	// ConfigError reports misuse of the extraction configuration.
	// It wraps ErrConfig for errors.Is() compatibility.
	ConfigError struct {
		Reason string
	}

	// VersionLookupError reports that the package version could not be determined.
	VersionLookupError struct {
		Err error
	}

	// SourceNotFoundError reports that no byte stream exists for an asset.
	SourceNotFoundError struct {
		Name AssetName
		Err  error
	}

	// IOError reports a filesystem failure during extraction.
	IOError struct {
		// Op is the failed operation, e.g. "mkdir", "open", "copy" or "rename".
		Op   string
		Path string
		Err  error
	}

	// DeleteWarning reports a best-effort deletion that failed during cleanup.
	// It is logged and returned for inspection, never treated as fatal.
	DeleteWarning struct {
		Path string
		Err  error
	}

	// InvalidAssetNameError is returned when an AssetName is not a single path element.
	InvalidAssetNameError struct {
		Value AssetName
	}
)

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid extraction config: %s", e.Reason)
}

// Unwrap returns ErrConfig for errors.Is() compatibility.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// Error implements the error interface for VersionLookupError.
func (e *VersionLookupError) Error() string {
	return fmt.Sprintf("package version lookup failed: %v", e.Err)
}

// Unwrap returns both ErrVersionLookup and the underlying cause.
func (e *VersionLookupError) Unwrap() []error { return withCause(ErrVersionLookup, e.Err) }

// Error implements the error interface for SourceNotFoundError.
func (e *SourceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("asset %q not found: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("asset %q not found", e.Name)
}

// Unwrap returns both ErrSourceNotFound and the underlying cause.
func (e *SourceNotFoundError) Unwrap() []error { return withCause(ErrSourceNotFound, e.Err) }

// Error implements the error interface for IOError.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns both ErrIO and the underlying cause.
func (e *IOError) Unwrap() []error { return withCause(ErrIO, e.Err) }

// Error implements the error interface for DeleteWarning.
func (e *DeleteWarning) Error() string {
	return fmt.Sprintf("unable to remove %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DeleteWarning) Unwrap() error { return e.Err }

func withCause(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}
	return []error{sentinel, cause}
}
