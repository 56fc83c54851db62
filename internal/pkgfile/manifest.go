// SPDX-License-Identifier: MPL-2.0

package pkgfile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the manifest file at the package root.
const ManifestName = "package.toml"

// ErrInvalidManifest is the sentinel error wrapped by InvalidManifestError.
var ErrInvalidManifest = errors.New("invalid package manifest")

type (
	// Manifest is the build metadata shipped inside a package.
	//
	//	version_code = 412
	//	version_name = "4.12.0"
	//	build_id     = "r412-linux"
	Manifest struct {
		VersionCode int32  `toml:"version_code"`
		VersionName string `toml:"version_name"`
		BuildID     string `toml:"build_id"`
	}

	// InvalidManifestError is returned when package.toml cannot be decoded or
	// carries values outside their allowed range.
	InvalidManifestError struct {
		Path   string
		Reason string
		Err    error
	}
)

// Error implements the error interface.
func (e *InvalidManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid manifest %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid manifest %s: %s", e.Path, e.Reason)
}

// Unwrap returns ErrInvalidManifest and the decode error, if any.
func (e *InvalidManifestError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidManifest}
	}
	return []error{ErrInvalidManifest, e.Err}
}

// Validate checks the decoded manifest.
func (m Manifest) Validate() error {
	if m.VersionCode < 0 {
		return &InvalidManifestError{Path: ManifestName, Reason: fmt.Sprintf("version_code %d is negative", m.VersionCode)}
	}
	if strings.ContainsAny(m.BuildID, "\r\n") {
		return &InvalidManifestError{Path: ManifestName, Reason: "build_id must be a single line"}
	}
	return nil
}

// ReadManifest decodes package.toml from the root of fsys.
// Unknown keys are rejected so that a typo does not silently reset the version code.
func ReadManifest(fsys fs.FS) (Manifest, error) {
	f, err := fsys.Open(ManifestName)
	if err != nil {
		return Manifest{}, err
	}
	defer func() { _ = f.Close() }()

	var m Manifest
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return Manifest{}, &InvalidManifestError{Path: ManifestName, Err: err}
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Marshal encodes the manifest as TOML.
func (m Manifest) Marshal() ([]byte, error) {
	return toml.Marshal(m)
}
