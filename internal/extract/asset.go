// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Legacy asset names that live directly in the app-data directory instead of paks/.
// They used to be extracted by older releases and are removed on every sweep.
const (
	ICUDataAsset    AssetName = "icudtl.dat"
	V8NativesAsset  AssetName = "natives_blob.bin"
	V8SnapshotAsset AssetName = "snapshot_blob.bin"

	// OutputDirName is the name of the general output directory under app-data.
	OutputDirName = "paks"
)

type (
	// AssetName identifies a resource bundled in the application package.
	// A valid name is a single path element: non-empty, no separators, not "." or "..".
	AssetName string

	// Layout maps asset names to their on-disk locations.
	Layout struct {
		// AppDataDir is the writable application data directory.
		AppDataDir string
	}
)

// String returns the string representation of the AssetName.
func (n AssetName) String() string { return string(n) }

// IsValid returns whether the AssetName can be used as an output file name.
func (n AssetName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return false, []error{&InvalidAssetNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAssetNameError.
func (e *InvalidAssetNameError) Error() string {
	return fmt.Sprintf("invalid asset name %q: must be a single non-empty path element", e.Value)
}

// Unwrap returns ErrInvalidAssetName for errors.Is() compatibility.
func (e *InvalidAssetNameError) Unwrap() error { return ErrInvalidAssetName }

// LegacyAppDataAssets returns the special-cased names extracted into the app-data directory.
func LegacyAppDataAssets() []AssetName {
	return []AssetName{ICUDataAsset, V8NativesAsset, V8SnapshotAsset}
}

// IsAppDataAsset reports whether name belongs in the app-data directory rather than paks/.
func IsAppDataAsset(name AssetName) bool {
	return name == ICUDataAsset || name == V8NativesAsset || name == V8SnapshotAsset
}

// OutputDir returns <app-data>/paks.
func (l Layout) OutputDir() string {
	return filepath.Join(l.AppDataDir, OutputDirName)
}

// TargetDir returns the directory an asset is extracted into.
func (l Layout) TargetDir(name AssetName) string {
	if IsAppDataAsset(name) {
		return l.AppDataDir
	}
	return l.OutputDir()
}

// PathFor returns the final on-disk path of name for the given extract suffix.
func (l Layout) PathFor(name AssetName, suffix string) string {
	return filepath.Join(l.TargetDir(name), string(name)+suffix)
}
