// SPDX-License-Identifier: MPL-2.0

// Package pkgfile opens an installed application package and exposes its bundled
// assets and build metadata to the extractor.
//
// A package is either a directory or a ZIP archive (.zip or .apk). Assets live under
// assets/ and the build metadata in a package.toml manifest at the package root.
package pkgfile
