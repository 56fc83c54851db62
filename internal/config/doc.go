// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/pakextract/config.cue (or the XDG equivalent on
// Linux, ~/Library/Application Support/pakextract/config.cue on macOS and
// %APPDATA%\pakextract\config.cue on Windows). It selects the package to extract from,
// the writable app data directory, the required asset set (explicit or locale-derived),
// an optional MinIO interceptor and UI settings. PAKEXTRACT_* environment variables
// override file values.
//
// Files are validated against an embedded CUE schema (config_schema.cue) before they
// are merged into Viper, so type errors are reported with their CUE path.
package config
