// SPDX-License-Identifier: MPL-2.0

// Package extract copies a fixed set of bundled assets out of a read-only application
// package into a writable directory so native code can open them by path.
//
// Every extracted file carries a suffix derived from the package version, so a plain
// directory listing tells whether the files on disk belong to the installed package.
// When they do, the job completes without touching the filesystem. When they don't,
// the output directory is swept and each asset is written to a ".tmp" sibling and
// renamed into place, so a completed job never exposes a partial file.
//
// One Job exists per process. It runs on a single background goroutine, started at
// most once; completion callbacks are delivered on the caller-designated main context
// (see package mainloop), in registration order, exactly once each.
package extract
