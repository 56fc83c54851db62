// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv, SetHomeDir),
// file operations (MustMkdirAll, MustWriteFile, MustReadFile), resource cleanup
// (MustClose, DeferClose), an fs.FS wrapper that counts opens (CountingFS), and a
// process-wide limit on concurrent container tests (ContainerSemaphore).
package testutil
