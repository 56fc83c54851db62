// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// ActionableError carries the failed operation, the resource involved and remediation
// hints. It can also point at a catalog Issue whose Markdown guidance is rendered with
// glamour when the CLI runs in verbose mode.
package issue
