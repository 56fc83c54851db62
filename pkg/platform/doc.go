// SPDX-License-Identifier: MPL-2.0

// Package platform resolves per-user directories following the conventions of
// each operating system.
package platform
