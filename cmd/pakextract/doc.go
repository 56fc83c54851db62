// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for pakextract.
//
// This package implements the Cobra command hierarchy for the pakextract CLI.
// The App type is the composition root: it loads configuration, opens the
// application package, selects the required asset set and wires the extraction
// job to a main loop that runs completion callbacks.
//
// Commands:
//   - extract: extract the required resources, or confirm they are up to date
//   - status: report the extract suffix and which resources are present
//   - locales: show the locale resources selected for the current environment
//   - config: show, create and locate the configuration file
package cmd
