// SPDX-License-Identifier: MPL-2.0

// Package benchmark provides benchmarks for the pakextract hot paths, used to
// generate PGO profiles:
//   - CUE config parsing and schema validation
//   - locale-driven asset selection
//   - package metadata reads from directories and archives
//   - full extraction jobs, both fresh and up to date
//
// To generate a profile, run:
//
//	go test ./internal/benchmark -bench=. -run='^$' -cpuprofile=default.pgo
package benchmark
