// SPDX-License-Identifier: MPL-2.0

// Package miniosrc serves selected assets from an S3-compatible bucket instead of the
// application package. It implements extract.Interceptor.
//
// Only the configured asset names are claimed; everything else still comes from the
// package. The bucket is never created or written to.
package miniosrc
