// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// SuffixPrefix starts every extract suffix.
const SuffixPrefix = "@"

type (
	// PackageInfo is the subset of package metadata that identifies an installed build.
	PackageInfo struct {
		// LastUpdateTime is when the package was last installed or replaced.
		LastUpdateTime time.Time
		// VersionCode is the monotonic build counter of the package.
		VersionCode int32
		// VersionName is informational and does not affect the fingerprint.
		VersionName string
	}

	// PackageMetadata reads PackageInfo for the running application package.
	PackageMetadata interface {
		PackageInfo(ctx context.Context) (PackageInfo, error)
	}
)

// Version returns a number that changes whenever the package changes.
//
// The update time alone stays fixed across some update paths and the version code
// does not change for local development builds, so both are combined. The version
// code goes into the upper half so it cannot cancel out a change in the timestamp.
func (p PackageInfo) Version() int64 {
	return p.LastUpdateTime.UnixMilli() ^ (int64(p.VersionCode) << 32)
}

// Suffix returns the extract suffix appended to every extracted file name.
func (p PackageInfo) Suffix() string {
	return SuffixPrefix + strconv.FormatUint(uint64(p.Version()), 16)
}

// ResolveSuffix reads package metadata and derives the extract suffix.
// Any failure is reported as a VersionLookupError.
func ResolveSuffix(ctx context.Context, md PackageMetadata) (string, error) {
	if md == nil {
		return "", &VersionLookupError{Err: errors.New("no package metadata source configured")}
	}
	info, err := md.PackageInfo(ctx)
	if err != nil {
		var vle *VersionLookupError
		if errors.As(err, &vle) {
			return "", err
		}
		return "", &VersionLookupError{Err: err}
	}
	return info.Suffix(), nil
}
