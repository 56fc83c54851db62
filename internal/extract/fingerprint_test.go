// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type staticMetadata struct {
	info PackageInfo
	err  error
}

func (m staticMetadata) PackageInfo(context.Context) (PackageInfo, error) {
	return m.info, m.err
}

func TestPackageInfoVersion(t *testing.T) {
	t.Parallel()

	updated := time.UnixMilli(0x1234_5678)
	info := PackageInfo{LastUpdateTime: updated, VersionCode: 3}

	want := int64(0x1234_5678) ^ (int64(3) << 32)
	if got := info.Version(); got != want {
		t.Errorf("Version() = %#x, want %#x", got, want)
	}
	if got := info.Suffix(); got != "@312345678" {
		t.Errorf("Suffix() = %q, want %q", got, "@312345678")
	}
}

func TestSuffixChangesWithEitherInput(t *testing.T) {
	t.Parallel()

	base := PackageInfo{LastUpdateTime: time.UnixMilli(1_700_000_000_000), VersionCode: 10}
	sameTime := base
	sameTime.VersionCode = 11
	sameCode := base
	sameCode.LastUpdateTime = base.LastUpdateTime.Add(time.Millisecond)
	nameOnly := base
	nameOnly.VersionName = "2.0"

	if base.Suffix() == sameTime.Suffix() {
		t.Error("suffix did not change when only the version code changed")
	}
	if base.Suffix() == sameCode.Suffix() {
		t.Error("suffix did not change when only the update time changed")
	}
	if base.Suffix() != nameOnly.Suffix() {
		t.Error("suffix changed when only the version name changed")
	}
}

func TestSuffixIsUnsignedHex(t *testing.T) {
	t.Parallel()

	info := PackageInfo{LastUpdateTime: time.UnixMilli(1), VersionCode: -1}
	s := info.Suffix()
	if strings.Contains(s, "-") {
		t.Errorf("Suffix() = %q contains a sign", s)
	}
	if !strings.HasPrefix(s, SuffixPrefix) {
		t.Errorf("Suffix() = %q lacks %q prefix", s, SuffixPrefix)
	}
}

func TestResolveSuffix(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		info := PackageInfo{LastUpdateTime: time.UnixMilli(42), VersionCode: 1}
		got, err := ResolveSuffix(context.Background(), staticMetadata{info: info})
		if err != nil {
			t.Fatalf("ResolveSuffix failed: %v", err)
		}
		if got != info.Suffix() {
			t.Errorf("ResolveSuffix = %q, want %q", got, info.Suffix())
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("manifest unreadable")
		_, err := ResolveSuffix(context.Background(), staticMetadata{err: cause})
		if !errors.Is(err, ErrVersionLookup) {
			t.Errorf("expected ErrVersionLookup, got %v", err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("expected cause to be preserved, got %v", err)
		}
	})

	t.Run("nil metadata", func(t *testing.T) {
		t.Parallel()

		_, err := ResolveSuffix(context.Background(), nil)
		if !errors.Is(err, ErrVersionLookup) {
			t.Errorf("expected ErrVersionLookup, got %v", err)
		}
	})
}
