// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"slices"
	"testing"
)

func TestBuilderFreezesOnBuild(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	if err := b.SetAssets("en-US.pak", "en-GB.pak"); err != nil {
		t.Fatalf("SetAssets failed: %v", err)
	}

	plan := b.Build()
	if !b.Frozen() {
		t.Error("builder not frozen after Build")
	}
	if got := plan.Assets(); !slices.Equal(got, []AssetName{"en-US.pak", "en-GB.pak"}) {
		t.Errorf("plan assets = %v", got)
	}

	if err := b.SetAssets("fr.pak"); !errors.Is(err, ErrConfig) {
		t.Errorf("SetAssets after Build = %v, want ErrConfig", err)
	}
	if err := b.SetInterceptor(nil); !errors.Is(err, ErrConfig) {
		t.Errorf("SetInterceptor after Build = %v, want ErrConfig", err)
	}
}

func TestPlanIsImmutable(t *testing.T) {
	t.Parallel()

	names := []AssetName{"en-US.pak"}
	b := NewBuilder()
	_ = b.SetAssets(names...)
	names[0] = "tampered.pak"

	plan := b.Build()
	got := plan.Assets()
	got[0] = "also-tampered.pak"

	if plan.Assets()[0] != "en-US.pak" {
		t.Errorf("plan changed through an external slice: %v", plan.Assets())
	}
}

func TestBuilderRejectsInvalidNames(t *testing.T) {
	t.Parallel()

	b := NewBuilder()
	if err := b.SetAssets("ok.pak", "../escape.pak"); !errors.Is(err, ErrInvalidAssetName) {
		t.Errorf("SetAssets = %v, want ErrInvalidAssetName", err)
	}
	if !b.Build().IsEmpty() {
		t.Error("rejected SetAssets still changed the required set")
	}
}
