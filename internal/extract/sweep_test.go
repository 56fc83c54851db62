// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/invowk/pakextract/internal/testutil"
)

func TestSweepRemovesStaleAndLegacyFiles(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	outputDir := filepath.Join(appData, OutputDirName)

	stale := []string{"en-US.pak@old", "fr.pak@old", "en-US.pak@old.tmp"}
	for _, name := range stale {
		testutil.MustWriteFile(t, filepath.Join(outputDir, name), []byte(name))
	}
	testutil.MustWriteFile(t, filepath.Join(appData, string(ICUDataAsset)), []byte("icu"))
	testutil.MustWriteFile(t, filepath.Join(appData, "keep.txt"), []byte("keep"))

	warnings := NewSweeper(nil).Sweep(outputDir, appData, ListNames(outputDir))
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	if got := ListNames(outputDir); len(got) != 0 {
		t.Errorf("output dir still contains %v", got)
	}
	if _, err := os.Stat(filepath.Join(appData, string(ICUDataAsset))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("legacy file survived sweep: %v", err)
	}
	if _, err := os.Stat(filepath.Join(appData, "keep.txt")); err != nil {
		t.Errorf("unrelated app-data file removed: %v", err)
	}
}

func TestSweepMissingFilesAreNotWarnings(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	warnings := NewSweeper(nil).Sweep(filepath.Join(appData, OutputDirName), appData, []string{"gone.pak@1"})
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for absent files, got %v", warnings)
	}
}

func TestSweepDeleteFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	outputDir := filepath.Join(appData, OutputDirName)
	testutil.MustWriteFile(t, filepath.Join(outputDir, "a.pak@1"), []byte("a"))
	testutil.MustWriteFile(t, filepath.Join(outputDir, "b.pak@1"), []byte("b"))

	denied := errors.New("permission denied")
	s := NewSweeper(nil)
	s.remove = func(path string) error {
		if filepath.Base(path) == "a.pak@1" {
			return denied
		}
		return os.Remove(path)
	}

	warnings := s.Sweep(outputDir, appData, ListNames(outputDir))
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !errors.Is(warnings[0], denied) {
		t.Errorf("warning does not wrap cause: %v", warnings[0])
	}
	if IsFatal(warnings[0]) {
		t.Error("DeleteWarning reported as fatal")
	}
	if _, err := os.Stat(filepath.Join(outputDir, "b.pak@1")); !errors.Is(err, os.ErrNotExist) {
		t.Error("sweep stopped after the first failure")
	}
}

func TestSweepLeavesSuffixedAppDataCopies(t *testing.T) {
	t.Parallel()

	appData := t.TempDir()
	outputDir := filepath.Join(appData, OutputDirName)
	old := filepath.Join(appData, string(ICUDataAsset)+"@old")
	testutil.MustWriteFile(t, old, []byte("icu"))
	testutil.MustWriteFile(t, filepath.Join(appData, string(ICUDataAsset)), []byte("icu"))

	NewSweeper(nil).Sweep(outputDir, appData, nil)

	if _, err := os.Stat(filepath.Join(appData, string(ICUDataAsset))); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unsuffixed legacy file survived sweep: %v", err)
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("suffixed app-data copy was removed: %v", err)
	}
}
