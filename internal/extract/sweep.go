// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Sweeper removes stale extraction output before a new extraction pass.
type Sweeper struct {
	logger *log.Logger
	remove func(string) error
}

// NewSweeper creates a Sweeper that logs failed deletions to logger.
func NewSweeper(logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = discardLogger()
	}
	return &Sweeper{logger: logger, remove: os.Remove}
}

// Sweep deletes the legacy app-data files and every listed entry of outputDir.
//
// The legacy names are removed on every call whether or not this build ever wrote
// them: releases that extracted them left copies behind. Every deletion is
// best-effort; failures are logged and returned, never fatal.
//
// Only the unsuffixed legacy names are removed from appDataDir. A legacy asset that
// is still in the required set is written there as <name><suffix>, and copies from
// earlier versions are never swept, so they accumulate across updates.
func (s *Sweeper) Sweep(outputDir, appDataDir string, existing []string) []*DeleteWarning {
	var warnings []*DeleteWarning

	for _, name := range LegacyAppDataAssets() {
		if w := s.deleteFile(filepath.Join(appDataDir, string(name))); w != nil {
			warnings = append(warnings, w)
		}
	}
	for _, name := range existing {
		if w := s.deleteFile(filepath.Join(outputDir, name)); w != nil {
			warnings = append(warnings, w)
		}
	}

	return warnings
}

func (s *Sweeper) deleteFile(path string) *DeleteWarning {
	err := s.remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	s.logger.Warn("unable to remove stale file", "path", path, "err", err)
	return &DeleteWarning{Path: path, Err: err}
}
