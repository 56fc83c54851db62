// SPDX-License-Identifier: MPL-2.0

package pkgfile

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/invowk/pakextract/internal/extract"
)

// AssetsDir is the directory inside the package that holds bundled assets.
const AssetsDir = "assets"

var (
	// ErrPackageNotFound is returned when the package path does not exist.
	ErrPackageNotFound = errors.New("package not found")

	// ErrUnsupportedPackage is returned for a regular file that is not a ZIP archive.
	ErrUnsupportedPackage = errors.New("unsupported package format")

	archiveExts = []string{".zip", ".apk"}
)

// Package is an opened application package. It implements extract.PackageMetadata.
type Package struct {
	path    string
	fsys    fs.FS
	closer  io.Closer
	archive bool
}

// Open opens the package at path. Directories are read in place; .zip and .apk
// files are read as archives. Close releases the archive handle.
func Open(pkgPath string) (*Package, error) {
	fi, err := os.Stat(pkgPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, pkgPath)
		}
		return nil, fmt.Errorf("failed to stat package: %w", err)
	}

	if fi.IsDir() {
		return &Package{path: pkgPath, fsys: os.DirFS(pkgPath)}, nil
	}

	if !slices.Contains(archiveExts, strings.ToLower(filepath.Ext(pkgPath))) {
		return nil, fmt.Errorf("%w: %s (want a directory or one of %s)", ErrUnsupportedPackage, pkgPath, strings.Join(archiveExts, ", "))
	}

	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package archive: %w", err)
	}
	return &Package{path: pkgPath, fsys: zr, closer: zr, archive: true}, nil
}

// Path returns the path the package was opened from.
func (p *Package) Path() string { return p.path }

// IsArchive reports whether the package is a ZIP archive.
func (p *Package) IsArchive() bool { return p.archive }

// Source returns an extract.Source that reads from the assets directory.
func (p *Package) Source() *extract.FSSource {
	return extract.NewFSSource(p.fsys, AssetsDir)
}

// Manifest reads and validates package.toml.
func (p *Package) Manifest() (Manifest, error) {
	return ReadManifest(p.fsys)
}

// PackageInfo implements extract.PackageMetadata. The version code comes from the
// manifest. The last update time is the archive's modification time, or for a
// directory package the newest modification time of the manifest and everything
// under the assets directory, so rewriting an asset in place changes the suffix.
func (p *Package) PackageInfo(ctx context.Context) (extract.PackageInfo, error) {
	if err := ctx.Err(); err != nil {
		return extract.PackageInfo{}, &extract.VersionLookupError{Err: err}
	}

	m, err := p.Manifest()
	if err != nil {
		return extract.PackageInfo{}, &extract.VersionLookupError{Err: err}
	}

	updated, err := p.lastUpdate()
	if err != nil {
		return extract.PackageInfo{}, &extract.VersionLookupError{Err: err}
	}

	return extract.PackageInfo{
		LastUpdateTime: updated,
		VersionCode:    m.VersionCode,
		VersionName:    m.VersionName,
	}, nil
}

func (p *Package) lastUpdate() (time.Time, error) {
	if p.archive {
		fi, err := os.Stat(p.path)
		if err != nil {
			return time.Time{}, err
		}
		return fi.ModTime(), nil
	}

	fi, err := fs.Stat(p.fsys, ManifestName)
	if err != nil {
		return time.Time{}, err
	}
	newest := fi.ModTime()

	err = fs.WalkDir(p.fsys, AssetsDir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to scan package assets: %w", err)
	}
	return newest, nil
}

// Assets lists the regular files directly under the assets directory, sorted by name.
// A package without an assets directory has no assets.
func (p *Package) Assets() ([]extract.AssetName, error) {
	entries, err := fs.ReadDir(p.fsys, AssetsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list package assets: %w", err)
	}

	names := make([]extract.AssetName, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		names = append(names, extract.AssetName(e.Name()))
	}
	return names, nil
}

// Locales returns the locale tags of every <tag>.pak asset in the package.
func (p *Package) Locales() ([]string, error) {
	assets, err := p.Assets()
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, a := range assets {
		if tag, ok := strings.CutSuffix(string(a), ".pak"); ok && tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// Has reports whether name exists under the assets directory.
func (p *Package) Has(name extract.AssetName) bool {
	_, err := fs.Stat(p.fsys, path.Join(AssetsDir, string(name)))
	return err == nil
}

// Close releases the archive handle. It is a no-op for directory packages.
func (p *Package) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
