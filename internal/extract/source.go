// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path"
)

type (
	// Source opens the byte stream of a named asset in the application package.
	// Implementations return an error wrapping fs.ErrNotExist (or a SourceNotFoundError)
	// when the name is not present.
	Source interface {
		Open(ctx context.Context, name AssetName) (io.ReadCloser, error)
	}

	// Interceptor lets an embedder substitute the byte source for selected assets.
	Interceptor interface {
		// ShouldIntercept reports whether the interceptor serves name.
		ShouldIntercept(name AssetName) bool
		// OpenStream opens the substitute stream for a claimed name.
		OpenStream(ctx context.Context, name AssetName) (io.ReadCloser, error)
	}

	// FSSource serves assets from a directory inside an fs.FS.
	FSSource struct {
		fsys fs.FS
		dir  string
	}
)

// NewFSSource creates a Source reading <dir>/<name> from fsys. An empty dir reads from the root.
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	if dir == "" {
		dir = "."
	}
	return &FSSource{fsys: fsys, dir: dir}
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, name AssetName) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.fsys.Open(path.Join(s.dir, string(name)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceNotFoundError{Name: name, Err: err}
		}
		return nil, err
	}
	return f, nil
}

// openAsset resolves the stream for name. The interceptor is asked exactly once,
// before any stream is opened.
func openAsset(ctx context.Context, name AssetName, src Source, icp Interceptor) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if icp != nil && icp.ShouldIntercept(name) {
		rc, err = icp.OpenStream(ctx, name)
	} else if src != nil {
		rc, err = src.Open(ctx, name)
	} else {
		return nil, &SourceNotFoundError{Name: name, Err: errors.New("no asset source configured")}
	}

	if err != nil {
		var snf *SourceNotFoundError
		switch {
		case errors.As(err, &snf):
			return nil, err
		case errors.Is(err, fs.ErrNotExist):
			return nil, &SourceNotFoundError{Name: name, Err: err}
		default:
			return nil, &IOError{Op: "open", Path: string(name), Err: err}
		}
	}
	if rc == nil {
		return nil, &SourceNotFoundError{Name: name}
	}
	return rc, nil
}
