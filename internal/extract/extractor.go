// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

const (
	// BufferSize is the copy buffer size used for every asset.
	BufferSize = 16 * 1024

	// TempSuffix is appended to the destination path while an asset is being written.
	TempSuffix = ".tmp"
)

// Extractor copies asset streams to disk. It reuses one buffer across calls and is
// not safe for concurrent use; the job drives it from its single worker goroutine.
type Extractor struct {
	buf    []byte
	logger *log.Logger

	create func(string) (*os.File, error)
	rename func(oldpath, newpath string) error
}

// NewExtractor creates an Extractor with a BufferSize copy buffer.
func NewExtractor(logger *log.Logger) *Extractor {
	if logger == nil {
		logger = discardLogger()
	}
	return &Extractor{
		buf:    make([]byte, BufferSize),
		logger: logger,
		create: createTemp,
		rename: os.Rename,
	}
}

// ExtractOne writes src to dst atomically and returns the number of bytes written.
//
// The bytes go to dst+".tmp" first and are renamed over dst only after the copy and
// close succeed. src is always closed. On any failure the temp file is removed and
// nothing is left at dst.
func (e *Extractor) ExtractOne(src io.ReadCloser, dst string) (int64, error) {
	tmp := dst + TempSuffix

	out, err := e.create(tmp)
	if err != nil {
		_ = src.Close()
		return 0, &IOError{Op: "create", Path: tmp, Err: err}
	}

	e.logger.Info("extracting resource", "path", dst)

	written, copyErr := e.copy(out, src)
	syncErr := out.Sync()
	closeErr := out.Close()
	_ = src.Close() // read side; nothing to recover

	if copyErr != nil {
		e.discard(tmp)
		return written, &IOError{Op: "copy", Path: tmp, Err: copyErr}
	}
	if err := errors.Join(syncErr, closeErr); err != nil {
		e.discard(tmp)
		return written, &IOError{Op: "close", Path: tmp, Err: err}
	}

	if err := e.rename(tmp, dst); err != nil {
		e.discard(tmp)
		return written, &IOError{Op: "rename", Path: dst, Err: err}
	}
	return written, nil
}

// copy moves bytes through e.buf. io.Copy is avoided because *os.File implements
// ReaderFrom, which would bypass the fixed-size buffer.
func (e *Extractor) copy(dst io.Writer, src io.Reader) (int64, error) {
	var written int64
	for {
		n, rerr := src.Read(e.buf)
		if n > 0 {
			w, werr := dst.Write(e.buf[:n])
			written += int64(w)
			if werr != nil {
				return written, werr
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

func (e *Extractor) discard(tmp string) {
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		e.logger.Warn("unable to remove temp file", "path", tmp, "err", err)
	}
}

func createTemp(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}
