// SPDX-License-Identifier: MPL-2.0

package miniosrc

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"slices"
	"strings"

	"github.com/invowk/pakextract/internal/extract"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
)

// opener fetches one object by its full name.
type opener func(ctx context.Context, object string) (io.ReadCloser, error)

// Interceptor claims a fixed set of assets and streams them from a bucket.
type Interceptor struct {
	prefix  string
	claimed []extract.AssetName
	open    opener
	logger  *log.Logger
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger *log.Logger) Option {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New connects to the bucket described by cfg and returns an Interceptor that
// claims assets.
func New(ctx context.Context, cfg Config, assets []extract.AssetName, opts ...Option) (*Interceptor, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return newInterceptor(cfg.Prefix, assets, clientOpener(client, cfg.Bucket), opts...), nil
}

func newInterceptor(prefix string, assets []extract.AssetName, open opener, opts ...Option) *Interceptor {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	i := &Interceptor{
		prefix:  prefix,
		claimed: slices.Clone(assets),
		open:    open,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ShouldIntercept reports whether name is served from the bucket.
func (i *Interceptor) ShouldIntercept(name extract.AssetName) bool {
	return slices.Contains(i.claimed, name)
}

// Claimed returns the asset names served from the bucket.
func (i *Interceptor) Claimed() []extract.AssetName {
	return slices.Clone(i.claimed)
}

// ObjectName returns the object that holds name.
func (i *Interceptor) ObjectName(name extract.AssetName) string {
	return i.prefix + string(name)
}

// OpenStream implements extract.Interceptor. A missing object is reported as
// fs.ErrNotExist.
func (i *Interceptor) OpenStream(ctx context.Context, name extract.AssetName) (io.ReadCloser, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	object := i.ObjectName(name)
	i.logger.Debug("opening intercepted resource", "asset", name, "object", object)

	rc, err := i.open(ctx, object)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("object %s: %w", object, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("get object %s: %w", object, err)
	}
	return rc, nil
}

func clientOpener(client *minio.Client, bucket string) opener {
	return func(ctx context.Context, object string) (io.ReadCloser, error) {
		obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
		if err != nil {
			return nil, err
		}
		// GetObject is lazy; Stat surfaces a missing key before any bytes are copied.
		if _, err := obj.Stat(); err != nil {
			_ = obj.Close()
			return nil, err
		}
		return obj, nil
	}
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == minio.NoSuchKey
}
