// SPDX-License-Identifier: MPL-2.0

package miniosrc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrBucketNotFound is returned when the configured bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

type (
	// Config describes the bucket and the assets it serves.
	Config struct {
		Endpoint        string
		AccessKeyID     string
		SecretAccessKey string
		UseSSL          bool
		Bucket          string
		// Prefix is prepended to every object name, e.g. "v412/".
		Prefix string
		Retry  RetryConfig
	}

	// RetryConfig bounds the connection attempts made by Connect.
	RetryConfig struct {
		MaxRetries      int
		InitialInterval time.Duration
		MaxInterval     time.Duration
	}
)

func (r RetryConfig) withDefaults() RetryConfig {
	if r.MaxRetries <= 0 {
		r.MaxRetries = 3
	}
	if r.InitialInterval <= 0 {
		r.InitialInterval = 500 * time.Millisecond
	}
	if r.MaxInterval <= 0 {
		r.MaxInterval = 5 * time.Second
	}
	return r
}

// Connect creates a client and checks that the bucket exists, retrying with
// exponential backoff. A missing bucket is not retried.
func Connect(ctx context.Context, cfg Config) (*minio.Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("empty MinIO endpoint")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("empty MinIO bucket")
	}

	retry := cfg.Retry.withDefaults()
	interval := retry.InitialInterval
	var lastErr error

	for attempt := range retry.MaxRetries {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("context canceled before MinIO init: %w", ctx.Err())
		}

		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			// A malformed endpoint will not fix itself.
			return nil, fmt.Errorf("create MinIO client: %w", err)
		}

		err = checkBucket(ctx, client, cfg.Bucket)
		if err == nil {
			return client, nil
		}
		if errors.Is(err, ErrBucketNotFound) {
			return nil, err
		}
		lastErr = err

		if attempt < retry.MaxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("context canceled while waiting to retry MinIO: %w", ctx.Err())
			case <-time.After(interval):
				interval = min(interval*2, retry.MaxInterval)
			}
		}
	}

	return nil, fmt.Errorf("init MinIO failed after %d attempts: %w", retry.MaxRetries, lastErr)
}

func checkBucket(ctx context.Context, client *minio.Client, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	return nil
}
