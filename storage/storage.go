// Package storage holds the object storage backends certificates are
// written to.
package storage

import (
	"context"
	"errors"
)

var ErrObjectNotFound = errors.New("object not found")

type UploadOptions struct {
	ContentType string
	// Overwrite replaces an existing object at the same path.
	Overwrite bool
}

type ObjectStorage interface {
	Upload(ctx context.Context, bucket, path string, data []byte, opts UploadOptions) error
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths []string) error
}
