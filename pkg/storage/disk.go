// Package storage is the filesystem abstraction behind uploaded images.
//
// Two drivers are available:
//   - "local": local filesystem (default)
//   - "s3": S3-compatible object storage
//
// Files are addressed by a slash-separated path relative to the disk root and
// published under URL(path). PathFromURL maps a published URL back.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned by read operations on a missing path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the driver interface.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(ctx context.Context, path string) ([]byte, error)

	Exists(ctx context.Context, path string) (bool, error)

	// LastModified returns ErrNotExist for a missing path.
	LastModified(ctx context.Context, path string) (time.Time, error)

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists every file below directory, recursively.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string

	// PathFromURL is the inverse of URL. ok is false for foreign URLs.
	PathFromURL(url string) (path string, ok bool)
}
