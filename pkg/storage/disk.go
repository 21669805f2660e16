// Package storage is the filesystem abstraction used for the receipt archive.
//
// Two drivers are available:
//   - "local": a directory on the local filesystem (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	disks := storage.New("local")
//	disks.Register("local", storage.NewLocalDisk("storage", "http://localhost:5000/storage"))
//	_ = disks.Default().Put(ctx, "receipts/RCP-1A2B3C4D.json", body)
package storage

import (
	"context"
	"errors"
)

// ErrNotExist is returned by Get when nothing is stored at the path.
var ErrNotExist = errors.New("storage: file does not exist")

// Disk is the driver interface every backend implements.
type Disk interface {
	// Put writes content to path, replacing any previous content.
	Put(ctx context.Context, path string, content []byte) error

	// Get returns the content stored at path, or ErrNotExist.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether something is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error

	// Files lists the paths directly under directory.
	Files(ctx context.Context, directory string) ([]string, error)

	// URL returns the public URL for path.
	URL(path string) string
}
