// Package ioblob provides key/value blob stores used by the import cache.
// Keys are slash separated relative paths. Stores are create-only: a key
// once written is never overwritten.
package ioblob

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/gnvariants/pkg/config"
)

// Driver identifies a blob store backend.
type Driver string

const (
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

var (
	// ErrNotFound is returned by Get when a key does not exist.
	ErrNotFound = errors.New("blob not found")

	// ErrExists is returned by Put when a key is already taken.
	ErrExists = errors.New("blob already exists")
)

// Info describes a stored blob.
type Info struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store is a minimal S3-like abstraction.
type Store interface {
	// Put writes data under a new key. It returns ErrExists if the key
	// is already present.
	Put(ctx context.Context, key string, data []byte) (Info, error)

	// Get returns the content of a key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Head reports if a key exists.
	Head(ctx context.Context, key string) (Info, bool, error)

	// Delete removes a key, returning true if it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// List returns blobs with keys starting with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]Info, error)

	Driver() Driver
}

// Open creates the store selected by cfg.Cache.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Driver(cfg.Cache.Driver) {
	case DriverFS, "":
		return NewFS(cfg.BlobDir())
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.Cache.Bucket,
			Region:    cfg.Cache.Region,
			Endpoint:  cfg.Cache.Endpoint,
			AccessKey: cfg.Cache.AccessKey,
			SecretKey: cfg.Cache.SecretKey,
			PathStyle: cfg.Cache.PathStyle,
		})
	default:
		return nil, DriverError(cfg.Cache.Driver, nil)
	}
}
