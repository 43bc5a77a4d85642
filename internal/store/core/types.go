// Package core defines the store contract shared by every Zarr store backend.
// It has no dependencies so backends and the public zarr package can both
// import it without cycles.
package core

import (
	"context"
	"errors"
)

// Driver identifies a store backend driver.
type Driver string

// Known store drivers.
const (
	// DriverMemory is the in-memory test driver.
	DriverMemory Driver = "memory"
	// DriverFilesystem is the local directory driver.
	DriverFilesystem Driver = "fs"
	// DriverS3 is the S3-compatible driver.
	DriverS3 Driver = "s3"
	// DriverSQLite is the single-file SQLite driver.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres is the Postgres driver.
	DriverPostgres Driver = "postgres"
)

// ErrKeyNotFound indicates the store holds no object under the requested key.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is a read-only hierarchical object store addressed by slash-separated
// keys. The contract is deliberately limited to point lookups: some backends
// cannot enumerate their contents, only answer whether an exact key exists.
type Store interface {
	// Get returns the object stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Has reports whether an object exists under key.
	Has(ctx context.Context, key string) (bool, error)
	// Driver identifies the backing implementation.
	Driver() Driver
}
