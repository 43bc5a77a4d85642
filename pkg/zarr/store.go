// Package zarr provides a read-only view of a Zarr v2 hierarchy: a key-value
// Store contract with pluggable backends, and a node layer that opens groups
// and arrays at slash-separated paths by probing their metadata documents.
package zarr

import (
	"omezarr/internal/store/core"
)

type (
	// Driver identifies a store backend driver.
	Driver = core.Driver
	// Store is the read-only point-lookup store contract.
	Store = core.Store
)

const (
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverFilesystem is the local directory driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverSQLite is the single-file SQLite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the Postgres driver.
	DriverPostgres = core.DriverPostgres
)

// ErrKeyNotFound indicates the store holds no object under the requested key.
var ErrKeyNotFound = core.ErrKeyNotFound
