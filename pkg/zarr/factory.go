package zarr

import (
	"context"
	"fmt"
	"os"

	fsstore "omezarr/internal/infra/store/fs"
	memorystore "omezarr/internal/infra/store/memory"
	postgresstore "omezarr/internal/infra/store/postgres"
	s3store "omezarr/internal/infra/store/s3"
	sqlitestore "omezarr/internal/infra/store/sqlite"
)

// NewMemory returns an in-memory Store suitable for tests and for validating
// fully in-memory hierarchies. The concrete type additionally offers Put for
// assembling fixtures.
func NewMemory() *memorystore.Store { return memorystore.New() }

// NewFilesystem returns a Store reading a Zarr hierarchy under root.
func NewFilesystem(root string) (Store, error) { return fsstore.New(root) }

// Open selects a Store implementation using environment variables.
//
//	OMEZARR_STORE_DRIVER: fs|s3|memory|sqlite|postgres (default fs)
//	OMEZARR_STORE_FS_ROOT: directory root when driver=fs (default ".")
//	OMEZARR_STORE_SQLITE_PATH: database path when driver=sqlite
//	OMEZARR_STORE_POSTGRES_DSN: connection string when driver=postgres
//	(S3 specific variables documented in the s3 backend)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("OMEZARR_STORE_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		root := os.Getenv("OMEZARR_STORE_FS_ROOT")
		if root == "" {
			root = "."
		}
		return fsstore.New(root)
	case DriverS3:
		return s3store.OpenFromEnv(ctx)
	case DriverMemory:
		return memorystore.New(), nil
	case DriverSQLite:
		return sqlitestore.New(os.Getenv("OMEZARR_STORE_SQLITE_PATH"))
	case DriverPostgres:
		return postgresstore.New(ctx, os.Getenv("OMEZARR_STORE_POSTGRES_DSN"))
	default:
		return nil, fmt.Errorf("unknown store driver %s", driver)
	}
}
