// Package sqlite provides a Zarr store over a single SQLite table, for
// hierarchies consolidated into one portable file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"omezarr/internal/store/core"
)

// Store keeps every object in an objects(key, payload) table.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) a SQLite-backed store at path.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS objects (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create objects table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM objects WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", core.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("select %q: %w", key, err)
	}
	return payload, nil
}

// Has reports whether a payload exists under key.
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM objects WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe %q: %w", key, err)
	}
	return true, nil
}

// Put upserts a payload under key. Used when ingesting a hierarchy into the
// store and by test fixtures.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO objects(key, payload) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET payload = excluded.payload`,
		key, payload)
	if err != nil {
		return fmt.Errorf("upsert %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
