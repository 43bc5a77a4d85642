// Package postgres provides a Zarr store over a Postgres table, mirroring the
// sqlite backend's contract for hierarchies ingested into a shared database.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"omezarr/internal/store/core"
)

const (
	defaultDriver = "pgx"
	// Default DSN keeps parity with the env-driven factory while allowing overrides.
	defaultDSN = "postgres://localhost/omezarr?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps every object in an objects(key, payload) table.
type Store struct {
	db *sql.DB
}

// New opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN) and ensures the objects table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS objects (
		key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create objects table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Get returns the payload stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM objects WHERE key = $1`, key).Scan(&payload)
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
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM objects WHERE key = $1`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probe %q: %w", key, err)
	}
	return true, nil
}

// Put upserts a payload under key.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO objects(key, payload) VALUES($1, $2) ON CONFLICT(key) DO UPDATE SET payload = EXCLUDED.payload`,
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

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
