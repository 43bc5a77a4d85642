// Package memory provides a map-backed Zarr store used by tests and by
// callers that already hold the full hierarchy in memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"omezarr/internal/store/core"
)

// Store is an in-memory key-value store. Reads implement core.Store; Put
// exists so fixtures can be assembled before handing the store out.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the object stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrKeyNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

// Has reports whether an object exists under key.
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Put stores a copy of data under key, replacing any previous object.
func (s *Store) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
}

// PutJSON stores a raw JSON document under key.
func (s *Store) PutJSON(key, doc string) {
	s.Put(key, []byte(doc))
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
