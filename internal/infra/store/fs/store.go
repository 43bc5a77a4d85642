// Package fs provides a Zarr store over a local directory. Keys map to
// relative file paths under the root, matching the on-disk layout written by
// DirectoryStore implementations.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"omezarr/internal/store/core"
)

// Store reads a Zarr hierarchy from a directory root.
type Store struct {
	root string
}

// New returns a filesystem store rooted at root. The directory must exist.
func New(root string) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("fs store root required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("fs store root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fs store root %q is not a directory", root)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// Root returns the configured directory root.
func (s *Store) Root() string { return s.root }

// sanitizeKey forbids traversal and absolute keys so lookups cannot escape
// the root.
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := filepath.ToSlash(filepath.Clean(key))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}

func (s *Store) pathFor(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

// Get reads the file backing key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", core.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return data, nil
}

// Has reports whether a regular file backs key.
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	p, err := s.pathFor(key)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", key, err)
	}
	return info.Mode().IsRegular(), nil
}
