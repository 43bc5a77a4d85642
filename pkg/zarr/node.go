package zarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
)

// Node errors.
var (
	// ErrNodeNotFound indicates no group or array exists at the path.
	ErrNodeNotFound = errors.New("zarr: node not found")
	// ErrNotGroup indicates the node at the path is not a group.
	ErrNotGroup = errors.New("zarr: node is not a group")
	// ErrNotArray indicates the node at the path is not an array.
	ErrNotArray = errors.New("zarr: node is not an array")
	// ErrInvalidPath indicates a malformed or escaping relative path.
	ErrInvalidPath = errors.New("zarr: invalid path")
)

// Group is a read handle on a Zarr group node.
type Group struct {
	store Store
	path  string
}

// Array is a read handle on a Zarr array node with its parsed metadata.
type Array struct {
	store Store
	path  string
	meta  ArrayMeta
}

// OpenGroup opens the group at a path relative to the store root ("" for the
// root itself). It fails with ErrNodeNotFound when nothing exists there and
// ErrNotGroup when the path holds an array.
func OpenGroup(ctx context.Context, st Store, nodePath string) (*Group, error) {
	clean, err := cleanRelPath(nodePath)
	if err != nil {
		return nil, err
	}
	ok, err := st.Has(ctx, metaKey(clean, groupMetaKey))
	if err != nil {
		return nil, fmt.Errorf("probing group at %q: %w", clean, err)
	}
	if ok {
		return &Group{store: st, path: clean}, nil
	}
	ok, err = st.Has(ctx, metaKey(clean, arrayMetaKey))
	if err != nil {
		return nil, fmt.Errorf("probing array at %q: %w", clean, err)
	}
	if ok {
		return nil, fmt.Errorf("%w: %q", ErrNotGroup, clean)
	}
	return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, clean)
}

// Path returns the group's path relative to the store root.
func (g *Group) Path() string { return g.path }

// Name returns the last path component, or "/" for the root group.
func (g *Group) Name() string {
	if g.path == "" {
		return "/"
	}
	return path.Base(g.path)
}

// Store returns the backing store.
func (g *Group) Store() Store { return g.store }

// RawAttributes returns the group's own attribute document (.zattrs) without
// descending into children. A group without attributes yields an empty object.
func (g *Group) RawAttributes(ctx context.Context) ([]byte, error) {
	data, err := g.store.Get(ctx, metaKey(g.path, attrsKey))
	if errors.Is(err, ErrKeyNotFound) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %q: %w", g.path, err)
	}
	return data, nil
}

// Attributes parses the group's attribute document into a key-to-raw-value
// mapping, preserving each value byte-for-byte.
func (g *Group) Attributes(ctx context.Context) (map[string]json.RawMessage, error) {
	raw, err := g.RawAttributes(ctx)
	if err != nil {
		return nil, err
	}
	attrs := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("parsing attributes of %q: %w", g.path, err)
	}
	return attrs, nil
}

// Resolve looks up a child node by relative path with point lookups only. It
// returns *Array or *Group, or ErrNodeNotFound. Intermediate components are
// not probed: backends that only answer direct existence queries stay usable.
func (g *Group) Resolve(ctx context.Context, rel string) (any, error) {
	clean, err := cleanRelPath(rel)
	if err != nil {
		return nil, err
	}
	target := joinNodePath(g.path, clean)
	ok, err := g.store.Has(ctx, metaKey(target, arrayMetaKey))
	if err != nil {
		return nil, fmt.Errorf("probing array at %q: %w", target, err)
	}
	if ok {
		return openArrayAt(ctx, g.store, target)
	}
	ok, err = g.store.Has(ctx, metaKey(target, groupMetaKey))
	if err != nil {
		return nil, fmt.Errorf("probing group at %q: %w", target, err)
	}
	if ok {
		return &Group{store: g.store, path: target}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, target)
}

// OpenGroup resolves a child and requires it to be a group.
func (g *Group) OpenGroup(ctx context.Context, rel string) (*Group, error) {
	node, err := g.Resolve(ctx, rel)
	if err != nil {
		return nil, err
	}
	child, ok := node.(*Group)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotGroup, rel)
	}
	return child, nil
}

// OpenArray resolves a child and requires it to be an array.
func (g *Group) OpenArray(ctx context.Context, rel string) (*Array, error) {
	node, err := g.Resolve(ctx, rel)
	if err != nil {
		return nil, err
	}
	child, ok := node.(*Array)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotArray, rel)
	}
	return child, nil
}

func openArrayAt(ctx context.Context, st Store, nodePath string) (*Array, error) {
	data, err := st.Get(ctx, metaKey(nodePath, arrayMetaKey))
	if err != nil {
		return nil, fmt.Errorf("reading array metadata at %q: %w", nodePath, err)
	}
	var meta ArrayMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing array metadata at %q: %w", nodePath, err)
	}
	return &Array{store: st, path: nodePath, meta: meta}, nil
}

// Path returns the array's path relative to the store root.
func (a *Array) Path() string { return a.path }

// Name returns the last path component.
func (a *Array) Name() string { return path.Base(a.path) }

// Shape returns the array's declared shape.
func (a *Array) Shape() []int { return a.meta.Shape }

// Meta returns the parsed .zarray metadata.
func (a *Array) Meta() ArrayMeta { return a.meta }

// RawAttributes returns the array's own attribute document (.zattrs). An
// array without attributes yields an empty object.
func (a *Array) RawAttributes(ctx context.Context) ([]byte, error) {
	data, err := a.store.Get(ctx, metaKey(a.path, attrsKey))
	if errors.Is(err, ErrKeyNotFound) {
		return []byte("{}"), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading attributes of %q: %w", a.path, err)
	}
	return data, nil
}
