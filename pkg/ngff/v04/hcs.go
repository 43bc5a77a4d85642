package v04

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

// HCSAttrs are the group-level attributes of a high-content-screening node.
type HCSAttrs struct {
	Plate Plate `json:"plate"`
}

// HCS is an OME-Zarr high-content-screening group: a plate layout whose well
// paths resolve to well subgroups in the store.
type HCS struct {
	Attrs    HCSAttrs
	Children map[string]Child
}

// Validate checks the plate record and that every well path resolves to a
// subgroup child (wells hold images, they are never arrays themselves).
func (h *HCS) Validate() error {
	if err := h.Attrs.Plate.Validate(); err != nil {
		return ngff.PrefixField(err, "plate")
	}
	flat := flattenChildren(h.Children)
	for i, w := range h.Attrs.Plate.Wells {
		loc := fmt.Sprintf("plate.wells[%d]", i)
		node, ok := flat[normalizeChildPath(w.Path)]
		if !ok {
			return ngff.NewSchemaError(ngff.KindMissingNode, loc,
				"well path %q does not resolve to a node in the group", w.Path)
		}
		if node.Kind != ChildGroup {
			return ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
				"well path %q resolves to an array, expected a subgroup", w.Path)
		}
	}
	return nil
}

// ParseHCSAttrs decodes and validates the attribute document of an HCS node
// without consulting any store.
func ParseHCSAttrs(data []byte) (*HCSAttrs, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, schemaDecodeError(err)
	}
	if _, ok := probe["plate"]; !ok {
		return nil, ngff.ErrNoPlateMetadata
	}
	var attrs HCSAttrs
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, schemaDecodeError(err)
	}
	if err := attrs.Plate.Validate(); err != nil {
		return nil, ngff.PrefixField(err, "plate")
	}
	return &attrs, nil
}

// HCSFromGroup constructs and validates an HCS node from a live store node.
// Well paths are resolved individually, like image dataset paths. A node
// without a plate key fails with ngff.ErrNoPlateMetadata.
func HCSFromGroup(ctx context.Context, g *zarr.Group) (*HCS, error) {
	raw, err := g.RawAttributes(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := ParseHCSAttrs(raw)
	if err != nil {
		return nil, err
	}

	children := map[string]Child{}
	for i, w := range attrs.Plate.Wells {
		loc := fmt.Sprintf("plate.wells[%d]", i)
		node, err := g.Resolve(ctx, w.Path)
		if errors.Is(err, zarr.ErrNodeNotFound) {
			return nil, ngff.NewSchemaError(ngff.KindMissingNode, loc,
				"well path %q does not resolve to a node under %q", w.Path, g.Path())
		}
		if err != nil {
			return nil, err
		}
		switch node.(type) {
		case *zarr.Group:
			children[normalizeChildPath(w.Path)] = GroupChild(nil)
		case *zarr.Array:
			return nil, ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
				"well path %q resolves to an array, expected a subgroup", w.Path)
		}
	}

	h := &HCS{Attrs: *attrs, Children: children}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// HCSFromStore opens the group at nodePath and constructs an HCS from it.
func HCSFromStore(ctx context.Context, st zarr.Store, nodePath string) (*HCS, error) {
	g, err := zarr.OpenGroup(ctx, st, nodePath)
	if err != nil {
		return nil, err
	}
	return HCSFromGroup(ctx, g)
}
