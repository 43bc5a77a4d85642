package v04

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

// ImageAttrs are the group-level attributes of an OME-Zarr image.
type ImageAttrs struct {
	Multiscales []Multiscale `json:"multiscales"`
	Omero       *Omero       `json:"omero,omitempty"`
}

// Image is an OME-Zarr multiscale image group: its attributes plus a mapping
// of child node names mirroring the store hierarchy at the group node.
type Image struct {
	Attrs    ImageAttrs
	Children map[string]Child
}

// Validate runs the full image validation pipeline: every multiscale record
// validates on its own, then every declared dataset path must resolve within
// the children mapping to an array whose rank equals the multiscale's
// dimensionality.
func (img *Image) Validate() error {
	if len(img.Attrs.Multiscales) == 0 {
		return ngff.NewSchemaError(ngff.KindWrongArity, "multiscales",
			"at least one multiscale record is required")
	}
	for i, m := range img.Attrs.Multiscales {
		if err := m.Validate(); err != nil {
			return ngff.PrefixField(err, fmt.Sprintf("multiscales[%d]", i))
		}
	}
	if img.Attrs.Omero != nil {
		if err := img.Attrs.Omero.Validate(); err != nil {
			return ngff.PrefixField(err, "omero")
		}
	}
	return img.validateChildren()
}

func (img *Image) validateChildren() error {
	flat := flattenChildren(img.Children)
	for i, m := range img.Attrs.Multiscales {
		for j, ds := range m.Datasets {
			loc := fmt.Sprintf("multiscales[%d].datasets[%d]", i, j)
			node, ok := flat[normalizeChildPath(ds.Path)]
			if !ok {
				return ngff.NewSchemaError(ngff.KindMissingArray, loc,
					"dataset path %q does not resolve to an array in the group", ds.Path)
			}
			if node.Kind != ChildArray {
				return ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
					"dataset path %q resolves to a subgroup, expected an array", ds.Path)
			}
			if len(node.Shape) != m.NDim() {
				return ngff.NewSchemaError(ngff.KindDimensionalityMismatch, loc,
					"array at %q has rank %d but the multiscale declares %d axes",
					ds.Path, len(node.Shape), m.NDim())
			}
		}
	}
	return nil
}

// NewImage validates and returns an image assembled from in-memory data. No
// I/O is performed.
func NewImage(attrs ImageAttrs, children map[string]Child) (*Image, error) {
	img := &Image{Attrs: attrs, Children: children}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

// ParseImageAttrs decodes and validates the attribute document of an image
// group without consulting any store (the children consistency check is
// skipped, there being no children to check against).
func ParseImageAttrs(data []byte) (*ImageAttrs, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, schemaDecodeError(err)
	}
	if _, ok := probe["multiscales"]; !ok {
		return nil, ngff.ErrNoMultiscaleMetadata
	}
	var attrs ImageAttrs
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, schemaDecodeError(err)
	}
	if len(attrs.Multiscales) == 0 {
		return nil, ngff.NewSchemaError(ngff.KindWrongArity, "multiscales",
			"at least one multiscale record is required")
	}
	for i, m := range attrs.Multiscales {
		if err := m.Validate(); err != nil {
			return nil, ngff.PrefixField(err, fmt.Sprintf("multiscales[%d]", i))
		}
	}
	if attrs.Omero != nil {
		if err := attrs.Omero.Validate(); err != nil {
			return nil, ngff.PrefixField(err, "omero")
		}
	}
	return &attrs, nil
}

// ImageFromGroup constructs and validates an Image from a live store node.
//
// The discovery pass is separate from pure validation: first the group's own
// attributes are read and parsed, then every referenced dataset path is
// resolved individually (point lookups only, so non-listable backends work),
// and finally the assembled object goes through Validate. A node without a
// multiscales key fails with ngff.ErrNoMultiscaleMetadata, which callers
// should treat as "not a multiscale image" rather than "malformed image".
func ImageFromGroup(ctx context.Context, g *zarr.Group) (*Image, error) {
	raw, err := g.RawAttributes(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := ParseImageAttrs(raw)
	if err != nil {
		return nil, err
	}

	// Discovery: resolve each referenced array to learn its shape. The
	// flattened mapping is synthesized from discovered arrays only; listing
	// the full subtree may be expensive or impossible on some backends.
	children := map[string]Child{}
	for i, m := range attrs.Multiscales {
		for j, ds := range m.Datasets {
			loc := fmt.Sprintf("multiscales[%d].datasets[%d]", i, j)
			node, err := g.Resolve(ctx, ds.Path)
			if errors.Is(err, zarr.ErrNodeNotFound) {
				return nil, ngff.NewSchemaError(ngff.KindMissingArray, loc,
					"dataset path %q does not resolve to an array under %q", ds.Path, g.Path())
			}
			if err != nil {
				return nil, err
			}
			switch arr := node.(type) {
			case *zarr.Array:
				children[normalizeChildPath(ds.Path)] = ArrayChild(arr.Shape()...)
			case *zarr.Group:
				return nil, ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
					"dataset path %q resolves to a subgroup, expected an array", ds.Path)
			}
		}
	}

	return NewImage(*attrs, children)
}

// ImageFromStore opens the group at nodePath and constructs an Image from it.
func ImageFromStore(ctx context.Context, st zarr.Store, nodePath string) (*Image, error) {
	g, err := zarr.OpenGroup(ctx, st, nodePath)
	if err != nil {
		return nil, err
	}
	return ImageFromGroup(ctx, g)
}
