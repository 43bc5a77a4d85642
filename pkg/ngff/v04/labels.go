package v04

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

// LabelsAttrs are the attributes of an OME-Zarr labels group: the paths of
// the label image arrays it contains.
type LabelsAttrs struct {
	Labels []string `json:"labels" validate:"required,min=1,dive,required"`
}

// Labels is an OME-Zarr labels group.
type Labels struct {
	Attrs    LabelsAttrs
	Children map[string]Child
}

// Validate checks the declared field constraints and that every labels path
// resolves to an array child.
func (l *Labels) Validate() error {
	if err := validateStruct(&l.Attrs); err != nil {
		return err
	}
	flat := flattenChildren(l.Children)
	for i, p := range l.Attrs.Labels {
		loc := fmt.Sprintf("labels[%d]", i)
		node, ok := flat[normalizeChildPath(p)]
		if !ok {
			return ngff.NewSchemaError(ngff.KindMissingArray, loc,
				"labels path %q does not resolve to an array in the group", p)
		}
		if node.Kind != ChildArray {
			return ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
				"labels path %q resolves to a subgroup, expected an array", p)
		}
	}
	return nil
}

// LabelsFromGroup constructs and validates a Labels group from a live store
// node. A node without a labels key fails with ngff.ErrNoLabelsMetadata.
func LabelsFromGroup(ctx context.Context, g *zarr.Group) (*Labels, error) {
	attrs, err := g.Attributes(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := attrs["labels"]
	if !ok {
		return nil, ngff.ErrNoLabelsMetadata
	}
	var la LabelsAttrs
	if err := json.Unmarshal(raw, &la.Labels); err != nil {
		return nil, schemaDecodeError(err)
	}

	children := map[string]Child{}
	for i, p := range la.Labels {
		loc := fmt.Sprintf("labels[%d]", i)
		node, err := g.Resolve(ctx, p)
		if errors.Is(err, zarr.ErrNodeNotFound) {
			return nil, ngff.NewSchemaError(ngff.KindMissingArray, loc,
				"labels path %q does not resolve to an array under %q", p, g.Path())
		}
		if err != nil {
			return nil, err
		}
		switch arr := node.(type) {
		case *zarr.Array:
			children[normalizeChildPath(p)] = ArrayChild(arr.Shape()...)
		case *zarr.Group:
			return nil, ngff.NewSchemaError(ngff.KindWrongNodeKind, loc,
				"labels path %q resolves to a subgroup, expected an array", p)
		}
	}

	l := &Labels{Attrs: la, Children: children}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}
