package v04

import (
	"encoding/json"
	"fmt"

	"omezarr/pkg/ngff"
)

// Dataset describes one pyramid level: an array path relative to the image
// group, plus its coordinate transformations.
type Dataset struct {
	Path                      string            `json:"path"`
	CoordinateTransformations TransformSequence `json:"coordinateTransformations"`
}

// Validate checks the dataset's transform sequence invariants.
func (d Dataset) Validate() error {
	if d.Path == "" {
		return ngff.NewSchemaError(ngff.KindFieldInvalid, "path", "dataset path must not be empty")
	}
	if err := d.CoordinateTransformations.Validate(); err != nil {
		return ngff.PrefixField(err, "coordinateTransformations")
	}
	return nil
}

// BuildDataset constructs a validated Dataset from a path, a scale vector and
// an optional translation vector (nil for none).
func BuildDataset(path string, scale []float64, translation []float64) (Dataset, error) {
	d := Dataset{
		Path:                      path,
		CoordinateTransformations: BuildTransforms(scale, translation),
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// Multiscale is one multiscale image description: an axis list, one or more
// datasets, and an optional group-level transform sequence applied on top of
// the per-dataset ones. Version, metadata, name and type are passthrough
// fields preserved verbatim and not semantically validated.
type Multiscale struct {
	Axes                      []Axis            `json:"axes"`
	Datasets                  []Dataset         `json:"datasets"`
	CoordinateTransformations TransformSequence `json:"coordinateTransformations,omitempty"`
	Version                   json.RawMessage   `json:"version,omitempty"`
	Metadata                  json.RawMessage   `json:"metadata,omitempty"`
	Name                      json.RawMessage   `json:"name,omitempty"`
	Type                      json.RawMessage   `json:"type,omitempty"`
}

// NDim is the dimensionality of the data described by this metadata,
// determined by the length of the axis list.
func (m Multiscale) NDim() int { return len(m.Axes) }

// Validate runs the full validation pipeline: axis rules, per-dataset
// transform rules, group-level transform rules, then the cross-checks tying
// axis count to every vector transform's dimensionality. Axes and transforms
// are declared independently in the source document; nothing in the syntax
// guarantees they agree, so the cross-checks close that gap.
func (m Multiscale) Validate() error {
	if err := ValidateAxes(m.Axes); err != nil {
		return err
	}
	if len(m.Datasets) == 0 {
		return ngff.NewSchemaError(ngff.KindWrongArity, "datasets", "at least one dataset is required")
	}
	for i, ds := range m.Datasets {
		if err := ds.Validate(); err != nil {
			return ngff.PrefixField(err, fmt.Sprintf("datasets[%d]", i))
		}
	}
	if m.CoordinateTransformations != nil {
		if err := m.CoordinateTransformations.Validate(); err != nil {
			return ngff.PrefixField(err, "coordinateTransformations")
		}
	}
	return m.validateCrossDimensionality()
}

func (m Multiscale) validateCrossDimensionality() error {
	ndim := m.NDim()
	if m.CoordinateTransformations != nil {
		if err := ensureAxesMatchTransforms(ndim, m.CoordinateTransformations); err != nil {
			return ngff.PrefixField(err, "coordinateTransformations")
		}
	}
	for i, ds := range m.Datasets {
		if err := ensureAxesMatchTransforms(ndim, ds.CoordinateTransformations); err != nil {
			return ngff.PrefixField(err, fmt.Sprintf("datasets[%d].coordinateTransformations", i))
		}
	}
	return nil
}

// ensureAxesMatchTransforms checks that every vector-parametrized member of
// seq has dimensionality ndim. Path-parametrized members are skipped.
func ensureAxesMatchTransforms(ndim int, seq TransformSequence) error {
	for _, tf := range seq {
		v, ok := tf.(Vectorized)
		if !ok {
			continue
		}
		if v.Ndim() != ndim {
			return ngff.NewSchemaError(ngff.KindDimensionalityMismatch, "",
				"the length of axes does not match the dimensionality of the %s transform: got %d axes but the transform has dimensionality %d",
				tf.Kind(), ndim, v.Ndim())
		}
	}
	return nil
}

// ParseMultiscale decodes and fully validates one multiscale record.
func ParseMultiscale(data []byte) (*Multiscale, error) {
	var m Multiscale
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, schemaDecodeError(err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// schemaDecodeError normalizes json decode failures: SchemaErrors raised by
// nested UnmarshalJSON hooks pass through, everything else becomes a
// wrong-discriminator failure at the document root.
func schemaDecodeError(err error) error {
	if ngff.KindOf(err) != "" {
		return err
	}
	return ngff.NewSchemaError(ngff.KindWrongDiscriminator, "", "malformed metadata document: %v", err)
}
