// Package v04 models OME-Zarr (NGFF) version 0.4 metadata: axes, coordinate
// transformations, multiscale image pyramids, labels, and plate/well layouts.
//
// All entities are value objects validated at construction. Parse helpers
// (ParseMultiscale, ImageFromGroup, ...) never return a partially valid
// instance: either validation passes in full or an error describes the first
// offending field.
package v04

import (
	"encoding/json"
	"fmt"

	"omezarr/pkg/ngff"
)

// TransformKind is the discriminator carried in a transformation's type field.
type TransformKind string

// Discriminator values fixed by the NGFF specification.
const (
	TransformIdentity    TransformKind = "identity"
	TransformScale       TransformKind = "scale"
	TransformTranslation TransformKind = "translation"
)

// Transform is the closed set of coordinate transformation variants. The set
// is fixed by the external format specification; consumers switch exhaustively
// over the concrete types.
type Transform interface {
	// Kind returns the wire discriminator of the variant.
	Kind() TransformKind
	sealedTransform()
}

// Vectorized is implemented by variants whose magnitude is given inline as a
// numeric vector. Path-parametrized variants are dimensionality-opaque and do
// not implement it.
type Vectorized interface {
	Transform
	// Ndim returns the number of dimensions the transform applies to.
	Ndim() int
}

// Identity is the identity transformation. It is defined by the specification
// but not allowed inside any transform sequence; it exists only so documents
// containing it decode into a well-typed value before being rejected.
type Identity struct{}

// VectorScale is a scale transformation parametrized by a vector of factors.
type VectorScale struct {
	Scale []float64
}

// PathScale is a scale transformation whose factors live at an external path.
type PathScale struct {
	Path string
}

// VectorTranslation is a translation parametrized by a vector of offsets.
type VectorTranslation struct {
	Translation []float64
}

// PathTranslation is a translation whose offsets live at an external path.
type PathTranslation struct {
	Path string
}

func (Identity) Kind() TransformKind          { return TransformIdentity }
func (VectorScale) Kind() TransformKind       { return TransformScale }
func (PathScale) Kind() TransformKind         { return TransformScale }
func (VectorTranslation) Kind() TransformKind { return TransformTranslation }
func (PathTranslation) Kind() TransformKind   { return TransformTranslation }

func (Identity) sealedTransform()          {}
func (VectorScale) sealedTransform()       {}
func (PathScale) sealedTransform()         {}
func (VectorTranslation) sealedTransform() {}
func (PathTranslation) sealedTransform()   {}

// Ndim returns the dimensionality of the scale vector.
func (t VectorScale) Ndim() int { return len(t.Scale) }

// Ndim returns the dimensionality of the translation vector.
func (t VectorTranslation) Ndim() int { return len(t.Translation) }

// NewVectorScale builds a VectorScale from a copy of factors.
func NewVectorScale(factors []float64) VectorScale {
	return VectorScale{Scale: append([]float64(nil), factors...)}
}

// NewVectorTranslation builds a VectorTranslation from a copy of offsets.
func NewVectorTranslation(offsets []float64) VectorTranslation {
	return VectorTranslation{Translation: append([]float64(nil), offsets...)}
}

func (t Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type TransformKind `json:"type"`
	}{TransformIdentity})
}

func (t VectorScale) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  TransformKind `json:"type"`
		Scale []float64     `json:"scale"`
	}{TransformScale, t.Scale})
}

func (t PathScale) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type TransformKind `json:"type"`
		Path string        `json:"path"`
	}{TransformScale, t.Path})
}

func (t VectorTranslation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type        TransformKind `json:"type"`
		Translation []float64     `json:"translation"`
	}{TransformTranslation, t.Translation})
}

func (t PathTranslation) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type TransformKind `json:"type"`
		Path string        `json:"path"`
	}{TransformTranslation, t.Path})
}

// DecodeTransform parses one transformation record, selecting the variant from
// the type tag and the shape of the remaining fields.
func DecodeTransform(data []byte) (Transform, error) {
	var probe struct {
		Type        *TransformKind `json:"type"`
		Scale       *[]float64     `json:"scale"`
		Translation *[]float64     `json:"translation"`
		Path        *string        `json:"path"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, ngff.NewSchemaError(ngff.KindWrongDiscriminator, "", "malformed transform record: %v", err)
	}
	if probe.Type == nil {
		return nil, ngff.NewSchemaError(ngff.KindWrongDiscriminator, "type", "transform record has no type tag")
	}
	switch *probe.Type {
	case TransformIdentity:
		return Identity{}, nil
	case TransformScale:
		switch {
		case probe.Scale != nil:
			if len(*probe.Scale) == 0 {
				return nil, ngff.NewSchemaError(ngff.KindWrongArity, "scale", "scale vector must be non-empty")
			}
			return VectorScale{Scale: *probe.Scale}, nil
		case probe.Path != nil:
			return PathScale{Path: *probe.Path}, nil
		default:
			return nil, ngff.NewSchemaError(ngff.KindWrongDiscriminator, "",
				"scale transform needs a scale vector or a path")
		}
	case TransformTranslation:
		switch {
		case probe.Translation != nil:
			if len(*probe.Translation) == 0 {
				return nil, ngff.NewSchemaError(ngff.KindWrongArity, "translation", "translation vector must be non-empty")
			}
			return VectorTranslation{Translation: *probe.Translation}, nil
		case probe.Path != nil:
			return PathTranslation{Path: *probe.Path}, nil
		default:
			return nil, ngff.NewSchemaError(ngff.KindWrongDiscriminator, "",
				"translation transform needs a translation vector or a path")
		}
	default:
		return nil, ngff.NewSchemaError(ngff.KindWrongDiscriminator, "type",
			"unknown transform type %q, expected identity, scale or translation", *probe.Type)
	}
}

// TransformSequence is the ordered coordinateTransformations list attached to
// a dataset or multiscale: one scale transform, optionally followed by one
// translation transform.
type TransformSequence []Transform

// UnmarshalJSON decodes each element through DecodeTransform. It performs no
// sequence-level validation; call Validate afterwards.
func (s *TransformSequence) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return ngff.NewSchemaError(ngff.KindWrongDiscriminator, "", "coordinateTransformations must be a list: %v", err)
	}
	seq := make(TransformSequence, 0, len(raws))
	for i, raw := range raws {
		tf, err := DecodeTransform(raw)
		if err != nil {
			return ngff.PrefixField(err, fmt.Sprintf("[%d]", i))
		}
		seq = append(seq, tf)
	}
	*s = seq
	return nil
}

// Validate checks the sequence invariants: 1 or 2 elements, scale first,
// translation second if present, and consistent dimensionality across all
// vector-parametrized members. Path-parametrized members are dimensionality-
// opaque and skipped by the consistency check. Validation is pure: a valid
// sequence is returned untouched and re-validation is a no-op.
func (s TransformSequence) Validate() error {
	if len(s) < 1 || len(s) > 2 {
		return ngff.NewSchemaError(ngff.KindWrongArity, "",
			"invalid number of transforms: got %d, expected 1 or 2", len(s))
	}
	if s[0].Kind() != TransformScale {
		return ngff.NewSchemaError(ngff.KindWrongOrder, "[0]",
			"first transform must be a scale transform, got type %q", s[0].Kind())
	}
	if len(s) == 2 && s[1].Kind() != TransformTranslation {
		return ngff.NewSchemaError(ngff.KindWrongOrder, "[1]",
			"second transform must be a translation transform, got type %q", s[1].Kind())
	}
	return s.validateDimensionality()
}

func (s TransformSequence) validateDimensionality() error {
	ndims := s.vectorNdims()
	if len(ndims) == 0 {
		return nil
	}
	for _, n := range ndims[1:] {
		if n != ndims[0] {
			return ngff.NewSchemaError(ngff.KindDimensionalityMismatch, "",
				"transforms have inconsistent dimensionality: got %v", ndims)
		}
	}
	return nil
}

// vectorNdims collects the dimensionality of every vector-parametrized member,
// in order. A sequence of only path-parametrized transforms yields nothing.
func (s TransformSequence) vectorNdims() []int {
	var ndims []int
	for _, tf := range s {
		if v, ok := tf.(Vectorized); ok {
			ndims = append(ndims, v.Ndim())
		}
	}
	return ndims
}

// BuildTransforms assembles a valid sequence from a scale vector and an
// optional translation vector (nil for none).
func BuildTransforms(scale []float64, translation []float64) TransformSequence {
	seq := TransformSequence{NewVectorScale(scale)}
	if translation != nil {
		seq = append(seq, NewVectorTranslation(translation))
	}
	return seq
}
