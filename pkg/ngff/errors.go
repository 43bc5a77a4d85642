// Package ngff defines the shared error taxonomy and helpers for OME-Zarr
// (NGFF) metadata validation. Version-specific models live in subpackages.
package ngff

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a metadata validation failure. Kinds are stable
// machine-readable identifiers; messages are for humans.
type ErrorKind string

// Validation failure kinds raised by the metadata models.
const (
	// KindWrongDiscriminator indicates a tagged value whose type tag matches no
	// known variant.
	KindWrongDiscriminator ErrorKind = "wrong-discriminator"
	// KindWrongArity indicates a sequence with an invalid number of elements.
	KindWrongArity ErrorKind = "wrong-arity"
	// KindWrongOrder indicates transform sequence elements in the wrong order.
	KindWrongOrder ErrorKind = "wrong-order"
	// KindDimensionalityMismatch indicates disagreeing dimensionalities between
	// transforms, axes, or array ranks.
	KindDimensionalityMismatch ErrorKind = "dimensionality-mismatch"
	// KindAxisCountOutOfRange indicates an axis list outside the 2-5 range.
	KindAxisCountOutOfRange ErrorKind = "axis-count-out-of-range"
	// KindAxisNameDuplicate indicates repeated axis names.
	KindAxisNameDuplicate ErrorKind = "axis-name-duplicate"
	// KindAxisTypeCount indicates a violated axis type census rule.
	KindAxisTypeCount ErrorKind = "axis-type-count"
	// KindMissingArray indicates a dataset path that resolves to no array.
	KindMissingArray ErrorKind = "missing-array"
	// KindMissingNode indicates a referenced path that resolves to no node.
	KindMissingNode ErrorKind = "missing-node"
	// KindWrongNodeKind indicates a path resolving to the wrong node kind
	// (a subgroup where an array was declared, or vice versa).
	KindWrongNodeKind ErrorKind = "wrong-node-kind"
	// KindFieldInvalid indicates a simple per-field constraint violation.
	KindFieldInvalid ErrorKind = "field-invalid"
)

// SchemaError reports a single metadata validation failure. Field locates the
// offending value in the source document using JSON field syntax, for example
// "multiscales[0].datasets[1].coordinateTransformations".
type SchemaError struct {
	Kind   ErrorKind
	Field  string
	Detail string
}

// NewSchemaError builds a SchemaError with a formatted detail message.
func NewSchemaError(kind ErrorKind, field, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: kind, Field: field, Detail: fmt.Sprintf(format, args...)}
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Detail)
}

// KindOf extracts the ErrorKind from err, unwrapping as needed. It returns the
// empty kind when err carries no SchemaError.
func KindOf(err error) ErrorKind {
	var se *SchemaError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// PrefixField returns err with its field location prefixed by prefix, so
// nested validators can report positions relative to the document root.
// Non-SchemaError values pass through unchanged.
func PrefixField(err error, prefix string) error {
	var se *SchemaError
	if !errors.As(err, &se) {
		return err
	}
	field := se.Field
	switch {
	case field == "":
		field = prefix
	case field[0] == '[':
		field = prefix + field
	default:
		field = prefix + "." + field
	}
	return &SchemaError{Kind: se.Kind, Field: field, Detail: se.Detail}
}

// Sentinels distinguishing "node carries no such metadata" from "node carries
// malformed metadata". A store node without a multiscales key is simply not a
// multiscale image; that is not a schema violation.
var (
	ErrNoMultiscaleMetadata = errors.New("ngff: node has no multiscales metadata")
	ErrNoPlateMetadata      = errors.New("ngff: node has no plate metadata")
	ErrNoWellMetadata       = errors.New("ngff: node has no well metadata")
	ErrNoLabelsMetadata     = errors.New("ngff: node has no labels metadata")
)
