package v04

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"omezarr/pkg/ngff"
)

// structValidator applies the declarative per-field tags on the simple
// container models (plate, well, omero, labels). Compound and cross-entity
// invariants stay in the hand-written validation pipeline.
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// validateStruct runs tag validation and converts the first violation into a
// SchemaError locating the offending field.
func validateStruct(v any) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return ngff.NewSchemaError(ngff.KindFieldInvalid, fe.Namespace(),
			"field fails %q constraint (value %v)", fe.Tag(), fe.Value())
	}
	return err
}
