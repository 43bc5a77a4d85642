// Package schema validates raw attribute documents against the embedded
// NGFF 0.4 JSON schemas. This is a syntax-level pre-pass; the model packages
// enforce the semantic invariants the schemas cannot express.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed image.schema.json
var imageSchemaJSON string

//go:embed well.schema.json
var wellSchemaJSON string

//go:embed plate.schema.json
var plateSchemaJSON string

var (
	compileOnce  sync.Once
	imageSchema  *jsonschema.Schema
	wellSchema   *jsonschema.Schema
	plateSchema  *jsonschema.Schema
	compileError error
)

func compile() {
	compileOnce.Do(func() {
		for _, s := range []struct {
			name   string
			source string
			target **jsonschema.Schema
		}{
			{"image.schema.json", imageSchemaJSON, &imageSchema},
			{"well.schema.json", wellSchemaJSON, &wellSchema},
			{"plate.schema.json", plateSchemaJSON, &plateSchema},
		} {
			sch, err := jsonschema.CompileString(s.name, s.source)
			if err != nil {
				compileError = fmt.Errorf("compile %s: %w", s.name, err)
				return
			}
			*s.target = sch
		}
	})
}

func validate(sch *jsonschema.Schema, doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	return sch.Validate(v)
}

// ValidateImage checks an image group attribute document against the
// embedded image schema.
func ValidateImage(doc []byte) error {
	compile()
	if compileError != nil {
		return compileError
	}
	return validate(imageSchema, doc)
}

// ValidateWell checks a well group attribute document against the embedded
// well schema.
func ValidateWell(doc []byte) error {
	compile()
	if compileError != nil {
		return compileError
	}
	return validate(wellSchema, doc)
}

// ValidatePlate checks a plate group attribute document against the embedded
// plate schema.
func ValidatePlate(doc []byte) error {
	compile()
	if compileError != nil {
		return compileError
	}
	return validate(plateSchema, doc)
}
