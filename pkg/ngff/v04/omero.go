package v04

import "encoding/json"

// OmeroWindow is the rendering window of one channel.
type OmeroWindow struct {
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Start float64  `json:"start"`
	End   float64  `json:"end"`
}

// OmeroChannel is the rendering description of one channel.
type OmeroChannel struct {
	Color  string          `json:"color" validate:"required,hexadecimal,len=6"`
	Window OmeroWindow     `json:"window"`
	Label  *string         `json:"label,omitempty"`
	Family json.RawMessage `json:"family,omitempty"`
	Active *bool           `json:"active,omitempty"`

	// Inverted and coefficient are rendering hints some writers emit; kept
	// raw since consumers interpret them, not this library.
	Inverted    json.RawMessage `json:"inverted,omitempty"`
	Coefficient json.RawMessage `json:"coefficient,omitempty"`
}

// Omero carries transitional omero rendering metadata. It is a structural
// container only; values are passed through without semantic checks beyond
// the declared field constraints.
type Omero struct {
	Channels []OmeroChannel  `json:"channels" validate:"required,min=1,dive"`
	ID       json.RawMessage `json:"id,omitempty"`
	Name     json.RawMessage `json:"name,omitempty"`
	Version  json.RawMessage `json:"version,omitempty"`
	Rdefs    json.RawMessage `json:"rdefs,omitempty"`
}

// Validate applies the declared field constraints.
func (o *Omero) Validate() error {
	return validateStruct(o)
}
