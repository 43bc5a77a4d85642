package v04

import (
	"omezarr/pkg/ngff"
)

// Standard axis types. Any other non-empty type string is a custom type.
const (
	AxisTypeSpace   = "space"
	AxisTypeTime    = "time"
	AxisTypeChannel = "channel"
)

// Axis is one labeled dimension of an array.
type Axis struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
	Unit string `json:"unit,omitempty"`
}

func isStandardAxisType(t string) bool {
	return t == AxisTypeSpace || t == AxisTypeTime || t == AxisTypeChannel
}

// ValidateAxes checks the axis-list rules, in order: axis count in 2-5, axis
// names pairwise distinct, and the type census (2 or 3 space axes which must
// trail the list, at most one time axis, at most one channel axis, at most one
// axis of a custom type). The first failing rule wins.
func ValidateAxes(axes []Axis) error {
	if len(axes) < 2 || len(axes) > 5 {
		return ngff.NewSchemaError(ngff.KindAxisCountOutOfRange, "axes",
			"incorrect number of axes: got %d, only 2, 3, 4 or 5 axes are allowed", len(axes))
	}

	names := make([]string, len(axes))
	for i, ax := range axes {
		names[i] = ax.Name
	}
	if dupes := ngff.Duplicates(names); len(dupes) > 0 {
		// Report the first repeated name in document order.
		for _, name := range names {
			if dupes[name] > 1 {
				return ngff.NewSchemaError(ngff.KindAxisNameDuplicate, "axes",
					"axis names must be unique, name %q is repeated", name)
			}
		}
	}

	return validateAxisTypes(axes)
}

func validateAxisTypes(axes []Axis) error {
	var numSpace, numTime, numChannel, numCustom int
	for _, ax := range axes {
		switch ax.Type {
		case AxisTypeSpace:
			numSpace++
		case AxisTypeTime:
			numTime++
		case AxisTypeChannel:
			numChannel++
		default:
			numCustom++
		}
	}

	if numSpace < 2 || numSpace > 3 {
		return ngff.NewSchemaError(ngff.KindAxisTypeCount, "axes",
			"invalid number of space axes: %d, only 2 or 3 space axes are allowed", numSpace)
	}
	for _, ax := range axes[len(axes)-numSpace:] {
		if ax.Type != AxisTypeSpace {
			return ngff.NewSchemaError(ngff.KindAxisTypeCount, "axes",
				"space axes must come last, got axis order %v", axisTypes(axes))
		}
	}
	if numTime > 1 {
		return ngff.NewSchemaError(ngff.KindAxisTypeCount, "axes",
			"invalid number of time axes: %d, only 1 time axis is allowed", numTime)
	}
	if numChannel > 1 {
		return ngff.NewSchemaError(ngff.KindAxisTypeCount, "axes",
			"invalid number of channel axes: %d, only 1 channel axis is allowed", numChannel)
	}
	if numCustom > 1 {
		return ngff.NewSchemaError(ngff.KindAxisTypeCount, "axes",
			"invalid number of custom axes: %d, only 1 custom axis is allowed", numCustom)
	}
	return nil
}

func axisTypes(axes []Axis) []string {
	types := make([]string, len(axes))
	for i, ax := range axes {
		types[i] = ax.Type
	}
	return types
}
