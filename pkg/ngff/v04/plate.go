package v04

import (
	"encoding/json"
	"fmt"

	"omezarr/pkg/ngff"
)

// Acquisition describes one acquisition round of a plate.
type Acquisition struct {
	ID                int     `json:"id" validate:"min=0"`
	Name              *string `json:"name,omitempty"`
	MaximumFieldCount *int    `json:"maximumfieldcount,omitempty" validate:"omitempty,min=1"`
	Description       *string `json:"description,omitempty"`
	StartTime         *int64  `json:"starttime,omitempty"`
	EndTime           *int64  `json:"endtime,omitempty"`
}

// Row names one plate row. Names must be alphanumeric so they can serve as
// path components.
type Row struct {
	Name string `json:"name" validate:"required,alphanum"`
}

// Column names one plate column.
type Column struct {
	Name string `json:"name" validate:"required,alphanum"`
}

// WellInPlate locates one well within the plate's row/column tables.
type WellInPlate struct {
	Path        string `json:"path" validate:"required"`
	RowIndex    int    `json:"rowIndex" validate:"min=0"`
	ColumnIndex int    `json:"columnIndex" validate:"min=0"`
}

// Plate describes a high-content-screening plate layout.
type Plate struct {
	Acquisitions []Acquisition `json:"acquisitions,omitempty" validate:"omitempty,dive"`
	Columns      []Column      `json:"columns" validate:"required,min=1,dive"`
	FieldCount   *int          `json:"field_count,omitempty" validate:"omitempty,min=1"`
	Name         *string       `json:"name,omitempty"`
	Rows         []Row         `json:"rows" validate:"required,min=1,dive"`
	Version      *string       `json:"version,omitempty"`
	Wells        []WellInPlate `json:"wells" validate:"required,min=1,dive"`
}

// Validate applies field constraints, then the cross-checks tying every well
// to the row/column tables: indices must be in range, names must be unique,
// and each well path must equal "<row name>/<column name>" for its indices.
func (p *Plate) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}

	rowNames := make([]string, len(p.Rows))
	for i, r := range p.Rows {
		rowNames[i] = r.Name
	}
	if dupes := ngff.Duplicates(rowNames); len(dupes) > 0 {
		// Report the first repeated name in document order.
		for _, name := range rowNames {
			if dupes[name] > 1 {
				return ngff.NewSchemaError(ngff.KindFieldInvalid, "rows",
					"row names must be unique, name %q is repeated", name)
			}
		}
	}
	colNames := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		colNames[i] = c.Name
	}
	if dupes := ngff.Duplicates(colNames); len(dupes) > 0 {
		for _, name := range colNames {
			if dupes[name] > 1 {
				return ngff.NewSchemaError(ngff.KindFieldInvalid, "columns",
					"column names must be unique, name %q is repeated", name)
			}
		}
	}

	for i, w := range p.Wells {
		loc := fmt.Sprintf("wells[%d]", i)
		if w.RowIndex >= len(p.Rows) {
			return ngff.NewSchemaError(ngff.KindFieldInvalid, loc,
				"rowIndex %d out of range, plate has %d rows", w.RowIndex, len(p.Rows))
		}
		if w.ColumnIndex >= len(p.Columns) {
			return ngff.NewSchemaError(ngff.KindFieldInvalid, loc,
				"columnIndex %d out of range, plate has %d columns", w.ColumnIndex, len(p.Columns))
		}
		want := p.Rows[w.RowIndex].Name + "/" + p.Columns[w.ColumnIndex].Name
		if w.Path != want {
			return ngff.NewSchemaError(ngff.KindFieldInvalid, loc,
				"well path %q does not match row/column names, expected %q", w.Path, want)
		}
	}
	return nil
}

// ParsePlate decodes and validates one plate record.
func ParsePlate(data []byte) (*Plate, error) {
	var p Plate
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, schemaDecodeError(err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
