package v04

import (
	"errors"
	"strings"
	"testing"

	"omezarr/pkg/ngff"
)

func validPlate() Plate {
	return Plate{
		Rows:    []Row{{Name: "A"}, {Name: "B"}},
		Columns: []Column{{Name: "01"}, {Name: "02"}},
		Wells: []WellInPlate{
			{Path: "A/01", RowIndex: 0, ColumnIndex: 0},
			{Path: "B/02", RowIndex: 1, ColumnIndex: 1},
		},
	}
}

func TestPlateValid(t *testing.T) {
	p := validPlate()
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid plate: %v", err)
	}
}

func TestParsePlate(t *testing.T) {
	doc := `{
		"acquisitions": [{"id": 0, "maximumfieldcount": 2}],
		"columns": [{"name": "03"}],
		"rows": [{"name": "B"}],
		"wells": [{"path": "B/03", "rowIndex": 0, "columnIndex": 0}],
		"field_count": 2,
		"version": "0.4"
	}`
	p, err := ParsePlate([]byte(doc))
	if err != nil {
		t.Fatalf("ParsePlate: %v", err)
	}
	if len(p.Acquisitions) != 1 || p.Acquisitions[0].ID != 0 {
		t.Fatalf("unexpected acquisitions: %+v", p.Acquisitions)
	}
	if p.FieldCount == nil || *p.FieldCount != 2 {
		t.Fatalf("unexpected field_count: %v", p.FieldCount)
	}
}

func TestPlateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Plate)
	}{
		{"no rows", func(p *Plate) { p.Rows = nil }},
		{"no columns", func(p *Plate) { p.Columns = nil }},
		{"no wells", func(p *Plate) { p.Wells = nil }},
		{"non-alphanumeric row name", func(p *Plate) { p.Rows[0].Name = "A/1" }},
		{"duplicate row names", func(p *Plate) { p.Rows[1].Name = "A" }},
		{"duplicate column names", func(p *Plate) { p.Columns[1].Name = "01" }},
		{"rowIndex out of range", func(p *Plate) { p.Wells[0].RowIndex = 5 }},
		{"columnIndex out of range", func(p *Plate) { p.Wells[0].ColumnIndex = 5 }},
		{"path contradicts indices", func(p *Plate) { p.Wells[0].Path = "B/01" }},
		{"negative acquisition id", func(p *Plate) {
			p.Acquisitions = []Acquisition{{ID: -1}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPlate()
			tc.mutate(&p)
			err := p.Validate()
			if ngff.KindOf(err) != ngff.KindFieldInvalid {
				t.Fatalf("expected field-invalid, got %v", err)
			}
		})
	}
}

func TestPlateReportsFirstDuplicateRowName(t *testing.T) {
	p := validPlate()
	p.Rows = []Row{{Name: "Z"}, {Name: "Z"}, {Name: "A"}, {Name: "A"}}
	for i := 0; i < 10; i++ {
		err := p.Validate()
		if ngff.KindOf(err) != ngff.KindFieldInvalid {
			t.Fatalf("expected field-invalid, got %v", err)
		}
		if !strings.Contains(err.Error(), `"Z"`) {
			t.Fatalf("expected the first repeated name to be reported: %v", err)
		}
	}
}

func TestPlateWellPathMessageNamesExpectedPath(t *testing.T) {
	p := validPlate()
	p.Wells[1].Path = "A/02"
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	var se *ngff.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Field != "wells[1]" {
		t.Fatalf("field = %q, want wells[1]", se.Field)
	}
}
