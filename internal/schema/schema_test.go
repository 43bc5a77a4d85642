package schema

import "testing"

func TestValidateImage(t *testing.T) {
	valid := `{
		"multiscales": [{
			"axes": [{"name": "y"}, {"name": "x"}],
			"datasets": [{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]}]
		}]
	}`
	if err := ValidateImage([]byte(valid)); err != nil {
		t.Fatalf("expected valid document: %v", err)
	}

	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing multiscales", `{"omero": {}}`},
		{"empty multiscales", `{"multiscales": []}`},
		{"dataset without transformations", `{"multiscales": [{"axes": [{"name": "y"}, {"name": "x"}], "datasets": [{"path": "0"}]}]}`},
		{"unknown transform type", `{"multiscales": [{"axes": [{"name": "y"}, {"name": "x"}], "datasets": [{"path": "0", "coordinateTransformations": [{"type": "rotation"}]}]}]}`},
		{"six axes", `{"multiscales": [{"axes": [{"name": "a"}, {"name": "b"}, {"name": "c"}, {"name": "d"}, {"name": "e"}, {"name": "f"}], "datasets": [{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1]}]}]}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateImage([]byte(tc.doc)); err == nil {
				t.Fatal("expected schema violation")
			}
		})
	}
}

func TestValidateWell(t *testing.T) {
	valid := `{"well": {"images": [{"path": "0", "acquisition": 1}], "version": "0.4"}}`
	if err := ValidateWell([]byte(valid)); err != nil {
		t.Fatalf("expected valid document: %v", err)
	}
	for _, doc := range []string{
		`{"well": {"images": []}}`,
		`{"well": {}}`,
		`{"well": {"images": [{"acquisition": 1}]}}`,
		`{}`,
	} {
		if err := ValidateWell([]byte(doc)); err == nil {
			t.Fatalf("expected schema violation for %s", doc)
		}
	}
}

func TestValidatePlate(t *testing.T) {
	valid := `{
		"plate": {
			"acquisitions": [{"id": 0}],
			"columns": [{"name": "03"}],
			"rows": [{"name": "B"}],
			"wells": [{"path": "B/03", "rowIndex": 0, "columnIndex": 0}]
		}
	}`
	if err := ValidatePlate([]byte(valid)); err != nil {
		t.Fatalf("expected valid document: %v", err)
	}
	for _, doc := range []string{
		`{"plate": {"columns": [], "rows": [{"name": "B"}], "wells": [{"path": "B/03", "rowIndex": 0, "columnIndex": 0}]}}`,
		`{"plate": {"columns": [{"name": "03"}], "rows": [{"name": "B!"}], "wells": [{"path": "B/03", "rowIndex": 0, "columnIndex": 0}]}}`,
		`{"plate": {"columns": [{"name": "03"}], "rows": [{"name": "B"}], "wells": [{"path": "B/03", "rowIndex": -1, "columnIndex": 0}]}}`,
		`{"plate": {"columns": [{"name": "03"}], "rows": [{"name": "B"}], "wells": [{"path": "B/03"}]}}`,
	} {
		if err := ValidatePlate([]byte(doc)); err == nil {
			t.Fatalf("expected schema violation for %s", doc)
		}
	}
}
