package v04

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"omezarr/internal/infra/store/memory"
	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

func TestParseWell(t *testing.T) {
	doc := `{
		"images": [
			{"acquisition": 1, "path": "0"},
			{"acquisition": 1, "path": "1"},
			{"acquisition": 2, "path": "2"},
			{"acquisition": 2, "path": "3"}
		],
		"version": "0.4"
	}`
	w, err := ParseWell([]byte(doc))
	if err != nil {
		t.Fatalf("ParseWell: %v", err)
	}
	if len(w.Images) != 4 {
		t.Fatalf("got %d images, want 4", len(w.Images))
	}
	wantPaths := map[int][]string{1: {"0", "1"}, 2: {"2", "3"}}
	if got := w.AcquisitionPaths(); !reflect.DeepEqual(got, wantPaths) {
		t.Fatalf("AcquisitionPaths = %v, want %v", got, wantPaths)
	}
	if got := w.AcquisitionIDs(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("AcquisitionIDs = %v, want [1 2]", got)
	}
}

func TestParseWellWithoutAcquisitions(t *testing.T) {
	w, err := ParseWell([]byte(`{"images": [{"path": "0"}]}`))
	if err != nil {
		t.Fatalf("ParseWell: %v", err)
	}
	if len(w.AcquisitionPaths()) != 0 {
		t.Fatal("images without acquisitions must not be grouped")
	}
	if len(w.AcquisitionIDs()) != 0 {
		t.Fatal("expected no acquisition ids")
	}
}

func TestParseWellRejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"no images", `{"images": []}`},
		{"missing images", `{"version": "0.4"}`},
		{"image without path", `{"images": [{"acquisition": 1}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseWell([]byte(tc.doc))
			if ngff.KindOf(err) != ngff.KindFieldInvalid {
				t.Fatalf("expected field-invalid, got %v", err)
			}
		})
	}
}

func TestWellFromStore(t *testing.T) {
	st := memory.New()
	st.PutJSON(".zgroup", `{"zarr_format": 2}`)
	st.PutJSON("B/03/.zgroup", `{"zarr_format": 2}`)
	st.PutJSON("B/03/.zattrs", `{"well": {"images": [{"path": "0", "acquisition": 0}], "version": "0.4"}}`)
	g, err := zarr.OpenGroup(context.Background(), st, "B/03")
	if err != nil {
		t.Fatalf("OpenGroup: %v", err)
	}
	w, err := WellFromGroup(context.Background(), g)
	if err != nil {
		t.Fatalf("WellFromGroup: %v", err)
	}
	if len(w.Images) != 1 || w.Images[0].Path != "0" || *w.Images[0].Acquisition != 0 {
		t.Fatalf("unexpected well: %+v", w)
	}
}

func TestWellFromStoreNoMetadata(t *testing.T) {
	st := memory.New()
	st.PutJSON(".zgroup", `{"zarr_format": 2}`)
	g, err := zarr.OpenGroup(context.Background(), st, "")
	if err != nil {
		t.Fatalf("OpenGroup: %v", err)
	}
	_, err = WellFromGroup(context.Background(), g)
	if !errors.Is(err, ngff.ErrNoWellMetadata) {
		t.Fatalf("expected ErrNoWellMetadata, got %v", err)
	}
}
