package v04

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"omezarr/internal/infra/store/fs"
	"omezarr/internal/infra/store/memory"
	"omezarr/internal/infra/store/sqlite"
	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

func imageAttrs2D(t *testing.T) ImageAttrs {
	t.Helper()
	return ImageAttrs{Multiscales: []Multiscale{validMultiscale2D(t)}}
}

func TestNewImageValid(t *testing.T) {
	img, err := NewImage(imageAttrs2D(t), map[string]Child{
		"0": ArrayChild(100, 100),
		"1": ArrayChild(50, 50),
	})
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	if len(img.Attrs.Multiscales) != 1 {
		t.Fatalf("unexpected attrs: %+v", img.Attrs)
	}
}

func TestNewImageMissingDatasetChild(t *testing.T) {
	_, err := NewImage(imageAttrs2D(t), map[string]Child{
		"0": ArrayChild(100, 100),
	})
	if ngff.KindOf(err) != ngff.KindMissingArray {
		t.Fatalf("expected missing-array, got %v", err)
	}
	if !strings.Contains(err.Error(), `"1"`) {
		t.Fatalf("error should name the missing path: %v", err)
	}
}

func TestNewImageDatasetIsSubgroup(t *testing.T) {
	_, err := NewImage(imageAttrs2D(t), map[string]Child{
		"0": ArrayChild(100, 100),
		"1": GroupChild(nil),
	})
	if ngff.KindOf(err) != ngff.KindWrongNodeKind {
		t.Fatalf("expected wrong-node-kind, got %v", err)
	}
}

func TestNewImageShapeRankMismatch(t *testing.T) {
	_, err := NewImage(imageAttrs2D(t), map[string]Child{
		"0": ArrayChild(100, 100),
		"1": ArrayChild(10, 50, 50),
	})
	if ngff.KindOf(err) != ngff.KindDimensionalityMismatch {
		t.Fatalf("expected dimensionality-mismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "multiscales[0].datasets[1]") {
		t.Fatalf("error should locate the dataset: %v", err)
	}
}

func TestNewImageNestedDatasetPath(t *testing.T) {
	attrs := imageAttrs2D(t)
	attrs.Multiscales[0].Datasets[0].Path = "levels/0"
	attrs.Multiscales[0].Datasets[1].Path = "levels/1"
	_, err := NewImage(attrs, map[string]Child{
		"levels": GroupChild(map[string]Child{
			"0": ArrayChild(100, 100),
			"1": ArrayChild(50, 50),
		}),
	})
	if err != nil {
		t.Fatalf("nested dataset paths should resolve: %v", err)
	}
}

func TestNewImageRequiresMultiscales(t *testing.T) {
	_, err := NewImage(ImageAttrs{}, nil)
	if ngff.KindOf(err) != ngff.KindWrongArity {
		t.Fatalf("expected wrong-arity, got %v", err)
	}
}

func TestParseImageAttrs(t *testing.T) {
	doc := `{
		"multiscales": [{
			"axes": [
				{"name": "y", "type": "space"},
				{"name": "x", "type": "space"}
			],
			"datasets": [
				{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]}
			]
		}],
		"omero": {"channels": [{"color": "FF0000", "window": {"min": 0, "max": 255, "start": 0, "end": 255}}]}
	}`
	attrs, err := ParseImageAttrs([]byte(doc))
	if err != nil {
		t.Fatalf("ParseImageAttrs: %v", err)
	}
	if len(attrs.Multiscales) != 1 || attrs.Omero == nil {
		t.Fatalf("unexpected attrs: %+v", attrs)
	}
}

func TestParseImageAttrsInvalidOmeroChannel(t *testing.T) {
	doc := `{
		"multiscales": [{
			"axes": [
				{"name": "y", "type": "space"},
				{"name": "x", "type": "space"}
			],
			"datasets": [
				{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]}
			]
		}],
		"omero": {"channels": [{"color": "red", "window": {"start": 0, "end": 255}}]}
	}`
	_, err := ParseImageAttrs([]byte(doc))
	if ngff.KindOf(err) != ngff.KindFieldInvalid {
		t.Fatalf("expected field-invalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "omero") {
		t.Fatalf("error should locate the omero block: %v", err)
	}
}

func TestImageValidateChecksOmero(t *testing.T) {
	attrs := imageAttrs2D(t)
	attrs.Omero = &Omero{Channels: []OmeroChannel{{Color: "not-hex"}}}
	_, err := NewImage(attrs, map[string]Child{
		"0": ArrayChild(100, 100),
		"1": ArrayChild(50, 50),
	})
	if ngff.KindOf(err) != ngff.KindFieldInvalid {
		t.Fatalf("expected field-invalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "omero") {
		t.Fatalf("error should locate the omero block: %v", err)
	}
}

func TestParseImageAttrsNoMultiscalesKey(t *testing.T) {
	_, err := ParseImageAttrs([]byte(`{"labels": ["a"]}`))
	if !errors.Is(err, ngff.ErrNoMultiscaleMetadata) {
		t.Fatalf("expected ErrNoMultiscaleMetadata, got %v", err)
	}
}

func TestParseImageAttrsMalformedMultiscale(t *testing.T) {
	doc := `{"multiscales": [{"axes": [{"name": "x", "type": "space"}], "datasets": [{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1]}]}]}]}`
	err := func() error { _, err := ParseImageAttrs([]byte(doc)); return err }()
	if ngff.KindOf(err) != ngff.KindAxisCountOutOfRange {
		t.Fatalf("expected axis-count-out-of-range, got %v", err)
	}
	if !strings.Contains(err.Error(), "multiscales[0]") {
		t.Fatalf("error should locate the record: %v", err)
	}
}

// seedImageStore writes a well-formed two-level image under prefix.
func seedImageStore(st *memory.Store, prefix string) {
	key := func(k string) string {
		if prefix == "" {
			return k
		}
		return prefix + "/" + k
	}
	st.PutJSON(key(".zgroup"), `{"zarr_format": 2}`)
	st.PutJSON(key(".zattrs"), `{
		"multiscales": [{
			"version": "0.4",
			"axes": [
				{"name": "y", "type": "space", "unit": "micrometer"},
				{"name": "x", "type": "space", "unit": "micrometer"}
			],
			"datasets": [
				{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]},
				{"path": "1", "coordinateTransformations": [{"type": "scale", "scale": [2, 2]}]}
			]
		}]
	}`)
	st.PutJSON(key("0/.zarray"), `{
		"zarr_format": 2, "shape": [100, 100], "chunks": [50, 50], "dtype": "<u2",
		"compressor": null, "fill_value": 0, "order": "C", "filters": null
	}`)
	st.PutJSON(key("1/.zarray"), `{
		"zarr_format": 2, "shape": [50, 50], "chunks": [50, 50], "dtype": "<u2",
		"compressor": null, "fill_value": 0, "order": "C", "filters": null
	}`)
}

func TestImageFromStore(t *testing.T) {
	st := memory.New()
	seedImageStore(st, "")
	img, err := ImageFromStore(context.Background(), st, "")
	if err != nil {
		t.Fatalf("ImageFromStore: %v", err)
	}
	child, ok := img.Children["0"]
	if !ok || child.Kind != ChildArray {
		t.Fatalf("children not discovered: %+v", img.Children)
	}
	if len(child.Shape) != 2 || child.Shape[0] != 100 {
		t.Fatalf("unexpected shape: %v", child.Shape)
	}
}

func TestImageFromStoreSubgroupNode(t *testing.T) {
	st := memory.New()
	st.PutJSON(".zgroup", `{"zarr_format": 2}`)
	seedImageStore(st, "series0")
	img, err := ImageFromStore(context.Background(), st, "series0")
	if err != nil {
		t.Fatalf("ImageFromStore: %v", err)
	}
	if len(img.Attrs.Multiscales) != 1 {
		t.Fatalf("unexpected attrs: %+v", img.Attrs)
	}
}

func TestImageFromStoreMissingArray(t *testing.T) {
	st := memory.New()
	seedImageStore(st, "")
	// Drop the second level by rewriting attributes to reference a path
	// without backing metadata.
	st.PutJSON(".zattrs", `{
		"multiscales": [{
			"axes": [{"name": "y", "type": "space"}, {"name": "x", "type": "space"}],
			"datasets": [
				{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]},
				{"path": "missing", "coordinateTransformations": [{"type": "scale", "scale": [2, 2]}]}
			]
		}]
	}`)
	_, err := ImageFromStore(context.Background(), st, "")
	if ngff.KindOf(err) != ngff.KindMissingArray {
		t.Fatalf("expected missing-array, got %v", err)
	}
	if !strings.Contains(err.Error(), `"missing"`) {
		t.Fatalf("error should name the path: %v", err)
	}
}

func TestImageFromStoreDatasetIsGroup(t *testing.T) {
	st := memory.New()
	st.PutJSON(".zgroup", `{"zarr_format": 2}`)
	st.PutJSON(".zattrs", `{
		"multiscales": [{
			"axes": [{"name": "y", "type": "space"}, {"name": "x", "type": "space"}],
			"datasets": [
				{"path": "0", "coordinateTransformations": [{"type": "scale", "scale": [1, 1]}]}
			]
		}]
	}`)
	st.PutJSON("0/.zgroup", `{"zarr_format": 2}`)
	_, err := ImageFromStore(context.Background(), st, "")
	if ngff.KindOf(err) != ngff.KindWrongNodeKind {
		t.Fatalf("expected wrong-node-kind, got %v", err)
	}
}

func TestImageFromStoreRankMismatch(t *testing.T) {
	st := memory.New()
	seedImageStore(st, "")
	st.PutJSON("1/.zarray", `{
		"zarr_format": 2, "shape": [10, 50, 50], "chunks": [10, 50, 50], "dtype": "<u2",
		"compressor": null, "fill_value": 0, "order": "C", "filters": null
	}`)
	_, err := ImageFromStore(context.Background(), st, "")
	if ngff.KindOf(err) != ngff.KindDimensionalityMismatch {
		t.Fatalf("expected dimensionality-mismatch, got %v", err)
	}
}

func TestImageFromStoreNoMetadata(t *testing.T) {
	st := memory.New()
	st.PutJSON(".zgroup", `{"zarr_format": 2}`)
	_, err := ImageFromStore(context.Background(), st, "")
	if !errors.Is(err, ngff.ErrNoMultiscaleMetadata) {
		t.Fatalf("expected ErrNoMultiscaleMetadata, got %v", err)
	}
}

func TestImageFromStoreNoGroupNode(t *testing.T) {
	st := memory.New()
	_, err := ImageFromStore(context.Background(), st, "")
	if !errors.Is(err, zarr.ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

// Discovery is backend-agnostic: the same hierarchy validates identically over
// the filesystem and sqlite drivers.
func TestImageFromStoreOtherBackends(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	seedImageStore(mem, "")

	root := t.TempDir()
	fsBacked, err := fs.New(root)
	if err != nil {
		t.Fatalf("fs.New: %v", err)
	}
	dbBacked, err := sqlite.New(filepath.Join(t.TempDir(), "image.db"))
	if err != nil {
		t.Fatalf("sqlite.New: %v", err)
	}
	defer func() { _ = dbBacked.Close() }()

	for _, key := range []string{".zgroup", ".zattrs", "0/.zarray", "1/.zarray"} {
		data, err := mem.Get(ctx, key)
		if err != nil {
			t.Fatalf("fixture %q: %v", key, err)
		}
		p := filepath.Join(root, filepath.FromSlash(key))
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, data, 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := dbBacked.Put(ctx, key, data); err != nil {
			t.Fatalf("sqlite put: %v", err)
		}
	}

	for _, st := range []zarr.Store{fsBacked, dbBacked} {
		img, err := ImageFromStore(ctx, st, "")
		if err != nil {
			t.Fatalf("driver %s: %v", st.Driver(), err)
		}
		if len(img.Children) != 2 {
			t.Fatalf("driver %s: children = %+v", st.Driver(), img.Children)
		}
	}
}
