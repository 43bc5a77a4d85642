package zarr

import "encoding/json"

// ArrayMeta models a Zarr v2 .zarray document. Compressor, fill value and
// filters are kept raw: this package interprets shapes, not codecs. The three
// are required keys in the v2 format and marshal as null when unset.
type ArrayMeta struct {
	Shape              []int           `json:"shape"`
	Chunks             []int           `json:"chunks"`
	DType              string          `json:"dtype"`
	Compressor         json.RawMessage `json:"compressor"`
	FillValue          json.RawMessage `json:"fill_value"`
	Order              string          `json:"order"`
	Filters            json.RawMessage `json:"filters"`
	DimensionSeparator string          `json:"dimension_separator,omitempty"`
	ZarrFormat         int             `json:"zarr_format"`
}

// GroupMeta models a Zarr v2 .zgroup document.
type GroupMeta struct {
	ZarrFormat int `json:"zarr_format"`
}
