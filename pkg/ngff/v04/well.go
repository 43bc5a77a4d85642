package v04

import (
	"context"
	"encoding/json"
	"sort"

	"omezarr/pkg/ngff"
	"omezarr/pkg/zarr"
)

// WellImage references one field-of-view image inside a well, optionally tied
// to an acquisition.
type WellImage struct {
	Path        string `json:"path" validate:"required"`
	Acquisition *int   `json:"acquisition,omitempty"`
}

// Well describes the images of one well in a high-content-screening plate.
type Well struct {
	Images  []WellImage `json:"images" validate:"required,min=1,dive"`
	Version *string     `json:"version,omitempty"`
}

// Validate applies the declared field constraints.
func (w *Well) Validate() error {
	return validateStruct(w)
}

// AcquisitionPaths groups the image paths by acquisition id, each list in
// document order. Images without an acquisition are skipped.
func (w *Well) AcquisitionPaths() map[int][]string {
	paths := map[int][]string{}
	for _, img := range w.Images {
		if img.Acquisition == nil {
			continue
		}
		paths[*img.Acquisition] = append(paths[*img.Acquisition], img.Path)
	}
	return paths
}

// AcquisitionIDs returns the distinct acquisition ids referenced by the
// well's images, ascending.
func (w *Well) AcquisitionIDs() []int {
	seen := map[int]bool{}
	var ids []int
	for _, img := range w.Images {
		if img.Acquisition != nil && !seen[*img.Acquisition] {
			seen[*img.Acquisition] = true
			ids = append(ids, *img.Acquisition)
		}
	}
	sort.Ints(ids)
	return ids
}

// ParseWell decodes and validates one well record.
func ParseWell(data []byte) (*Well, error) {
	var w Well
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, schemaDecodeError(err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// WellFromGroup constructs and validates a Well from a live store node. A
// node without a well key fails with ngff.ErrNoWellMetadata.
func WellFromGroup(ctx context.Context, g *zarr.Group) (*Well, error) {
	attrs, err := g.Attributes(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := attrs["well"]
	if !ok {
		return nil, ngff.ErrNoWellMetadata
	}
	return ParseWell(raw)
}
