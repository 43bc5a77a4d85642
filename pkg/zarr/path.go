package zarr

import (
	"fmt"
	"path"
	"strings"
)

// Zarr v2 metadata document names.
const (
	groupMetaKey = ".zgroup"
	arrayMetaKey = ".zarray"
	attrsKey     = ".zattrs"
)

// cleanRelPath normalizes a slash-separated relative path. Absolute paths and
// traversal outside the current node are rejected.
func cleanRelPath(rel string) (string, error) {
	if strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("%w: absolute path %q", ErrInvalidPath, rel)
	}
	clean := path.Clean(rel)
	if clean == "." {
		return "", nil
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: path %q escapes the node", ErrInvalidPath, rel)
	}
	return clean, nil
}

// joinNodePath joins a node path with a cleaned relative path. Node paths are
// slash-separated with no leading or trailing slash; the root node is "".
func joinNodePath(base, rel string) string {
	switch {
	case base == "":
		return rel
	case rel == "":
		return base
	default:
		return base + "/" + rel
	}
}

// metaKey returns the store key of a metadata document at a node path.
func metaKey(nodePath, doc string) string {
	return joinNodePath(nodePath, doc)
}
