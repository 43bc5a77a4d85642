package v04

import "path"

// ChildKind distinguishes array children from subgroup children.
type ChildKind string

// Child node kinds.
const (
	ChildArray ChildKind = "array"
	ChildGroup ChildKind = "group"
)

// Child mirrors one node of the store hierarchy beneath a group: an array
// with a declared shape, or a subgroup with its own children.
type Child struct {
	Kind     ChildKind
	Shape    []int            // arrays only
	Children map[string]Child // groups only
}

// ArrayChild builds an array child with the given shape.
func ArrayChild(shape ...int) Child {
	return Child{Kind: ChildArray, Shape: shape}
}

// GroupChild builds a subgroup child.
func GroupChild(children map[string]Child) Child {
	return Child{Kind: ChildGroup, Children: children}
}

// flattenChildren collapses a nested children mapping into a single-level
// path-to-node mapping with slash-separated keys. Groups appear in the result
// alongside their descendants. Computed once per validation; read-only after.
func flattenChildren(children map[string]Child) map[string]Child {
	flat := map[string]Child{}
	var walk func(prefix string, nodes map[string]Child)
	walk = func(prefix string, nodes map[string]Child) {
		for name, node := range nodes {
			p := name
			if prefix != "" {
				p = prefix + "/" + name
			}
			flat[p] = node
			if node.Kind == ChildGroup {
				walk(p, node.Children)
			}
		}
	}
	walk("", children)
	return flat
}

// normalizeChildPath cleans a dataset path for child lookup.
func normalizeChildPath(p string) string {
	clean := path.Clean(p)
	if clean == "." || clean == "/" {
		return ""
	}
	return clean
}
