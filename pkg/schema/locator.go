package schema

import (
	"strconv"

	"github.com/yamlnext/yls/pkg/document"
)

// locate resolves a jsonschema instance location against the converted
// node tree, descending one mapping key or sequence index per segment.
// It returns the deepest node reached; an unresolvable segment stops the
// walk there, so errors on missing properties anchor at the nearest
// existing ancestor.
func locate(root *document.Node, location []string) *document.Node {
	cur := root
	for _, segment := range location {
		next := descend(cur, segment)
		if next == nil {
			return cur
		}
		cur = next
	}
	return cur
}

func descend(n *document.Node, segment string) *document.Node {
	switch n.Kind {
	case document.KindMapping:
		// step through the entry to its value
		if len(n.Children) == 1 {
			return descend(n.Children[0], segment)
		}
		return nil
	case document.KindMappingContainer:
		for _, entry := range n.Children {
			if entry.Kind == document.KindMapping && entry.Key == segment {
				if len(entry.Children) == 1 {
					return entry.Children[0]
				}
				return entry
			}
		}
		return nil
	case document.KindSequence:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(n.Children) {
			return nil
		}
		return n.Children[idx]
	default:
		return nil
	}
}
