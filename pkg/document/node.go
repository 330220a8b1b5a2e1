package document

// NodeKind discriminates the uniform AST node shapes produced by conversion
// from the native goccy parse tree.
type NodeKind int

const (
	// KindScalar is a leaf value (string, integer, float, bool, null).
	KindScalar NodeKind = iota
	// KindMapping is a single key/value entry spanning the key token through
	// the end of its value.
	KindMapping
	// KindMappingContainer is the block or flow mapping holding entries.
	KindMappingContainer
	// KindSequence is a block or flow sequence.
	KindSequence
	// KindAnchorRef is an alias referencing a previously anchored node.
	KindAnchorRef
)

func (k NodeKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindMapping:
		return "mapping"
	case KindMappingContainer:
		return "mapping-container"
	case KindSequence:
		return "sequence"
	case KindAnchorRef:
		return "anchor-ref"
	default:
		return "unknown"
	}
}

// Node is one node of the converted AST. Ownership runs root to children
// only; the upward link is resolved through the owning Document's
// child-to-parent index, never stored on the node itself.
type Node struct {
	Kind NodeKind

	// Key is set for KindMapping entries.
	Key string
	// Value is the decoded scalar payload for KindScalar nodes. A nil Value
	// on a scalar represents an explicit or implicit YAML null.
	Value any

	// Start and End delimit the node as a half-open byte range in the
	// document source. hasRange is false for synthetic wrapper nodes.
	Start int
	End   int

	Children []*Node

	hasRange     bool
	leadComments []string
	lineComment  string

	doc *Document
}

// HasRange reports whether the node carries its own source range.
// Synthetic wrappers (key/value pairings) do not.
func (n *Node) HasRange() bool { return n.hasRange }

// Contains reports whether the given byte offset falls inside the node's
// half-open range.
func (n *Node) Contains(offset int) bool {
	return n.hasRange && offset >= n.Start && offset < n.End
}

// Parent returns the node's parent, or nil at the document root. Lookup is
// O(1) through the index built at conversion time.
func (n *Node) Parent() *Node {
	if n.doc == nil {
		return nil
	}
	return n.doc.parents[n]
}

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// StartColumn returns the 1-based column of the node's start offset, or 0
// when the node has no range.
func (n *Node) StartColumn() int {
	if !n.hasRange || n.doc == nil {
		return 0
	}
	_, col := n.doc.PositionFor(n.Start)
	return col
}

// DecodedValue reconstructs the plain Go value for the node's subtree:
// scalars decode to their payload, mapping containers to map[string]any,
// sequences to []any. Anchor references decode to nil since the engine
// does not chase aliases.
func (n *Node) DecodedValue() any {
	switch n.Kind {
	case KindScalar:
		return n.Value
	case KindMapping:
		if len(n.Children) == 1 {
			return n.Children[0].DecodedValue()
		}
		return nil
	case KindMappingContainer:
		out := make(map[string]any, len(n.Children))
		for _, entry := range n.Children {
			if entry.Kind == KindMapping {
				out[entry.Key] = entry.DecodedValue()
			}
		}
		return out
	case KindSequence:
		out := make([]any, 0, len(n.Children))
		for _, item := range n.Children {
			out = append(out, item.DecodedValue())
		}
		return out
	default:
		return nil
	}
}

// Walk visits the node and its subtree in document order. Returning false
// from fn prunes the subtree below the visited node. Walking a nil node is
// a no-op.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
