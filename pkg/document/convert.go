package document

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
)

// converter builds the uniform node tree from a native goccy document. The
// produced ranges are properly nested: every child range is contained in
// its parent's range, which the position index relies on for pruning.
type converter struct {
	doc *Document
}

// convert transforms the body of a native document node. The returned root
// is nil for documents with no content.
func (c *converter) convert(body ast.Node) *Node {
	root := c.convertNode(body)
	if root != nil {
		c.index(root, nil)
	}
	return root
}

// index records the child-to-parent relation for the subtree. The parent
// link is a lookup relation only; nodes never own their parents.
func (c *converter) index(n *Node, parent *Node) {
	n.doc = c.doc
	if parent != nil {
		c.doc.parents[n] = parent
	}
	for _, child := range n.Children {
		c.index(child, n)
	}
}

func (c *converter) convertNode(n ast.Node) *Node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.MappingNode:
		return c.convertMapping(v)
	case *ast.MappingValueNode:
		// A single bare key/value pair parses as a MappingValueNode; wrap it
		// in a container so every entry has a mapping parent.
		container := &Node{Kind: KindMappingContainer}
		if entry := c.convertEntry(v); entry != nil {
			container.Children = append(container.Children, entry)
			c.growRange(container, entry)
		}
		c.attachComments(container, n)
		return container
	case *ast.SequenceNode:
		return c.convertSequence(v)
	case *ast.AnchorNode:
		// The anchor declaration is transparent; the value is the node.
		return c.convertNode(v.Value)
	case *ast.AliasNode:
		node := &Node{Kind: KindAnchorRef}
		c.setTokenRange(node, n.GetToken())
		c.attachComments(node, n)
		return node
	case *ast.TagNode:
		return c.convertNode(v.Value)
	default:
		return c.convertScalar(n)
	}
}

func (c *converter) convertMapping(m *ast.MappingNode) *Node {
	container := &Node{Kind: KindMappingContainer}
	for _, value := range m.Values {
		entry := c.convertEntry(value)
		if entry == nil {
			continue
		}
		container.Children = append(container.Children, entry)
		c.growRange(container, entry)
	}
	c.attachComments(container, m)
	return container
}

// convertEntry builds the key/value pairing for one mapping entry. The
// entry range runs from the key token to the end of the value.
func (c *converter) convertEntry(v *ast.MappingValueNode) *Node {
	if v == nil || v.Key == nil {
		return nil
	}
	entry := &Node{
		Kind: KindMapping,
		Key:  nodeStringValue(v.Key),
	}
	c.setTokenRange(entry, v.Key.GetToken())
	if value := c.convertNode(v.Value); value != nil {
		entry.Children = append(entry.Children, value)
		c.growRange(entry, value)
	}
	c.attachComments(entry, v)
	return entry
}

func (c *converter) convertSequence(s *ast.SequenceNode) *Node {
	seq := &Node{Kind: KindSequence}
	c.setTokenRange(seq, s.GetToken())
	for _, value := range s.Values {
		item := c.convertNode(value)
		if item == nil {
			continue
		}
		seq.Children = append(seq.Children, item)
		c.growRange(seq, item)
	}
	c.attachComments(seq, s)
	return seq
}

func (c *converter) convertScalar(n ast.Node) *Node {
	scalar := &Node{Kind: KindScalar, Value: scalarValue(n)}
	c.setTokenRange(scalar, n.GetToken())
	c.attachComments(scalar, n)
	return scalar
}

// setTokenRange assigns the node range from its token position, resolved
// against the document line index.
func (c *converter) setTokenRange(n *Node, tok *token.Token) {
	if tok == nil || tok.Position == nil {
		return
	}
	start := c.doc.OffsetAt(tok.Position.Line, tok.Position.Column)
	if start < 0 {
		return
	}
	n.Start = start
	n.End = start + len(tok.Value)
	n.hasRange = true
}

// growRange widens a container range to cover a child, keeping the nesting
// invariant.
func (c *converter) growRange(parent, child *Node) {
	if !child.hasRange {
		for _, grandchild := range child.Children {
			c.growRange(parent, grandchild)
		}
		return
	}
	if !parent.hasRange {
		parent.Start = child.Start
		parent.End = child.End
		parent.hasRange = true
		return
	}
	if child.Start < parent.Start {
		parent.Start = child.Start
	}
	if child.End > parent.End {
		parent.End = child.End
	}
}

// attachComments captures the comment group goccy associated with the
// native node, splitting it into a leading block and a trailing inline
// comment by line position.
func (c *converter) attachComments(n *Node, src ast.Node) {
	if src == nil {
		return
	}
	group := src.GetComment()
	if group == nil {
		return
	}
	nodeLine := 0
	if tok := src.GetToken(); tok != nil && tok.Position != nil {
		nodeLine = tok.Position.Line
	}
	for _, comment := range group.Comments {
		if comment == nil || comment.Token == nil {
			continue
		}
		text := commentMarker + strings.TrimSpace(comment.Token.Value)
		if comment.Token.Position != nil && nodeLine != 0 && comment.Token.Position.Line == nodeLine {
			n.lineComment = text
		} else {
			n.leadComments = append(n.leadComments, text)
		}
	}
}

// nodeStringValue renders a mapping key as its string form.
func nodeStringValue(n ast.Node) string {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value
	case *ast.LiteralNode:
		if v.Value != nil {
			return v.Value.Value
		}
		return ""
	case *ast.IntegerNode:
		return fmt.Sprintf("%d", v.Value)
	case *ast.FloatNode:
		return fmt.Sprintf("%g", v.Value)
	case *ast.BoolNode:
		return fmt.Sprintf("%t", v.Value)
	case *ast.NullNode:
		return "null"
	default:
		if tok := n.GetToken(); tok != nil {
			return tok.Value
		}
		return ""
	}
}

// scalarValue decodes a native scalar node into its Go payload. Unknown
// node shapes decode to their raw token text.
func scalarValue(n ast.Node) any {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value
	case *ast.LiteralNode:
		if v.Value != nil {
			return v.Value.Value
		}
		return ""
	case *ast.IntegerNode:
		return v.Value
	case *ast.FloatNode:
		return v.Value
	case *ast.BoolNode:
		return v.Value
	case *ast.NullNode:
		return nil
	case *ast.InfinityNode:
		return v.Value
	case *ast.NanNode:
		return v.GetToken().Value
	default:
		if tok := n.GetToken(); tok != nil {
			return tok.Value
		}
		return nil
	}
}
