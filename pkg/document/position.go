package document

import "strings"

// NodeAt resolves a byte offset to the most relevant AST node. The second
// result reports whether the offset sits on a whitespace-only line, in
// which case the caller is completing into empty space and the returned
// node is the best insertion anchor rather than a containing node.
//
// Resolution order:
//  1. blank line: closest-node search, adjusted to the cursor indentation
//  2. otherwise the innermost node whose range contains the offset
//  3. no containing node: closest-node search with the same adjustment
func (d *Document) NodeAt(offset int) (*Node, bool) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.src) {
		offset = len(d.src)
	}
	blank := d.isBlankLine(offset)
	if d.root == nil {
		return nil, blank
	}
	if !blank {
		if n := d.containingNode(offset); n != nil {
			return n, false
		}
	}
	return d.adjustForIndent(d.closestNode(offset), offset), blank
}

// containingNode returns the innermost node whose range contains the
// offset. The traversal is pre-order with subtree pruning: a node that
// does not contain the offset cannot have a child that does, because
// ranges are properly nested. Ancestors are visited before descendants,
// so the last assignment wins as the innermost match.
func (d *Document) containingNode(offset int) *Node {
	var best *Node
	d.root.Walk(func(n *Node) bool {
		if !n.hasRange {
			// A range-less wrapper cannot be pruned on range grounds.
			return true
		}
		if !n.Contains(offset) {
			return false
		}
		best = n
		return true
	})
	return best
}

// closestNode scans every ranged node and keeps the one whose end offset
// is nearest to the target, breaking ties toward the largest start offset
// (the most recently opened candidate).
func (d *Document) closestNode(offset int) *Node {
	var best *Node
	bestDist := 0
	d.root.Walk(func(n *Node) bool {
		if n.hasRange {
			dist := n.End - offset
			if dist < 0 {
				dist = -dist
			}
			if best == nil || dist < bestDist || (dist == bestDist && n.Start > best.Start) {
				best = n
				bestDist = dist
			}
		}
		return true
	})
	return best
}

// adjustForIndent maps a fallback candidate to the ancestor matching the
// cursor line's indentation column. A scalar holding an explicit null is
// returned as-is: the empty value slot is itself the insertion point.
// Range-less wrappers are skipped up to their parent without a column
// check. When no ancestor matches, the document root is the answer.
func (d *Document) adjustForIndent(n *Node, offset int) *Node {
	if n == nil {
		return d.root
	}
	if n.Kind == KindScalar && n.Value == nil {
		return n
	}
	line, _ := d.PositionFor(offset)
	indent := d.indentColumn(line, offset)
	for cur := n; cur != nil; cur = cur.Parent() {
		if !cur.hasRange {
			continue
		}
		if cur.StartColumn() == indent {
			return cur
		}
	}
	return d.root
}

// isBlankLine reports whether the line containing the offset is
// whitespace-only.
func (d *Document) isBlankLine(offset int) bool {
	line, _ := d.PositionFor(offset)
	return strings.TrimSpace(d.lineText(line)) == ""
}

// indentColumn returns the 1-based column of the first non-whitespace
// character of the line, or the cursor column when the line is blank.
func (d *Document) indentColumn(line, offset int) int {
	text := d.lineText(line)
	for i, r := range text {
		if r != ' ' && r != '\t' {
			return i + 1
		}
	}
	_, col := d.PositionFor(offset)
	return col
}
