package document

import "testing"

func TestNodeAtResolvesInnermostNode(t *testing.T) {
	set := Parse("a:\n  b: 1", Options{})
	doc := set.Documents[0]

	// offset 8 is the scalar value under the nested key
	n, blank := doc.NodeAt(8)
	if blank {
		t.Fatal("offset on a content line reported as blank")
	}
	if n == nil {
		t.Fatal("expected a node")
	}
	if n.Kind != KindScalar {
		t.Fatalf("kind = %v, want scalar", n.Kind)
	}
	if n.Start != 8 {
		t.Errorf("Start = %d, want 8", n.Start)
	}
	parent := n.Parent()
	if parent == nil || parent.Kind != KindMapping || parent.Key != "b" {
		t.Errorf("parent of nested scalar should be the entry for b, got %+v", parent)
	}
}

func TestNodeAtKeyResolvesEntry(t *testing.T) {
	set := Parse("a:\n  b: 1", Options{})
	doc := set.Documents[0]

	// offset 0 is the top-level key itself
	n, _ := doc.NodeAt(0)
	if n == nil {
		t.Fatal("expected a node")
	}
	if n.Kind != KindMapping || n.Key != "a" {
		t.Errorf("got kind %v key %q, want the entry for a", n.Kind, n.Key)
	}
}

func TestNodeAtBlankLine(t *testing.T) {
	set := Parse("a: 1\n\nb: 2\n", Options{})
	doc := set.Documents[0]

	// offset 5 sits on the empty middle line
	n, blank := doc.NodeAt(5)
	if !blank {
		t.Fatal("expected blank-line flag")
	}
	if n == nil {
		t.Fatal("expected an insertion anchor on a blank line")
	}
	if n.Kind != KindMapping || n.Key != "a" {
		t.Errorf("anchor = kind %v key %q, want the column-matched entry for a", n.Kind, n.Key)
	}
}

func TestNodeAtNullValue(t *testing.T) {
	set := Parse("key: ~\n", Options{})
	doc := set.Documents[0]

	n, _ := doc.NodeAt(6)
	if n == nil {
		t.Fatal("expected a node")
	}
	if n.Kind != KindScalar || n.Value != nil {
		t.Errorf("expected the empty value slot itself, got kind %v value %v", n.Kind, n.Value)
	}
}

func TestNodeAtTotality(t *testing.T) {
	texts := []string{
		"a: 1\n",
		"a:\n  b: 1\n\n",
		"top:\n  items:\n    - one\n    - two\n",
		"# only a comment\na: 1\n",
	}
	for _, text := range texts {
		set := Parse(text, Options{})
		doc := set.Documents[0]
		for offset := 0; offset <= len(text); offset++ {
			n, _ := doc.NodeAt(offset)
			if n == nil {
				t.Errorf("text %q offset %d: no node resolved", text, offset)
			}
		}
	}
}

func TestNodeAtClampsOutOfRangeOffsets(t *testing.T) {
	set := Parse("a: 1", Options{})
	doc := set.Documents[0]

	for _, offset := range []int{-5, len("a: 1") + 10} {
		if n, _ := doc.NodeAt(offset); n == nil {
			t.Errorf("offset %d: expected clamped resolution, got nil", offset)
		}
	}
}

func TestConvertedRangesAreProperlyNested(t *testing.T) {
	text := "name: web\nspec:\n  replicas: 3\n  ports:\n    - 80\n    - 443\n"
	set := Parse(text, Options{})
	root := set.Documents[0].Root()
	if root == nil {
		t.Fatal("expected a root node")
	}

	var check func(n *Node)
	check = func(n *Node) {
		for _, child := range n.Children {
			if n.hasRange && child.hasRange {
				if child.Start < n.Start || child.End > n.End {
					t.Errorf("child [%d,%d) escapes parent [%d,%d)", child.Start, child.End, n.Start, n.End)
				}
			}
			check(child)
		}
	}
	check(root)
}
