package schema

import (
	"fmt"

	"github.com/yamlnext/yls/pkg/document"
)

// Matcher validates converted AST nodes against a schema graph. The graph
// is an independently shaped tree, so the matcher reconstructs a node's
// schema location from its ancestor key chain: shortcuts for the two
// shallow cases, breadth-first search over candidate key paths below that.
type Matcher struct {
	graph     Graph
	collector *Collector

	// visits counts visited scalar and mapping-container nodes during
	// Check. It approximates the source line of the current node; nodes
	// and physical lines are not always one-to-one.
	visits int
}

// NewMatcher returns a matcher over the given read-only graph. Diagnostics
// accumulate in the collector for the lifetime of one validation run.
func NewMatcher(graph Graph, collector *Collector) *Matcher {
	if collector == nil {
		collector = NewCollector()
	}
	return &Matcher{graph: graph, collector: collector}
}

// Results returns the warnings accumulated so far.
func (m *Matcher) Results() []document.Diagnostic {
	return m.collector.Results()
}

// keyChain builds the node's key path from the document root down to the
// node, one element per mapping entry on the ancestor chain. A scalar
// contributes its parent entry's key; a mapping entry contributes its own.
func keyChain(n *document.Node) []string {
	var keys []string
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind == document.KindMapping {
			keys = append(keys, cur.Key)
		}
	}
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}

// Match returns the schema definitions describing the node's position, or
// nil when the key is not recognized there. Chain length one resolves by
// direct lookup; deeper chains run the breadth-first path search.
func (m *Matcher) Match(n *document.Node) []Definition {
	chain := keyChain(n)
	switch len(chain) {
	case 0:
		return nil
	case 1:
		return m.graph[chain[0]]
	default:
		return m.searchPath(chain)
	}
}

// searchPath walks candidate schema paths breadth-first. The frontier is
// seeded with the top-level ancestor key; a candidate expands to its
// schema-declared children only while its last key lies on the true
// root-to-node path, which prunes every branch off that path. A candidate
// is accepted when it reaches the chain's depth ending in the target key.
//
// Key names stand in for schema positions here, which is only
// unambiguous while the graph never repeats a key name at different
// positions; the first accepted path wins.
func (m *Matcher) searchPath(chain []string) []Definition {
	target := chain[len(chain)-1]
	frontier := [][]string{{chain[0]}}

	for len(frontier) > 0 {
		candidate := frontier[0]
		frontier = frontier[1:]
		last := candidate[len(candidate)-1]

		if len(candidate) == len(chain) {
			if last == target {
				return m.graph[last]
			}
			continue
		}
		if last != chain[len(candidate)-1] {
			continue
		}
		for _, def := range m.graph[last] {
			for _, child := range def.Children {
				next := make([]string, len(candidate), len(candidate)+1)
				copy(next, candidate)
				frontier = append(frontier, append(next, child))
			}
		}
	}
	return nil
}

// compatible reports whether the node's runtime shape satisfies any of the
// matched definitions. Mapping nodes are always compatible: existence of
// the key at this position suffices. Scalars must satisfy some declared
// kind, with numeric values accepted for a declared integer.
func compatible(defs []Definition, n *document.Node) bool {
	if n.Kind != document.KindScalar {
		return true
	}
	actual := ValueKind(n.Value)
	for _, def := range defs {
		if Compatible(def.Type, actual) {
			return true
		}
	}
	return false
}

// Check validates every node of the document. Traversal never
// short-circuits on a diagnostic: a bad key or type is recorded and the
// walk moves on, so results are partial but complete for everything
// reachable. An unrecognized or misplaced key does suppress checks inside
// its own subtree.
func (m *Matcher) Check(doc *document.Document) []document.Diagnostic {
	root := doc.Root()
	if root == nil {
		return m.collector.Results()
	}
	root.Walk(func(n *document.Node) bool {
		switch n.Kind {
		case document.KindScalar:
			m.visits++
			m.checkScalar(n)
			return true
		case document.KindMappingContainer:
			m.visits++
			return true
		case document.KindMapping:
			return m.checkEntry(n)
		default:
			return true
		}
	})
	return m.collector.Results()
}

// checkEntry validates a mapping entry by its own key. Returning false
// prunes the entry's subtree.
func (m *Matcher) checkEntry(n *document.Node) bool {
	if _, ok := m.graph[n.Key]; !ok {
		m.collector.Add(n, document.CodeUnknownKey, fmt.Sprintf("unknown key %q", n.Key), m.visits)
		return false
	}
	if defs := m.Match(n); len(defs) == 0 {
		m.collector.Add(n, document.CodeSchemaMismatch, fmt.Sprintf("key %q is not expected at this position", n.Key), m.visits)
		return false
	}
	return true
}

// checkScalar validates a scalar against the definitions matched through
// its parent entry's key.
func (m *Matcher) checkScalar(n *document.Node) {
	parent := n.Parent()
	if parent == nil || parent.Kind != document.KindMapping {
		return
	}
	defs := m.Match(n)
	if len(defs) == 0 {
		// The parent entry already reported the position mismatch.
		return
	}
	if !compatible(defs, n) {
		m.collector.Add(n, document.CodeTypeMismatch,
			fmt.Sprintf("value of %q has wrong type: got %s", parent.Key, ValueKind(n.Value)), m.visits)
	}
}
