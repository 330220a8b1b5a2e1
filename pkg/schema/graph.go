package schema

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is one accepted shape for a key: a declared value kind plus
// the child keys allowed beneath it.
type Definition struct {
	Type     Kind
	Children []string
}

// Graph maps key names to their schema definitions. A graph is read-only
// once built; the matcher never mutates it.
type Graph map[string][]Definition

// graphFile is the on-disk shape of a schema graph. Files are authored in
// YAML (JSON being a subset):
//
//	kind:
//	  - type: string
//	spec:
//	  - type: object
//	    children: [replicas]
type graphFile map[string][]struct {
	Type     string   `yaml:"type"`
	Children []string `yaml:"children"`
}

// LoadGraph reads and parses a schema graph file.
func LoadGraph(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema graph: %w", err)
	}
	graph, err := ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("invalid schema graph %s: %w", path, err)
	}
	return graph, nil
}

// ParseGraph builds a Graph from YAML or JSON bytes.
func ParseGraph(data []byte) (Graph, error) {
	var file graphFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	graph := make(Graph, len(file))
	for key, entries := range file {
		for _, entry := range entries {
			kind, err := ParseKind(entry.Type)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			graph[key] = append(graph[key], Definition{Type: kind, Children: entry.Children})
		}
	}
	return graph, nil
}

// Keys returns the graph's key names in sorted order.
func (g Graph) Keys() []string {
	keys := make([]string, 0, len(g))
	for key := range g {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
