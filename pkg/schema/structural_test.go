package schema

import (
	"strings"
	"testing"

	"github.com/yamlnext/yls/pkg/document"
)

const objectSchema = `{
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"replicas": {"type": "integer"}
	}
}`

func rootOf(t *testing.T, text string) *document.Node {
	t.Helper()
	set := document.Parse(text, document.Options{})
	root := set.Documents[0].Root()
	if root == nil {
		t.Fatalf("no root for %q", text)
	}
	return root
}

func TestStructuralValidValue(t *testing.T) {
	s := NewStructural()
	root := rootOf(t, "name: web\nreplicas: 3\n")
	if got := s.Collect(objectSchema, root); got != nil {
		t.Errorf("diagnostics = %v, want none", got)
	}
}

func TestStructuralMissingRequiredProperty(t *testing.T) {
	s := NewStructural()
	root := rootOf(t, "replicas: 3\n")
	got := s.Collect(objectSchema, root)
	if len(got) == 0 {
		t.Fatal("expected diagnostics for missing required property")
	}
	for _, d := range got {
		if d.Code != document.CodeStructural {
			t.Errorf("code = %q, want %q", d.Code, document.CodeStructural)
		}
		if d.Severity != document.SeverityWarning {
			t.Errorf("severity = %v, want warning", d.Severity)
		}
		// the error is at the document root, so it anchors on the root range
		if d.StartOffset != root.Start {
			t.Errorf("StartOffset = %d, want root start %d", d.StartOffset, root.Start)
		}
	}
}

func TestStructuralAnchorsCauseAtNode(t *testing.T) {
	s := NewStructural()
	text := "name: web\nreplicas: three\n"
	root := rootOf(t, text)
	got := s.Collect(objectSchema, root)
	if len(got) == 0 {
		t.Fatal("expected diagnostics for wrong property type")
	}

	// the cause must anchor at the offending value, not the document root
	valueStart := strings.Index(text, "three")
	found := false
	for _, d := range got {
		if d.StartOffset == valueStart {
			found = true
			if !strings.Contains(d.Message, "/replicas") {
				t.Errorf("message %q does not carry the instance path", d.Message)
			}
		}
	}
	if !found {
		t.Errorf("no diagnostic anchored at offset %d: %v", valueStart, got)
	}
}

func TestStructuralInvalidSchema(t *testing.T) {
	s := NewStructural()
	got := s.Collect("{not json", rootOf(t, "a: 1\n"))
	if len(got) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", got)
	}
	if !strings.Contains(got[0].Message, "invalid schema") {
		t.Errorf("message = %q", got[0].Message)
	}
}

func TestStructuralNilNode(t *testing.T) {
	if got := NewStructural().Collect(objectSchema, nil); got != nil {
		t.Errorf("diagnostics = %v, want none", got)
	}
}

func TestStructuralCachesCompiledSchemas(t *testing.T) {
	s := NewStructural()
	root := rootOf(t, "name: web\n")
	for i := 0; i < 3; i++ {
		if got := s.Collect(objectSchema, root); got != nil {
			t.Fatalf("run %d: diagnostics = %v, want none", i, got)
		}
	}
	if len(s.compiled) != 1 {
		t.Errorf("cache size = %d, want 1", len(s.compiled))
	}
}

func TestLocate(t *testing.T) {
	text := "spec:\n  items:\n    - name: a\n    - name: b\n"
	root := rootOf(t, text)

	tests := []struct {
		name     string
		location []string
		wantAt   string
	}{
		{name: "root", location: nil, wantAt: "spec"},
		{name: "mapping key", location: []string{"spec"}, wantAt: "items"},
		{name: "sequence index", location: []string{"spec", "items", "1"}, wantAt: "name: b"},
		{name: "nested through sequence", location: []string{"spec", "items", "0", "name"}, wantAt: "a\n"},
		{name: "missing key stops at ancestor", location: []string{"spec", "nope"}, wantAt: "items"},
		{name: "index out of range stops at sequence", location: []string{"spec", "items", "9"}, wantAt: "- name: a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := locate(root, tt.location)
			if n == nil {
				t.Fatal("locate returned nil")
			}
			want := strings.Index(text, tt.wantAt)
			if n.Start != want {
				t.Errorf("Start = %d, want %d (%q)", n.Start, want, tt.wantAt)
			}
		})
	}
}

func TestDocumentSchemasFacade(t *testing.T) {
	set := document.Parse("name: web\nreplicas: 3\n", document.Options{})
	doc := set.Documents[0]
	root := doc.Root()
	if root == nil {
		t.Fatal("expected a root node")
	}

	if got := doc.Schemas(NewStructural(), objectSchema, root); len(got) != 0 {
		t.Errorf("diagnostics = %v, want none", got)
	}
	if got := doc.Schemas(NewStructural(), `{"type": "array"}`, root); len(got) == 0 {
		t.Error("expected diagnostics for non-array value")
	}
}
