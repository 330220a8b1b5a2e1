package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yamlnext/yls/pkg/document"
)

const testSchema = `
kind:
  - type: string
spec:
  - type: object
    children: [replicas]
replicas:
  - type: integer
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestChecker(t *testing.T, dir string) *Checker {
	t.Helper()
	schemaPath := writeFile(t, dir, "graph.yaml", testSchema)
	checker, err := NewChecker(schemaPath, "", false)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	return checker
}

func TestCheckFileValid(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)
	path := writeFile(t, dir, "ok.yaml", "kind: Pod\nspec:\n  replicas: 3\n")

	res := checker.checkFile(path)
	if res.Err != nil {
		t.Fatalf("checkFile: %v", res.Err)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", res.Diagnostics)
	}
}

func TestCheckFileReportsSchemaWarnings(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)
	path := writeFile(t, dir, "bad.yaml", "kind: Pod\nbogus: 1\n")

	res := checker.checkFile(path)
	if res.Err != nil {
		t.Fatalf("checkFile: %v", res.Err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", res.Diagnostics)
	}
	if res.Diagnostics[0].Code != document.CodeUnknownKey {
		t.Errorf("code = %q, want %q", res.Diagnostics[0].Code, document.CodeUnknownKey)
	}
}

func TestCheckFileReportsParseErrors(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)
	path := writeFile(t, dir, "broken.yaml", "kind: [Pod\n")

	res := checker.checkFile(path)
	if res.Err != nil {
		t.Fatalf("checkFile: %v", res.Err)
	}
	if len(res.Diagnostics) == 0 {
		t.Fatal("expected parse diagnostics")
	}
	if res.Diagnostics[0].Code != document.CodeParse {
		t.Errorf("code = %q, want %q", res.Diagnostics[0].Code, document.CodeParse)
	}
}

func TestCheckFileMissing(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)

	res := checker.checkFile(filepath.Join(dir, "missing.yaml"))
	if res.Err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCheckFilesAggregatesProblems(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)
	good := writeFile(t, dir, "good.yaml", "kind: Pod\n")
	bad := writeFile(t, dir, "bad.yaml", "bogus: 1\n")

	if err := checker.CheckFiles([]string{good}); err != nil {
		t.Errorf("clean file: %v", err)
	}

	err := checker.CheckFiles([]string{good, bad})
	if err == nil {
		t.Fatal("expected an error when a file has problems")
	}
	if !strings.Contains(err.Error(), "1 problems found") {
		t.Errorf("error = %v", err)
	}
}

func TestInvalidateForcesReparse(t *testing.T) {
	dir := t.TempDir()
	checker := newTestChecker(t, dir)
	path := writeFile(t, dir, "f.yaml", "kind: Pod\n")

	if res := checker.checkFile(path); len(res.Diagnostics) != 0 {
		t.Fatalf("diagnostics = %v, want none", res.Diagnostics)
	}

	// simulate the watcher seeing a write that breaks the file
	writeFile(t, dir, "f.yaml", "bogus: 1\n")
	checker.Invalidate(path)

	res := checker.checkFile(path)
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != document.CodeUnknownKey {
		t.Errorf("diagnostics after invalidation = %v, want one unknown-key warning", res.Diagnostics)
	}
}

func TestNewCheckerRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "graph.yaml", "kind:\n  - type: nonsense\n")
	if _, err := NewChecker(schemaPath, "", false); err == nil {
		t.Fatal("expected error for invalid schema graph")
	}
	if _, err := NewChecker(filepath.Join(dir, "absent.yaml"), "", false); err == nil {
		t.Fatal("expected error for missing schema graph")
	}
}

func TestCheckFileStructuralValidation(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "graph.yaml", testSchema)
	jsonSchemaPath := writeFile(t, dir, "schema.json", `{"type": "object", "required": ["kind"]}`)
	checker, err := NewChecker(schemaPath, jsonSchemaPath, false)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}

	ok := writeFile(t, dir, "ok.yaml", "kind: Pod\n")
	if res := checker.checkFile(ok); len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v, want none", res.Diagnostics)
	}

	missing := writeFile(t, dir, "missing.yaml", "spec:\n  replicas: 3\n")
	res := checker.checkFile(missing)
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == document.CodeStructural {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v, want a structural warning for the missing kind", res.Diagnostics)
	}

	if _, err := NewChecker(schemaPath, filepath.Join(dir, "absent.json"), false); err == nil {
		t.Error("expected error for missing JSON schema file")
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "a: 1\n")
	b := writeFile(t, dir, "b.yml", "b: 2\n")
	writeFile(t, dir, "notes.txt", "not yaml\n")

	got, err := ExpandPaths([]string{dir})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("paths = %v, want the two YAML files", got)
	}

	direct, err := ExpandPaths([]string{a, b})
	if err != nil || len(direct) != 2 {
		t.Errorf("direct files: %v, %v", direct, err)
	}

	if _, err := ExpandPaths([]string{filepath.Join(dir, "nope")}); err == nil {
		t.Error("expected error for missing path")
	}

	sub := filepath.Join(dir, "empty")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if _, err := ExpandPaths([]string{sub}); err == nil {
		t.Error("expected error when no YAML files are found")
	}
}

func TestIsYAMLPath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "deploy.yaml", want: true},
		{name: "deploy.yml", want: true},
		{name: "DEPLOY.YAML", want: true},
		{name: "deploy.json", want: false},
		{name: "yaml", want: false},
	}
	for _, tt := range tests {
		if got := isYAMLPath(tt.name); got != tt.want {
			t.Errorf("isYAMLPath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
