package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/yamlnext/yls/pkg/console"
	"github.com/yamlnext/yls/pkg/constants"
	"github.com/yamlnext/yls/pkg/document"
	"github.com/yamlnext/yls/pkg/schema"
)

// CheckResult is the outcome of validating one file.
type CheckResult struct {
	Path        string
	Source      string
	Diagnostics []document.Diagnostic
	Err         error
}

// Checker validates YAML files against a schema graph, reusing one
// document cache across runs so unchanged files are not reparsed.
type Checker struct {
	graph   schema.Graph
	cache   *document.Cache
	verbose bool

	// structuralJSON, when set, runs each document root through the full
	// JSON-Schema validator in addition to the graph matcher.
	structuralJSON string
	structural     *schema.Structural

	// versions tracks a per-URI parse generation fed to the cache;
	// bumped when the watcher reports a change.
	mu       sync.Mutex
	versions map[string]int32
}

// NewChecker builds a checker for the given schema graph file. An empty
// jsonSchemaPath disables structural validation.
func NewChecker(schemaPath, jsonSchemaPath string, verbose bool) (*Checker, error) {
	graph, err := schema.LoadGraph(schemaPath)
	if err != nil {
		return nil, err
	}
	c := &Checker{
		graph:    graph,
		cache:    document.NewCache(),
		verbose:  verbose,
		versions: make(map[string]int32),
	}
	if jsonSchemaPath != "" {
		data, err := os.ReadFile(jsonSchemaPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON schema: %w", err)
		}
		c.structuralJSON = string(data)
		c.structural = schema.NewStructural()
	}
	return c, nil
}

// CheckFiles validates the files concurrently and prints diagnostics in
// deterministic path order. It returns an error when any file produced
// diagnostics or failed to read.
func (c *Checker) CheckFiles(paths []string) error {
	spin := console.NewSpinner(fmt.Sprintf("Checking %d files...", len(paths)))
	spin.Start()

	p := pool.NewWithResults[CheckResult]().WithMaxGoroutines(constants.MaxConcurrentChecks)
	for _, path := range paths {
		path := path
		p.Go(func() CheckResult {
			return c.checkFile(path)
		})
	}
	results := p.Wait()
	spin.Stop()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	total := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintln(os.Stderr, console.FormatErrorMessage(res.Err.Error()))
			total++
			continue
		}
		for _, diag := range res.Diagnostics {
			fmt.Print(console.FormatDiagnostic(res.Path, diag, res.Source))
			total++
		}
		if c.verbose && len(res.Diagnostics) == 0 {
			fmt.Println(console.FormatSuccessMessage(res.Path))
		}
	}

	if total > 0 {
		return fmt.Errorf("%d problems found", total)
	}
	if c.verbose {
		fmt.Println(console.FormatSuccessMessage(fmt.Sprintf("%d files checked, no problems", len(paths))))
	}
	return nil
}

// Invalidate bumps the parse generation for a path so the next check
// reparses it even though the URI is unchanged.
func (c *Checker) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[pathURI(path)]++
}

func (c *Checker) version(uri string) int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[uri]
}

// checkFile parses one file through the cache and runs every document of
// the stream through a fresh matcher. Parse errors and schema warnings
// land in the same flat diagnostics slice.
func (c *Checker) checkFile(path string) CheckResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return CheckResult{Path: path, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	text := string(data)

	uri := pathURI(path)
	set := c.cache.Get(uri, text, c.version(uri), document.Options{}, false)

	var diags []document.Diagnostic
	for _, doc := range set.Documents {
		diags = append(diags, doc.Errors()...)
		diags = append(diags, doc.Warnings()...)
		matcher := schema.NewMatcher(c.graph, schema.NewCollector())
		diags = append(diags, matcher.Check(doc)...)
		if c.structural != nil && doc.Root() != nil {
			diags = append(diags, doc.Schemas(c.structural, c.structuralJSON, doc.Root())...)
		}
	}
	return CheckResult{Path: path, Source: text, Diagnostics: diags}
}

// pathURI renders a file path as a file scheme URI for cache keying.
func pathURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + filepath.ToSlash(abs)
}

// ExpandPaths resolves the argument list to YAML files: directories expand
// to the .yaml/.yml files directly inside them.
func ExpandPaths(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isYAMLPath(entry.Name()) {
				out = append(out, filepath.Join(arg, entry.Name()))
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no YAML files to check")
	}
	return out, nil
}

func isYAMLPath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
