package document

import (
	"strings"
	"sync"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/lexer"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"
)

const commentMarker = "# "

// Options configures parsing. The custom tag list participates in cache
// invalidation and is compared element-wise, never by reference.
type Options struct {
	CustomTags []string
}

// Equal reports whether two option sets parse identically.
func (o Options) Equal(other Options) bool {
	if len(o.CustomTags) != len(other.CustomTags) {
		return false
	}
	for i, tag := range o.CustomTags {
		if other.CustomTags[i] != tag {
			return false
		}
	}
	return true
}

// Set is the result of parsing one text: every document of the stream plus
// the shared token stream.
type Set struct {
	Documents []*Document
	Tokens    token.Tokens
}

// Document wraps one parsed YAML document. A Document is immutable once
// constructed; edits produce a replacement instance through the cache.
type Document struct {
	src     string
	lines   []int // byte offset of each line start
	root    *Node
	native  *ast.DocumentNode
	parents map[*Node]*Node

	issues []parseIssue

	commentsOnce sync.Once
	comments     []string
}

// parseIssue is a raw positional diagnostic captured from the native
// parser, mapped to the uniform Diagnostic shape on each access.
type parseIssue struct {
	line    int
	column  int
	message string
	warning bool
}

// Parse runs the native grammar parser over the text and converts each
// document of the stream. Parse failures are not fatal: they surface as
// diagnostics on a document wrapping the unparsed text.
func Parse(text string, opts Options) *Set {
	set := &Set{Tokens: lexer.Tokenize(text)}

	file, err := parser.ParseBytes([]byte(text), parser.ParseComments)
	if err != nil {
		doc := newDocument(text, nil)
		line, col, msg := extractParseError(err)
		doc.issues = append(doc.issues, parseIssue{line: line, column: col, message: msg})
		set.Documents = append(set.Documents, doc)
		return set
	}

	for _, native := range file.Docs {
		set.Documents = append(set.Documents, newDocument(text, native))
	}
	if len(set.Documents) == 0 {
		set.Documents = append(set.Documents, newDocument(text, nil))
	}
	return set
}

// newDocument constructs the immutable wrapper: the native handle is kept,
// and AST conversion runs eagerly so Root is available synchronously.
func newDocument(text string, native *ast.DocumentNode) *Document {
	doc := &Document{
		src:     text,
		lines:   lineOffsets(text),
		native:  native,
		parents: make(map[*Node]*Node),
	}
	if native != nil && native.Body != nil {
		conv := converter{doc: doc}
		doc.root = conv.convert(native.Body)
	}
	return doc
}

// Root returns the converted AST root, nil for empty documents.
func (d *Document) Root() *Node { return d.root }

// Source returns the document text.
func (d *Document) Source() string { return d.src }

// Native returns the owned native parse-tree handle.
func (d *Document) Native() *ast.DocumentNode { return d.native }

// Errors maps the native parser's error diagnostics to the uniform shape.
// Recomputed on every access; ToLineEnd is forced true by convention so
// parse diagnostics always render to end of line.
func (d *Document) Errors() []Diagnostic {
	return d.mapIssues(false)
}

// Warnings maps the native parser's warning diagnostics. Same shape and
// conventions as Errors.
func (d *Document) Warnings() []Diagnostic {
	return d.mapIssues(true)
}

func (d *Document) mapIssues(warnings bool) []Diagnostic {
	var out []Diagnostic
	for _, issue := range d.issues {
		if issue.warning != warnings {
			continue
		}
		severity := SeverityError
		if issue.warning {
			severity = SeverityWarning
		}
		offset := d.OffsetAt(issue.line, issue.column)
		if offset < 0 {
			offset = 0
		}
		out = append(out, Diagnostic{
			Message:     issue.message,
			Severity:    severity,
			Code:        CodeParse,
			StartOffset: offset,
			EndOffset:   d.LineEnd(issue.line),
			Line:        issue.line,
			Column:      issue.column,
			ToLineEnd:   true,
		})
	}
	return out
}

// Comments returns the document's ordered comment lines: the leading block,
// then per-node comments in a depth-first traversal (leading block followed
// by trailing inline comment), then the trailing block. The order is fixed
// by contract even though it is not sorted by source position. Computed
// once on first access.
func (d *Document) Comments() []string {
	d.commentsOnce.Do(func() {
		head, foot := d.boundaryComments()
		headLines := make(map[string]bool, len(head))
		var out []string
		for _, line := range head {
			out = append(out, line)
			headLines[line] = true
		}
		d.root.Walk(func(n *Node) bool {
			for _, comment := range n.leadComments {
				// The first node's leading block is the document head
				// block already collected above.
				if headLines[comment] {
					continue
				}
				out = append(out, comment)
			}
			if n.lineComment != "" {
				out = append(out, n.lineComment)
			}
			return true
		})
		out = append(out, foot...)
		d.comments = out
	})
	return d.comments
}

// boundaryComments scans the raw text for comment lines before the root
// node's range (head block) and after it (foot block), re-prefixed with
// the comment marker.
func (d *Document) boundaryComments() (head, foot []string) {
	rootStart, rootEnd := -1, -1
	if d.root != nil && d.root.hasRange {
		rootStart, rootEnd = d.root.Start, d.root.End
	}
	offset := 0
	for _, line := range strings.SplitAfter(d.src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			text := commentMarker + strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			switch {
			case rootStart < 0 || offset < rootStart:
				head = append(head, text)
			case offset >= rootEnd:
				foot = append(foot, text)
			}
		}
		offset += len(line)
	}
	return head, foot
}

// StructuralValidator is the boundary to the external JSON-schema style
// matcher: it validates a node's decoded value against a schema source and
// anchors the resulting diagnostics back onto the node tree.
type StructuralValidator interface {
	Collect(schemaJSON string, n *Node) []Diagnostic
}

// Schemas is a thin facade over the structural validator.
func (d *Document) Schemas(v StructuralValidator, schemaJSON string, n *Node) []Diagnostic {
	if v == nil || n == nil {
		return nil
	}
	return v.Collect(schemaJSON, n)
}

// OffsetAt converts a 1-based line/column pair to a byte offset, -1 when
// out of range.
func (d *Document) OffsetAt(line, column int) int {
	if line < 1 || line > len(d.lines) || column < 1 {
		return -1
	}
	offset := d.lines[line-1] + column - 1
	if offset > len(d.src) {
		return -1
	}
	return offset
}

// PositionFor converts a byte offset to a 1-based line/column pair.
// Offsets past the end of text clamp to the final position.
func (d *Document) PositionFor(offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(d.src) {
		offset = len(d.src)
	}
	line = 1
	for i := len(d.lines) - 1; i >= 0; i-- {
		if d.lines[i] <= offset {
			line = i + 1
			break
		}
	}
	return line, offset - d.lines[line-1] + 1
}

// LineEnd returns the byte offset just before the newline terminating the
// given 1-based line, or the end of text for the last line.
func (d *Document) LineEnd(line int) int {
	if line < 1 || line > len(d.lines) {
		return len(d.src)
	}
	if line == len(d.lines) {
		return len(d.src)
	}
	return d.lines[line] - 1
}

// lineText returns the text of the 1-based line without its newline.
func (d *Document) lineText(line int) string {
	if line < 1 || line > len(d.lines) {
		return ""
	}
	return d.src[d.lines[line-1]:d.LineEnd(line)]
}

func lineOffsets(text string) []int {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
