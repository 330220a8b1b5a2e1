package schema

import "github.com/yamlnext/yls/pkg/document"

// Collector accumulates diagnostics for a single validation run. A fresh
// collector per run keeps results from accumulating across documents.
type Collector struct {
	diagnostics []document.Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a warning for a node. The line argument is the matcher's
// node-visit counter, a documented approximation of the source line.
func (c *Collector) Add(n *document.Node, code, message string, line int) {
	d := document.Diagnostic{
		Message:  message,
		Severity: document.SeverityWarning,
		Code:     code,
		Line:     line,
	}
	if n != nil && n.HasRange() {
		d.StartOffset = n.Start
		d.EndOffset = n.End
		if n.Document() != nil {
			_, d.Column = n.Document().PositionFor(n.Start)
		}
	}
	c.diagnostics = append(c.diagnostics, d)
}

// Results returns the accumulated warnings for a publishing collaborator.
func (c *Collector) Results() []document.Diagnostic {
	return c.diagnostics
}

// Len reports the number of accumulated diagnostics.
func (c *Collector) Len() int { return len(c.diagnostics) }
