package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/yamlnext/yls/pkg/document"
)

// Structural validates decoded node values against full JSON-Schema
// documents. It is the external matcher behind Document.Schemas: the
// engine's own graph matcher handles position and ancestor resolution,
// anything needing real JSON-Schema semantics is delegated here.
//
// Compiled schemas are cached per source string; a Structural is safe for
// concurrent use.
type Structural struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewStructural returns a validator with an empty compilation cache.
func NewStructural() *Structural {
	return &Structural{compiled: make(map[string]*jsonschema.Schema)}
}

// Collect validates the node's decoded value and returns the resulting
// diagnostics. Each validation cause is anchored at the descendant node its
// instance location resolves to, falling back to the node itself. Schema
// compilation failures surface as a single diagnostic rather than an
// error: a broken schema must not abort document processing.
func (s *Structural) Collect(schemaJSON string, n *document.Node) []document.Diagnostic {
	if n == nil {
		return nil
	}

	sch, err := s.compile(schemaJSON)
	if err != nil {
		return []document.Diagnostic{anchored(n, fmt.Sprintf("invalid schema: %v", err))}
	}

	normalized, err := normalize(n.DecodedValue())
	if err != nil {
		return []document.Diagnostic{anchored(n, fmt.Sprintf("failed to normalize value: %v", err))}
	}

	err = sch.Validate(normalized)
	if err == nil {
		return nil
	}

	var out []document.Diagnostic
	for _, cause := range flattenCauses(err) {
		target := locate(n, cause.location)
		d := anchored(target, cause.message)
		if path := instancePointer(cause.location); path != "/" {
			d.Message = fmt.Sprintf("%s: %s", path, cause.message)
		}
		out = append(out, d)
	}
	return out
}

// anchored builds a structural warning pinned to the node's range. The
// line/column pair comes from the owning document when available.
func anchored(n *document.Node, message string) document.Diagnostic {
	d := document.Diagnostic{
		Message:  message,
		Severity: document.SeverityWarning,
		Code:     document.CodeStructural,
	}
	if n != nil && n.HasRange() {
		d.StartOffset = n.Start
		d.EndOffset = n.End
		if n.Document() != nil {
			d.Line, d.Column = n.Document().PositionFor(n.Start)
		}
	}
	return d
}

// compile returns the cached compiled schema for the source, compiling on
// first use.
func (s *Structural) compile(schemaJSON string) (*jsonschema.Schema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sch, ok := s.compiled[schemaJSON]; ok {
		return sch, nil
	}

	var schemaDoc any
	if err := json.Unmarshal([]byte(schemaJSON), &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	const schemaURL = "mem://structural/schema.json"
	if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	sch, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, err
	}
	s.compiled[schemaJSON] = sch
	return sch, nil
}

// normalize round-trips the value through JSON so typed YAML scalars
// (int64, uint64) take the shapes the validator expects.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// cause is one leaf validation failure with its raw instance location.
type cause struct {
	location []string
	message  string
}

// flattenCauses walks a jsonschema validation error down to its leaf
// causes. Non-validation errors map to a single cause.
func flattenCauses(err error) []cause {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []cause{{message: err.Error()}}
	}
	var out []cause
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, cause{
				location: e.InstanceLocation,
				message:  cleanValidationMessage(e.Error()),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(validationErr)
	return out
}

// cleanValidationMessage strips the unhelpful boilerplate prefix from
// jsonschema validation messages, keeping the per-cause detail lines.
func cleanValidationMessage(msg string) string {
	var kept []string
	for _, line := range strings.Split(msg, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "jsonschema validation failed") {
			continue
		}
		line = strings.TrimPrefix(line, "- at '': ")
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return "schema validation failed"
	}
	return strings.Join(kept, "\n")
}

// instancePointer renders a jsonschema instance location as a JSON
// pointer, "/" for the root.
func instancePointer(location []string) string {
	if len(location) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, part := range location {
		sb.WriteString("/")
		sb.WriteString(part)
	}
	return sb.String()
}
