package server

import (
	"testing"

	"go.lsp.dev/protocol"

	"github.com/yamlnext/yls/pkg/document"
)

func TestToProtocol(t *testing.T) {
	text := "kind: Pod\nspec:\n  replicas: three\n"

	tests := []struct {
		name      string
		diag      document.Diagnostic
		wantStart protocol.Position
		wantEnd   protocol.Position
		wantSev   protocol.DiagnosticSeverity
	}{
		{
			name: "warning with explicit range",
			diag: document.Diagnostic{
				Message:     "unknown key",
				Severity:    document.SeverityWarning,
				Code:        document.CodeUnknownKey,
				StartOffset: 10,
				EndOffset:   14,
			},
			wantStart: protocol.Position{Line: 1, Character: 0},
			wantEnd:   protocol.Position{Line: 1, Character: 4},
			wantSev:   protocol.DiagnosticSeverityWarning,
		},
		{
			name: "error extends to line end",
			diag: document.Diagnostic{
				Message:     "could not parse",
				Severity:    document.SeverityError,
				Code:        document.CodeParse,
				StartOffset: 18,
				EndOffset:   18,
				ToLineEnd:   true,
			},
			wantStart: protocol.Position{Line: 2, Character: 2},
			wantEnd:   protocol.Position{Line: 2, Character: 17},
			wantSev:   protocol.DiagnosticSeverityError,
		},
		{
			name: "negative offset clamps to document start",
			diag: document.Diagnostic{
				Message:     "boom",
				Severity:    document.SeverityError,
				StartOffset: -1,
				EndOffset:   0,
			},
			wantStart: protocol.Position{Line: 0, Character: 0},
			wantEnd:   protocol.Position{Line: 0, Character: 0},
			wantSev:   protocol.DiagnosticSeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toProtocol([]document.Diagnostic{tt.diag}, text)
			if len(got) != 1 {
				t.Fatalf("diagnostics = %d, want 1", len(got))
			}
			d := got[0]
			if d.Range.Start != tt.wantStart {
				t.Errorf("start = %+v, want %+v", d.Range.Start, tt.wantStart)
			}
			if d.Range.End != tt.wantEnd {
				t.Errorf("end = %+v, want %+v", d.Range.End, tt.wantEnd)
			}
			if d.Severity != tt.wantSev {
				t.Errorf("severity = %v, want %v", d.Severity, tt.wantSev)
			}
			if d.Source != "yls" {
				t.Errorf("source = %q, want yls", d.Source)
			}
			if d.Message != tt.diag.Message {
				t.Errorf("message = %q, want %q", d.Message, tt.diag.Message)
			}
		})
	}
}

func TestToProtocolNeverReturnsNil(t *testing.T) {
	got := toProtocol(nil, "a: 1\n")
	if got == nil {
		t.Fatal("empty input must produce an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("diagnostics = %v, want none", got)
	}
}
