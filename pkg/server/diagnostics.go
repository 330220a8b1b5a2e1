package server

import (
	"go.lsp.dev/protocol"

	"github.com/yamlnext/yls/pkg/constants"
	"github.com/yamlnext/yls/pkg/document"
)

// toProtocol converts engine diagnostics to LSP diagnostics. Engine
// offsets are byte offsets into the full text; LSP wants 0-based
// line/character pairs. ToLineEnd diagnostics extend to the end of their
// start line.
func toProtocol(diags []document.Diagnostic, text string) []protocol.Diagnostic {
	// Never publish nil: an empty slice clears previous diagnostics.
	out := make([]protocol.Diagnostic, 0, len(diags))
	lines := lineOffsets(text)
	for _, d := range diags {
		start := positionFor(lines, d.StartOffset)
		end := positionFor(lines, d.EndOffset)
		if d.ToLineEnd {
			end = protocol.Position{Line: start.Line, Character: uint32(lineLength(lines, text, int(start.Line)))}
		}
		severity := protocol.DiagnosticSeverityError
		if d.Severity == document.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: severity,
			Code:     d.Code,
			Source:   constants.BinaryName,
			Message:  d.Message,
		})
	}
	return out
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

func positionFor(lines []int, offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	line := 0
	for i := len(lines) - 1; i >= 0; i-- {
		if lines[i] <= offset {
			line = i
			break
		}
	}
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(offset - lines[line]),
	}
}

// lineLength returns the length of the 0-based line excluding its newline.
func lineLength(lines []int, text string, line int) int {
	if line < 0 || line >= len(lines) {
		return 0
	}
	end := len(text)
	if line+1 < len(lines) {
		end = lines[line+1] - 1
	}
	return end - lines[line]
}
