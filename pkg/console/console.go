package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yamlnext/yls/pkg/document"
)

// SourceError is a structured report bound to a position in a source file,
// rendered compiler-style with context lines and a caret.
type SourceError struct {
	File    string
	Line    int
	Column  int
	Type    string // "error", "warning", "info"
	Message string
	Context []string // source lines around Line
	// ContextStart is the 1-based line number of Context[0]. Zero means
	// the context is centered on Line.
	ContextStart int
	Hint         string
}

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))
)

func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

// applyStyle conditionally applies styling based on TTY status.
func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to one relative to the working
// directory, falling back to the input when that fails.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	relPath, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return relPath
}

// FormatDiagnostic renders an engine diagnostic against its source text.
// The context window is the diagnostic's line plus one line either side;
// ToLineEnd diagnostics highlight from the column to the end of the line.
func FormatDiagnostic(file string, d document.Diagnostic, source string) string {
	srcErr := SourceError{
		File:    file,
		Line:    d.Line,
		Column:  d.Column,
		Type:    d.Severity.String(),
		Message: d.Message,
	}
	if d.Code != "" {
		srcErr.Message = fmt.Sprintf("%s [%s]", d.Message, d.Code)
	}
	if source != "" && d.Line > 0 {
		lines := strings.Split(source, "\n")
		start := d.Line - 2
		if start < 0 {
			start = 0
		}
		end := d.Line + 1
		if end > len(lines) {
			end = len(lines)
		}
		srcErr.Context = lines[start:end]
		srcErr.ContextStart = start + 1
	}
	return FormatSourceError(srcErr)
}

// FormatSourceError renders a SourceError in the IDE-parseable
// file:line:column form followed by context lines and a caret.
func FormatSourceError(err SourceError) string {
	var output strings.Builder

	var typeStyle lipgloss.Style
	var prefix string
	switch err.Type {
	case "warning":
		typeStyle = warningStyle
		prefix = "warning"
	case "info":
		typeStyle = infoStyle
		prefix = "info"
	default:
		typeStyle = errorStyle
		prefix = "error"
	}

	if err.File != "" {
		location := fmt.Sprintf("%s:%d:%d:", ToRelativePath(err.File), err.Line, err.Column)
		output.WriteString(applyStyle(filePathStyle, location))
		output.WriteString(" ")
	}

	output.WriteString(applyStyle(typeStyle, prefix+":"))
	output.WriteString(" ")
	output.WriteString(err.Message)
	output.WriteString("\n")

	if len(err.Context) > 0 && err.Line > 0 {
		output.WriteString(renderContext(err))
	}

	if err.Hint != "" {
		output.WriteString("\n")
		output.WriteString(applyStyle(hintStyle, "hint: "))
		output.WriteString(err.Hint)
		output.WriteString("\n")
	}

	return output.String()
}

// renderContext prints the context window with line numbers, highlighting
// the error line and pointing a caret at the column.
func renderContext(err SourceError) string {
	var output strings.Builder

	firstLine := err.ContextStart
	if firstLine == 0 {
		firstLine = err.Line - len(err.Context)/2
	}
	lineNumWidth := len(fmt.Sprintf("%d", firstLine+len(err.Context)-1))
	for i, line := range err.Context {
		lineNum := firstLine + i
		if lineNum < 1 {
			continue
		}

		output.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		output.WriteString(" | ")

		if lineNum == err.Line && err.Column > 0 && err.Column <= len(line) {
			before := line[:err.Column-1]
			errorChar := string(line[err.Column-1])
			after := ""
			if err.Column < len(line) {
				after = line[err.Column:]
			}
			output.WriteString(applyStyle(contextLineStyle, before))
			output.WriteString(applyStyle(highlightStyle, errorChar))
			output.WriteString(applyStyle(contextLineStyle, after))
		} else if lineNum == err.Line {
			output.WriteString(applyStyle(highlightStyle, line))
		} else {
			output.WriteString(applyStyle(contextLineStyle, line))
		}
		output.WriteString("\n")

		if lineNum == err.Line && err.Column > 0 {
			padding := strings.Repeat(" ", lineNumWidth+3+err.Column-1)
			output.WriteString(padding)
			output.WriteString(applyStyle(errorStyle, "^"))
			output.WriteString("\n")
		}
	}

	return output.String()
}

// FormatSuccessMessage formats a success message with styling.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message for stderr output.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}
