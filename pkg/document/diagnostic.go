package document

// Severity classifies a diagnostic.
type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic codes for the engine's own checks. Parse diagnostics carry
// CodeParse; the schema matcher emits the three warning codes.
const (
	CodeParse          = "ParseError"
	CodeUnknownKey     = "UnknownKey"
	CodeSchemaMismatch = "SchemaMismatch"
	CodeTypeMismatch   = "TypeMismatch"
	CodeStructural     = "Structural"
)

// Diagnostic is a non-fatal report bound to a text range. It is the flat
// shape handed to publishing collaborators: byte offsets for editors that
// address text directly, line/column for renderers.
type Diagnostic struct {
	Message     string
	Severity    Severity
	Code        string
	StartOffset int
	EndOffset   int
	Line        int // 1-based
	Column      int // 1-based
	// ToLineEnd asks the renderer to extend the range to the end of the
	// start line regardless of EndOffset.
	ToLineEnd bool
}
