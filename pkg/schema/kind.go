package schema

import "fmt"

// Kind is the closed enumeration of schema primitive kinds. Declared types
// in a graph and runtime values both map into it, so compatibility is a
// comparison of kinds with one explicit numeric rule instead of ad hoc
// type-name string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindString
	KindInteger
	KindNumber
	KindBoolean
	KindObject
	KindArray
	KindNull
)

var kindNames = map[string]Kind{
	"string":  KindString,
	"integer": KindInteger,
	"int":     KindInteger,
	"number":  KindNumber,
	"float":   KindNumber,
	"boolean": KindBoolean,
	"bool":    KindBoolean,
	"object":  KindObject,
	"map":     KindObject,
	"array":   KindArray,
	"null":    KindNull,
}

// ParseKind maps a declared type name to its kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindNames[name]; ok {
		return k, nil
	}
	return KindUnknown, fmt.Errorf("unknown schema type %q", name)
}

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// ValueKind maps a decoded runtime value to its schema kind.
func ValueKind(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string:
		return KindString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInteger
	case float32, float64:
		return KindNumber
	case bool:
		return KindBoolean
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindUnknown
	}
}

// Compatible reports whether a runtime kind satisfies a declared kind.
// Any numeric value satisfies a declared integer, and integers satisfy a
// declared number; everything else requires an exact match.
func Compatible(declared, actual Kind) bool {
	if declared == actual {
		return true
	}
	if declared == KindInteger && actual == KindNumber {
		return true
	}
	if declared == KindNumber && actual == KindInteger {
		return true
	}
	return false
}
