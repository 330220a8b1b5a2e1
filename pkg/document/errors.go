package document

import (
	"regexp"
	"strconv"
	"strings"
)

// goccy syntax errors lead with "[line:column] message" followed by an
// annotated source snippet.
var goccyErrorPattern = regexp.MustCompile(`^\[(\d+):(\d+)\]\s*(.*)$`)

// yaml.v3 style errors read "yaml: line N: message".
var yamlLinePattern = regexp.MustCompile(`line (\d+):\s*(.*)`)

// extractParseError pulls line/column/message out of a native parser
// error. The parser reports positions only inside its error strings, so
// this is string surgery by necessity. Unrecognized formats fall back to
// position 1:1 with the raw message.
func extractParseError(err error) (line, column int, message string) {
	errStr := err.Error()
	firstLine := errStr
	if idx := strings.IndexByte(errStr, '\n'); idx >= 0 {
		firstLine = errStr[:idx]
	}

	if m := goccyErrorPattern.FindStringSubmatch(firstLine); m != nil {
		line, _ = strconv.Atoi(m[1])
		column, _ = strconv.Atoi(m[2])
		return line, column, strings.TrimSpace(m[3])
	}

	if m := yamlLinePattern.FindStringSubmatch(firstLine); m != nil {
		line, _ = strconv.Atoi(m[1])
		return line, 1, strings.TrimSpace(m[2])
	}

	return 1, 1, firstLine
}
