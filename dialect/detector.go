// Package dialect detects which diagram dialect a piece of source text is
// written in, mirroring the prefix-matching approach of
// github.com/sammcj/go-mermaid's parser.detectDiagramType, narrowed to the
// two dialects this module supports.
package dialect

import "strings"

// Dialect is a recognized diagram surface syntax.
type Dialect string

const (
	Flowchart Dialect = "flowchart"
	C4Context Dialect = "c4context"
)

// Detect trims leading whitespace and matches case-insensitively: any
// source whose first non-blank token is "c4context" is C4; unknown or
// absent headers default to flowchart.
func Detect(source string) Dialect {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.Fields(lower)[0] == "c4context" {
			return C4Context
		}
		return Flowchart
	}
	return Flowchart
}
