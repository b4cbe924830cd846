// Package parser provides dialect-sensitive parsing of Mermaid flowchart
// and C4-Context diagrams into a shared semantic graph.Graph.
package parser

import (
	"strings"

	"github.com/diagramkit/core/dialect"
	"github.com/diagramkit/core/graph"
)

// DiagramParser is implemented by each dialect's parser.
type DiagramParser interface {
	Parse(source string) (*graph.Graph, error)
}

// Parse detects the dialect of source and parses it into a graph.Graph,
// generalizing the dispatch github.com/sammcj/go-mermaid's parser.Parse
// performs over its much larger diagram-type switch.
func Parse(source string) (*graph.Graph, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &graph.ParseError{Reason: "empty diagram source"}
	}

	var p DiagramParser
	switch dialect.Detect(source) {
	case dialect.C4Context:
		p = NewC4ContextParser()
	default:
		p = NewFlowchartParser()
	}

	return p.Parse(source)
}
