// Package core parses Mermaid flowchart and C4-Context diagrams into a
// semantic graph, lays the graph out hierarchically into absolute
// geometry, and translates the result into renderer-consumable records.
//
// Semantics and layout are disjoint: the graph carries no geometry, the
// resulting visual state carries no identity, and both reference the same
// stable node/edge/subgraph identifiers.
//
// # Basic usage
//
//	g, err := core.Parse(source)
//	if err != nil {
//	    // g is nil only on ParseError
//	}
//	state := core.AutoLayout(g, nil, config.DefaultSpacing())
//	records := core.ToRenderer(g, state)
//
// Or the whole pipeline in one call:
//
//	result, err := core.Convert(source, nil)
//
// # Supported dialects
//
// Mermaid flowchart/graph and C4Context. Dialect is auto-detected from the
// first non-blank line of source.
package core
