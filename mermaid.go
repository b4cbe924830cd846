// Package core ties the parser, layout engine, and render adapter
// together behind four public operations: Parse, AutoLayout, ToRenderer,
// and Convert.
package core

import (
	"github.com/diagramkit/core/config"
	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/layout"
	"github.com/diagramkit/core/parser"
	"github.com/diagramkit/core/render"
	"github.com/diagramkit/core/visualstate"
)

// Parse parses diagram source text (flowchart or C4-Context, auto
// detected) into a semantic Graph.
func Parse(source string) (*graph.Graph, error) {
	return parser.Parse(source)
}

// AutoLayout runs the hierarchical auto-layout engine over g, seeded by
// an optional prior VisualState whose locked entries are preserved
// verbatim. Infallible: an empty graph yields an empty state.
func AutoLayout(g *graph.Graph, prior *visualstate.VisualState, spacing config.Spacing) *visualstate.VisualState {
	return layout.AutoLayout(g, prior, layout.Options{Spacing: spacing})
}

// ToRenderer is the pure translation from a graph and its visual state
// into renderer-consumable records.
func ToRenderer(g *graph.Graph, vs *visualstate.VisualState) render.Records {
	return render.ToRenderer(g, vs)
}

// Result bundles the three artifacts Convert produces.
type Result struct {
	Graph   *graph.Graph
	State   *visualstate.VisualState
	Records render.Records
}

// Convert runs the full pipeline: parse, layout, and render-adapt in one
// call, using config.DefaultSpacing for layout. prior may be nil.
func Convert(source string, prior *visualstate.VisualState) (*Result, error) {
	g, err := Parse(source)
	if err != nil {
		return nil, err
	}
	state := AutoLayout(g, prior, config.DefaultSpacing())
	records := ToRenderer(g, state)
	return &Result{Graph: g, State: state, Records: records}, nil
}
