package render

import (
	"testing"

	"github.com/diagramkit/core/config"
	"github.com/diagramkit/core/layout"
	"github.com/diagramkit/core/parser"
)

func TestToRendererRecordCounts(t *testing.T) {
	g, err := parser.Parse("graph TD\nA --> B\nsubgraph s\nC\nend")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	state := layout.AutoLayout(g, nil, layout.Options{Spacing: config.DefaultSpacing()})
	recs := ToRenderer(g, state)

	wantNodes := len(g.Nodes()) + len(g.Subgraphs())
	if len(recs.Nodes) != wantNodes {
		t.Errorf("got %d node records, want %d", len(recs.Nodes), wantNodes)
	}
	if len(recs.Edges) != len(g.Edges()) {
		t.Errorf("got %d edge records, want %d", len(recs.Edges), len(g.Edges()))
	}
}

func TestToRendererContainerIDPrefix(t *testing.T) {
	g, err := parser.Parse("graph TD\nsubgraph s\nA\nend")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	state := layout.AutoLayout(g, nil, layout.Options{Spacing: config.DefaultSpacing()})
	recs := ToRenderer(g, state)

	var found bool
	for _, n := range recs.Nodes {
		if n.ID == "subgraph-s" {
			found = true
			if !n.IsContainer {
				t.Error("expected container record to be marked IsContainer")
			}
		}
		if n.ID == "A" && n.ParentNode != "subgraph-s" {
			t.Errorf("A.ParentNode = %q, want subgraph-s", n.ParentNode)
		}
	}
	if !found {
		t.Error("expected a subgraph-s container record")
	}
}

func TestToRendererEdgeEndpointRewrite(t *testing.T) {
	g, err := parser.Parse("graph TD\nsubgraph s\nA\nend\nB --> s")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	state := layout.AutoLayout(g, nil, layout.Options{Spacing: config.DefaultSpacing()})
	recs := ToRenderer(g, state)

	var found bool
	for _, e := range recs.Edges {
		if e.To == "subgraph-s" {
			found = true
		}
	}
	if !found {
		t.Error("expected edge endpoint referencing a subgraph to be rewritten to subgraph-<id>")
	}
}
