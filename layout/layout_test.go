package layout

import (
	"testing"

	"github.com/diagramkit/core/config"
	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/parser"
	"github.com/diagramkit/core/visualstate"
)

func TestAutoLayoutEmptyGraph(t *testing.T) {
	g := graph.New(graph.Meta{Direction: graph.TB})
	state := AutoLayout(g, nil, Options{Spacing: config.DefaultSpacing()})
	if len(state.Nodes) != 0 || len(state.Subgraphs) != 0 {
		t.Errorf("expected empty visual state, got %+v", state)
	}
}

func TestAutoLayoutLinearFlowchart(t *testing.T) {
	g, err := parser.Parse("graph TD\nA[Start] --> B[Middle] --> C[End]")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	state := AutoLayout(g, nil, Options{Spacing: config.DefaultSpacing()})

	if len(state.Nodes) != 3 {
		t.Fatalf("got %d node states, want 3", len(state.Nodes))
	}
	a := state.Nodes["A"]
	b := state.Nodes["B"]
	c := state.Nodes["C"]
	if a.Position.Y >= b.Position.Y || b.Position.Y >= c.Position.Y {
		t.Errorf("expected increasing Y down the chain: A=%v B=%v C=%v", a.Position, b.Position, c.Position)
	}
}

func TestAutoLayoutNestedSubgraphSizing(t *testing.T) {
	src := `graph TB
 subgraph outer
  subgraph inner
   X --> Y
  end
  Z
 end`
	g, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	state := AutoLayout(g, nil, Options{Spacing: config.DefaultSpacing()})

	outer, ok := state.Subgraphs["outer"]
	if !ok {
		t.Fatal("missing outer subgraph state")
	}
	if outer.Size.Width < 300 || outer.Size.Height < 200 {
		t.Errorf("outer size = %+v, want at least 300x200", outer.Size)
	}

	inner, ok := state.Subgraphs["inner"]
	if !ok {
		t.Fatal("missing inner subgraph state")
	}
	// inner's position is relative to outer (both have finite, non-NaN
	// coordinates well within a generous bound).
	if inner.Position.X < -10000 || inner.Position.X > 10000 {
		t.Errorf("inner.Position out of expected range: %+v", inner.Position)
	}
}

func TestAutoLayoutLockedNodePreserved(t *testing.T) {
	g, err := parser.Parse("graph TD\nA --> B --> C")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	prior := visualstate.New()
	prior.Nodes["B"] = visualstate.NodeState{Position: visualstate.Point{X: 999, Y: 999}, Locked: true}

	state := AutoLayout(g, prior, Options{Spacing: config.DefaultSpacing()})
	if state.Nodes["B"].Position.X != 999 || state.Nodes["B"].Position.Y != 999 {
		t.Errorf("locked node B moved: %+v", state.Nodes["B"])
	}
	if !state.Nodes["B"].Locked {
		t.Error("expected locked flag to be preserved")
	}
}
