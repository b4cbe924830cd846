package parser

import (
	"testing"

	"github.com/diagramkit/core/graph"
)

func TestLinearFlowchart(t *testing.T) {
	src := "graph TD\nA[Start] --> B[Middle] --> C[End]"
	g, err := NewFlowchartParser().Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Meta.Direction != graph.TB {
		t.Errorf("direction = %q, want TB", g.Meta.Direction)
	}
	if len(g.Nodes()) != 3 {
		t.Fatalf("got %d nodes, want 3", len(g.Nodes()))
	}
	for _, id := range []graph.NodeId{"A", "B", "C"} {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("missing node %q", id)
		}
		if n.Kind != graph.KindRect {
			t.Errorf("node %q kind = %q, want rect", id, n.Kind)
		}
	}
	if len(g.Edges()) != 2 {
		t.Fatalf("got %d edges, want 2", len(g.Edges()))
	}
	edges := g.Edges()
	if edges[0].ID != "e-A-B-0" || edges[0].From != "A" || edges[0].To != "B" {
		t.Errorf("first edge = %+v", edges[0])
	}
	if edges[1].ID != "e-B-C-1" || edges[1].From != "B" || edges[1].To != "C" {
		t.Errorf("second edge = %+v", edges[1])
	}
	for _, e := range edges {
		if e.Kind != graph.Directed {
			t.Errorf("edge %q kind = %q, want directed", e.ID, e.Kind)
		}
	}
	if len(g.Subgraphs()) != 0 {
		t.Errorf("expected no subgraphs, got %d", len(g.Subgraphs()))
	}
}

func TestLabeledBranch(t *testing.T) {
	src := "graph TD\nA{Choice}\nA -->|yes| B[Ok]\nA -->|no| C[Fail]"
	g, err := NewFlowchartParser().Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, _ := g.Node("A")
	if a.Kind != graph.KindDiamond {
		t.Errorf("A.Kind = %q, want diamond", a.Kind)
	}

	var toB, toC *graph.Edge
	for _, e := range g.Edges() {
		switch e.To {
		case "B":
			toB = e
		case "C":
			toC = e
		}
	}
	if toB == nil || toB.Label != "yes" {
		t.Errorf("edge A->B label = %+v, want yes", toB)
	}
	if toC == nil || toC.Label != "no" {
		t.Errorf("edge A->C label = %+v, want no", toC)
	}
}

func TestNestedSubgraphs(t *testing.T) {
	src := `graph TB
 subgraph outer
  subgraph inner
   X --> Y
  end
  Z
 end`
	g, err := NewFlowchartParser().Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	outer, ok := g.Subgraph("outer")
	if !ok {
		t.Fatal("missing subgraph outer")
	}
	inner, ok := g.Subgraph("inner")
	if !ok {
		t.Fatal("missing subgraph inner")
	}
	if inner.Parent != "outer" {
		t.Errorf("inner.Parent = %q, want outer", inner.Parent)
	}

	x, _ := g.Node("X")
	y, _ := g.Node("Y")
	z, _ := g.Node("Z")
	if x.Parent != "inner" || y.Parent != "inner" {
		t.Errorf("X.Parent=%q Y.Parent=%q, want inner", x.Parent, y.Parent)
	}
	if z.Parent != "outer" {
		t.Errorf("Z.Parent = %q, want outer", z.Parent)
	}

	if len(inner.Children) != 2 || inner.Children[0] != "X" || inner.Children[1] != "Y" {
		t.Errorf("inner.Children = %v, want [X Y]", inner.Children)
	}
	if len(outer.Children) != 1 || outer.Children[0] != "Z" {
		t.Errorf("outer.Children = %v, want [Z]", outer.Children)
	}
}

func TestBidirectionalEdge(t *testing.T) {
	g, err := NewFlowchartParser().Parse("graph LR\nA <-> B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Meta.Direction != graph.LR {
		t.Errorf("direction = %q, want LR", g.Meta.Direction)
	}
	edges := g.Edges()
	if len(edges) != 1 || edges[0].Kind != graph.Bidirectional {
		t.Errorf("edges = %+v, want one bidirectional edge", edges)
	}
}

func TestDuplicateNodeDeclarationFirstWins(t *testing.T) {
	// First declaration wins for both shape and children-list position,
	// per the documented interpretation of this boundary case.
	src := "graph TD\nA[First]\nA{Second}"
	g, err := NewFlowchartParser().Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a, _ := g.Node("A")
	if a.Kind != graph.KindRect || a.Label != "First" {
		t.Errorf("A = %+v, want rect/First", a)
	}
}

func TestEmptySourceYieldsEmptyGraph(t *testing.T) {
	g, err := NewFlowchartParser().Parse("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes()) != 0 || len(g.Edges()) != 0 || len(g.Subgraphs()) != 0 {
		t.Errorf("expected empty graph, got %+v", g)
	}
}

func TestSubgraphTitleWithSpacesShadowsID(t *testing.T) {
	// An unquoted, unbracketed subgraph tail with spaces is taken as the
	// whole title and slugged into a new ID.
	g, err := NewFlowchartParser().Parse("graph TD\nsubgraph my cool group\nA\nend")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sg, ok := g.Subgraph("my-cool-group")
	if !ok {
		t.Fatal("expected subgraph slugged to my-cool-group")
	}
	if sg.Label != "my cool group" {
		t.Errorf("label = %q, want %q", sg.Label, "my cool group")
	}
}

func TestClassDefAndAssignment(t *testing.T) {
	src := "graph TD\nA[Start]\nclassDef important fill:#f00,stroke:#000\nclass A important"
	g, err := NewFlowchartParser().Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := g.ClassDefs["important"]; !ok {
		t.Fatal("expected classDef 'important' to be recorded")
	}
	a, _ := g.Node("A")
	if len(a.ClassNames) != 1 || a.ClassNames[0] != "important" {
		t.Errorf("A.ClassNames = %v, want [important]", a.ClassNames)
	}
}

func TestDisjointComponents(t *testing.T) {
	g, err := NewFlowchartParser().Parse("graph TD\nA --> B\nC --> D")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g.Nodes()) != 4 || len(g.Edges()) != 2 {
		t.Fatalf("got %d nodes %d edges, want 4/2", len(g.Nodes()), len(g.Edges()))
	}
}
