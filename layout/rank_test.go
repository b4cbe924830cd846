package layout

import "testing"

func TestRankNodesLinearChain(t *testing.T) {
	nodes := []layoutNode{{id: "A"}, {id: "B"}, {id: "C"}}
	edges := []layoutEdge{{from: "A", to: "B"}, {from: "B", to: "C"}}

	rank := rankNodes(nodes, edges)
	if rank["A"] != 0 || rank["B"] != 1 || rank["C"] != 2 {
		t.Errorf("got %+v, want A=0 B=1 C=2", rank)
	}
}

func TestRankNodesDisconnected(t *testing.T) {
	nodes := []layoutNode{{id: "A"}, {id: "B"}}
	rank := rankNodes(nodes, nil)
	if rank["A"] != 0 || rank["B"] != 0 {
		t.Errorf("got %+v, want both at rank 0", rank)
	}
}

func TestRankNodesDiamond(t *testing.T) {
	nodes := []layoutNode{{id: "A"}, {id: "B"}, {id: "C"}, {id: "D"}}
	edges := []layoutEdge{
		{from: "A", to: "B"},
		{from: "A", to: "C"},
		{from: "B", to: "D"},
		{from: "C", to: "D"},
	}
	rank := rankNodes(nodes, edges)
	if rank["A"] != 0 {
		t.Errorf("A rank = %d, want 0", rank["A"])
	}
	if rank["B"] != 1 || rank["C"] != 1 {
		t.Errorf("B/C rank = %d/%d, want 1/1", rank["B"], rank["C"])
	}
	if rank["D"] != 2 {
		t.Errorf("D rank = %d, want 2", rank["D"])
	}
}

func TestRankNodesCycleTerminates(t *testing.T) {
	nodes := []layoutNode{{id: "A"}, {id: "B"}}
	edges := []layoutEdge{{from: "A", to: "B"}, {from: "B", to: "A"}}
	// Must not hang; exact ranks under a cycle are unspecified.
	_ = rankNodes(nodes, edges)
}
