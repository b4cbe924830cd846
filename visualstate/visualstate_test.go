package visualstate

import (
	"testing"

	"github.com/diagramkit/core/graph"
)

func TestLockedNode(t *testing.T) {
	vs := New()
	vs.Nodes["A"] = NodeState{Position: Point{X: 1, Y: 2}, Locked: true}
	vs.Nodes["B"] = NodeState{Position: Point{X: 3, Y: 4}}

	if _, ok := vs.LockedNode("A"); !ok {
		t.Error("expected A to be locked")
	}
	if _, ok := vs.LockedNode("B"); ok {
		t.Error("expected B to not be locked")
	}
	if _, ok := vs.LockedNode("ghost"); ok {
		t.Error("expected missing node to not be locked")
	}
}

func TestLockedNodeNilReceiver(t *testing.T) {
	var vs *VisualState
	if _, ok := vs.LockedNode(graph.NodeId("A")); ok {
		t.Error("expected nil VisualState to report no locked entries")
	}
}

func TestLockedSubgraph(t *testing.T) {
	vs := New()
	vs.Subgraphs["sg"] = SubgraphState{Locked: true}
	if _, ok := vs.LockedSubgraph("sg"); !ok {
		t.Error("expected sg to be locked")
	}
}
