// Package visualstate defines VisualState: the purely geometric
// description of a graph — positions, sizes, bend points, viewport. It
// carries no identity or relationship meaning; both it and the semantic
// graph package reference the same stable IDs.
package visualstate

import "github.com/diagramkit/core/graph"

// Point is an (x, y) coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a (width, height) extent.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeState is the visual entry for one node. Position is the top-left of
// its bounding box: relative to the parent subgraph's top-left if the node
// has one, canvas-absolute otherwise.
type NodeState struct {
	Position Point  `json:"position"`
	Size     *Size  `json:"size,omitempty"`
	Locked   bool   `json:"locked,omitempty"`
}

// EdgeState carries advisory bend points; the renderer may ignore them.
type EdgeState struct {
	BendPoints []Point `json:"bendPoints,omitempty"`
}

// SubgraphState is the visual entry for one subgraph/boundary. Position
// follows the same parent-relative convention as NodeState.
type SubgraphState struct {
	Position Point `json:"position"`
	Size     Size  `json:"size"`
	Locked   bool  `json:"locked,omitempty"`
}

// Viewport is the optional canvas zoom/pan state, passed through unchanged
// by auto-layout.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

// VisualState is the layout output: a fresh value produced by auto-layout
// on every run, seeded by any prior state whose Locked entries are
// preserved verbatim.
type VisualState struct {
	Nodes     map[graph.NodeId]NodeState         `json:"nodes"`
	Edges     map[graph.EdgeId]EdgeState         `json:"edges"`
	Subgraphs map[graph.SubgraphId]SubgraphState `json:"subgraphs"`
	Viewport  *Viewport                          `json:"viewport,omitempty"`
}

// New returns an empty VisualState with initialized maps.
func New() *VisualState {
	return &VisualState{
		Nodes:     make(map[graph.NodeId]NodeState),
		Edges:     make(map[graph.EdgeId]EdgeState),
		Subgraphs: make(map[graph.SubgraphId]SubgraphState),
	}
}

// LockedNode reports whether prior has a locked entry for id, returning it
// verbatim when so.
func (vs *VisualState) LockedNode(id graph.NodeId) (NodeState, bool) {
	if vs == nil {
		return NodeState{}, false
	}
	n, ok := vs.Nodes[id]
	return n, ok && n.Locked
}

// LockedSubgraph reports whether prior has a locked entry for id, returning
// it verbatim when so.
func (vs *VisualState) LockedSubgraph(id graph.SubgraphId) (SubgraphState, bool) {
	if vs == nil {
		return SubgraphState{}, false
	}
	s, ok := vs.Subgraphs[id]
	return s, ok && s.Locked
}
