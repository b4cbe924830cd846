// Package render translates a graph.Graph and visualstate.VisualState into
// renderer-consumable records. It makes no semantic decisions: the
// mapping from (Graph, VisualState) to records is pure and total.
package render

import (
	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/visualstate"
)

// NodeRecord is a container (subgraph) or leaf (node) record.
type NodeRecord struct {
	ID         string
	Label      string
	Position   visualstate.Point
	Size       visualstate.Size
	ParentNode string // empty if top-level
	Draggable  bool
	Color      string
	Handles    []string // cardinal source/target handle IDs, leaf records only
	IsContainer bool
}

// EdgeRecord is one rendered edge.
type EdgeRecord struct {
	ID         string
	From       string
	To         string
	Label      string
	BendPoints []visualstate.Point
	Color      string
}

// Records is the renderer-facing output of ToRenderer.
type Records struct {
	Nodes []NodeRecord
	Edges []EdgeRecord
}

var flowPalette = []string{"#60a5fa", "#34d399", "#fbbf24", "#f472b6", "#a78bfa", "#f87171"}

var c4Palette = map[graph.C4Type]string{
	graph.C4Person:         "#08427b",
	graph.C4PersonExt:      "#686868",
	graph.C4System:         "#1168bd",
	graph.C4SystemExt:      "#999999",
	graph.C4SystemDb:       "#1168bd",
	graph.C4SystemQueue:    "#1168bd",
	graph.C4Container:      "#438dd5",
	graph.C4ContainerExt:   "#b3b3b3",
	graph.C4ContainerDb:    "#438dd5",
	graph.C4ContainerQueue: "#438dd5",
	graph.C4Component:      "#85bbf0",
	graph.C4ComponentExt:   "#cccccc",
	graph.C4ComponentDb:    "#85bbf0",
	graph.C4ComponentQueue: "#85bbf0",
}

var boundaryPalette = map[graph.BoundaryType]string{
	graph.BoundaryEnterprise: "#444444",
	graph.BoundarySystem:     "#999999",
	graph.BoundaryContainer:  "#6b6b6b",
	graph.BoundaryGeneric:    "#aaaaaa",
}

func containerID(id string) string { return "subgraph-" + id }

// ToRenderer is the pure translation from a semantic graph and its visual
// state into renderer records.
func ToRenderer(g *graph.Graph, vs *visualstate.VisualState) Records {
	var recs Records

	for i, sg := range g.Subgraphs() {
		st := vs.Subgraphs[sg.ID]
		parentNode := ""
		if sg.Parent != "" {
			parentNode = containerID(string(sg.Parent))
		}
		color := flowPalette[i%len(flowPalette)]
		if sg.BoundaryType != "" {
			if c, ok := boundaryPalette[sg.BoundaryType]; ok {
				color = c
			}
		}
		recs.Nodes = append(recs.Nodes, NodeRecord{
			ID:          containerID(string(sg.ID)),
			Label:       sg.Label,
			Position:    st.Position,
			Size:        st.Size,
			ParentNode:  parentNode,
			Draggable:   !st.Locked,
			Color:       color,
			IsContainer: true,
		})
	}

	for _, n := range g.Nodes() {
		st := vs.Nodes[n.ID]
		parentNode := ""
		if n.Parent != "" {
			parentNode = containerID(string(n.Parent))
		}
		size := visualstate.Size{}
		if st.Size != nil {
			size = *st.Size
		}
		color := ""
		if n.C4 != nil {
			color = c4Palette[n.C4.Type]
		}
		recs.Nodes = append(recs.Nodes, NodeRecord{
			ID:         string(n.ID),
			Label:      n.Label,
			Position:   st.Position,
			Size:       size,
			ParentNode: parentNode,
			Draggable:  !st.Locked,
			Color:      color,
			Handles:    []string{"top", "right", "bottom", "left"},
		})
	}

	for i, e := range g.Edges() {
		st := vs.Edges[e.ID]
		from := rewriteEndpoint(g, e.From)
		to := rewriteEndpoint(g, e.To)
		recs.Edges = append(recs.Edges, EdgeRecord{
			ID:         string(e.ID),
			From:       from,
			To:         to,
			Label:      e.Label,
			BendPoints: st.BendPoints,
			Color:      flowPalette[i%5],
		})
	}

	return recs
}

func rewriteEndpoint(g *graph.Graph, id graph.NodeId) string {
	if g.HasSubgraph(graph.SubgraphId(id)) {
		return containerID(string(id))
	}
	return string(id)
}
