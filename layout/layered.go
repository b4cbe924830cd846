package layout

import (
	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/visualstate"
)

// layoutNode is one vertex of an internal layered-layout pass: a
// subgraph's direct child nodes in Phase 1, top-level containers/nodes in
// Phase 2, or sibling child subgraphs in Phase 3.
type layoutNode struct {
	id   string
	w, h float64
}

// layoutEdge is one aggregated or direct edge feeding a layered-layout
// pass. weight is informational only; it does not currently affect
// ordering, kept for future crossing-minimization refinement.
type layoutEdge struct {
	from, to string
	weight   int
}

// layeredLayout runs longest-path rank assignment (rankNodes) followed by
// source-order-stable placement within each rank, producing a center
// point per node id. Determinism follows directly from nodes/edges being
// presented in source-appearance order.
func layeredLayout(nodes []layoutNode, edges []layoutEdge, dir graph.Direction, rankSep, crossSep float64) map[string]visualstate.Point {
	positions := make(map[string]visualstate.Point, len(nodes))
	if len(nodes) == 0 {
		return positions
	}

	rank := rankNodes(nodes, edges)

	maxRank := 0
	for _, r := range rank {
		if r > maxRank {
			maxRank = r
		}
	}

	byRank := make([][]layoutNode, maxRank+1)
	for _, n := range nodes {
		r := rank[n.id]
		byRank[r] = append(byRank[r], n)
	}

	vertical := dir == graph.TB || dir == graph.BT
	mainDim := func(n layoutNode) float64 {
		if vertical {
			return n.h
		}
		return n.w
	}
	crossDim := func(n layoutNode) float64 {
		if vertical {
			return n.w
		}
		return n.h
	}

	rankMainSize := make([]float64, len(byRank))
	rankCrossExtent := make([]float64, len(byRank))
	crossCoord := make(map[string]float64, len(nodes))

	maxCrossExtent := 0.0
	for r, group := range byRank {
		maxMain := 0.0
		cursor := 0.0
		for i, n := range group {
			if i > 0 {
				cursor += crossSep
			}
			crossCoord[n.id] = cursor + crossDim(n)/2
			cursor += crossDim(n)
			if mainDim(n) > maxMain {
				maxMain = mainDim(n)
			}
		}
		rankMainSize[r] = maxMain
		rankCrossExtent[r] = cursor
		if cursor > maxCrossExtent {
			maxCrossExtent = cursor
		}
	}

	for r, group := range byRank {
		shift := (maxCrossExtent - rankCrossExtent[r]) / 2
		for _, n := range group {
			crossCoord[n.id] += shift
		}
	}

	mainCoord := make([]float64, len(byRank))
	cursor := 0.0
	for r := range byRank {
		mainCoord[r] = cursor + rankMainSize[r]/2
		cursor += rankMainSize[r] + rankSep
	}
	totalMain := cursor

	reverseMain := dir == graph.BT || dir == graph.RL

	for r, group := range byRank {
		m := mainCoord[r]
		if reverseMain {
			m = totalMain - m
		}
		for _, n := range group {
			c := crossCoord[n.id]
			if vertical {
				positions[n.id] = visualstate.Point{X: c, Y: m}
			} else {
				positions[n.id] = visualstate.Point{X: m, Y: c}
			}
		}
	}

	return positions
}
