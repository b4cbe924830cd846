// Package layout implements the hierarchical auto-layout engine: per-
// subgraph interior layout, parent enlargement, meta-graph layout, and
// nested placement, producing a visualstate.VisualState from a
// graph.Graph. Node ranking uses longest-path fixed-point propagation
// (see rank.go); placement within a rank is sequential in
// source-appearance order for determinism.
package layout

import (
	"log/slog"

	"github.com/diagramkit/core/config"
	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/visualstate"
)

// Options configures one AutoLayout call.
type Options struct {
	Spacing config.Spacing
	// Logger receives Debug-level phase/iteration messages when non-nil.
	// The core performs no I/O by default; callers opt in.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// AutoLayout runs the four-phase layout pipeline and returns a fresh
// VisualState. prior may be nil; locked entries in prior are preserved
// verbatim in the result.
func AutoLayout(g *graph.Graph, prior *visualstate.VisualState, opts Options) *visualstate.VisualState {
	log := opts.logger()
	sp := opts.Spacing

	sizes := computeSizes(g)

	log.Debug("layout: phase 1 interior layout", "subgraphs", len(g.Subgraphs()))
	nodeLocal, sgSize := phase1Interior(g, sizes, sp)

	log.Debug("layout: phase 1b parent enlargement")
	phase1bEnlarge(g, sgSize, sp)

	log.Debug("layout: phase 2 meta-graph layout")
	topLevelAbs := phase2Meta(g, sizes, sgSize, sp)

	log.Debug("layout: phase 3 nested placement")
	sgAbs := phase3Nested(g, sgSize, topLevelAbs, nodeLocal, sizes, sp)

	log.Debug("layout: phase 4 assemble")
	return phase4Assemble(g, sizes, sgSize, nodeLocal, sgAbs, topLevelAbs, prior)
}

func computeSizes(g *graph.Graph) map[graph.NodeId]visualstate.Size {
	sizes := make(map[graph.NodeId]visualstate.Size, len(g.NodeIDs()))
	for _, n := range g.Nodes() {
		w, h := nodeSize(n.Label, n.Kind)
		sizes[n.ID] = visualstate.Size{Width: w, Height: h}
	}
	return sizes
}

// childSubgraphsOf indexes subgraphs by their immediate Parent.
func childSubgraphsOf(g *graph.Graph) map[graph.SubgraphId][]*graph.Subgraph {
	out := map[graph.SubgraphId][]*graph.Subgraph{}
	for _, sg := range g.Subgraphs() {
		out[sg.Parent] = append(out[sg.Parent], sg)
	}
	return out
}

// depthOf counts Parent hops to the root; used to process subgraphs
// deepest-first in Phase 1b.
func depthOf(g *graph.Graph, id graph.SubgraphId) int {
	d := 0
	for {
		sg, ok := g.Subgraph(id)
		if !ok || sg.Parent == "" {
			return d
		}
		id = sg.Parent
		d++
	}
}

// phase1Interior lays out each subgraph's direct child nodes independently
// and returns each node's parent-relative position plus each subgraph's
// computed content size (pre Phase 1b enlargement).
func phase1Interior(g *graph.Graph, sizes map[graph.NodeId]visualstate.Size, sp config.Spacing) (map[graph.NodeId]visualstate.Point, map[graph.SubgraphId]visualstate.Size) {
	nodeLocal := make(map[graph.NodeId]visualstate.Point)
	sgSize := make(map[graph.SubgraphId]visualstate.Size)

	for _, sg := range g.Subgraphs() {
		children := sg.Children
		if len(children) == 0 {
			sgSize[sg.ID] = visualstate.Size{Width: 0, Height: 0}
			continue
		}

		childSet := make(map[graph.NodeId]bool, len(children))
		lnodes := make([]layoutNode, 0, len(children))
		for _, c := range children {
			childSet[c] = true
			s := sizes[c]
			lnodes = append(lnodes, layoutNode{id: string(c), w: s.Width, h: s.Height})
		}

		var ledges []layoutEdge
		for _, e := range g.Edges() {
			if childSet[e.From] && childSet[e.To] {
				ledges = append(ledges, layoutEdge{from: string(e.From), to: string(e.To)})
			}
		}

		dir := g.Meta.Direction
		if sg.Direction != nil {
			dir = *sg.Direction
		}

		centers := layeredLayout(lnodes, ledges, dir, sp.NodeSeparationVertical, sp.NodeSeparationHorizontal)

		minX, minY := 1e18, 1e18
		maxX, maxY := -1e18, -1e18
		topLeft := make(map[graph.NodeId]visualstate.Point, len(children))
		for _, c := range children {
			s := sizes[c]
			ctr := centers[string(c)]
			tlx, tly := ctr.X-s.Width/2, ctr.Y-s.Height/2
			topLeft[c] = visualstate.Point{X: tlx, Y: tly}
			if tlx < minX {
				minX = tlx
			}
			if tly < minY {
				minY = tly
			}
			if tlx+s.Width > maxX {
				maxX = tlx + s.Width
			}
			if tly+s.Height > maxY {
				maxY = tly + s.Height
			}
		}

		for _, c := range children {
			tl := topLeft[c]
			nodeLocal[c] = visualstate.Point{
				X: tl.X - minX + sp.SubgraphPadding,
				Y: tl.Y - minY + sp.SubgraphPadding + sp.SubgraphHeaderHeight + sp.SubgraphContentTopMargin,
			}
		}

		sgSize[sg.ID] = visualstate.Size{
			Width:  (maxX - minX) + 2*sp.SubgraphPadding + 4,
			Height: (maxY - minY) + 2*sp.SubgraphPadding + sp.SubgraphHeaderHeight + sp.SubgraphContentTopMargin + 4,
		}
	}

	return nodeLocal, sgSize
}

// phase1bEnlarge inflates each subgraph's recorded size, deepest-first, so
// it fits both its own content (from Phase 1) and its child subgraphs'
// bounding boxes, then floors every subgraph at the minimum 300x200.
func phase1bEnlarge(g *graph.Graph, sgSize map[graph.SubgraphId]visualstate.Size, sp config.Spacing) {
	childOf := childSubgraphsOf(g)

	order := g.Subgraphs()
	// Sort deepest-first (stable, small N): simple insertion sort on depth.
	depths := make(map[graph.SubgraphId]int, len(order))
	for _, sg := range order {
		depths[sg.ID] = depthOf(g, sg.ID)
	}
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && depths[order[j].ID] > depths[order[j-1].ID] {
			order[j], order[j-1] = order[j-1], order[j]
			j--
		}
	}

	for _, sg := range order {
		children := childOf[sg.ID]
		if len(children) > 0 {
			dir := g.Meta.Direction
			if sg.Direction != nil {
				dir = *sg.Direction
			}
			vertical := dir == graph.TB || dir == graph.BT

			var totalMain, maxCross float64
			for i, child := range children {
				cs := sgSize[child.ID]
				if i > 0 {
					if vertical {
						totalMain += sp.NestedSubgraphSeparationHorizontal
					} else {
						totalMain += sp.NestedSubgraphSeparationVertical
					}
				}
				if vertical {
					totalMain += cs.Width
					if cs.Height > maxCross {
						maxCross = cs.Height
					}
				} else {
					totalMain += cs.Height
					if cs.Width > maxCross {
						maxCross = cs.Width
					}
				}
			}

			cur := sgSize[sg.ID]
			if vertical {
				if totalMain+2*sp.SubgraphPadding > cur.Width {
					cur.Width = totalMain + 2*sp.SubgraphPadding
				}
				needH := maxCross + 2*sp.SubgraphPadding + sp.SubgraphHeaderHeight + sp.SubgraphContentTopMargin + sp.NestedContentMargin
				if needH > cur.Height {
					cur.Height = needH
				}
			} else {
				if totalMain+2*sp.SubgraphPadding > cur.Height {
					cur.Height = totalMain + 2*sp.SubgraphPadding
				}
				needW := maxCross + 2*sp.SubgraphPadding + sp.NestedContentMargin
				if needW > cur.Width {
					cur.Width = needW
				}
			}
			sgSize[sg.ID] = cur
		}

		cur := sgSize[sg.ID]
		if cur.Width < 300 {
			cur.Width = 300
		}
		if cur.Height < 200 {
			cur.Height = 200
		}
		sgSize[sg.ID] = cur
	}
}

// containerOf maps an edge endpoint to the top-level subgraph or
// standalone node it belongs to, for meta-graph edge aggregation. Uses
// topmost-ancestor aggregation (see DESIGN.md): meta-graph vertices are
// structurally required to be top-level, so mapping to an immediate
// parent could land on a nested subgraph the meta-graph never lays out.
func containerOf(g *graph.Graph, id graph.NodeId) string {
	if n, ok := g.Node(id); ok {
		if n.Parent == "" {
			return string(id)
		}
		return string(g.TopAncestor(n.Parent))
	}
	if g.HasSubgraph(graph.SubgraphId(id)) {
		return string(g.TopAncestor(graph.SubgraphId(id)))
	}
	return string(id)
}

// phase2Meta lays out the meta-graph of top-level subgraphs and standalone
// nodes and returns each top-level entity's canvas-absolute top-left
// position.
func phase2Meta(g *graph.Graph, sizes map[graph.NodeId]visualstate.Size, sgSize map[graph.SubgraphId]visualstate.Size, sp config.Spacing) map[string]visualstate.Point {
	var lnodes []layoutNode
	sizeOf := map[string]visualstate.Size{}

	for _, sg := range g.Subgraphs() {
		if sg.Parent == "" {
			s := sgSize[sg.ID]
			lnodes = append(lnodes, layoutNode{id: string(sg.ID), w: s.Width, h: s.Height})
			sizeOf[string(sg.ID)] = s
		}
	}
	for _, n := range g.Nodes() {
		if n.Parent == "" {
			s := sizes[n.ID]
			lnodes = append(lnodes, layoutNode{id: string(n.ID), w: s.Width, h: s.Height})
			sizeOf[string(n.ID)] = s
		}
	}

	weight := map[[2]string]int{}
	var pairs [][2]string
	for _, e := range g.Edges() {
		a, b := containerOf(g, e.From), containerOf(g, e.To)
		if a == b {
			continue
		}
		k := [2]string{a, b}
		if weight[k] == 0 {
			pairs = append(pairs, k)
		}
		weight[k]++
	}

	var ledges []layoutEdge
	for _, k := range pairs {
		ledges = append(ledges, layoutEdge{from: k[0], to: k[1], weight: weight[k]})
	}

	centers := layeredLayout(lnodes, ledges, g.Meta.Direction, sp.ContainerSeparationVertical, sp.ContainerSeparationHorizontal)

	abs := make(map[string]visualstate.Point, len(lnodes))
	for _, ln := range lnodes {
		c := centers[ln.id]
		s := sizeOf[ln.id]
		abs[ln.id] = visualstate.Point{X: c.X - s.Width/2, Y: c.Y - s.Height/2}
	}
	return abs
}

// phase3Nested places each subgraph's direct child subgraphs inside it,
// starting from the top-level positions Phase 2 computed, iterating until
// no more positionable subgraphs remain (bounded to 100 rounds).
func phase3Nested(g *graph.Graph, sgSize map[graph.SubgraphId]visualstate.Size, topLevelAbs map[string]visualstate.Point, nodeLocal map[graph.NodeId]visualstate.Point, sizes map[graph.NodeId]visualstate.Size, sp config.Spacing) map[graph.SubgraphId]visualstate.Point {
	abs := make(map[graph.SubgraphId]visualstate.Point)
	for _, sg := range g.Subgraphs() {
		if sg.Parent == "" {
			if p, ok := topLevelAbs[string(sg.ID)]; ok {
				abs[sg.ID] = p
			}
		}
	}

	childOf := childSubgraphsOf(g)

	for round := 0; round < 100; round++ {
		progressed := false
		for _, parent := range g.Subgraphs() {
			parentAbs, ok := abs[parent.ID]
			if !ok {
				continue
			}
			children := childOf[parent.ID]
			var pending []*graph.Subgraph
			for _, c := range children {
				if _, done := abs[c.ID]; !done {
					pending = append(pending, c)
				}
			}
			if len(pending) == 0 {
				continue
			}

			dir := g.Meta.Direction
			if parent.Direction != nil {
				dir = *parent.Direction
			}

			lnodes := make([]layoutNode, 0, len(pending))
			for _, c := range pending {
				s := sgSize[c.ID]
				lnodes = append(lnodes, layoutNode{id: string(c.ID), w: s.Width, h: s.Height})
			}

			childSet := make(map[graph.SubgraphId]bool, len(pending))
			for _, c := range pending {
				childSet[c.ID] = true
			}
			var ledges []layoutEdge
			weight := map[[2]string]int{}
			var pairs [][2]string
			for _, e := range g.Edges() {
				fn, fok := g.Node(e.From)
				tn, tok := g.Node(e.To)
				if !fok || !tok {
					continue
				}
				if childSet[fn.Parent] && childSet[tn.Parent] && fn.Parent != tn.Parent {
					k := [2]string{string(fn.Parent), string(tn.Parent)}
					if weight[k] == 0 {
						pairs = append(pairs, k)
					}
					weight[k]++
				}
			}
			for _, k := range pairs {
				ledges = append(ledges, layoutEdge{from: k[0], to: k[1], weight: weight[k]})
			}
			if len(ledges) == 0 && len(pending) > 1 {
				for i := 0; i+1 < len(pending); i++ {
					ledges = append(ledges, layoutEdge{from: string(pending[i].ID), to: string(pending[i+1].ID)})
				}
			}

			centers := layeredLayout(lnodes, ledges, dir, sp.NestedSubgraphSeparationVertical, sp.NestedSubgraphSeparationHorizontal)

			minX, minY := 1e18, 1e18
			maxX, maxY := -1e18, -1e18
			topLeft := make(map[graph.SubgraphId]visualstate.Point, len(pending))
			for _, c := range pending {
				s := sgSize[c.ID]
				ctr := centers[string(c.ID)]
				tlx, tly := ctr.X-s.Width/2, ctr.Y-s.Height/2
				topLeft[c.ID] = visualstate.Point{X: tlx, Y: tly}
				if tlx < minX {
					minX = tlx
				}
				if tly < minY {
					minY = tly
				}
				if tlx+s.Width > maxX {
					maxX = tlx + s.Width
				}
				if tly+s.Height > maxY {
					maxY = tly + s.Height
				}
			}

			vertical := dir == graph.TB || dir == graph.BT

			lowestDirectNodeEdge := sp.SubgraphHeaderHeight + sp.SubgraphContentTopMargin
			for _, cid := range parent.Children {
				if p, ok := nodeLocal[cid]; ok {
					s := sizes[cid]
					bottom := p.Y + s.Height
					if vertical && bottom+sp.MixedContentVerticalSpacing > lowestDirectNodeEdge {
						lowestDirectNodeEdge = bottom + sp.MixedContentVerticalSpacing
					}
					right := p.X + s.Width
					if !vertical && right+sp.MixedContentHorizontalSpacing > lowestDirectNodeEdge {
						lowestDirectNodeEdge = right + sp.MixedContentHorizontalSpacing
					}
				}
			}

			var originX, originY float64
			parentSize := sgSize[parent.ID]
			if vertical {
				base := sp.SubgraphPadding + sp.SubgraphHeaderHeight
				if lowestDirectNodeEdge > base {
					base = lowestDirectNodeEdge
				}
				originY = base
				originX = (parentSize.Width - (maxX - minX)) / 2
			} else {
				base := sp.SubgraphPadding
				if lowestDirectNodeEdge > base {
					base = lowestDirectNodeEdge
				}
				originX = base
				originY = (parentSize.Height - (maxY - minY)) / 2
			}

			for _, c := range pending {
				tl := topLeft[c.ID]
				abs[c.ID] = visualstate.Point{
					X: parentAbs.X + originX + (tl.X - minX),
					Y: parentAbs.Y + originY + (tl.Y - minY),
				}
			}
			progressed = true
		}
		if !progressed {
			break
		}
	}

	return abs
}

// phase4Assemble converts absolute subgraph positions to parent-relative
// coordinates, applies locked overrides from prior verbatim, and passes
// through prior edges/viewport unchanged.
func phase4Assemble(
	g *graph.Graph,
	sizes map[graph.NodeId]visualstate.Size,
	sgSize map[graph.SubgraphId]visualstate.Size,
	nodeLocal map[graph.NodeId]visualstate.Point,
	sgAbs map[graph.SubgraphId]visualstate.Point,
	topLevelAbs map[string]visualstate.Point,
	prior *visualstate.VisualState,
) *visualstate.VisualState {
	out := visualstate.New()

	for _, sg := range g.Subgraphs() {
		if locked, ok := prior.LockedSubgraph(sg.ID); ok {
			out.Subgraphs[sg.ID] = locked
			continue
		}
		abs := sgAbs[sg.ID]
		pos := abs
		if sg.Parent != "" {
			parentAbs := sgAbs[sg.Parent]
			pos = visualstate.Point{X: abs.X - parentAbs.X, Y: abs.Y - parentAbs.Y}
		}
		out.Subgraphs[sg.ID] = visualstate.SubgraphState{Position: pos, Size: sgSize[sg.ID]}
	}

	for _, n := range g.Nodes() {
		if locked, ok := prior.LockedNode(n.ID); ok {
			out.Nodes[n.ID] = locked
			continue
		}
		var pos visualstate.Point
		if n.Parent != "" {
			pos = nodeLocal[n.ID]
		} else {
			pos = topLevelAbs[string(n.ID)]
		}
		s := sizes[n.ID]
		out.Nodes[n.ID] = visualstate.NodeState{Position: pos, Size: &s}
	}

	for _, e := range g.Edges() {
		if prior != nil {
			if es, ok := prior.Edges[e.ID]; ok {
				out.Edges[e.ID] = es
				continue
			}
		}
		out.Edges[e.ID] = visualstate.EdgeState{}
	}

	if prior != nil {
		out.Viewport = prior.Viewport
	}

	return out
}
