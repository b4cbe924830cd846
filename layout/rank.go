package layout

// rankNodes assigns each node a non-negative integer rank via longest-path
// rank propagation: a fixed-point loop that pushes every edge's target rank
// to at least one past its source, exactly the "changed := true; for
// changed" technique in the mermaid ASCII renderer's layoutNodes function
// (other_examples, FluffyUI), generalized from levels over a flat node map
// to ranks over an explicit node/edge list so it can be reused for the
// per-subgraph, meta, and nested-placement layered graphs alike.
//
// Nodes with no incoming edge start at rank 0; nodes only reachable via a
// cycle keep whatever rank the fixed point leaves them at once no edge can
// push them further, since the loop is bounded by node count rather than
// run to a stable sentinel.
func rankNodes(nodes []layoutNode, edges []layoutEdge) map[string]int {
	hasIncoming := make(map[string]bool, len(nodes))
	for _, e := range edges {
		hasIncoming[e.to] = true
	}

	rank := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if !hasIncoming[n.id] {
			rank[n.id] = 0
		} else {
			rank[n.id] = -1
		}
	}

	for iter := 0; iter < len(nodes)+1; iter++ {
		changed := false
		for _, e := range edges {
			fromRank, ok := rank[e.from]
			if !ok || fromRank < 0 {
				continue
			}
			toRank, ok := rank[e.to]
			if !ok {
				continue
			}
			if toRank < 0 || toRank <= fromRank {
				rank[e.to] = fromRank + 1
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, n := range nodes {
		if rank[n.id] < 0 {
			rank[n.id] = 0
		}
	}
	return rank
}
