// Package graph defines the semantic graph model: nodes, edges, and nested
// subgraphs/boundaries with stable identifiers. It carries no geometry —
// layout and rendering live in separate packages that reference the same
// identifiers.
package graph

import "fmt"

// NodeId, EdgeId and SubgraphId are opaque, globally unique identifiers
// within one Graph. They are derived from source text by the parser and
// never change across relayouts.
type NodeId string
type EdgeId string
type SubgraphId string

// Direction is a flowchart/C4 layout direction.
type Direction string

const (
	TB Direction = "TB"
	BT Direction = "BT"
	LR Direction = "LR"
	RL Direction = "RL"
)

// NodeKind is the flowchart shape vocabulary.
type NodeKind string

const (
	KindRect    NodeKind = "rect"
	KindRound   NodeKind = "round"
	KindStadium NodeKind = "stadium"
	KindCircle  NodeKind = "circle"
	KindDiamond NodeKind = "diamond"
)

// EdgeKind distinguishes directed from bidirectional edges.
type EdgeKind string

const (
	Directed      EdgeKind = "directed"
	Bidirectional EdgeKind = "bidirectional"
)

// C4Type enumerates the C4-Context element types.
type C4Type string

const (
	C4Person         C4Type = "person"
	C4PersonExt      C4Type = "person_ext"
	C4System         C4Type = "system"
	C4SystemExt      C4Type = "system_ext"
	C4SystemDb       C4Type = "system_db"
	C4SystemQueue    C4Type = "system_queue"
	C4Container      C4Type = "container"
	C4ContainerExt   C4Type = "container_ext"
	C4ContainerDb    C4Type = "container_db"
	C4ContainerQueue C4Type = "container_queue"
	C4Component      C4Type = "component"
	C4ComponentExt   C4Type = "component_ext"
	C4ComponentDb    C4Type = "component_db"
	C4ComponentQueue C4Type = "component_queue"
)

// BoundaryType enumerates the C4 boundary/container kinds.
type BoundaryType string

const (
	BoundaryEnterprise BoundaryType = "enterprise"
	BoundarySystem     BoundaryType = "system"
	BoundaryContainer  BoundaryType = "container"
	BoundaryGeneric    BoundaryType = "boundary"
)

// C4Info carries the C4-specific fields a Node gains when the source
// dialect is c4context. It is nil for plain flowchart nodes.
type C4Info struct {
	Type        C4Type
	Description string
	Technology  string
	Tags        string
}

// Node is a flowchart node, optionally extended with C4 fields.
type Node struct {
	ID     NodeId
	Label  string
	Kind   NodeKind
	Parent SubgraphId // empty string means top-level
	C4     *C4Info

	// ClassNames are classes applied via `class` statements (`:::` is parsed
	// as an edge operator, not as a class assignment). Presentation only;
	// never read by layout.
	ClassNames []string
}

// C4EdgeInfo carries the C4-specific fields an Edge gains under the
// c4context dialect.
type C4EdgeInfo struct {
	Technology  string
	Description string
	Tags        string
}

// Edge connects two nodes or subgraphs (used as boundaries).
type Edge struct {
	ID    EdgeId
	From  NodeId
	To    NodeId
	Label string
	Kind  EdgeKind
	C4    *C4EdgeInfo
}

// Subgraph is a flowchart subgraph or C4 boundary. Children lists only
// direct node children in source-appearance order; nested subgraphs are
// discovered through their own Parent field, never through a child list.
type Subgraph struct {
	ID        SubgraphId
	Label     string
	Parent    SubgraphId // empty string means top-level
	Children  []NodeId
	Direction *Direction // nil means inherit Graph.Meta.Direction

	BoundaryType BoundaryType // empty for plain flowchart subgraphs
}

// C4StyleOverride is a retained `UpdateElementStyle`/`UpdateRelStyle` C4
// directive. Presentation-only; never consulted by layout.
type C4StyleOverride struct {
	Kind        string // "element" or "rel"
	ElementID   string
	From        string
	To          string
	BgColor     string
	FontColor   string
	BorderColor string
	TextColor   string
	LineColor   string
}

// Meta carries the global, non-geometric facts about a diagram.
type Meta struct {
	Direction Direction
	Title     string
	Dialect   string // "flowchart" or "c4context"
}

// Graph is the semantic model produced by a parser: nodes, edges and
// subgraphs keyed by stable ID, iterated in source-appearance order.
type Graph struct {
	Meta Meta

	nodes      map[NodeId]*Node
	nodeOrder  []NodeId
	edges      map[EdgeId]*Edge
	edgeOrder  []EdgeId
	subgraphs  map[SubgraphId]*Subgraph
	sgOrder    []SubgraphId

	ClassDefs map[string]map[string]string
	C4Styles  []C4StyleOverride
}

// New returns an empty Graph ready for a parser to populate.
func New(meta Meta) *Graph {
	return &Graph{
		Meta:      meta,
		nodes:     make(map[NodeId]*Node),
		edges:     make(map[EdgeId]*Edge),
		subgraphs: make(map[SubgraphId]*Subgraph),
		ClassDefs: make(map[string]map[string]string),
	}
}

// AddNode registers a node, preserving insertion order. It is a no-op if
// the ID is already present (first definition wins).
func (g *Graph) AddNode(n *Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
	g.nodeOrder = append(g.nodeOrder, n.ID)
}

// Node looks up a node by ID.
func (g *Graph) Node(id NodeId) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns nodes in source-appearance (insertion) order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodeOrder))
	for _, id := range g.nodeOrder {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns node IDs in insertion order.
func (g *Graph) NodeIDs() []NodeId {
	out := make([]NodeId, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// AddEdge registers an edge, preserving insertion order.
func (g *Graph) AddEdge(e *Edge) {
	g.edges[e.ID] = e
	g.edgeOrder = append(g.edgeOrder, e.ID)
}

// Edge looks up an edge by ID.
func (g *Graph) Edge(id EdgeId) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Edges returns edges in source-appearance (insertion) order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edgeOrder))
	for _, id := range g.edgeOrder {
		out = append(out, g.edges[id])
	}
	return out
}

// AddSubgraph registers a subgraph/boundary, preserving insertion order.
func (g *Graph) AddSubgraph(s *Subgraph) {
	if _, ok := g.subgraphs[s.ID]; !ok {
		g.sgOrder = append(g.sgOrder, s.ID)
	}
	g.subgraphs[s.ID] = s
}

// Subgraph looks up a subgraph/boundary by ID.
func (g *Graph) Subgraph(id SubgraphId) (*Subgraph, bool) {
	s, ok := g.subgraphs[id]
	return s, ok
}

// Subgraphs returns subgraphs in source-appearance (insertion) order.
func (g *Graph) Subgraphs() []*Subgraph {
	out := make([]*Subgraph, 0, len(g.sgOrder))
	for _, id := range g.sgOrder {
		out = append(out, g.subgraphs[id])
	}
	return out
}

// HasNode reports whether id names a node.
func (g *Graph) HasNode(id NodeId) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasSubgraph reports whether id names a subgraph.
func (g *Graph) HasSubgraph(id SubgraphId) bool {
	_, ok := g.subgraphs[id]
	return ok
}

// TopAncestor walks a subgraph's Parent chain to its topmost ancestor.
// Returns the ID itself if it has no parent.
func (g *Graph) TopAncestor(id SubgraphId) SubgraphId {
	for {
		s, ok := g.subgraphs[id]
		if !ok || s.Parent == "" {
			return id
		}
		id = s.Parent
	}
}

// ParseError is the one hard-failure mode of a parser: a produced graph
// that violates an invariant, or an unparseable header. It carries the
// offending line and a one-line reason.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// Validate checks structural invariants over the graph: parent existence,
// acyclic nesting, child-list consistency, and edge-endpoint validity. ID
// stability across reparses is a cross-parse property and isn't checkable
// from a single Graph value.
func (g *Graph) Validate() error {
	// Every subgraph's parent exists, and at most one parent per subgraph
	// (structural by construction: Parent is a single field).
	for _, sg := range g.subgraphs {
		if sg.Parent != "" && !g.HasSubgraph(sg.Parent) {
			return &ParseError{Reason: fmt.Sprintf("subgraph %q references unknown parent %q", sg.ID, sg.Parent)}
		}
	}

	// The parent relation over subgraphs is acyclic.
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[SubgraphId]int, len(g.subgraphs))
	var visit func(id SubgraphId) error
	visit = func(id SubgraphId) error {
		switch color[id] {
		case black:
			return nil
		case gray:
			return &ParseError{Reason: fmt.Sprintf("cycle detected in subgraph parent chain at %q", id)}
		}
		color[id] = gray
		if sg, ok := g.subgraphs[id]; ok && sg.Parent != "" {
			if err := visit(sg.Parent); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	for id := range g.subgraphs {
		if err := visit(id); err != nil {
			return err
		}
	}

	// children[k] of subgraph S is present in nodes and its parent == S.
	for _, sg := range g.subgraphs {
		for _, childID := range sg.Children {
			n, ok := g.nodes[childID]
			if !ok {
				return &ParseError{Reason: fmt.Sprintf("subgraph %q lists unknown child node %q", sg.ID, childID)}
			}
			if n.Parent != sg.ID {
				return &ParseError{Reason: fmt.Sprintf("node %q parent %q does not match listing subgraph %q", childID, n.Parent, sg.ID)}
			}
		}
	}

	// Every from/to in an edge references either a node or a subgraph.
	for _, e := range g.edges {
		if !g.HasNode(e.From) && !g.HasSubgraph(SubgraphId(e.From)) {
			return &ParseError{Reason: fmt.Sprintf("edge %q references unknown endpoint %q", e.ID, e.From)}
		}
		if !g.HasNode(e.To) && !g.HasSubgraph(SubgraphId(e.To)) {
			return &ParseError{Reason: fmt.Sprintf("edge %q references unknown endpoint %q", e.ID, e.To)}
		}
	}

	return nil
}
