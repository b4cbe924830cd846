package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diagramkit/core/graph"
)

// C4 macro-call patterns, generalized from github.com/sammcj/go-mermaid's
// parser/c4_context.go: the same regexp-per-macro dispatch and
// quote/escape-aware parameter splitting, emitting into the shared
// graph.Graph instead of a dedicated ast.C4Diagram tree.
var (
	c4TitlePattern         = regexp.MustCompile(`^\s*title\s+(.+)$`)
	c4CommentPattern       = regexp.MustCompile(`^\s*%%.*$`)
	c4PersonPattern        = regexp.MustCompile(`^\s*Person(_Ext)?\s*\(([^)]+)\)\s*$`)
	c4SystemPattern        = regexp.MustCompile(`^\s*System(Db|Queue)?(_Ext)?\s*\(([^)]+)\)\s*$`)
	c4ContainerPattern     = regexp.MustCompile(`^\s*Container(Db|Queue)?(_Ext)?\s*\(([^)]+)\)\s*$`)
	c4ComponentPattern     = regexp.MustCompile(`^\s*Component(Db|Queue)?(_Ext)?\s*\(([^)]+)\)\s*$`)
	c4RelPattern           = regexp.MustCompile(`^\s*(Rel|Rel_Back|Rel_Neighbor|Rel_Down|Rel_Up|Rel_Left|Rel_Right|Rel_U|Rel_D|Rel_L|Rel_R|BiRel)\s*\(([^)]+)\)\s*$`)
	c4BoundaryStartPattern = regexp.MustCompile(`^\s*(Boundary|Enterprise_Boundary|System_Boundary|Container_Boundary)\s*\(([^)]+)\)\s*\{\s*$`)
	c4BoundaryEndPattern   = regexp.MustCompile(`^\s*\}\s*$`)
	c4ElementStylePattern  = regexp.MustCompile(`^\s*UpdateElementStyle\s*\(([^)]+)\)\s*$`)
	c4RelStylePattern      = regexp.MustCompile(`^\s*UpdateRelStyle\s*\(([^)]+)\)\s*$`)
)

// C4ContextParser parses C4-Context diagrams into a graph.Graph.
type C4ContextParser struct{}

// NewC4ContextParser creates a new C4-Context parser.
func NewC4ContextParser() *C4ContextParser { return &C4ContextParser{} }

// Parse parses a C4Context diagram. Elements and relationships may
// reference IDs not yet declared; forward references are tolerated during
// the walk and checked only by the final graph.Validate call, matching
// the dialect's macro-call ordering freedom.
func (p *C4ContextParser) Parse(source string) (*graph.Graph, error) {
	lines := strings.Split(source, "\n")

	firstLine := 0
	for firstLine < len(lines) && strings.TrimSpace(lines[firstLine]) == "" {
		firstLine++
	}
	if firstLine >= len(lines) || !strings.EqualFold(strings.TrimSpace(lines[firstLine]), "C4Context") {
		return nil, &graph.ParseError{Line: firstLine + 1, Reason: "expected C4Context header"}
	}

	g := graph.New(graph.Meta{Direction: graph.TB, Dialect: "c4context"})

	cp := &c4Pass{g: g}
	if err := cp.walk(lines[firstLine+1:], firstLine+2, ""); err != nil {
		return nil, err
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("c4context: %w", err)
	}
	return g, nil
}

type c4Pass struct {
	g           *graph.Graph
	edgeCounter int
}

// walk processes one nesting level; parent is the enclosing boundary's ID,
// or "" at the top level.
func (p *c4Pass) walk(lines []string, startLine int, parent graph.SubgraphId) error {
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		lineNum := startLine + i

		if trimmed == "" || c4CommentPattern.MatchString(trimmed) {
			i++
			continue
		}

		if m := c4TitlePattern.FindStringSubmatch(trimmed); m != nil {
			p.g.Meta.Title = strings.TrimSpace(m[1])
			i++
			continue
		}

		if m := c4BoundaryStartPattern.FindStringSubmatch(trimmed); m != nil {
			boundaryType := m[1]
			params := parseC4Parameters(m[2])
			if len(params) < 2 {
				return &graph.ParseError{Line: lineNum, Reason: fmt.Sprintf("%s requires at least id and label", boundaryType)}
			}
			id := graph.SubgraphId(params[0])

			depth := 1
			end := i + 1
			for end < len(lines) && depth > 0 {
				t := strings.TrimSpace(lines[end])
				if c4BoundaryStartPattern.MatchString(t) {
					depth++
				} else if c4BoundaryEndPattern.MatchString(t) {
					depth--
				}
				if depth > 0 {
					end++
				}
			}
			if depth > 0 {
				return &graph.ParseError{Line: lineNum, Reason: fmt.Sprintf("unclosed boundary %q", id)}
			}

			p.g.AddSubgraph(&graph.Subgraph{
				ID:           id,
				Label:        params[1],
				Parent:       parent,
				BoundaryType: boundaryKind(boundaryType),
			})

			if err := p.walk(lines[i+1:end], lineNum+1, id); err != nil {
				return err
			}
			i = end + 1
			continue
		}

		if node, ok := parseC4Element(trimmed); ok {
			node.Parent = parent
			p.g.AddNode(node)
			if parent != "" {
				if sg, ok := p.g.Subgraph(parent); ok {
					sg.Children = append(sg.Children, node.ID)
				}
			}
			i++
			continue
		}

		if edge, ok := p.parseC4Relationship(trimmed); ok {
			p.g.AddEdge(edge)
			i++
			continue
		}

		if style, ok := parseC4Style(trimmed); ok {
			p.g.C4Styles = append(p.g.C4Styles, style)
			i++
			continue
		}

		// Best-effort: unrecognised lines are skipped, matching the
		// flowchart parser's silent-skip philosophy rather than failing
		// the whole diagram over one malformed macro call.
		i++
	}
	return nil
}

func boundaryKind(macro string) graph.BoundaryType {
	switch macro {
	case "Enterprise_Boundary":
		return graph.BoundaryEnterprise
	case "System_Boundary":
		return graph.BoundarySystem
	case "Container_Boundary":
		return graph.BoundaryContainer
	default:
		return graph.BoundaryGeneric
	}
}

func parseC4Element(line string) (*graph.Node, bool) {
	if m := c4PersonPattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[2])
		if len(params) < 2 {
			return nil, false
		}
		t := graph.C4Person
		if m[1] != "" {
			t = graph.C4PersonExt
		}
		return &graph.Node{
			ID:    graph.NodeId(params[0]),
			Label: params[1],
			Kind:  graph.KindRound,
			C4: &graph.C4Info{
				Type:        t,
				Description: getParam(params, 2),
				Tags:        getParam(params, 4),
			},
		}, true
	}

	if m := c4SystemPattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[3])
		if len(params) < 2 {
			return nil, false
		}
		t := graph.C4System
		switch {
		case m[1] == "Db":
			t = graph.C4SystemDb
		case m[1] == "Queue":
			t = graph.C4SystemQueue
		case m[2] != "":
			t = graph.C4SystemExt
		}
		return &graph.Node{
			ID:    graph.NodeId(params[0]),
			Label: params[1],
			Kind:  graph.KindRect,
			C4: &graph.C4Info{
				Type:        t,
				Description: getParam(params, 2),
				Tags:        getParam(params, 4),
			},
		}, true
	}

	if m := c4ContainerPattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[3])
		if len(params) < 2 {
			return nil, false
		}
		t := graph.C4Container
		switch {
		case m[1] == "Db":
			t = graph.C4ContainerDb
		case m[1] == "Queue":
			t = graph.C4ContainerQueue
		case m[2] != "":
			t = graph.C4ContainerExt
		}
		return &graph.Node{
			ID:    graph.NodeId(params[0]),
			Label: params[1],
			Kind:  graph.KindRect,
			C4: &graph.C4Info{
				Type:        t,
				Technology:  getParam(params, 2),
				Description: getParam(params, 3),
				Tags:        getParam(params, 5),
			},
		}, true
	}

	if m := c4ComponentPattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[3])
		if len(params) < 2 {
			return nil, false
		}
		t := graph.C4Component
		switch {
		case m[1] == "Db":
			t = graph.C4ComponentDb
		case m[1] == "Queue":
			t = graph.C4ComponentQueue
		case m[2] != "":
			t = graph.C4ComponentExt
		}
		return &graph.Node{
			ID:    graph.NodeId(params[0]),
			Label: params[1],
			Kind:  graph.KindRect,
			C4: &graph.C4Info{
				Type:        t,
				Technology:  getParam(params, 2),
				Description: getParam(params, 3),
				Tags:        getParam(params, 5),
			},
		}, true
	}

	return nil, false
}

// parseC4Relationship parses one Rel/BiRel/direction-hint call into a
// directed or bidirectional edge. The label is optional, matching
// Rel(from, to[, "label"...]).
func (p *c4Pass) parseC4Relationship(line string) (*graph.Edge, bool) {
	m := c4RelPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	params := parseC4Parameters(m[2])
	if len(params) < 2 {
		return nil, false
	}
	from, to := graph.NodeId(params[0]), graph.NodeId(params[1])
	kind := graph.Directed
	if m[1] == "BiRel" {
		kind = graph.Bidirectional
	}
	id := graph.EdgeId(fmt.Sprintf("e-%s-%s-%d", from, to, p.edgeCounter))
	p.edgeCounter++
	return &graph.Edge{
		ID:    id,
		From:  from,
		To:    to,
		Label: getParam(params, 2),
		Kind:  kind,
		C4: &graph.C4EdgeInfo{
			Technology:  getParam(params, 3),
			Description: getParam(params, 4),
			Tags:        getParam(params, 6),
		},
	}, true
}

func parseC4Style(line string) (graph.C4StyleOverride, bool) {
	if m := c4ElementStylePattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[1])
		if len(params) < 1 {
			return graph.C4StyleOverride{}, false
		}
		return graph.C4StyleOverride{
			Kind:        "element",
			ElementID:   params[0],
			BgColor:     getParam(params, 1),
			FontColor:   getParam(params, 2),
			BorderColor: getParam(params, 3),
		}, true
	}
	if m := c4RelStylePattern.FindStringSubmatch(line); m != nil {
		params := parseC4Parameters(m[1])
		if len(params) < 2 {
			return graph.C4StyleOverride{}, false
		}
		return graph.C4StyleOverride{
			Kind:      "rel",
			From:      params[0],
			To:        params[1],
			TextColor: getParam(params, 2),
			LineColor: getParam(params, 3),
		}, true
	}
	return graph.C4StyleOverride{}, false
}

// parseC4Parameters parses comma-separated macro-call parameters, honoring
// quoted strings and backslash escapes so labels containing commas or
// parentheses split correctly.
func parseC4Parameters(params string) []string {
	var result []string
	var current strings.Builder
	inQuotes := false
	escaped := false

	for i, ch := range params {
		switch {
		case escaped:
			current.WriteRune(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}

		if i == len(params)-1 {
			result = append(result, strings.TrimSpace(current.String()))
		}
	}

	for i, p := range result {
		if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
			result[i] = p[1 : len(p)-1]
		}
	}

	return result
}

func getParam(params []string, index int) string {
	if index < len(params) {
		return params[index]
	}
	return ""
}
