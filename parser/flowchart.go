// Package parser provides dialect-sensitive parsing of Mermaid flowchart
// and C4-Context diagrams into a shared semantic graph.Graph.
//
// Generalized from github.com/sammcj/go-mermaid's parser/flowchart.go,
// which tokenizes with the same regexp-dispatch, skip-silently-on-no-match
// style but emits a single-dialect ast.Flowchart instead of the shared
// graph.Graph this module requires, and does not coalesce multi-line
// labels, track a subgraph stack, or synthesize stable edge IDs.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/diagramkit/core/graph"
)

var (
	headerPattern      = regexp.MustCompile(`(?i)(flowchart|graph)\s+(TB|TD|BT|RL|LR)`)
	directionPattern   = regexp.MustCompile(`^direction\s+(TB|TD|BT|RL|LR)$`)
	subgraphPattern    = regexp.MustCompile(`^subgraph\s+(.*)$`)
	endPattern         = regexp.MustCompile(`^end$`)
	classDefPattern    = regexp.MustCompile(`^classDef\s+(\w+)\s+(.+)$`)
	classAssignPattern = regexp.MustCompile(`^class\s+([\w,\s]+?)\s+(\w+)\s*$`)
	subgraphTitlePat   = regexp.MustCompile(`^([A-Za-z0-9_]+)\s*\[(.*)\]$`)
	subgraphBarePat    = regexp.MustCompile(`^([A-Za-z0-9_]+)$`)

	idPattern = `[A-Za-z0-9_]+`

	shapePatterns = []struct {
		kind graph.NodeKind
		re   *regexp.Regexp
	}{
		{graph.KindDiamond, regexp.MustCompile(`^(` + idPattern + `)\{(.*)\}$`)},
		{graph.KindCircle, regexp.MustCompile(`^(` + idPattern + `)\(\((.*)\)\)$`)},
		{graph.KindStadium, regexp.MustCompile(`^(` + idPattern + `)\(\[(.*)\]\)$`)},
		{graph.KindRect, regexp.MustCompile(`^(` + idPattern + `)\[(.*)\]$`)},
		{graph.KindRound, regexp.MustCompile(`^(` + idPattern + `)\((.*)\)$`)},
	}
	barePattern = regexp.MustCompile(`^(` + idPattern + `)$`)

	// splitLabelPattern rewrites the "-- text -->" inline label form into
	// an equivalent "-->|text|" pipe form so the chain tokenizer only has
	// to handle one label shape.
	splitLabelPattern = regexp.MustCompile(`(?:--|-\.|==)\s*([^|>=.][^|>]*?)\s*(-->|-\.->|==>|---|-\.-|===)`)
)

// arrowTokens is tried in priority order: longest and most-specific first,
// per the arrow precedence the parser must honor to avoid "-->" being
// mis-split as "--" followed by a dangling ">".
var arrowTokens = []struct {
	token string
	kind  graph.EdgeKind
}{
	{"-.->", graph.Directed},
	{"-->", graph.Directed},
	{"==>", graph.Directed},
	{"->>", graph.Directed},
	{"<->", graph.Bidirectional},
	{"-<>", graph.Directed},
	{"---", graph.Directed},
	{"-.-", graph.Directed},
	{":::", graph.Directed},
	{":-:", graph.Directed},
	{"...", graph.Directed},
	{"===", graph.Directed},
	{"<-", graph.Directed},
	{"->", graph.Directed},
	{"~", graph.Directed},
}

// FlowchartParser parses Mermaid flowchart/graph diagrams into a
// graph.Graph.
type FlowchartParser struct{}

// NewFlowchartParser creates a new flowchart parser.
func NewFlowchartParser() *FlowchartParser { return &FlowchartParser{} }

type srcLine struct {
	text string
	line int // 1-indexed starting line of the (possibly coalesced) statement
}

// Parse parses a flowchart/graph diagram from source text.
func (p *FlowchartParser) Parse(source string) (*graph.Graph, error) {
	lines := preprocess(source)

	direction := graph.TB
	headerIdx := -1
	for i, l := range lines {
		if m := headerPattern.FindStringSubmatch(l.text); m != nil {
			d := strings.ToUpper(m[2])
			if d == "TD" {
				d = "TB"
			}
			direction = graph.Direction(d)
			headerIdx = i
			break
		}
	}
	if headerIdx >= 0 {
		lines = append(lines[:headerIdx], lines[headerIdx+1:]...)
	}

	g := graph.New(graph.Meta{Direction: direction, Dialect: "flowchart"})

	defs := scanDefinitions(lines)

	fp := &flowchartPass{g: g, defs: defs, knownSubgraphs: map[graph.SubgraphId]bool{}}
	fp.run(lines)

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("flowchart: %w", err)
	}
	return g, nil
}

// preprocess trims lines, drops blanks and `%%` comments, then coalesces
// adjacent lines while the accumulated bracket balance stays positive,
// supporting multi-line node labels.
func preprocess(source string) []srcLine {
	raw := strings.Split(source, "\n")

	var kept []srcLine
	for i, line := range raw {
		t := strings.TrimSpace(line)
		if t == "" || strings.HasPrefix(t, "%%") {
			continue
		}
		kept = append(kept, srcLine{text: t, line: i + 1})
	}

	var out []srcLine
	i := 0
	for i < len(kept) {
		start := kept[i]
		text := start.text
		balance := bracketBalance(text)
		j := i + 1
		for balance > 0 && j < len(kept) {
			text = text + " " + kept[j].text
			balance += bracketBalance(kept[j].text)
			j++
		}
		out = append(out, srcLine{text: text, line: start.line})
		i = j
	}
	return out
}

func bracketBalance(s string) int {
	balance := 0
	for _, r := range s {
		switch r {
		case '[', '(', '{':
			balance++
		case ']', ')', '}':
			balance--
		}
	}
	return balance
}

type nodeDef struct {
	kind  graph.NodeKind
	label string
}

// scanDefinitions harvests explicit shape definitions into a table keyed
// by node ID so a node referenced early but defined (with a shape) later
// still carries its declared shape. First definition wins.
func scanDefinitions(lines []srcLine) map[string]nodeDef {
	defs := map[string]nodeDef{}

	for _, l := range lines {
		if isStructuralLine(l.text) {
			continue
		}
		text := splitLabelPattern.ReplaceAllStringFunc(l.text, func(m string) string {
			sub := splitLabelPattern.FindStringSubmatch(m)
			return sub[2] + "|" + strings.TrimSpace(sub[1]) + "|"
		})
		for _, seg := range splitSegments(text, findOperators(text)) {
			ref, ok := parseNodeRef(parseSegment(seg).body)
			if !ok || !ref.hasShape {
				continue
			}
			if _, seen := defs[ref.id]; !seen {
				defs[ref.id] = nodeDef{kind: ref.kind, label: ref.label}
			}
		}
	}
	return defs
}

func isStructuralLine(text string) bool {
	return subgraphPattern.MatchString(text) || endPattern.MatchString(text) ||
		directionPattern.MatchString(text) || classDefPattern.MatchString(text) ||
		classAssignPattern.MatchString(text)
}

type flowchartPass struct {
	g              *graph.Graph
	defs           map[string]nodeDef
	stack          []graph.SubgraphId
	knownSubgraphs map[graph.SubgraphId]bool
	edgeCounter    int
}

func (p *flowchartPass) run(lines []srcLine) {
	for _, l := range lines {
		text := l.text

		if m := subgraphPattern.FindStringSubmatch(text); m != nil {
			id := p.pushSubgraph(m[1], l.line)
			p.stack = append(p.stack, id)
			continue
		}

		if endPattern.MatchString(text) {
			if len(p.stack) > 0 {
				p.stack = p.stack[:len(p.stack)-1]
			}
			continue
		}

		if m := directionPattern.FindStringSubmatch(text); m != nil {
			if len(p.stack) > 0 {
				d := graph.Direction(strings.ToUpper(m[1]))
				if d == "TD" {
					d = graph.TB
				}
				if sg, ok := p.g.Subgraph(p.stack[len(p.stack)-1]); ok {
					sg.Direction = &d
				}
			}
			continue
		}

		if m := classDefPattern.FindStringSubmatch(text); m != nil {
			p.g.ClassDefs[m[1]] = parseStyleProps(m[2])
			continue
		}

		if m := classAssignPattern.FindStringSubmatch(text); m != nil {
			names := strings.Split(m[1], ",")
			for _, raw := range names {
				id := graph.NodeId(strings.TrimSpace(raw))
				if n, ok := p.g.Node(id); ok {
					n.ClassNames = append(n.ClassNames, m[2])
				}
			}
			continue
		}

		if p.tryParseEdgeChain(text) {
			continue
		}

		p.tryParseStandaloneNode(text)
	}
}

// pushSubgraph implements the subgraph-header forms: `subgraph id [Title]`,
// `subgraph "Title"`, bare `subgraph id`, and the remaining "title with
// spaces, no brackets" form, which is taken as the whole title and slugged
// into a new ID that shadows the written token — a quirk kept on purpose
// (see DESIGN.md).
func (p *flowchartPass) pushSubgraph(tail string, lineNum int) graph.SubgraphId {
	tail = strings.TrimSpace(tail)
	var parent graph.SubgraphId
	if len(p.stack) > 0 {
		parent = p.stack[len(p.stack)-1]
	}

	var id graph.SubgraphId
	var title string

	switch {
	case len(tail) >= 2 && tail[0] == '"' && tail[len(tail)-1] == '"':
		title = stripQuotesOnce(tail)
		slug := slugify(title)
		if slug == "" {
			slug = fmt.Sprintf("sg-%d", lineNum)
		}
		id = graph.SubgraphId(slug)

	default:
		if m := subgraphTitlePat.FindStringSubmatch(tail); m != nil {
			id = graph.SubgraphId(m[1])
			title = stripQuotesOnce(strings.TrimSpace(m[2]))
		} else if m := subgraphBarePat.FindStringSubmatch(tail); m != nil {
			id = graph.SubgraphId(m[1])
			title = m[1]
		} else {
			title = tail
			slug := slugify(tail)
			if slug == "" {
				slug = fmt.Sprintf("sg-%d", lineNum)
			}
			id = graph.SubgraphId(slug)
		}
	}

	sg, exists := p.g.Subgraph(id)
	if !exists {
		sg = &graph.Subgraph{ID: id, Label: title, Parent: parent}
		p.g.AddSubgraph(sg)
	}
	p.knownSubgraphs[id] = true
	return id
}

func parseStyleProps(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(kv) == 2 {
			out[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	return out
}

// tryParseEdgeChain recognizes a chain of one or more arrow operators on a
// single line (e.g. "A --> B --> C", "A -->|label| B", "A <-> B") and
// creates the intervening nodes/subgraphs and edges. Returns false if no
// operator is found.
func (p *flowchartPass) tryParseEdgeChain(text string) bool {
	text = splitLabelPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := splitLabelPattern.FindStringSubmatch(m)
		label := strings.TrimSpace(sub[1])
		return sub[2] + "|" + label + "|"
	})

	ops := findOperators(text)
	if len(ops) == 0 {
		return false
	}

	segments := splitSegments(text, ops)
	if len(segments) != len(ops)+1 {
		return false
	}

	parsed := make([]parsedSegment, len(segments))
	for i, seg := range segments {
		parsed[i] = parseSegment(seg)
	}

	refs := make([]nodeRef, len(parsed))
	for i, seg := range parsed {
		ref, ok := parseNodeRef(seg.body)
		if !ok {
			return false
		}
		refs[i] = ref
	}

	for i, op := range ops {
		label := parsed[i].trailing
		if label == "" {
			label = parsed[i+1].leading
		}
		fromID := p.resolveEndpoint(refs[i])
		toID := p.resolveEndpoint(refs[i+1])

		eid := graph.EdgeId(fmt.Sprintf("e-%s-%s-%d", fromID, toID, p.edgeCounter))
		p.edgeCounter++

		p.g.AddEdge(&graph.Edge{ID: eid, From: fromID, To: toID, Label: label, Kind: op.kind})
	}
	return true
}

func (p *flowchartPass) resolveEndpoint(ref nodeRef) graph.NodeId {
	if p.knownSubgraphs[graph.SubgraphId(ref.id)] {
		return graph.NodeId(ref.id)
	}
	p.ensureNode(ref)
	return graph.NodeId(ref.id)
}

func (p *flowchartPass) ensureNode(ref nodeRef) {
	id := graph.NodeId(ref.id)
	if p.g.HasNode(id) {
		return
	}
	kind := ref.kind
	label := ref.label
	if !ref.hasShape {
		if d, ok := p.defs[ref.id]; ok {
			kind = d.kind
			label = d.label
		} else {
			kind = graph.KindRect
			label = ref.id
		}
	}
	var parent graph.SubgraphId
	if len(p.stack) > 0 {
		parent = p.stack[len(p.stack)-1]
	}
	p.g.AddNode(&graph.Node{ID: id, Label: label, Kind: kind, Parent: parent})
	if parent != "" {
		if sg, ok := p.g.Subgraph(parent); ok {
			sg.Children = append(sg.Children, id)
		}
	}
}

func (p *flowchartPass) tryParseStandaloneNode(text string) {
	ref, ok := parseNodeRef(text)
	if !ok {
		return
	}
	if p.knownSubgraphs[graph.SubgraphId(ref.id)] {
		return
	}
	p.ensureNode(ref)
}

type operatorMatch struct {
	start, end int
	token      string
	kind       graph.EdgeKind
}

func findOperators(text string) []operatorMatch {
	var out []operatorMatch
	i := 0
	for i < len(text) {
		matched := false
		for _, tok := range arrowTokens {
			n := len(tok.token)
			if i+n <= len(text) && text[i:i+n] == tok.token {
				out = append(out, operatorMatch{start: i, end: i + n, token: tok.token, kind: tok.kind})
				i += n
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
	return out
}

func splitSegments(text string, ops []operatorMatch) []string {
	segs := make([]string, 0, len(ops)+1)
	prev := 0
	for _, op := range ops {
		segs = append(segs, text[prev:op.start])
		prev = op.end
	}
	segs = append(segs, text[prev:])
	return segs
}

type parsedSegment struct {
	leading, trailing, body string
}

var pipePattern = regexp.MustCompile(`^\|([^|]*)\|`)

func parseSegment(seg string) parsedSegment {
	seg = strings.TrimSpace(seg)
	var leading, trailing string

	if m := pipePattern.FindStringSubmatch(seg); m != nil {
		leading = sanitizeLabel(m[1])
		seg = strings.TrimSpace(seg[len(m[0]):])
	}
	if idx := strings.LastIndex(seg, "|"); idx >= 0 {
		if start := strings.LastIndex(seg[:idx], "|"); start >= 0 {
			trailing = sanitizeLabel(seg[start+1 : idx])
			seg = strings.TrimSpace(seg[:start])
		}
	}
	return parsedSegment{leading: leading, trailing: trailing, body: seg}
}

type nodeRef struct {
	id       string
	kind     graph.NodeKind
	label    string
	hasShape bool
}

func parseNodeRef(text string) (nodeRef, bool) {
	text = strings.TrimSpace(text)
	for _, sp := range shapePatterns {
		if m := sp.re.FindStringSubmatch(text); m != nil {
			return nodeRef{id: m[1], kind: sp.kind, label: sanitizeLabel(m[2]), hasShape: true}, true
		}
	}
	if m := barePattern.FindStringSubmatch(text); m != nil {
		return nodeRef{id: m[1]}, true
	}
	return nodeRef{}, false
}
