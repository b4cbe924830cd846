// Package jsonstate implements the persisted VisualState JSON format: a
// lenient decoder that drops unknown keys and malformed entries, and an
// encoder that preserves locked entries byte-for-byte across a round trip.
// The decoder has no graph to check IDs against, so it keeps entries
// whatever ID they name; layout.AutoLayout reads a prior state only for
// IDs present in the graph.
package jsonstate

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/diagramkit/core/graph"
	"github.com/diagramkit/core/visualstate"
)

// Decode parses a persisted VisualState blob. Unknown top-level keys and
// malformed entries are dropped silently rather than raising an error,
// matching the format's documented leniency; gjson's path-based access
// makes this the natural default since anything not explicitly read is
// simply never looked at.
func Decode(data []byte) (*visualstate.VisualState, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("jsonstate: invalid JSON")
	}

	root := gjson.ParseBytes(data)
	out := visualstate.New()

	root.Get("nodes").ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		out.Nodes[graph.NodeId(key.String())] = visualstate.NodeState{
			Position: decodePoint(value.Get("position")),
			Size:     decodeSizePtr(value.Get("size")),
			Locked:   value.Get("locked").Bool(),
		}
		return true
	})

	root.Get("edges").ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		var bends []visualstate.Point
		value.Get("bendPoints").ForEach(func(_, bp gjson.Result) bool {
			bends = append(bends, decodePoint(bp))
			return true
		})
		out.Edges[graph.EdgeId(key.String())] = visualstate.EdgeState{BendPoints: bends}
		return true
	})

	root.Get("subgraphs").ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			return true
		}
		out.Subgraphs[graph.SubgraphId(key.String())] = visualstate.SubgraphState{
			Position: decodePoint(value.Get("position")),
			Size:     decodeSize(value.Get("size")),
			Locked:   value.Get("locked").Bool(),
		}
		return true
	})

	if vp := root.Get("viewport"); vp.Exists() && vp.IsObject() {
		pan := decodePoint(vp.Get("pan"))
		out.Viewport = &visualstate.Viewport{Zoom: vp.Get("zoom").Float(), Pan: pan}
	}

	return out, nil
}

func decodePoint(r gjson.Result) visualstate.Point {
	return visualstate.Point{X: r.Get("x").Float(), Y: r.Get("y").Float()}
}

func decodeSize(r gjson.Result) visualstate.Size {
	return visualstate.Size{Width: r.Get("width").Float(), Height: r.Get("height").Float()}
}

func decodeSizePtr(r gjson.Result) *visualstate.Size {
	if !r.Exists() {
		return nil
	}
	s := decodeSize(r)
	return &s
}

// Encode serializes vs to the persisted format. For any entry marked
// Locked, the exact raw JSON fragment from priorRaw is spliced back in via
// sjson rather than re-marshalled, so locked entries survive byte-for-byte
// even across float formatting differences. priorRaw may be nil.
func Encode(vs *visualstate.VisualState, priorRaw []byte) ([]byte, error) {
	doc, err := json.Marshal(vs)
	if err != nil {
		return nil, fmt.Errorf("jsonstate: marshal: %w", err)
	}

	if len(priorRaw) == 0 || !gjson.ValidBytes(priorRaw) {
		return doc, nil
	}
	prior := gjson.ParseBytes(priorRaw)

	for id, n := range vs.Nodes {
		if !n.Locked {
			continue
		}
		path := "nodes." + string(id)
		if raw := prior.Get(path); raw.Exists() {
			doc, err = sjson.SetRawBytes(doc, path, []byte(raw.Raw))
			if err != nil {
				return nil, fmt.Errorf("jsonstate: splice %s: %w", path, err)
			}
		}
	}
	for id, s := range vs.Subgraphs {
		if !s.Locked {
			continue
		}
		path := "subgraphs." + string(id)
		if raw := prior.Get(path); raw.Exists() {
			doc, err = sjson.SetRawBytes(doc, path, []byte(raw.Raw))
			if err != nil {
				return nil, fmt.Errorf("jsonstate: splice %s: %w", path, err)
			}
		}
	}

	return doc, nil
}
