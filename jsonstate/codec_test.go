package jsonstate

import (
	"strings"
	"testing"

	"github.com/diagramkit/core/visualstate"
)

func TestDecodeBasic(t *testing.T) {
	src := `{
		"nodes": {"A": {"position": {"x": 1, "y": 2}, "size": {"width": 80, "height": 40}, "locked": true}},
		"edges": {"e1": {"bendPoints": [{"x": 5, "y": 6}]}},
		"subgraphs": {"sg": {"position": {"x": 0, "y": 0}, "size": {"width": 300, "height": 200}}},
		"viewport": {"zoom": 1.5, "pan": {"x": 10, "y": 20}}
	}`
	vs, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := vs.Nodes["A"]
	if a.Position.X != 1 || a.Position.Y != 2 || !a.Locked {
		t.Errorf("got node A = %+v", a)
	}
	if a.Size == nil || a.Size.Width != 80 {
		t.Errorf("got node A size = %+v", a.Size)
	}
	if len(vs.Edges["e1"].BendPoints) != 1 {
		t.Errorf("got edge e1 = %+v", vs.Edges["e1"])
	}
	if vs.Viewport == nil || vs.Viewport.Zoom != 1.5 {
		t.Errorf("got viewport = %+v", vs.Viewport)
	}
}

func TestDecodeIgnoresUnknownKeysAndEntries(t *testing.T) {
	src := `{
		"nodes": {"A": {"position": {"x": 1, "y": 1}}},
		"somethingFuture": {"whatever": true},
		"edges": {"ghost": {"bendPoints": []}}
	}`
	vs, err := Decode([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error decoding forward-compatible blob: %v", err)
	}
	if len(vs.Nodes) != 1 {
		t.Errorf("got %d nodes, want 1", len(vs.Nodes))
	}
	if _, ok := vs.Edges["ghost"]; !ok {
		t.Error("expected ghost edge entry to still decode (unknown-node references are not the decoder's concern)")
	}
}

func TestDecodeInvalidJSONErrors(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestEncodeRoundTripsLockedNodeByteForByte(t *testing.T) {
	priorRaw := []byte(`{"nodes":{"A":{"position":{"x":1.00000001,"y":2},"locked":true}},"edges":{},"subgraphs":{}}`)

	vs := visualstate.New()
	vs.Nodes["A"] = visualstate.NodeState{Position: visualstate.Point{X: 999, Y: 999}, Locked: true}

	out, err := Encode(vs, priorRaw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `1.00000001`) {
		t.Errorf("expected locked node's prior raw fragment preserved byte-for-byte, got %s", out)
	}
}

func TestEncodeUnlockedNodeUsesCurrentValue(t *testing.T) {
	vs := visualstate.New()
	vs.Nodes["A"] = visualstate.NodeState{Position: visualstate.Point{X: 42, Y: 7}}

	out, err := Encode(vs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := Decode(out)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.Nodes["A"].Position.X != 42 {
		t.Errorf("got %+v, want X=42", decoded.Nodes["A"])
	}
}

func TestEncodeWithoutPriorRawSkipsSplicing(t *testing.T) {
	vs := visualstate.New()
	vs.Subgraphs["sg"] = visualstate.SubgraphState{Locked: true, Size: visualstate.Size{Width: 300, Height: 200}}

	out, err := Encode(vs, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := Decode(out)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if decoded.Subgraphs["sg"].Size.Width != 300 {
		t.Errorf("got %+v", decoded.Subgraphs["sg"])
	}
}
