package coarse

import (
	"context"
	"testing"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
)

func TestGridLayering(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "web"}, {ID: "api"}, {ID: "auth"}, {ID: "db"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "web", To: "api"},
			{ID: "e2", From: "api", To: "auth"},
			{ID: "e3", From: "api", To: "db"},
			{ID: "e4", From: "auth", To: "db"},
		},
	}

	nodes, err := Grid{}.Layout(context.Background(), g, Options{Direction: layout.TopToBottom})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	y := make(map[string]float64)
	for _, n := range nodes {
		y[n.ID] = n.Y
	}

	// Longest-path layering: web=0, api=1, auth=2, db=3 (via auth).
	step := layout.DefaultNodeHeight + layout.DefaultMinLayerGap
	wantY := map[string]float64{
		"web":  0,
		"api":  step,
		"auth": 2 * step,
		"db":   3 * step,
	}
	for id, want := range wantY {
		if y[id] != want {
			t.Errorf("%s.Y = %v, want %v", id, y[id], want)
		}
	}
}

func TestGridDeterministic(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "c"}, {ID: "a"}, {ID: "b"}, {ID: "sink"},
		},
		Edges: []graph.Edge{
			{ID: "e1", From: "a", To: "sink"},
			{ID: "e2", From: "b", To: "sink"},
			{ID: "e3", From: "c", To: "sink"},
		},
	}

	first, err := Grid{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	second, err := Grid{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	for i := range first {
		if first[i] != second[i] {
			t.Errorf("node %s differs across runs: %+v vs %+v", first[i].ID, first[i], second[i])
		}
	}

	// Tier 0 siblings spread in ID order, centered on the cross axis.
	x := make(map[string]float64)
	for _, n := range first {
		x[n.ID] = n.X
	}
	step := layout.DefaultNodeWidth + DefaultNodeGap
	if x["a"] != -step || x["b"] != 0 || x["c"] != step {
		t.Errorf("tier 0 spread = a:%v b:%v c:%v, want %v, 0, %v", x["a"], x["b"], x["c"], -step, step)
	}
}

func TestGridCycleStaysDefined(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}},
		Edges: []graph.Edge{
			{ID: "e1", From: "a", To: "b"},
			{ID: "e2", From: "b", To: "a"},
		},
	}

	nodes, err := Grid{}.Layout(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("node count = %d, want 2", len(nodes))
	}
}

func TestGridEmpty(t *testing.T) {
	nodes, err := Grid{}.Layout(context.Background(), graph.Graph{}, Options{})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if nodes != nil {
		t.Errorf("got %v, want nil", nodes)
	}
}

func TestParsePositions(t *testing.T) {
	dot := `digraph G {
	graph [bb="0,0,500,300"];
	node [label="\N", shape=box];
	"api-gateway"	[height=1.39, pos="100,250", width=2.5];
	auth	[height=1.39, pos="300.5,50.25", width=2.5];
	"api-gateway" -> auth	[pos="e,200,100 120,210 150,170 180,140 195,115"];
}`

	pos, err := parsePositions(dot)
	if err != nil {
		t.Fatalf("parsePositions: %v", err)
	}
	if len(pos) != 2 {
		t.Fatalf("position count = %d, want 2 (edge splines must be skipped)", len(pos))
	}
	if p := pos["api-gateway"]; p != (layout.Point{X: 100, Y: 250}) {
		t.Errorf("api-gateway = %+v, want {100 250}", p)
	}
	if p := pos["auth"]; p != (layout.Point{X: 300.5, Y: 50.25}) {
		t.Errorf("auth = %+v, want {300.5 50.25}", p)
	}
}

func TestParsePositionsEscapedName(t *testing.T) {
	// The dot writer escapes " and \ inside quoted names; the parsed key
	// must match the raw input ID or the node keeps its zero position.
	dot := `digraph G {
	"svc \"edge\""	[height=1.39, pos="100,250", width=2.5];
	"c:\\legacy"	[height=1.39, pos="300,50", width=2.5];
}`

	pos, err := parsePositions(dot)
	if err != nil {
		t.Fatalf("parsePositions: %v", err)
	}
	if p := pos[`svc "edge"`]; p != (layout.Point{X: 100, Y: 250}) {
		t.Errorf(`svc "edge" = %+v, want {100 250}`, p)
	}
	if p := pos[`c:\legacy`]; p != (layout.Point{X: 300, Y: 50}) {
		t.Errorf(`c:\legacy = %+v, want {300 50}`, p)
	}
}
