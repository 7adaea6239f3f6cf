package positions

import (
	"context"
	"errors"
	"testing"

	"github.com/skein-viz/skein/pkg/graph"
)

func TestApply(t *testing.T) {
	nodes := []graph.Node{
		{ID: "api", X: 0, Y: 0},
		{ID: "db", X: 0, Y: 200},
	}

	out := Apply(nodes, Overrides{
		"api":   {X: 50, Y: 10},
		"ghost": {X: 999, Y: 999},
	})

	if out[0].X != 50 || out[0].Y != 10 {
		t.Errorf("api = (%v,%v), want (50,10)", out[0].X, out[0].Y)
	}
	if out[1].X != 0 || out[1].Y != 200 {
		t.Errorf("db moved without an override: (%v,%v)", out[1].X, out[1].Y)
	}
	if nodes[0].X != 0 {
		t.Error("input slice was mutated")
	}
}

func TestApplyEmptyOverrides(t *testing.T) {
	nodes := []graph.Node{{ID: "api", X: 1, Y: 2}}
	if out := Apply(nodes, nil); &out[0] != &nodes[0] {
		// Same backing array: no copy when there is nothing to merge.
		t.Error("expected input slice to pass through unchanged")
	}
}

func TestTopologyHash(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a", X: 1, Y: 2}, {ID: "b"}},
		Edges: []graph.Edge{{ID: "e1", From: "a", To: "b"}},
	}

	moved := graph.Graph{
		Nodes: []graph.Node{{ID: "b"}, {ID: "a", X: 99, Y: -4}},
		Edges: []graph.Edge{{ID: "e1", From: "a", To: "b"}},
	}
	if TopologyHash(g) != TopologyHash(moved) {
		t.Error("hash should ignore positions and node order")
	}

	grown := g
	grown.Nodes = append([]graph.Node{{ID: "c"}}, g.Nodes...)
	if TopologyHash(g) == TopologyHash(grown) {
		t.Error("hash should change when topology changes")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer s.Close()

	viewer := NewViewerID()
	const hash = "abc123"

	if _, err := s.Get(ctx, viewer, hash); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before Put: err = %v, want ErrNotFound", err)
	}

	want := Overrides{"api": {X: 10, Y: 20}}
	if err := s.Put(ctx, viewer, hash, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, viewer, hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["api"] != want["api"] {
		t.Errorf("got %+v, want %+v", got, want)
	}

	// A different viewer sees nothing.
	if _, err := s.Get(ctx, NewViewerID(), hash); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-viewer Get: err = %v, want ErrNotFound", err)
	}

	if err := s.Delete(ctx, viewer, hash); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, viewer, hash); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: err = %v, want ErrNotFound", err)
	}
}
