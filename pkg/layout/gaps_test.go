package layout

import (
	"testing"

	"github.com/skein-viz/skein/pkg/graph"
)

func TestAssignEdgesToGaps(t *testing.T) {
	tierOf := map[string]int{
		"a": 0, "b": 1, "c": 1, "d": 2,
	}

	tests := []struct {
		name  string
		edges []graph.Edge
		want  map[int][]string // gap index -> edge IDs
	}{
		{
			name: "ForwardEdges",
			edges: []graph.Edge{
				{ID: "e1", From: "a", To: "b"},
				{ID: "e2", From: "b", To: "d"},
			},
			want: map[int][]string{0: {"e1"}, 1: {"e2"}},
		},
		{
			name: "BackEdgeSharesGapWithForwardEdge",
			edges: []graph.Edge{
				{ID: "fwd", From: "a", To: "b"},
				{ID: "back", From: "c", To: "a"},
			},
			want: map[int][]string{0: {"fwd", "back"}},
		},
		{
			name: "SameTierDropped",
			edges: []graph.Edge{
				{ID: "flat", From: "b", To: "c"},
			},
			want: map[int][]string{},
		},
		{
			name: "DanglingDropped",
			edges: []graph.Edge{
				{ID: "noSrc", From: "ghost", To: "b"},
				{ID: "noDst", From: "a", To: "ghost"},
			},
			want: map[int][]string{},
		},
		{
			name: "SpanningEdgeLandsInLowerGap",
			edges: []graph.Edge{
				{ID: "long", From: "a", To: "d"},
			},
			want: map[int][]string{0: {"long"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := assignEdgesToGaps(tt.edges, tierOf)

			if len(got) != len(tt.want) {
				t.Fatalf("gap count = %d, want %d", len(got), len(tt.want))
			}
			for gap, ids := range tt.want {
				bucket := got[gap]
				if len(bucket) != len(ids) {
					t.Fatalf("gap %d has %d edges, want %d", gap, len(bucket), len(ids))
				}
				for i, id := range ids {
					if bucket[i].ID != id {
						t.Errorf("gap %d edge %d = %q, want %q", gap, i, bucket[i].ID, id)
					}
				}
			}
		})
	}
}
