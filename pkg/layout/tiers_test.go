package layout

import (
	"testing"

	"github.com/skein-viz/skein/pkg/graph"
)

func TestDetectTiers(t *testing.T) {
	tests := []struct {
		name      string
		nodes     []graph.Node
		direction Direction
		want      []Tier
	}{
		{
			name:      "Empty",
			nodes:     nil,
			direction: TopToBottom,
			want:      nil,
		},
		{
			name: "SingleTierWithinTolerance",
			nodes: []graph.Node{
				{ID: "a", X: 0, Y: 0},
				{ID: "b", X: 200, Y: 4},
				{ID: "c", X: 400, Y: 2},
			},
			direction: TopToBottom,
			want: []Tier{
				{Coord: 0, Nodes: []string{"a", "c", "b"}},
			},
		},
		{
			name: "TwoTiers",
			nodes: []graph.Node{
				{ID: "a", X: 0, Y: 0},
				{ID: "b", X: 0, Y: 280},
				{ID: "c", X: 200, Y: 280},
			},
			direction: TopToBottom,
			want: []Tier{
				{Coord: 0, Nodes: []string{"a"}},
				{Coord: 280, Nodes: []string{"b", "c"}},
			},
		},
		{
			name: "ToleranceComparesAgainstTierCoordinate",
			// b is within tolerance of the tier opened at a's coordinate,
			// c is within tolerance of b but not of the tier, so c opens a
			// new tier.
			nodes: []graph.Node{
				{ID: "a", Y: 0},
				{ID: "b", Y: 5},
				{ID: "c", Y: 10},
			},
			direction: TopToBottom,
			want: []Tier{
				{Coord: 0, Nodes: []string{"a", "b"}},
				{Coord: 10, Nodes: []string{"c"}},
			},
		},
		{
			name: "UnsortedInput",
			nodes: []graph.Node{
				{ID: "low", Y: 500},
				{ID: "high", Y: 0},
				{ID: "mid", Y: 250},
			},
			direction: TopToBottom,
			want: []Tier{
				{Coord: 0, Nodes: []string{"high"}},
				{Coord: 250, Nodes: []string{"mid"}},
				{Coord: 500, Nodes: []string{"low"}},
			},
		},
		{
			name: "LeftToRightUsesX",
			nodes: []graph.Node{
				{ID: "a", X: 0, Y: 100},
				{ID: "b", X: 380, Y: 0},
			},
			direction: LeftToRight,
			want: []Tier{
				{Coord: 0, Nodes: []string{"a"}},
				{Coord: 380, Nodes: []string{"b"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTiers(tt.nodes, Config{Direction: tt.direction})

			if len(got) != len(tt.want) {
				t.Fatalf("tier count = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Coord != tt.want[i].Coord {
					t.Errorf("tier %d coord = %v, want %v", i, got[i].Coord, tt.want[i].Coord)
				}
				if len(got[i].Nodes) != len(tt.want[i].Nodes) {
					t.Errorf("tier %d nodes = %v, want %v", i, got[i].Nodes, tt.want[i].Nodes)
					continue
				}
				members := make(map[string]bool, len(got[i].Nodes))
				for _, id := range got[i].Nodes {
					members[id] = true
				}
				for _, id := range tt.want[i].Nodes {
					if !members[id] {
						t.Errorf("tier %d missing node %q (got %v)", i, id, got[i].Nodes)
					}
				}
			}
		})
	}
}

func TestDetectTiersDoesNotMutateInput(t *testing.T) {
	nodes := []graph.Node{
		{ID: "b", Y: 280},
		{ID: "a", Y: 0},
	}
	DetectTiers(nodes, DefaultConfig(TopToBottom))

	if nodes[0].ID != "b" || nodes[1].ID != "a" {
		t.Errorf("input order changed: %v", nodes)
	}
}
