package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/skein-viz/skein/pkg/graph"
)

// Tier is a derived entity: a primary-axis coordinate plus the nodes
// sharing it within the tolerance band. Tiers are totally ordered by
// coordinate ascending.
type Tier struct {
	Coord float64  // primary-axis coordinate of the first node opening the tier
	Nodes []string // node IDs assigned to this tier
}

// DetectTiers groups positioned nodes into ordered tiers by their
// primary-axis coordinate. A node joins an existing tier when its
// coordinate is within cfg.Tolerance of the coordinate recorded for that
// tier (not of any individual member); otherwise it opens a new tier at
// its own coordinate. An empty node list yields an empty tier list.
func DetectTiers(nodes []graph.Node, cfg Config) []Tier {
	cfg = cfg.WithDefaults()
	if len(nodes) == 0 {
		return nil
	}

	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b graph.Node) int {
		return cmp.Compare(cfg.Direction.Primary(a), cfg.Direction.Primary(b))
	})

	var tiers []Tier
	for _, n := range sorted {
		coord := cfg.Direction.Primary(n)
		idx := -1
		for i := range tiers {
			if math.Abs(coord-tiers[i].Coord) <= cfg.Tolerance {
				idx = i
				break
			}
		}
		if idx < 0 {
			tiers = append(tiers, Tier{Coord: coord})
			idx = len(tiers) - 1
		}
		tiers[idx].Nodes = append(tiers[idx].Nodes, n.ID)
	}

	// The input walk is pre-sorted so tiers come out ordered, but re-sort
	// explicitly so correctness never depends on insertion order.
	slices.SortFunc(tiers, func(a, b Tier) int {
		return cmp.Compare(a.Coord, b.Coord)
	})

	return tiers
}

// tierIndex builds a lookup from node ID to the index of its tier.
func tierIndex(tiers []Tier) map[string]int {
	m := make(map[string]int)
	for i, t := range tiers {
		for _, id := range t.Nodes {
			m[id] = i
		}
	}
	return m
}
