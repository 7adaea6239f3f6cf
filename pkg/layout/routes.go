package layout

import (
	"cmp"
	"slices"

	"github.com/skein-viz/skein/pkg/graph"
)

// ComputeEdgeRoutes assigns each inter-tier edge a lane coordinate: a
// y-coordinate under TB, an x-coordinate under LR. The result maps edge ID
// to lane; edges dropped by gap assignment (dangling or same-tier) are
// absent, and the renderer falls back to a curve for them.
//
// Within a gap the edges are ordered by the cross-axis coordinate of their
// target node, tie-broken by the source node's cross-axis coordinate so
// ordering stays deterministic when several edges converge on one target.
// Lanes fan out from the gap center in LaneSpacing steps using floor-median
// centering: with n edges sorted, the edge at index ⌊(n−1)/2⌋ sits exactly
// on the center, so for odd n the middle edge is centered and for even n
// the lower of the two middle edges is.
//
// Positions must be final before calling this (see AdjustLayerSpacing);
// the gap center is the midpoint between the lower tier's far boundary
// (coordinate plus primary footprint) and the upper tier's coordinate.
func ComputeEdgeRoutes(nodes []graph.Node, edges []graph.Edge, cfg Config) map[string]float64 {
	cfg = cfg.WithDefaults()

	routes := make(map[string]float64)
	if len(nodes) == 0 || len(edges) == 0 {
		return routes
	}

	tiers := DetectTiers(nodes, cfg)
	if len(tiers) < 2 {
		return routes
	}

	byID := make(map[string]graph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	cross := func(id string) float64 {
		return cfg.Direction.Cross(byID[id])
	}

	gaps := assignEdgesToGaps(edges, tierIndex(tiers))
	footprint := cfg.primaryFootprint()

	for gap, bucket := range gaps {
		slices.SortStableFunc(bucket, func(a, b graph.Edge) int {
			if c := cmp.Compare(cross(a.To), cross(b.To)); c != 0 {
				return c
			}
			return cmp.Compare(cross(a.From), cross(b.From))
		})

		center := (tiers[gap].Coord + footprint + tiers[gap+1].Coord) / 2
		median := (len(bucket) - 1) / 2
		for i, e := range bucket {
			routes[e.ID] = center + float64(i-median)*cfg.LaneSpacing
		}
	}

	return routes
}
