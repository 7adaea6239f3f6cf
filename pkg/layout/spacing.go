package layout

import (
	"slices"

	"github.com/skein-viz/skein/pkg/graph"
)

// AdjustLayerSpacing grows each inter-tier gap so the routing lanes
// crossing it fit with padding, and rewrites node positions accordingly.
// A gap carrying n edges needs n × LaneSpacing + 2 × Padding of clearance,
// floored at MinLayerGap; a gap with zero edges still gets MinLayerGap.
//
// The first tier keeps its original coordinate. Each subsequent tier is
// placed at the previous tier's coordinate plus the node footprint on the
// primary axis plus the required gap. Every node in a tier is shifted by
// the same primary-axis delta; cross-axis coordinates are untouched.
//
// Single-tier and empty graphs are returned unchanged. The function must
// run before ComputeEdgeRoutes, which reads the final gap boundaries to
// compute gap centers.
func AdjustLayerSpacing(nodes []graph.Node, edges []graph.Edge, cfg Config) []graph.Node {
	cfg = cfg.WithDefaults()

	tiers := DetectTiers(nodes, cfg)
	if len(tiers) < 2 {
		return nodes
	}

	gaps := assignEdgesToGaps(edges, tierIndex(tiers))
	footprint := cfg.primaryFootprint()

	coords := make([]float64, len(tiers))
	coords[0] = tiers[0].Coord
	for i := 1; i < len(tiers); i++ {
		required := float64(len(gaps[i-1]))*cfg.LaneSpacing + 2*cfg.Padding
		if required < cfg.MinLayerGap {
			required = cfg.MinLayerGap
		}
		coords[i] = coords[i-1] + footprint + required
	}

	offset := make(map[string]float64, len(nodes))
	for i, t := range tiers {
		delta := coords[i] - t.Coord
		for _, id := range t.Nodes {
			offset[id] = delta
		}
	}

	out := slices.Clone(nodes)
	for i := range out {
		delta, ok := offset[out[i].ID]
		if !ok {
			continue
		}
		if cfg.Direction == LeftToRight {
			out[i].X += delta
		} else {
			out[i].Y += delta
		}
	}
	return out
}
