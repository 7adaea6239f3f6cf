package layout

import "github.com/skein-viz/skein/pkg/graph"

// assignEdgesToGaps buckets every inter-tier edge into the single gap it
// must cross, keyed by the lower tier's index: gap i spans tier i to tier
// i+1, and an edge lands in gap min(srcTier, dstTier). The min rule applies
// uniformly to forward and backward edges, so back-edges share gap
// capacity with forward edges between the same two tiers.
//
// Edges with an endpoint missing from tierOf (dangling references) and
// edges whose endpoints share a tier are dropped: they never receive a
// lane and never appear in the routing table.
func assignEdgesToGaps(edges []graph.Edge, tierOf map[string]int) map[int][]graph.Edge {
	gaps := make(map[int][]graph.Edge)
	for _, e := range edges {
		src, okSrc := tierOf[e.From]
		dst, okDst := tierOf[e.To]
		if !okSrc || !okDst || src == dst {
			continue
		}
		gap := min(src, dst)
		gaps[gap] = append(gaps[gap], e)
	}
	return gaps
}
