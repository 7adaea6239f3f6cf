package coarse

import (
	"context"
	"slices"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
)

// Grid is a deterministic coarse layouter using longest-path layering:
// a node's tier is one past the deepest of its dependents, computed by
// topological traversal (Kahn's algorithm). Within a tier, nodes are laid
// out in ID order and centered on the cross axis.
//
// Nodes caught in a dependency cycle never reach zero in-degree and stay
// at the deepest tier their acyclic ancestors reached, which keeps the
// output well defined for cyclic graphs. Identical inputs always produce
// identical positions, which also makes Grid the layouter of choice for
// tests.
type Grid struct{}

// Layout implements Layouter.
func (Grid) Layout(_ context.Context, g graph.Graph, opts Options) ([]graph.Node, error) {
	opts = opts.withDefaults()

	if len(g.Nodes) == 0 {
		return nil, nil
	}

	tiers := layerByLongestPath(g)

	// Bucket nodes per tier in ID order for deterministic cross placement.
	byTier := make(map[int][]string)
	maxTier := 0
	for id, tier := range tiers {
		byTier[tier] = append(byTier[tier], id)
		if tier > maxTier {
			maxTier = tier
		}
	}
	for _, ids := range byTier {
		slices.Sort(ids)
	}

	crossStep := opts.NodeWidth + opts.NodeGap
	primaryStep := opts.NodeHeight + opts.LayerGap
	if opts.Direction == layout.LeftToRight {
		crossStep = opts.NodeHeight + opts.NodeGap
		primaryStep = opts.NodeWidth + opts.LayerGap
	}

	pos := make(map[string]layout.Point, len(g.Nodes))
	for tier := 0; tier <= maxTier; tier++ {
		ids := byTier[tier]
		primary := float64(tier) * primaryStep
		// Center the tier on the cross axis.
		start := -crossStep * float64(len(ids)-1) / 2
		for i, id := range ids {
			cross := start + float64(i)*crossStep
			if opts.Direction == layout.LeftToRight {
				pos[id] = layout.Point{X: primary, Y: cross}
			} else {
				pos[id] = layout.Point{X: cross, Y: primary}
			}
		}
	}

	out := slices.Clone(g.Nodes)
	for i := range out {
		p := pos[out[i].ID]
		out[i].X = p.X
		out[i].Y = p.Y
	}
	return out, nil
}

// layerByLongestPath assigns each node the tier one past the deepest of
// its parents, with dependency sources at tier 0.
func layerByLongestPath(g graph.Graph) map[string]int {
	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
	}

	inDegree := make(map[string]int, len(g.Nodes))
	children := make(map[string][]string)
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] || e.From == e.To {
			continue
		}
		children[e.From] = append(children[e.From], e.To)
		inDegree[e.To]++
	}

	tiers := make(map[string]int, len(g.Nodes))
	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range children[curr] {
			if tier := tiers[curr] + 1; tier > tiers[child] {
				tiers[child] = tier
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return tiers
}

var _ Layouter = Grid{}
