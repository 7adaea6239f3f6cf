// Package coarse assigns initial tiered positions to graph nodes.
//
// The routing core in pkg/layout treats coarse layout as an opaque step
// that eventually yields positions; this package defines that step as an
// injected strategy so callers can pick an engine and tests can use a
// deterministic one. Two engines are provided:
//
//   - Grid: deterministic longest-path layering, the default.
//   - Graphviz: the dot engine from goccy/go-graphviz.
//
// Either way the output feeds layout.AdjustLayerSpacing, which owns the
// final tier coordinates; coarse positions only need consistent tiering
// and a sensible cross-axis spread.
package coarse

import (
	"context"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
)

// Options configures a coarse layout call.
// Zero-valued fields fall back to the pkg/layout defaults.
type Options struct {
	Direction layout.Direction

	// NodeWidth and NodeHeight are the fixed node footprint.
	NodeWidth  float64
	NodeHeight float64

	// LayerGap is the initial distance between adjacent tiers.
	LayerGap float64
	// NodeGap is the cross-axis distance between adjacent nodes in a tier.
	NodeGap float64
}

// DefaultNodeGap is the initial cross-axis clearance between tier siblings.
const DefaultNodeGap = 60.0

func (o Options) withDefaults() Options {
	if !o.Direction.Valid() {
		o.Direction = layout.TopToBottom
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = layout.DefaultNodeWidth
	}
	if o.NodeHeight == 0 {
		o.NodeHeight = layout.DefaultNodeHeight
	}
	if o.LayerGap == 0 {
		o.LayerGap = layout.DefaultMinLayerGap
	}
	if o.NodeGap == 0 {
		o.NodeGap = DefaultNodeGap
	}
	return o
}

// Layouter computes initial positions for every node in the graph.
// Implementations must not mutate the input graph; they return a fresh
// node slice with positions filled in. The call is made once per layout
// pass and is not retried or timed out by the caller beyond ctx.
type Layouter interface {
	Layout(ctx context.Context, g graph.Graph, opts Options) ([]graph.Node, error)
}
