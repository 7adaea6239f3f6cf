package layout

import "github.com/skein-viz/skein/pkg/graph"

// Direction selects the primary (tier) axis for a layout pass.
// Top-to-bottom tiers stack along y with lanes along x; left-to-right
// swaps the axes.
type Direction string

// Layout directions.
const (
	TopToBottom Direction = graph.DirectionTopToBottom
	LeftToRight Direction = graph.DirectionLeftToRight
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == TopToBottom || d == LeftToRight
}

// Primary returns the node's coordinate on the tier axis.
func (d Direction) Primary(n graph.Node) float64 {
	if d == LeftToRight {
		return n.X
	}
	return n.Y
}

// Cross returns the node's coordinate on the lane axis.
func (d Direction) Cross(n graph.Node) float64 {
	if d == LeftToRight {
		return n.Y
	}
	return n.X
}

// Default tunables. Node footprint is constant across all nodes; the
// remaining values control lane density and corner shape.
const (
	DefaultLaneSpacing  = 15.0
	DefaultPadding      = 30.0
	DefaultMinLayerGap  = 100.0
	DefaultNodeWidth    = 180.0
	DefaultNodeHeight   = 100.0
	DefaultCornerRadius = 8.0
	DefaultTolerance    = 5.0
)

// Config carries the direction and all tunables for one layout pass.
// Zero-valued fields are replaced by the defaults above, so callers can
// set only what they need. There is no module-level state: every pass
// receives its configuration explicitly.
type Config struct {
	Direction Direction

	// LaneSpacing is the distance between adjacent lanes in a gap.
	LaneSpacing float64
	// Padding is the clearance kept between the outermost lanes and the
	// tiers bounding the gap.
	Padding float64
	// MinLayerGap is the minimum span of a gap, even with zero edges.
	MinLayerGap float64

	// NodeWidth and NodeHeight are the fixed node footprint.
	NodeWidth  float64
	NodeHeight float64

	// CornerRadius caps the rounded-corner radius of orthogonal paths.
	CornerRadius float64
	// Tolerance is the primary-axis band within which nodes share a tier.
	Tolerance float64
}

// DefaultConfig returns a Config with all tunables at their defaults.
func DefaultConfig(d Direction) Config {
	return Config{Direction: d}.WithDefaults()
}

// WithDefaults returns a copy with zero-valued tunables replaced by the
// package defaults. All entry points call this, so callers only need it
// when reading tunables off a partially filled Config.
func (c Config) WithDefaults() Config {
	if !c.Direction.Valid() {
		c.Direction = TopToBottom
	}
	if c.LaneSpacing == 0 {
		c.LaneSpacing = DefaultLaneSpacing
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.MinLayerGap == 0 {
		c.MinLayerGap = DefaultMinLayerGap
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = DefaultNodeWidth
	}
	if c.NodeHeight == 0 {
		c.NodeHeight = DefaultNodeHeight
	}
	if c.CornerRadius == 0 {
		c.CornerRadius = DefaultCornerRadius
	}
	if c.Tolerance == 0 {
		c.Tolerance = DefaultTolerance
	}
	return c
}

// primaryFootprint is the node extent along the tier axis: height under
// TB, width under LR.
func (c Config) primaryFootprint() float64 {
	if c.Direction == LeftToRight {
		return c.NodeWidth
	}
	return c.NodeHeight
}
