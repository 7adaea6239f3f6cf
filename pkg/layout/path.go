package layout

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in the diagram's coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Path is a drawable edge: SVG path data plus the anchor point for the
// edge label, placed on the midpoint of the lane segment (or of the whole
// path for straight and curved edges).
type Path struct {
	D     string `json:"d"`
	Label Point  `json:"label"`
}

// OrthogonalPath builds the right-angle rounded-corner path for a routed
// edge: out of the source along the primary axis to the lane, a quarter
// turn onto the lane, along the lane to the target's cross coordinate, a
// second quarter turn, and into the target. When source and target share
// the cross-axis coordinate the path is a single straight segment and the
// lane is ignored.
//
// The corner radius is cfg.CornerRadius clamped to half of each adjoining
// segment so corners never overlap; it degrades to zero as segments
// shorten, collapsing the turn into a sharp angle.
func OrthogonalPath(src, dst Point, lane float64, cfg Config) Path {
	cfg = cfg.WithDefaults()

	sp, sc := split(src, cfg.Direction)
	tp, tc := split(dst, cfg.Direction)

	if sc == tc {
		return Path{
			D:     fmt.Sprintf("M %s L %s", join(sp, sc, cfg.Direction), join(tp, tc, cfg.Direction)),
			Label: merge((sp+tp)/2, sc, cfg.Direction),
		}
	}

	r := cfg.CornerRadius
	r = math.Min(r, math.Abs(lane-sp)/2)
	r = math.Min(r, math.Abs(tp-lane)/2)
	r = math.Min(r, math.Abs(tc-sc)/2)

	d1 := sign(lane - sp) // travel direction from source onto the lane
	dc := sign(tc - sc)   // travel direction along the lane
	d2 := sign(tp - lane) // travel direction off the lane into the target

	var b strings.Builder
	fmt.Fprintf(&b, "M %s", join(sp, sc, cfg.Direction))
	fmt.Fprintf(&b, " L %s", join(lane-d1*r, sc, cfg.Direction))
	fmt.Fprintf(&b, " Q %s %s", join(lane, sc, cfg.Direction), join(lane, sc+dc*r, cfg.Direction))
	fmt.Fprintf(&b, " L %s", join(lane, tc-dc*r, cfg.Direction))
	fmt.Fprintf(&b, " Q %s %s", join(lane, tc, cfg.Direction), join(lane+d2*r, tc, cfg.Direction))
	fmt.Fprintf(&b, " L %s", join(tp, tc, cfg.Direction))

	return Path{
		D:     b.String(),
		Label: merge(lane, (sc+tc)/2, cfg.Direction),
	}
}

// CurvePath builds the smooth-curve fallback used for edges without a
// lane: same-tier edges, dangling edges, and callers that opt out of
// orthogonal routing entirely. It is a single cubic bend with control
// points at the primary-axis midpoint.
func CurvePath(src, dst Point, cfg Config) Path {
	cfg = cfg.WithDefaults()

	sp, sc := split(src, cfg.Direction)
	tp, tc := split(dst, cfg.Direction)
	mid := (sp + tp) / 2

	return Path{
		D: fmt.Sprintf("M %s C %s %s %s",
			join(sp, sc, cfg.Direction),
			join(mid, sc, cfg.Direction),
			join(mid, tc, cfg.Direction),
			join(tp, tc, cfg.Direction)),
		Label: merge(mid, (sc+tc)/2, cfg.Direction),
	}
}

// split decomposes a point into (primary, cross) coordinates.
func split(p Point, d Direction) (primary, cross float64) {
	if d == LeftToRight {
		return p.X, p.Y
	}
	return p.Y, p.X
}

// merge recomposes (primary, cross) coordinates into a point.
func merge(primary, cross float64, d Direction) Point {
	if d == LeftToRight {
		return Point{X: primary, Y: cross}
	}
	return Point{X: cross, Y: primary}
}

// join formats (primary, cross) as an SVG "x,y" coordinate pair.
func join(primary, cross float64, d Direction) string {
	p := merge(primary, cross, d)
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
