package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/skein-viz/skein/pkg/depgraph"
	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
)

// esc escapes node/edge IDs and labels for SVG attribute and text content.
var esc = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

const margin = 40.0

const diagramCSS = `
    .node { fill: #ffffff; stroke: #334155; stroke-width: 1.5; }
    .node-label { font: 13px sans-serif; fill: #1e293b; text-anchor: middle; }
    .edge { fill: none; stroke: #94a3b8; stroke-width: 1.5; }
    .edge.fallback { stroke-dasharray: 4 3; }
    .edge.upstream { stroke: #2563eb; stroke-width: 2.5; }
    .edge.downstream { stroke: #d97706; stroke-width: 2.5; }
    .edge-label { font: 10px sans-serif; fill: #64748b; text-anchor: middle; }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cfg        layout.Config
	showLabels bool
	highlight  string
}

// WithConfig overrides the layout tunables used for path construction.
// Defaults match the routing defaults, so this is only needed when the
// layout was computed with non-default spacing.
func WithConfig(cfg layout.Config) SVGOption {
	return func(r *svgRenderer) { r.cfg = cfg.WithDefaults() }
}

// WithLabels draws edge IDs at their label anchors.
func WithLabels() SVGOption {
	return func(r *svgRenderer) { r.showLabels = true }
}

// WithHighlight emphasizes the upstream and downstream closure of the
// given service.
func WithHighlight(serviceID string) SVGOption {
	return func(r *svgRenderer) { r.highlight = serviceID }
}

// RenderSVG renders a computed layout as an SVG document.
func RenderSVG(l graph.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{cfg: layout.DefaultConfig(layout.Direction(l.Direction))}
	for _, opt := range opts {
		opt(&r)
	}
	r.cfg.Direction = layout.Direction(l.Direction)

	originX, originY, width, height := frame(l, r.cfg)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		originX, originY, width, height, width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", diagramCSS)

	classes := edgeClasses(l, r.highlight)
	renderEdges(&buf, &r, l, classes)
	renderNodes(&buf, &r, l)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// frame computes the viewBox origin and extent from node positions plus
// margins. Coarse engines center tiers on the cross axis, so coordinates
// can be negative; the origin anchors at the minimum extent, not zero.
func frame(l graph.Layout, cfg layout.Config) (x, y, w, h float64) {
	if len(l.Nodes) == 0 {
		return -margin, -margin, 2 * margin, 2 * margin
	}
	minX, minY := l.Nodes[0].X, l.Nodes[0].Y
	maxX, maxY := minX+cfg.NodeWidth, minY+cfg.NodeHeight
	for _, n := range l.Nodes[1:] {
		minX = min(minX, n.X)
		minY = min(minY, n.Y)
		maxX = max(maxX, n.X+cfg.NodeWidth)
		maxY = max(maxY, n.Y+cfg.NodeHeight)
	}
	return minX - margin, minY - margin, maxX - minX + 2*margin, maxY - minY + 2*margin
}

// edgeClasses builds the per-render decoration side table: edge ID to CSS
// class. Unrouted edges are tagged as fallback; when a service is focused,
// edges inside its upstream/downstream closure get tagged accordingly.
func edgeClasses(l graph.Layout, highlight string) map[string]string {
	classes := make(map[string]string, len(l.Edges))
	for _, e := range l.Edges {
		if !l.Routed(e.ID) {
			classes[e.ID] = "fallback"
		}
	}

	if highlight == "" {
		return classes
	}

	dg := depgraph.New(graph.Graph{Nodes: l.Nodes, Edges: l.Edges})
	up := toSet(dg.Upstream(highlight))
	down := toSet(dg.Downstream(highlight))
	up[highlight] = true
	down[highlight] = true

	for _, e := range l.Edges {
		switch {
		case up[e.From] && up[e.To]:
			classes[e.ID] = "upstream"
		case down[e.From] && down[e.To]:
			classes[e.ID] = "downstream"
		}
	}
	return classes
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func renderEdges(buf *bytes.Buffer, r *svgRenderer, l graph.Layout, classes map[string]string) {
	byID := make(map[string]graph.Node, len(l.Nodes))
	for _, n := range l.Nodes {
		byID[n.ID] = n
	}

	for _, e := range l.Edges {
		src, okSrc := byID[e.From]
		dst, okDst := byID[e.To]
		if !okSrc || !okDst {
			continue
		}

		var p layout.Path
		if lane, ok := l.Routes[e.ID]; ok {
			p = layout.OrthogonalPath(connectorOut(src, r.cfg), connectorIn(dst, r.cfg), lane, r.cfg)
		} else {
			p = layout.CurvePath(connectorOut(src, r.cfg), connectorIn(dst, r.cfg), r.cfg)
		}

		class := "edge"
		if c := classes[e.ID]; c != "" {
			class += " " + c
		}
		fmt.Fprintf(buf, "  <path id=\"edge-%s\" class=%q d=%q/>\n", esc.Replace(e.ID), class, p.D)

		if r.showLabels {
			fmt.Fprintf(buf, "  <text class=\"edge-label\" x=\"%.1f\" y=\"%.1f\">%s</text>\n",
				p.Label.X, p.Label.Y-3, esc.Replace(e.ID))
		}
	}
}

func renderNodes(buf *bytes.Buffer, r *svgRenderer, l graph.Layout) {
	for _, n := range l.Nodes {
		fmt.Fprintf(buf, "  <rect id=\"node-%s\" class=\"node\" x=\"%.1f\" y=\"%.1f\" width=\"%.0f\" height=\"%.0f\" rx=\"6\"/>\n",
			esc.Replace(n.ID), n.X, n.Y, r.cfg.NodeWidth, r.cfg.NodeHeight)
		fmt.Fprintf(buf, "  <text class=\"node-label\" x=\"%.1f\" y=\"%.1f\">%s</text>\n",
			n.X+r.cfg.NodeWidth/2, n.Y+r.cfg.NodeHeight/2+4, esc.Replace(n.DisplayLabel()))
	}
}

// connectorOut is where an edge leaves its source node: bottom center
// under TB, right center under LR.
func connectorOut(n graph.Node, cfg layout.Config) layout.Point {
	if cfg.Direction == layout.LeftToRight {
		return layout.Point{X: n.X + cfg.NodeWidth, Y: n.Y + cfg.NodeHeight/2}
	}
	return layout.Point{X: n.X + cfg.NodeWidth/2, Y: n.Y + cfg.NodeHeight}
}

// connectorIn is where an edge enters its target node: top center under
// TB, left center under LR.
func connectorIn(n graph.Node, cfg layout.Config) layout.Point {
	if cfg.Direction == layout.LeftToRight {
		return layout.Point{X: n.X, Y: n.Y + cfg.NodeHeight/2}
	}
	return layout.Point{X: n.X + cfg.NodeWidth/2, Y: n.Y}
}
