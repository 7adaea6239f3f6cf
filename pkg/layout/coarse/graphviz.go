package coarse

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/skein-viz/skein/pkg/graph"
	"github.com/skein-viz/skein/pkg/layout"
)

// Graphviz runs the dot layout engine to assign coarse positions.
// The graph is converted to DOT, laid out by Graphviz, and node pos
// attributes are read back from the attributed DOT output. Edges
// referencing unknown nodes are omitted from the DOT document.
//
// Graphviz works in points with the y axis growing upward; positions are
// converted to user units with y growing downward and node positions
// anchored at the top-left corner, matching the routing core.
type Graphviz struct{}

// Layout implements Layouter.
func (Graphviz) Layout(ctx context.Context, g graph.Graph, opts Options) ([]graph.Node, error) {
	opts = opts.withDefaults()

	if len(g.Nodes) == 0 {
		return nil, nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(toDOT(g, opts)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	pos, err := parsePositions(buf.String())
	if err != nil {
		return nil, err
	}

	return applyPositions(g, pos, opts), nil
}

// toDOT builds the DOT document fed to the layout engine. Node size is
// fixed to the configured footprint so rank separation comes out in scale.
func toDOT(g graph.Graph, opts Options) string {
	rankdir := "TB"
	if opts.Direction == layout.LeftToRight {
		rankdir = "LR"
	}

	var b strings.Builder
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, "  rankdir=%s;\n", rankdir)
	fmt.Fprintf(&b, "  ranksep=%g;\n", opts.LayerGap/72)
	fmt.Fprintf(&b, "  nodesep=%g;\n", opts.NodeGap/72)
	fmt.Fprintf(&b, "  node [shape=box, fixedsize=true, width=%g, height=%g];\n",
		opts.NodeWidth/72, opts.NodeHeight/72)
	b.WriteString("\n")

	known := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		known[n.ID] = true
		fmt.Fprintf(&b, "  %q;\n", n.ID)
	}

	b.WriteString("\n")
	for _, e := range g.Edges {
		if !known[e.From] || !known[e.To] {
			continue
		}
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}

	b.WriteString("}\n")
	return b.String()
}

var nodePosRe = regexp.MustCompile(`^\s*(?:"((?:[^"\\]|\\.)*)"|([A-Za-z0-9_./:-]+))\s*\[.*\bpos="(-?[0-9.]+),(-?[0-9.]+)"`)

// parsePositions extracts node centers from attributed DOT output.
// Edge statements (which carry spline pos attributes) and graph/node
// default attribute statements are skipped.
func parsePositions(dot string) (map[string]layout.Point, error) {
	// The dot writer wraps long statements with backslash continuations.
	dot = strings.ReplaceAll(dot, "\\\n", "")

	pos := make(map[string]layout.Point)
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "graph") || strings.HasPrefix(trimmed, "node") || strings.HasPrefix(trimmed, "edge") {
			continue
		}

		m := nodePosRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		} else {
			name = unescapeDOT(name)
		}
		x, errX := strconv.ParseFloat(m[3], 64)
		y, errY := strconv.ParseFloat(m[4], 64)
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("malformed pos for node %q", name)
		}
		pos[name] = layout.Point{X: x, Y: y}
	}

	if len(pos) == 0 {
		return nil, fmt.Errorf("no node positions in layout output")
	}
	return pos, nil
}

// unescapeDOT strips the backslash escapes the dot writer applies inside
// quoted node names, so IDs containing " or \ match the input graph.
func unescapeDOT(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// applyPositions converts Graphviz centers (points, y up) into top-left
// anchored user coordinates (y down).
func applyPositions(g graph.Graph, pos map[string]layout.Point, opts Options) []graph.Node {
	maxY := 0.0
	for _, p := range pos {
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	out := make([]graph.Node, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n
		p, ok := pos[n.ID]
		if !ok {
			continue
		}
		out[i].X = p.X - opts.NodeWidth/2
		out[i].Y = (maxY - p.Y) - opts.NodeHeight/2
	}
	return out
}

var _ Layouter = Graphviz{}
