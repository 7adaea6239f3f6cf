// Package depgraph provides an adjacency-indexed view of a service
// dependency graph for reachability queries.
//
// The layout core treats edges as an opaque list; this package serves the
// surrounding features that need traversal: the trace command, isolation
// checks, and upstream/downstream highlighting in rendered output. Unlike
// a build-dependency DAG, service graphs may legitimately contain cycles
// (mutual dependencies), so cycle presence is reported, never rejected.
package depgraph

import (
	"slices"

	"github.com/skein-viz/skein/pkg/graph"
)

// Graph indexes a service dependency graph for traversal. Edges whose
// endpoints are missing from the node list contribute nothing to the
// adjacency index, matching the routing layer's silent-drop behavior.
//
// Graph is immutable after New and safe for concurrent reads.
type Graph struct {
	nodes    map[string]graph.Node
	edges    []graph.Edge
	outgoing map[string][]string // service -> services it depends on
	incoming map[string][]string // service -> services depending on it
}

// New builds the adjacency index from a serialized graph.
func New(g graph.Graph) *Graph {
	d := &Graph{
		nodes:    make(map[string]graph.Node, len(g.Nodes)),
		edges:    slices.Clone(g.Edges),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	for _, n := range g.Nodes {
		d.nodes[n.ID] = n
	}
	for _, e := range g.Edges {
		if _, ok := d.nodes[e.From]; !ok {
			continue
		}
		if _, ok := d.nodes[e.To]; !ok {
			continue
		}
		d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
		d.incoming[e.To] = append(d.incoming[e.To], e.From)
	}
	return d
}

// Node returns the node with the given ID and whether it exists.
func (g *Graph) Node(id string) (graph.Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, including dangling ones.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Dependencies returns the services id directly depends on.
// The returned slice is a read-only view; nil for unknown IDs.
func (g *Graph) Dependencies(id string) []string { return g.outgoing[id] }

// Dependents returns the services directly depending on id.
// The returned slice is a read-only view; nil for unknown IDs.
func (g *Graph) Dependents(id string) []string { return g.incoming[id] }

// Downstream returns every service reachable from id by following
// dependency direction, excluding id itself. BFS order; nil for unknown
// IDs or services with no dependencies. Cycles are handled by the visited
// set.
func (g *Graph) Downstream(id string) []string {
	return g.walk(id, g.outgoing)
}

// Upstream returns every service that transitively depends on id,
// excluding id itself. BFS order; nil for unknown IDs or services nothing
// depends on.
func (g *Graph) Upstream(id string) []string {
	return g.walk(id, g.incoming)
}

func (g *Graph) walk(id string, adj map[string][]string) []string {
	if _, ok := g.nodes[id]; !ok {
		return nil
	}

	var result []string
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, next := range adj[curr] {
			if seen[next] {
				continue
			}
			seen[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}

// Isolated returns the IDs of services with no edges in either direction,
// sorted ascending for deterministic output.
func (g *Graph) Isolated() []string {
	var ids []string
	for id := range g.nodes {
		if len(g.outgoing[id]) == 0 && len(g.incoming[id]) == 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// HasCycle reports whether the dependency graph contains a directed
// cycle. Detection uses depth-first search with white/gray/black coloring
// in O(N+E) time.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var found bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range g.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				found = true
				return
			}
		}
		color[id] = black
	}

	for id := range g.nodes {
		if color[id] == white {
			dfs(id)
			if found {
				return true
			}
		}
	}
	return false
}
