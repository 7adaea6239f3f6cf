// Package positions persists manual node placements across layout passes.
//
// When a viewer drags a service into place, the override is stored keyed
// by viewer identity and the topology hash of the graph. On the next
// layout pass over the same topology, the overrides are merged into the
// coarse positions before spacing and routing run, so manual arrangements
// survive data refreshes that do not change the graph. A topology change
// produces a new hash and the overrides are simply left behind.
//
// Two backends are provided: a file store for local CLI use and a MongoDB
// store for the hosted service.
package positions

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/skein-viz/skein/pkg/cache"
	"github.com/skein-viz/skein/pkg/graph"
)

// ErrNotFound is returned when no overrides exist for a viewer and graph.
var ErrNotFound = errors.New("not found")

// Override is a manual position for a single node.
type Override struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Overrides maps node ID to its manual position.
type Overrides map[string]Override

// Store persists per-viewer overrides keyed by graph topology hash.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the overrides for a viewer and topology, or ErrNotFound.
	Get(ctx context.Context, viewerID, graphHash string) (Overrides, error)
	// Put replaces the overrides for a viewer and topology.
	Put(ctx context.Context, viewerID, graphHash string, o Overrides) error
	// Delete removes the overrides; deleting absent overrides is not an error.
	Delete(ctx context.Context, viewerID, graphHash string) error
	// Close releases backend resources.
	Close() error
}

// NewViewerID mints a fresh viewer identity. The surrounding application
// stores it client-side and presents it on subsequent layout requests.
func NewViewerID() string {
	return uuid.NewString()
}

// Apply merges overrides into a node slice, returning a new slice. Nodes
// without an override keep their coarse position; overrides for unknown
// node IDs are ignored. The input is never mutated.
func Apply(nodes []graph.Node, o Overrides) []graph.Node {
	if len(o) == 0 {
		return nodes
	}
	out := slices.Clone(nodes)
	for i := range out {
		if ov, ok := o[out[i].ID]; ok {
			out[i].X = ov.X
			out[i].Y = ov.Y
		}
	}
	return out
}

// TopologyHash fingerprints a graph's structure, ignoring positions.
// Two graphs with identical nodes and edges hash the same even after
// layout rewrites coordinates.
func TopologyHash(g graph.Graph) string {
	stripped := graph.Graph{
		Nodes: make([]graph.Node, len(g.Nodes)),
		Edges: slices.Clone(g.Edges),
	}
	for i, n := range g.Nodes {
		stripped.Nodes[i] = graph.Node{ID: n.ID, Label: n.Label}
	}
	slices.SortFunc(stripped.Nodes, func(a, b graph.Node) int {
		return cmp.Compare(a.ID, b.ID)
	})
	slices.SortFunc(stripped.Edges, func(a, b graph.Edge) int {
		return cmp.Compare(a.ID, b.ID)
	})

	data, _ := graph.MarshalGraph(stripped)
	return cache.Hash(data)
}
