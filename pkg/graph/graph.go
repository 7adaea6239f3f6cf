package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Graph - Service Dependency Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for service dependency graphs.
// Used for API requests, storage, caching, and cross-tool compatibility.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a single service in the dependency graph. X and Y hold the node's
// position after a layout pass; they are zero for freshly parsed graphs.
type Node struct {
	ID    string  `json:"id" bson:"id"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	X     float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y     float64 `json:"y,omitempty" bson:"y,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed depends_on relationship: From depends on To.
type Edge struct {
	ID   string `json:"id" bson:"id"`
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks structural integrity: non-empty unique node IDs and
// non-empty unique edge IDs. Edges referencing unknown nodes are allowed -
// the routing layer silently skips them - but empty endpoint IDs are not.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty ID")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node ID %q", n.ID)
		}
		seen[n.ID] = true
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.ID == "" {
			return fmt.Errorf("edge %s→%s has empty ID", e.From, e.To)
		}
		if edgeIDs[e.ID] {
			return fmt.Errorf("duplicate edge ID %q", e.ID)
		}
		edgeIDs[e.ID] = true
		if e.From == "" || e.To == "" {
			return fmt.Errorf("edge %q has empty endpoint", e.ID)
		}
	}
	return nil
}

// NodeIndex returns a lookup map from node ID to its index in g.Nodes.
func (g Graph) NodeIndex() map[string]int {
	m := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		m[n.ID] = i
	}
	return m
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes into a Graph and validates it.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, fmt.Errorf("unmarshal graph: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// WriteGraphFile writes a Graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadGraphFile reads a Graph from a JSON file.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}
