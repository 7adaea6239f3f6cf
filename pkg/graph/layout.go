package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Computed Layout Serialization
// =============================================================================

// Layout direction values. The direction selects the primary (tier) axis:
// top-to-bottom tiers stack along y, left-to-right tiers stack along x.
const (
	DirectionTopToBottom = "TB"
	DirectionLeftToRight = "LR"
)

// Layout is the serialized result of one layout pass: the repositioned
// nodes, the edges, and the routing table mapping edge IDs to lane
// coordinates. Edges absent from Routes were not routed (dangling or
// same-tier) and are drawn with the curve fallback.
type Layout struct {
	Direction string `json:"direction" bson:"direction"`

	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Nodes []Node `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`

	// Routes maps edge ID to its lane coordinate: a y-coordinate under TB,
	// an x-coordinate under LR.
	Routes map[string]float64 `json:"routes,omitempty" bson:"routes,omitempty"`
}

// Routed reports whether the edge with the given ID received a lane.
func (l *Layout) Routed(edgeID string) bool {
	_, ok := l.Routes[edgeID]
	return ok
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.Direction == "" {
		l.Direction = DirectionTopToBottom
	}
	if l.Direction != DirectionTopToBottom && l.Direction != DirectionLeftToRight {
		return Layout{}, fmt.Errorf("invalid direction %q", l.Direction)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
