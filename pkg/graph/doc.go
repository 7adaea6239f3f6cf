// Package graph defines the canonical serialization format for service
// dependency graphs and computed layouts.
//
// A Graph is the wire format consumed by the layout pipeline: services as
// nodes, depends_on relationships as directed edges. A Layout is the
// pipeline's result: the same nodes with final positions plus a routing
// table mapping edge IDs to lane coordinates.
//
// The format is human-readable JSON designed for round-trip fidelity:
// import → layout → export → re-import produces identical results. BSON
// tags support document storage in the hosted deployment.
package graph
