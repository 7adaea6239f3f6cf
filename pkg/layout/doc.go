// Package layout post-processes coarse node positions into a legible
// diagram: it detects tiers, grows the gaps between tiers to fit the edges
// crossing them, assigns each crossing edge a deterministic collision-free
// lane, and builds orthogonal rounded-corner paths through those lanes.
//
// The pipeline runs in a fixed order:
//
//  1. AdjustLayerSpacing - widens inter-tier gaps so all lanes fit, and
//     rewrites node positions. Must run before routing so the router sees
//     final geometry.
//  2. ComputeEdgeRoutes - orders the edges crossing each gap and assigns
//     each a lane coordinate, centered on the gap.
//  3. OrthogonalPath - called per edge at render time, turns a lane
//     coordinate plus two endpoints into an SVG path with a label anchor.
//
// DetectTiers and the gap bucketing are shared infrastructure used by both
// steps 1 and 2.
//
// All functions are pure over their inputs: node and edge slices are never
// mutated, derived structures (tiers, gaps, routing table) are rebuilt from
// scratch on every pass, and nothing here blocks or performs I/O. There are
// no error returns; malformed inputs degrade silently (dangling edges are
// skipped, degenerate geometry clamps corner radii to zero).
package layout
