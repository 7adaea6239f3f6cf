// Package render turns computed layouts into SVG diagrams.
//
// Nodes are drawn as fixed-footprint rounded rectangles; routed edges as
// orthogonal rounded-corner paths along their assigned lanes; unrouted
// edges (same-tier or dangling) fall back to a smooth curve. Optional
// decorations highlight the upstream and downstream closure of a focused
// service. Decorations live in a side table built per render pass; the
// input layout is never mutated.
package render
