// Package pkg provides the core libraries for Skein service-graph visualization.
//
// # Overview
//
// Skein turns service dependency graphs into tiered, orthogonally-routed
// diagrams. A coarse layout engine places services on a grid, a post-processing
// pass normalizes layer spacing, and an edge router threads connections through
// dedicated lanes between tiers. The pkg directory is organized into:
//
//  1. [graph] - Serialization types for graphs and layouts
//  2. [layout] - Tier detection, layer spacing, and orthogonal edge routing
//  3. [depgraph] - Dependency queries (closures, cycles, isolated services)
//  4. [pipeline] - Orchestration (coarse layout → post-process → render)
//  5. [cache], [positions] - Infrastructure (result caching, viewer overrides)
//
// # Architecture
//
// The typical data flow through Skein:
//
//	Service Graph (JSON)
//	         ↓
//	    [layout/coarse] package (grid or graphviz placement)
//	         ↓
//	    [positions] package (merge viewer overrides)
//	         ↓
//	    [layout] package (layer spacing + edge routing)
//	         ↓
//	    SVG/JSON output
//
// # Quick Start
//
// Run the full pipeline against a graph:
//
//	import (
//	    "context"
//	    "github.com/skein-viz/skein/pkg/cache"
//	    "github.com/skein-viz/skein/pkg/graph"
//	    "github.com/skein-viz/skein/pkg/pipeline"
//	)
//
//	g, _ := graph.ReadGraphFile("services.json")
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil, nil)
//	result, _ := runner.Execute(context.Background(), g, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Domain Logic
//
// [layout] - Post-processing for coarse layouts: tier detection with a
// configurable snapping tolerance, layer spacing proportional to the number of
// edge lanes crossing each gap, and rounded orthogonal edge routing.
//
// [layout/coarse] - Pluggable coarse placement engines. Grid assigns layers by
// longest-path rank; Graphviz delegates to the dot algorithm and snaps the
// result back onto the grid scale.
//
// [depgraph] - Adjacency-indexed dependency queries: direct and transitive
// closures, cycle detection, and isolated-service discovery.
//
// ## Infrastructure
//
// [cache] - Content-addressed result caching. FileCache for CLI (filesystem),
// RedisCache for the API server, NullCache for testing. Keyers derive stable
// keys from graph hashes plus the options that affect the result.
//
// [positions] - Per-viewer position overrides keyed by topology hash.
// FileStore for CLI, MongoStore for the API server.
//
// ## Orchestration
//
// [pipeline] - Complete visualization pipeline (coarse layout → post-process →
// render) used by both CLI and API. Each stage caches independently, so
// re-rendering a cached layout in a new format skips the layout stages.
//
// [observability] - Optional instrumentation hooks for pipeline and cache
// events, registered at startup.
//
// ## Serialization and Output
//
// [graph] - Serialization types for graphs and layouts (JSON format).
//
// [render] - SVG rendering of routed layouts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/layout/...     # Specific package
//
// [graph]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/graph
// [layout]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/layout
// [layout/coarse]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/layout/coarse
// [depgraph]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/depgraph
// [pipeline]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/cache
// [positions]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/positions
// [observability]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/observability
// [render]: https://pkg.go.dev/github.com/skein-viz/skein/pkg/render
package pkg
