// Package pkg provides the core libraries for mindlayout, an automatic layout
// engine for mind maps.
//
// # Overview
//
// Mindlayout keeps the central idea of a mind map where it is, gives each
// cluster of ideas its own angular sector, puts every node on a ring whose
// radius grows with its distance from the root, and pushes overlapping nodes
// apart. The pkg directory is organized into four areas:
//
//  1. Domain: [mindmap] types and the [layout] engine
//  2. Serialization: [graph] documents and layouts
//  3. Orchestration: [pipeline] with [cache] and [observability]
//  4. Delivery: [render] previews, the [server] HTTP API, [config]
//
// # Architecture
//
// The typical data flow:
//
//	JSON document (nodes, edges, clusters)
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [layout] package (sectors → radial placement → overlap resolution)
//	         ↓
//	    [pipeline] package (caching, hooks)
//	         ↓
//	    positions JSON, or SVG/PNG/PDF/DOT previews via [render]
//
// # Quick Start
//
// Lay out a mind map in memory:
//
//	import (
//	    "github.com/matzehuels/mindlayout/pkg/layout"
//	    "github.com/matzehuels/mindlayout/pkg/mindmap"
//	)
//
//	nodes := []mindmap.Node{
//	    {ID: "root", Title: "Essay"},
//	    {ID: "a", Title: "Argument", Cluster: 1},
//	    {ID: "b", Title: "Counterpoint", Cluster: 2},
//	}
//	edges := []mindmap.Edge{{Source: "root", Target: "a"}, {Source: "root", Target: "b"}}
//	positions := layout.Compute(nodes, edges)
//
// After an edit, fix overlaps without moving everything:
//
//	updated := layout.ResolveIncremental(nodes, edges, layout.WithMovable("b"))
//
// # Main Packages
//
// [mindmap] - Nodes, edges, relationships, sectors and node size estimation.
//
// [layout] - The engine: BFS depth tree, cluster ordering, sector allocation,
// radial placement, disconnected-node rows, the optional force strategy and
// the overlap resolver.
//
// [graph] - JSON document and layout formats shared by the CLI and the API.
//
// [pipeline] - Validation, caching and hooks around the engine. Used by both
// the CLI and the HTTP server so identical input yields identical output.
//
// [cache] - Cache backends: null, file (CLI), Redis, MongoDB and a tiered
// Redis-over-MongoDB combination, plus per-tenant key scoping.
//
// [observability] - Hook interfaces with Prometheus metrics.
//
// [render] - Node-link previews with pinned positions (Graphviz) and SVG to
// PNG/PDF conversion.
//
// [server] - chi-based HTTP API.
//
// [config] - TOML configuration with struct-tag validation.
//
// [errors] - Structured error codes shared by every layer.
//
// # Testing
//
// Run tests:
//
//	go test ./...                  # All tests
//	go test ./pkg/layout/...       # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/mindmap
// [layout]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/observability
// [render]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/render
// [server]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/mindlayout/pkg/errors
package pkg
