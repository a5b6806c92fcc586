// Package mindmap defines the data model shared by the layout engine and its
// callers: idea nodes, the edges between them, and 2-D positions.
//
// # Overview
//
// A mind map is a set of [Node] values connected by undirected [Edge] values.
// One node is the root: the node whose ID equals [RootID], or the first node
// of the input when no such node exists (see [RootIndex]). Every node carries
// a small integer cluster tag (1-5) that groups ideas thematically; clusters
// drive how the layout engine partitions the circle around the root.
//
// The types in this package are plain values. Nothing here owns or mutates a
// graph: layout functions receive read-only slices and return freshly
// allocated position maps.
//
// # Sizes
//
// Nodes have no stored dimensions. [EstimateSize] derives a deterministic
// bounding box from the title length and the node's [Role], which the layout
// engine uses for overlap geometry only.
//
// # Validation
//
// The engine itself never fails on malformed input. Callers that accept
// documents from outside (files, HTTP) use [Validate] to reject empty or
// duplicate IDs, out-of-range clusters and unknown relationships before
// handing data to the engine.
package mindmap
