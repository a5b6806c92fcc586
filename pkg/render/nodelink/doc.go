// Package nodelink renders laid-out mind maps as node-link previews.
//
// # Overview
//
// Every node is pinned to the coordinates the layout engine produced, so the
// preview shows exactly what a frontend would draw. Graphviz only routes the
// edges and rasterizes the result.
//
// # Usage
//
// Convert a positioned document to DOT, then render to SVG:
//
//	doc = graph.ApplyLayout(doc, positions)
//	dot := nodelink.ToDOT(doc, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// The generated DOT is an undirected graph laid out by neato with
// notranslate and inputscale=72, so pos attributes are canvas units and are
// never shifted. The y axis is flipped because Graphviz grows y upward.
// Node boxes use the same size estimate as the layout engine; fill colour
// follows the node's cluster and edge style follows its relationship.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
