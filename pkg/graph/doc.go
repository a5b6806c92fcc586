// Package graph provides serialization types for mind-map documents and layouts.
//
// This package defines the canonical wire format for mindlayout's data, used
// for JSON files, API requests and responses, and cached layouts.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Document], [Layout]: Serialization types (this package)
//   - pkg/mindmap: Nodes and edges consumed by the layout engine
//   - pkg/layout.Result: Positions plus engine diagnostics
//
// Use [FromMindmap] and [Document.ToMindmap] to convert between them.
// ToMindmap is the only place documents are validated.
//
// # Document Format
//
//	{
//	  "nodes": [
//	    {"id": "root", "title": "Essay", "cluster": 1, "position": {"x": 0, "y": 0}},
//	    {"id": "a", "title": "Solar power", "body": "...", "cluster": 2}
//	  ],
//	  "edges": [{"source": "root", "target": "a", "relationship": "supports"}]
//	}
//
// Common operations:
//
//	doc, _ := graph.ReadDocumentFile("essay.json")
//	nodes, edges, err := doc.ToMindmap()
//	out := graph.ApplyLayout(doc, positions)
//	graph.WriteDocumentFile(out, "essay.laid-out.json")
//
// # Layout Format
//
//	{
//	  "strategy": "radial",
//	  "positions": {"root": {"x": 0, "y": 0}, "a": {"x": 247, "y": 39}},
//	  "stats": {"nodes": 2, "passes": 1, "converged": true}
//	}
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
