package pipeline

import (
	"github.com/matzehuels/mindlayout/pkg/graph"
	"github.com/matzehuels/mindlayout/pkg/layout"
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout runs the engine on a document and returns positions for
// every node plus diagnostics. The document must be valid.
func GenerateLayout(doc graph.Document, opts Options) (graph.Layout, error) {
	nodes, edges, err := doc.ToMindmap()
	if err != nil {
		return graph.Layout{}, err
	}
	res := layout.ComputeWithStats(nodes, edges, layout.WithOptions(opts.EngineOptions()))
	return graph.FromResult(res, len(doc.Edges)), nil
}

// =============================================================================
// Incremental Resolution
// =============================================================================

// ResolveOverlaps nudges overlapping nodes of an already positioned document.
// When movable is non-empty only those nodes may move. The returned layout
// always carries a position for every node; Stats.Moved counts the nodes
// whose position changed and Stats.Converged reports whether any candidate
// pair still overlaps.
func ResolveOverlaps(doc graph.Document, movable []string, opts Options) (graph.Layout, error) {
	nodes, edges, err := doc.ToMindmap()
	if err != nil {
		return graph.Layout{}, err
	}
	e := opts.EngineOptions()
	e.Movable = movable

	current := make(map[string]mindmap.Position, len(nodes))
	for _, n := range nodes {
		if _, dup := current[n.ID]; !dup {
			current[n.ID] = n.Position
		}
	}

	res := layout.ResolveIncrementalWithStats(nodes, edges, layout.WithOptions(e))
	out := graph.Layout{
		Strategy:  string(e.Strategy),
		Positions: current,
		Stats: &graph.Stats{
			Nodes:      len(current),
			Edges:      len(doc.Edges),
			Passes:     res.Passes,
			Collisions: res.Collisions,
			Residual:   res.Residual,
			Converged:  res.Converged,
		},
	}
	if res.Positions == nil {
		return out, nil
	}
	for id, p := range res.Positions {
		if p != current[id] {
			out.Stats.Moved++
		}
	}
	out.Positions = res.Positions
	return out, nil
}
