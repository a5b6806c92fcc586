// Package layout computes 2-D positions for the nodes of a mind map.
//
// # Overview
//
// The default radial strategy builds a BFS tree from the root, divides the
// circle into one angular sector per cluster (sized by subtree weight) and
// places the root's neighbors inside their cluster's sector. Deeper nodes
// fan out around their parent at increasing radii. Nodes that cannot be
// reached from the root are lined up in a row beneath the layout. A final
// overlap pass pushes apart any rectangles that still intersect.
//
// Word similarity decides ordering at three levels: which clusters sit next
// to each other, which siblings sit next to each other inside a sector, and
// the order around the fallback circle used when the root has no neighbors.
//
// # Usage
//
//	positions := layout.Compute(nodes, edges)
//
//	res := layout.ComputeWithStats(nodes, edges,
//	    layout.WithStrategy(layout.StrategyForce),
//	    layout.WithSeed(7),
//	)
//
//	// After the user drags a node:
//	if moved := layout.ResolveIncremental(nodes, edges, layout.WithMovable("n3")); moved != nil {
//	    apply(moved)
//	}
//
// # Determinism
//
// Every ordering decision uses stable keys (cluster, title, id) and random
// tie-breaking uses a seeded PCG generator, so the same input produces the
// same output regardless of slice order. Calls share no state and may run
// concurrently.
package layout
