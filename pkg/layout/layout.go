package layout

import (
	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// Result is a computed layout plus the diagnostics gathered while producing it.
type Result struct {
	Strategy  Strategy                    `json:"strategy"`
	Positions map[string]mindmap.Position `json:"positions"`
	Depth     map[string]int              `json:"-"`
	Sectors   []mindmap.Sector            `json:"sectors,omitempty"`
	Radii     map[int]float64             `json:"radii,omitempty"`
	Passes    int                         `json:"passes"`

	// Collisions holds the collision count of each overlap pass.
	Collisions []int `json:"collisions,omitempty"`

	// Residual counts the colliding pairs left in Positions. When passes run
	// out, Positions is the pass with the fewest, not the last one.
	Residual  int  `json:"residual"`
	Converged bool `json:"converged"`

	// Fallback is set when the root had no reachable neighbors and every
	// node was spread on a single circle.
	Fallback bool `json:"fallback"`
}

// Compute returns a position for every node. Inputs are never modified.
func Compute(nodes []mindmap.Node, edges []mindmap.Edge, opts ...Option) map[string]mindmap.Position {
	return ComputeWithStats(nodes, edges, opts...).Positions
}

// ComputeWithStats is like [Compute] but also returns diagnostics.
func ComputeWithStats(nodes []mindmap.Node, edges []mindmap.Edge, opts ...Option) Result {
	o := newOptions(opts)
	g := newGraph(nodes, edges)
	res := Result{Strategy: o.Strategy, Radii: make(map[int]float64)}

	if len(g.nodes) <= 1 {
		res.Positions = make(map[string]mindmap.Position, len(g.nodes))
		res.Depth = make(map[string]int, len(g.nodes))
		for _, n := range g.nodes {
			res.Positions[n.ID] = n.Position
			res.Depth[n.ID] = 0
		}
		res.Converged = true
		return res
	}

	t := buildTree(g)
	e := newEngine(g, t, o)
	depth1 := t.children[g.root]

	if g.edges == 0 || len(depth1) == 0 {
		e.placeFallbackCircle()
		res.Fallback = true
	} else {
		order, weights := clusterOrder(g, t, depth1)
		res.Sectors = allocateSectors(order, weights, o)
		e.placeRadial(res.Sectors, depth1)
		e.placeDisconnected()
		if o.Strategy == StrategyForce {
			e.relax()
		}
	}

	r := e.resolve(nil, o.MaxPasses)
	res.Collisions = r.collisions
	res.Passes = len(r.collisions)
	res.Residual = r.residual
	res.Converged = r.residual == 0
	res.Positions = e.positions()
	res.Depth = e.depths()
	res.Radii = e.radii
	return res
}

// ResolveIncremental nudges nodes from their current positions until they no
// longer overlap, without recomputing the layout. With [WithMovable] only
// pairs involving the listed nodes are tested and only those nodes move.
// It returns nil when nothing had to move.
func ResolveIncremental(nodes []mindmap.Node, edges []mindmap.Edge, opts ...Option) map[string]mindmap.Position {
	return ResolveIncrementalWithStats(nodes, edges, opts...).Positions
}

// ResolveIncrementalWithStats is like [ResolveIncremental] but also reports
// the passes run and the collisions left. Positions is nil when no pass
// improved on the starting layout, in which case Residual counts its overlaps.
func ResolveIncrementalWithStats(nodes []mindmap.Node, edges []mindmap.Edge, opts ...Option) Result {
	o := newOptions(opts)
	g := newGraph(nodes, edges)
	res := Result{Strategy: o.Strategy, Converged: true}
	if len(g.nodes) < 2 {
		return res
	}
	e := newEngine(g, buildTree(g), o)

	var movable []bool
	if len(o.Movable) > 0 {
		movable = make([]bool, len(g.nodes))
		found := false
		for _, id := range o.Movable {
			if i, ok := g.index[id]; ok {
				movable[i] = true
				found = true
			}
		}
		if !found {
			return res
		}
	}

	r := e.resolve(movable, o.IncrementalPasses)
	res.Collisions = r.collisions
	res.Passes = len(r.collisions)
	res.Residual = r.residual
	res.Converged = r.residual == 0
	res.Depth = e.depths()
	if r.moved {
		res.Positions = e.positions()
	}
	return res
}
