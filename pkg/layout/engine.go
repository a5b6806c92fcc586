package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// engine holds the mutable state of a single layout call.
type engine struct {
	g     *graph
	t     *tree
	opts  Options
	rng   *rand.Rand
	pos   []mindmap.Position
	depth []int
	sizes []mindmap.Size
	radii map[int]float64
}

func newEngine(g *graph, t *tree, o Options) *engine {
	n := len(g.nodes)
	e := &engine{
		g:     g,
		t:     t,
		opts:  o,
		rng:   rand.New(rand.NewPCG(o.Seed, o.Seed^0x9e3779b97f4a7c15)),
		pos:   make([]mindmap.Position, n),
		depth: make([]int, n),
		sizes: make([]mindmap.Size, n),
		radii: make(map[int]float64),
	}
	for i, node := range g.nodes {
		e.pos[i] = node.Position
	}
	e.setDepths(t.depth)
	return e
}

// setDepths records the depth used by the resolver and sizes every node by role.
func (e *engine) setDepths(depth []int) {
	copy(e.depth, depth)
	for i, node := range e.g.nodes {
		e.sizes[i] = mindmap.EstimateSize(node.Title, roleFor(i == e.g.root, e.depth[i]))
	}
}

func roleFor(root bool, depth int) mindmap.Role {
	switch {
	case root:
		return mindmap.RoleRoot
	case depth == 1:
		return mindmap.RoleTopLevel
	default:
		return mindmap.RoleDescendant
	}
}

func (e *engine) center() mindmap.Position {
	return e.g.nodes[e.g.root].Position
}

func polar(c mindmap.Position, angle, radius float64) mindmap.Position {
	return mindmap.Position{X: c.X + radius*math.Cos(angle), Y: c.Y + radius*math.Sin(angle)}
}

func (e *engine) positions() map[string]mindmap.Position {
	out := make(map[string]mindmap.Position, len(e.pos))
	for i, p := range e.pos {
		out[e.g.nodes[i].ID] = p
	}
	return out
}

func (e *engine) depths() map[string]int {
	out := make(map[string]int, len(e.depth))
	for i, d := range e.depth {
		out[e.g.nodes[i].ID] = d
	}
	return out
}

// randomUnit returns a unit vector with a seeded random heading.
func (e *engine) randomUnit() (float64, float64) {
	a := e.rng.Float64() * 2 * math.Pi
	return math.Cos(a), math.Sin(a)
}
