package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// frame is one pending placement on the radial work stack.
type frame struct {
	node   int
	angle  float64
	radius float64
	depth  int
}

// placeRadial positions the root, every depth-1 node inside its cluster's
// sector, and every deeper node fanned around its parent's angle.
func (e *engine) placeRadial(sectors []mindmap.Sector, depth1 []int) {
	center := e.center()
	e.pos[e.g.root] = center

	byCluster := make(map[int][]int)
	for _, d := range depth1 {
		c := e.g.cluster(d)
		byCluster[c] = append(byCluster[c], d)
	}

	var initial []frame
	for _, s := range sectors {
		siblings := e.orderSiblings(byCluster[s.Cluster])
		n := float64(len(siblings))
		margin := s.Width() * e.opts.SectorMargin
		step := (s.Width() - 2*margin) / n
		radius := e.sectorRadius(siblings, step)
		e.radii[s.Cluster] = radius
		for i, id := range siblings {
			initial = append(initial, frame{
				node:   id,
				angle:  s.Start + margin + (float64(i)+0.5)*step,
				radius: radius,
				depth:  1,
			})
		}
	}

	stack := make([]frame, 0, len(e.g.nodes))
	for k := len(initial) - 1; k >= 0; k-- {
		stack = append(stack, initial[k])
	}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e.pos[f.node] = polar(center, f.angle, f.radius)

		kids := e.t.children[f.node]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, frame{
				node:   kids[k],
				angle:  e.childAngle(f.angle, k, len(kids)),
				radius: f.radius + e.opts.DepthIncrement,
				depth:  f.depth + 1,
			})
		}
	}
}

// childAngle spreads k children across ChildSpread centered on the parent.
func (e *engine) childAngle(parent float64, i, k int) float64 {
	if k == 1 {
		return parent
	}
	spread := e.opts.ChildSpread
	return parent - spread/2 + float64(i)*spread/float64(k-1)
}

// orderSiblings sorts depth-1 nodes by (title, id) and then chains them by
// word similarity.
func (e *engine) orderSiblings(nodes []int) []int {
	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, e.g.compareTitle)
	chain := NearestNeighborOrder(len(sorted), func(i, j int) float64 {
		return Jaccard(e.g.features[sorted[i]], e.g.features[sorted[j]])
	})
	out := make([]int, len(chain))
	for i, idx := range chain {
		out[i] = sorted[idx]
	}
	return out
}

// sectorRadius grows the base radius until adjacent siblings are at least
// the widest sibling plus padding apart along the arc.
func (e *engine) sectorRadius(siblings []int, step float64) float64 {
	if len(siblings) < 2 || step <= 0 {
		return e.opts.BaseRadius
	}
	maxW := 0.0
	for _, id := range siblings {
		maxW = math.Max(maxW, e.sizes[id].W)
	}
	return math.Max(e.opts.BaseRadius, (maxW+e.opts.NodePadding)/step)
}

// placeFallbackCircle spreads every non-root node evenly on the base radius.
// It is used when the root has no reachable neighbors.
func (e *engine) placeFallbackCircle() {
	center := e.center()
	e.pos[e.g.root] = center

	var others []int
	for i := range e.g.nodes {
		if i != e.g.root {
			others = append(others, i)
		}
	}
	slices.SortFunc(others, e.g.compare)
	chain := NearestNeighborOrder(len(others), func(i, j int) float64 {
		return Jaccard(e.g.features[others[i]], e.g.features[others[j]])
	})

	depth := make([]int, len(e.g.nodes))
	step := 2 * math.Pi / float64(len(others))
	for k, idx := range chain {
		id := others[idx]
		depth[id] = 1
		e.pos[id] = polar(center, startAngle+float64(k)*step, e.opts.BaseRadius)
	}
	e.setDepths(depth)
}
