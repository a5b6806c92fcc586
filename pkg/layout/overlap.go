package layout

import (
	"math"
	"slices"
)

// resolution summarizes one run of the overlap resolver.
type resolution struct {
	collisions []int // colliding pairs met during each pass
	residual   int   // colliding pairs left in the kept layout
	moved      bool  // the kept layout differs from the starting one
}

// resolve runs overlap passes until no collision is left or maxPasses is
// reached. movable, when non-nil, limits both the pairs tested and the nodes
// that may move. Passes can trade one overlap for another, so the layout with
// the fewest remaining collisions (possibly the starting one) is kept.
func (e *engine) resolve(movable []bool, maxPasses int) resolution {
	order := e.g.byID()
	r := resolution{residual: e.countCollisions(order, movable)}
	if r.residual == 0 {
		r.collisions = []int{0}
		return r
	}

	best := slices.Clone(e.pos)
	for range maxPasses {
		count, moved := e.pass(order, movable)
		r.collisions = append(r.collisions, count)
		if !moved {
			break
		}
		left := e.countCollisions(order, movable)
		if left < r.residual {
			r.residual = left
			r.moved = true
			copy(best, e.pos)
		}
		if left == 0 {
			break
		}
	}
	copy(e.pos, best)
	return r
}

// pass visits every candidate pair once and separates those that collide.
func (e *engine) pass(order []int, movable []bool) (count int, moved bool) {
	for x := 0; x < len(order); x++ {
		for y := x + 1; y < len(order); y++ {
			a, b := order[x], order[y]
			if !e.canMove(a, movable) && !e.canMove(b, movable) {
				continue
			}
			if !e.colliding(a, b) {
				continue
			}
			count++
			if e.separate(a, b, movable) {
				moved = true
			}
		}
	}
	return count, moved
}

// countCollisions counts colliding candidate pairs without moving anything.
func (e *engine) countCollisions(order []int, movable []bool) int {
	n := 0
	for x := 0; x < len(order); x++ {
		for y := x + 1; y < len(order); y++ {
			a, b := order[x], order[y]
			if (e.canMove(a, movable) || e.canMove(b, movable)) && e.colliding(a, b) {
				n++
			}
		}
	}
	return n
}

func (e *engine) canMove(i int, movable []bool) bool {
	return i != e.g.root && (movable == nil || movable[i])
}

// extents returns the center distance on both axes and the distance each
// axis needs for a and b to be apart including padding.
func (e *engine) extents(a, b int) (dx, dy, needX, needY float64) {
	dx = e.pos[b].X - e.pos[a].X
	dy = e.pos[b].Y - e.pos[a].Y
	needX = e.sizes[a].HalfW() + e.sizes[b].HalfW() + e.opts.NodePadding
	needY = e.sizes[a].HalfH() + e.sizes[b].HalfH() + e.opts.NodePadding
	return dx, dy, needX, needY
}

// colliding reports whether the padded rectangles of a and b overlap on both axes.
func (e *engine) colliding(a, b int) bool {
	dx, dy, needX, needY := e.extents(a, b)
	return needX-math.Abs(dx) > 0 && needY-math.Abs(dy) > 0
}

// separate applies the push policy to one colliding pair.
func (e *engine) separate(a, b int, movable []bool) bool {
	root := e.g.root
	switch {
	case a == root || b == root:
		anchor, other := a, b
		if b == root {
			anchor, other = b, a
		}
		ux, uy := e.unit(e.pos[other].X-e.pos[anchor].X, e.pos[other].Y-e.pos[anchor].Y)
		return e.push(anchor, other, ux, uy, movable)
	case e.depth[a] != e.depth[b]:
		shallow, deep := a, b
		if e.depth[a] > e.depth[b] {
			shallow, deep = b, a
		}
		c := e.center()
		rx, ry := e.pos[deep].X-c.X, e.pos[deep].Y-c.Y
		if math.Hypot(rx, ry) < 1e-9 {
			rx, ry = e.pos[deep].X-e.pos[shallow].X, e.pos[deep].Y-e.pos[shallow].Y
		}
		ux, uy := e.unit(rx, ry)
		return e.push(shallow, deep, ux, uy, movable)
	default:
		return e.pushApart(a, b, movable)
	}
}

// push moves mover away from anchor along (ux, uy). When mover is pinned the
// anchor moves the opposite way instead.
func (e *engine) push(anchor, mover int, ux, uy float64, movable []bool) bool {
	dx, dy, needX, needY := e.extents(anchor, mover)
	m := clearance(dx, dy, ux, uy, needX, needY)
	switch {
	case e.canMove(mover, movable):
		e.pos[mover] = e.pos[mover].Add(ux*m, uy*m)
	case e.canMove(anchor, movable):
		e.pos[anchor] = e.pos[anchor].Add(-ux*m, -uy*m)
	default:
		return false
	}
	return true
}

// pushApart separates two nodes at the same depth tangentially around the
// center, or horizontally when their centers coincide.
func (e *engine) pushApart(a, b int, movable []bool) bool {
	dx, dy, needX, needY := e.extents(a, b)
	dist := math.Hypot(dx, dy)

	ux, uy := 1.0, 0.0
	if dist >= 1e-9 {
		c := e.center()
		mx := (e.pos[a].X+e.pos[b].X)/2 - c.X
		my := (e.pos[a].Y+e.pos[b].Y)/2 - c.Y
		ux, uy = dx/dist, dy/dist
		if r := math.Hypot(mx, my); r >= 1e-9 {
			tx, ty := -my/r, mx/r
			dot := tx*dx + ty*dy
			if math.Abs(dot) > 1e-6*dist {
				if dot < 0 {
					tx, ty = -tx, -ty
				}
				ux, uy = tx, ty
			}
		}
	}

	m := clearance(dx, dy, ux, uy, needX, needY)
	ma, mb := e.canMove(a, movable), e.canMove(b, movable)
	switch {
	case ma && mb:
		e.pos[a] = e.pos[a].Add(-ux*m/2, -uy*m/2)
		e.pos[b] = e.pos[b].Add(ux*m/2, uy*m/2)
	case mb:
		e.pos[b] = e.pos[b].Add(ux*m, uy*m)
	case ma:
		e.pos[a] = e.pos[a].Add(-ux*m, -uy*m)
	default:
		return false
	}
	return true
}

// unit normalizes (x, y), substituting a seeded random heading for a zero vector.
func (e *engine) unit(x, y float64) (float64, float64) {
	l := math.Hypot(x, y)
	if l < 1e-9 {
		return e.randomUnit()
	}
	return x / l, y / l
}

// clearance returns how far b must move relative to a along (ux, uy) so that
// the pair is apart on at least one axis, plus pushEpsilon. (dx, dy) is b−a.
func clearance(dx, dy, ux, uy, needX, needY float64) float64 {
	best := math.Inf(1)
	axis := func(d, u, need float64) {
		if math.Abs(u) < 1e-12 {
			return
		}
		gap := need - math.Abs(d)
		if d != 0 && (d > 0) != (u > 0) {
			gap = need + math.Abs(d)
		}
		best = math.Min(best, gap/math.Abs(u))
	}
	axis(dx, ux, needX)
	axis(dy, uy, needY)
	if math.IsInf(best, 1) {
		best = 0
	}
	return best + pushEpsilon
}
