package layout

import "math"

// Spring model tuning. The natural edge length follows the base radius so
// the relaxed layout keeps roughly the radial scale.
const (
	springFactor = 0.6
	cooling      = 0.97
	minTemp      = 1.0
	minDist      = 0.01
)

// relax runs a spring simulation over the reached nodes, starting from
// their radial positions. The root stays pinned.
func (e *engine) relax() {
	nodes := e.t.order
	k := e.opts.BaseRadius * springFactor
	temp := k / 2

	adj := make([][]int, len(e.pos))
	for _, i := range nodes {
		adj[i] = e.g.neighbors(i)
	}
	dispX := make([]float64, len(e.pos))
	dispY := make([]float64, len(e.pos))
	for range e.opts.ForceIterations {
		clear(dispX)
		clear(dispY)

		for x := 0; x < len(nodes); x++ {
			for y := x + 1; y < len(nodes); y++ {
				i, j := nodes[x], nodes[y]
				dx, dy, d := e.separation(i, j)
				f := k * k / d
				dispX[i] += dx / d * f
				dispY[i] += dy / d * f
				dispX[j] -= dx / d * f
				dispY[j] -= dy / d * f
			}
		}

		for _, i := range nodes {
			for _, j := range adj[i] {
				if j < i {
					continue
				}
				dx, dy, d := e.separation(i, j)
				f := d * d / k
				dispX[i] -= dx / d * f
				dispY[i] -= dy / d * f
				dispX[j] += dx / d * f
				dispY[j] += dy / d * f
			}
		}

		for _, i := range nodes {
			if i == e.g.root {
				continue
			}
			l := math.Hypot(dispX[i], dispY[i])
			if l < 1e-9 {
				continue
			}
			step := math.Min(l, temp)
			e.pos[i] = e.pos[i].Add(dispX[i]/l*step, dispY[i]/l*step)
		}
		temp = math.Max(minTemp, temp*cooling)
	}
}

// separation returns i−j and its length, jittering coincident nodes.
func (e *engine) separation(i, j int) (dx, dy, d float64) {
	dx = e.pos[i].X - e.pos[j].X
	dy = e.pos[i].Y - e.pos[j].Y
	d = math.Hypot(dx, dy)
	if d < minDist {
		ux, uy := e.randomUnit()
		dx, dy, d = ux*minDist, uy*minDist, minDist
	}
	return dx, dy, d
}
