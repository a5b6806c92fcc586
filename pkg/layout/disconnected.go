package layout

import (
	"math"
	"slices"
)

// placeDisconnected lines unreached nodes up in a row below everything
// placed so far, centered on the root's x.
func (e *engine) placeDisconnected() {
	row := slices.Clone(e.t.disconnected)
	if len(row) == 0 {
		return
	}
	slices.SortFunc(row, e.g.compare)

	lowest := math.Inf(-1)
	for _, id := range e.t.order {
		lowest = math.Max(lowest, e.pos[id].Y+e.sizes[id].HalfH())
	}

	xs := make([]float64, len(row))
	maxHalfH := 0.0
	for i, id := range row {
		maxHalfH = math.Max(maxHalfH, e.sizes[id].HalfH())
		if i == 0 {
			continue
		}
		prev := row[i-1]
		pitch := math.Max(e.opts.RowPitch, e.sizes[prev].HalfW()+e.sizes[id].HalfW()+e.opts.NodePadding)
		xs[i] = xs[i-1] + pitch
	}

	center := e.center()
	left := center.X - xs[len(xs)-1]/2
	y := lowest + e.opts.RowGap + maxHalfH
	for i, id := range row {
		e.pos[id].X = left + xs[i]
		e.pos[id].Y = y
	}
}
