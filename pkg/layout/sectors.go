package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// startAngle puts the first sector at the top of the screen.
const startAngle = -math.Pi / 2

// allocateSectors divides the circle among clusters in the given order,
// proportionally to weight. Sectors below the minimum angle are raised to it
// and the remaining sectors share what is left.
func allocateSectors(order []int, weights map[int]float64, o Options) []mindmap.Sector {
	k := len(order)
	if k == 0 {
		return nil
	}
	gap := 0.0
	if k >= 2 {
		gap = o.SectorGap
	}
	available := 2*math.Pi - float64(k)*gap

	widths := make([]float64, k)
	floored := make([]bool, k)
	minAngle := o.MinSectorAngle
	if float64(k)*minAngle > available {
		minAngle = available / float64(k)
	}

	for range k + 1 {
		budget := available
		total := 0.0
		for i, c := range order {
			if floored[i] {
				budget -= minAngle
				continue
			}
			total += weights[c]
		}
		changed := false
		for i, c := range order {
			if floored[i] {
				widths[i] = minAngle
				continue
			}
			w := budget / float64(k)
			if total > 0 {
				w = weights[c] / total * budget
			}
			if w < minAngle {
				floored[i] = true
				changed = true
			}
			widths[i] = w
		}
		if !changed {
			break
		}
	}

	sectors := make([]mindmap.Sector, k)
	cur := startAngle
	for i, c := range order {
		sectors[i] = mindmap.Sector{Cluster: c, Start: cur, End: cur + widths[i]}
		cur += widths[i] + gap
	}
	return sectors
}

// clusterOrder returns the cluster tags present among depth-1 nodes, chained
// by the similarity of the words in each cluster's subtrees.
func clusterOrder(g *graph, t *tree, depth1 []int) (order []int, weights map[int]float64) {
	sizes := t.subtreeSizes()
	weights = make(map[int]float64)
	words := make(map[int][]Features)
	for _, d := range depth1 {
		c := g.cluster(d)
		weights[c] += float64(sizes[d])
		for _, id := range t.subtree(d) {
			words[c] = append(words[c], g.features[id])
		}
	}

	ids := make([]int, 0, len(weights))
	for c := range weights {
		ids = append(ids, c)
	}
	slices.Sort(ids)

	merged := make([]Features, len(ids))
	for i, c := range ids {
		merged[i] = merge(words[c]...)
	}
	chain := NearestNeighborOrder(len(ids), func(i, j int) float64 {
		return Jaccard(merged[i], merged[j])
	})
	order = make([]int, len(chain))
	for i, idx := range chain {
		order[i] = ids[idx]
	}
	return order, weights
}
