package layout

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when either set is empty.
func Jaccard(a, b Features) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for w := range small {
		if _, ok := large[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// NearestNeighborOrder returns a permutation of 0..n-1 built greedily: it
// starts at 0 and repeatedly appends the unvisited index most similar to the
// last one appended. Ties go to the smaller index.
func NearestNeighborOrder(n int, sim func(i, j int) float64) []int {
	if n <= 0 {
		return nil
	}
	order := make([]int, 0, n)
	visited := make([]bool, n)
	cur := 0
	visited[cur] = true
	order = append(order, cur)
	for len(order) < n {
		best, bestSim := -1, -1.0
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			if s := sim(cur, j); s > bestSim {
				best, bestSim = j, s
			}
		}
		visited[best] = true
		order = append(order, best)
		cur = best
	}
	return order
}
