package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/mindlayout/pkg/mindmap"
)

// graph is the read-only working view of one layout call. Nodes are addressed
// by their index in nodes; duplicate IDs keep their first occurrence.
type graph struct {
	nodes    []mindmap.Node
	index    map[string]int
	adj      []map[int]struct{}
	features []Features
	root     int
	edges    int
}

func newGraph(nodes []mindmap.Node, edges []mindmap.Edge) *graph {
	g := &graph{index: make(map[string]int, len(nodes))}
	for _, n := range nodes {
		if _, dup := g.index[n.ID]; dup {
			continue
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	g.adj = make([]map[int]struct{}, len(g.nodes))
	g.features = make([]Features, len(g.nodes))
	for i, n := range g.nodes {
		g.adj[i] = make(map[int]struct{})
		g.features[i] = ExtractFeatures(n.Title + " " + n.Body)
	}
	g.root = mindmap.RootIndex(g.nodes)

	for _, e := range edges {
		s, ok := g.index[e.Source]
		if !ok {
			continue
		}
		t, ok := g.index[e.Target]
		if !ok || s == t {
			continue
		}
		if _, seen := g.adj[s][t]; seen {
			continue
		}
		g.adj[s][t] = struct{}{}
		g.adj[t][s] = struct{}{}
		g.edges++
	}
	return g
}

func (g *graph) cluster(i int) int {
	return mindmap.NormalizeCluster(g.nodes[i].Cluster)
}

// compare orders nodes by (cluster, title, id).
func (g *graph) compare(a, b int) int {
	if c := cmp.Compare(g.cluster(a), g.cluster(b)); c != 0 {
		return c
	}
	return g.compareTitle(a, b)
}

// compareTitle orders nodes by (title, id).
func (g *graph) compareTitle(a, b int) int {
	if c := strings.Compare(g.nodes[a].Title, g.nodes[b].Title); c != 0 {
		return c
	}
	return strings.Compare(g.nodes[a].ID, g.nodes[b].ID)
}

// neighbors returns the adjacent nodes of i in (cluster, title, id) order.
func (g *graph) neighbors(i int) []int {
	out := make([]int, 0, len(g.adj[i]))
	for j := range g.adj[i] {
		out = append(out, j)
	}
	slices.SortFunc(out, g.compare)
	return out
}

// byID returns all node indices sorted by ID.
func (g *graph) byID() []int {
	out := make([]int, len(g.nodes))
	for i := range out {
		out[i] = i
	}
	slices.SortFunc(out, func(a, b int) int {
		return strings.Compare(g.nodes[a].ID, g.nodes[b].ID)
	})
	return out
}
