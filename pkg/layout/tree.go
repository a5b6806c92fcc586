package layout

import "github.com/matzehuels/mindlayout/pkg/mindmap"

// tree is the BFS spanning tree rooted at the graph root.
type tree struct {
	depth        []int
	parent       []int
	children     [][]int
	order        []int // reached nodes in BFS order
	disconnected []int // unreached nodes in input order
}

func buildTree(g *graph) *tree {
	n := len(g.nodes)
	t := &tree{
		depth:    make([]int, n),
		parent:   make([]int, n),
		children: make([][]int, n),
	}
	for i := range n {
		t.depth[i] = mindmap.Unreachable
		t.parent[i] = -1
	}
	if n == 0 {
		return t
	}

	t.depth[g.root] = 0
	queue := []int{g.root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		t.order = append(t.order, cur)
		for _, nb := range g.neighbors(cur) {
			if t.depth[nb] != mindmap.Unreachable {
				continue
			}
			t.depth[nb] = t.depth[cur] + 1
			t.parent[nb] = cur
			t.children[cur] = append(t.children[cur], nb)
			queue = append(queue, nb)
		}
	}

	for i := range n {
		if t.depth[i] == mindmap.Unreachable {
			t.disconnected = append(t.disconnected, i)
		}
	}
	return t
}

// subtreeSizes counts each reached node plus all of its tree descendants.
func (t *tree) subtreeSizes() []int {
	sizes := make([]int, len(t.depth))
	for k := len(t.order) - 1; k >= 0; k-- {
		id := t.order[k]
		sizes[id] = 1
		for _, c := range t.children[id] {
			sizes[id] += sizes[c]
		}
	}
	return sizes
}

// subtree returns id and its tree descendants in pre-order.
func (t *tree) subtree(id int) []int {
	var out []int
	stack := []int{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		kids := t.children[cur]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}
	return out
}
