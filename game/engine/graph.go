package engine

import "sort"

// Graph is an undirected adjacency graph over card ids. For a memory board
// the vertices are all card ids and the edges connect 4-directionally
// adjacent grid cells. It is built once at game construction and read-only
// afterwards.
type Graph struct {
	adj map[int][]int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: make(map[int][]int)}
}

// AddVertex registers a vertex. Adding an existing vertex is a no-op.
func (g *Graph) AddVertex(id int) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = []int{}
	}
}

// AddEdge links two vertices in both directions. A self-loop registers the
// vertex but adds no edge, and re-adding an existing edge is a no-op, so
// linking from both endpoints during the build is harmless.
func (g *Graph) AddEdge(a, b int) {
	g.AddVertex(a)
	g.AddVertex(b)
	if a == b {
		return
	}
	g.adj[a] = appendUnique(g.adj[a], b)
	g.adj[b] = appendUnique(g.adj[b], a)
}

func appendUnique(list []int, id int) []int {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

// Neighbors returns the adjacent vertex ids. The returned slice is a copy.
func (g *Graph) Neighbors(id int) []int {
	src := g.adj[id]
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Order returns the number of vertices.
func (g *Graph) Order() int {
	return len(g.adj)
}

// vertices returns all vertex ids in ascending order so traversal results
// are deterministic.
func (g *Graph) vertices() []int {
	ids := make([]int, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Components enumerates connected components via depth-first traversal with
// an explicit work stack. A fully built grid always yields one component
// containing every vertex.
func (g *Graph) Components() [][]int {
	visited := make(map[int]bool, len(g.adj))
	var components [][]int

	for _, start := range g.vertices() {
		if visited[start] {
			continue
		}
		var component []int
		stack := []int{start}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[id] {
				continue
			}
			visited[id] = true
			component = append(component, id)
			for _, n := range g.adj[id] {
				if !visited[n] {
					stack = append(stack, n)
				}
			}
		}
		sort.Ints(component)
		components = append(components, component)
	}

	return components
}

// ShortestPath runs a breadth-first search from start to target and
// reconstructs the path by walking first-discovered predecessors. It returns
// the vertex sequence from start to target inclusive, or false if the target
// is unreachable or either endpoint is unknown.
func (g *Graph) ShortestPath(start, target int) ([]int, bool) {
	if _, ok := g.adj[start]; !ok {
		return nil, false
	}
	if _, ok := g.adj[target]; !ok {
		return nil, false
	}
	if start == target {
		return []int{start}, true
	}

	prev := map[int]int{start: start}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, n := range g.adj[id] {
			if _, seen := prev[n]; seen {
				continue
			}
			prev[n] = id
			if n == target {
				return reconstructPath(prev, start, target), true
			}
			queue = append(queue, n)
		}
	}

	return nil, false
}

func reconstructPath(prev map[int]int, start, target int) []int {
	var path []int
	for id := target; ; id = prev[id] {
		path = append(path, id)
		if id == start {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
