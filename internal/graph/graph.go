// Package graph provides the in-memory contig multigraph and the
// id<->name registry shared by the decomposition pipeline.
package graph

// Edge is an undirected edge between two vertex ids. U and V are stored
// in the order the edge was added; the graph itself is undirected.
type Edge struct {
	U, V int
}

// Arc is one direction of an incident edge: the opposite endpoint and
// the index of the underlying edge.
type Arc struct {
	To   int
	Edge int
}

// Graph is an undirected multigraph over contig names. Vertices are
// identified by dense integer ids assigned in insertion order; the
// id<->name mapping is immutable once built. Parallel edges and
// self-loops are stored as-is.
type Graph struct {
	names []string
	ids   map[string]int
	edges []Edge
	adj   [][]Arc
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{ids: make(map[string]int)}
}

// AddVertex returns the id for name, creating a new vertex if the name
// has not been seen before.
func (g *Graph) AddVertex(name string) int {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := len(g.names)
	g.names = append(g.names, name)
	g.ids[name] = id
	g.adj = append(g.adj, nil)
	return id
}

// AddEdge appends an undirected edge between u and v and returns its
// index. Parallel edges are allowed; self-loops are not rejected here
// (they are rejected later by the decomposition eligibility checks).
func (g *Graph) AddEdge(u, v int) int {
	idx := len(g.edges)
	g.edges = append(g.edges, Edge{U: u, V: v})
	g.adj[u] = append(g.adj[u], Arc{To: v, Edge: idx})
	g.adj[v] = append(g.adj[v], Arc{To: u, Edge: idx})
	return idx
}

// NumVertices returns the number of distinct contigs.
func (g *Graph) NumVertices() int {
	return len(g.names)
}

// NumEdges returns the number of edges, counting parallels.
func (g *Graph) NumEdges() int {
	return len(g.edges)
}

// Name returns the contig name for a vertex id.
func (g *Graph) Name(id int) string {
	return g.names[id]
}

// ID returns the vertex id for a contig name.
func (g *Graph) ID(name string) (int, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Edges returns all edges in insertion order. The slice is shared with
// the graph and must not be modified.
func (g *Graph) Edges() []Edge {
	return g.edges
}

// Incident returns the arcs incident to v in insertion order. A
// self-loop contributes two arcs.
func (g *Graph) Incident(v int) []Arc {
	return g.adj[v]
}

// Components is the partition of vertices into connected components.
type Components struct {
	// Label[v] is the component index of vertex v, in 0..Count-1.
	Label []int
	Count int
	// Start[c] is the lowest-id vertex of component c, used to root
	// its block-cut tree.
	Start []int
}

// ConnectedComponents computes the connected components of the graph.
// Component indices are assigned in order of their lowest vertex id.
func (g *Graph) ConnectedComponents() *Components {
	n := g.NumVertices()
	c := &Components{Label: make([]int, n)}
	for i := range c.Label {
		c.Label[i] = -1
	}
	for v := 0; v < n; v++ {
		if c.Label[v] != -1 {
			continue
		}
		label := c.Count
		c.Count++
		c.Start = append(c.Start, v)
		stack := []int{v}
		c.Label[v] = label
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, a := range g.adj[u] {
				if c.Label[a.To] == -1 {
					c.Label[a.To] = label
					stack = append(stack, a.To)
				}
			}
		}
	}
	return c
}
