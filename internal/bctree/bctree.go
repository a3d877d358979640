// Package bctree decomposes one connected component into its block-cut
// tree: biconnected blocks joined through cut vertices.
package bctree

import (
	"sort"

	"github.com/fedarko/MetagenomeScope/internal/graph"
)

// Block is one biconnected component: a maximal set of edges no cut
// vertex separates, plus the vertices those edges touch.
type Block struct {
	// Vertices holds the original-graph vertex ids, sorted.
	Vertices []int
	// Edges holds the block's edges by original endpoints.
	Edges []graph.Edge
	// CutVerts are the cut vertices contained in this block, sorted.
	// They are exactly the block's neighbors in the block-cut tree.
	CutVerts []int
}

// Tree is the bipartite block-cut tree of one connected component.
// Block nodes are listed in discovery order; a tree edge joins a block
// to every cut vertex it contains.
type Tree struct {
	Blocks      []*Block
	CutVertices []int

	isCut map[int]bool
}

// IsCutVertex reports whether v is a cut vertex of the component.
func (t *Tree) IsCutVertex(v int) bool {
	return t.isCut[v]
}

// Build runs a depth-first biconnectivity decomposition of the
// connected component containing start. The choice of start vertex
// changes discovery order only, never the resulting blocks.
func Build(g *graph.Graph, start int) *Tree {
	n := g.NumVertices()
	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}

	t := &Tree{isCut: make(map[int]bool)}
	var edgeStack []int
	loopSeen := make(map[int]bool)
	timer := 0

	popBlock := func(until int) {
		var edges []int
		for {
			e := edgeStack[len(edgeStack)-1]
			edgeStack = edgeStack[:len(edgeStack)-1]
			edges = append(edges, e)
			if e == until {
				break
			}
		}
		t.Blocks = append(t.Blocks, makeBlock(g, edges))
	}

	var dfs func(v, parentEdge int)
	dfs = func(v, parentEdge int) {
		disc[v] = timer
		low[v] = timer
		timer++
		children := 0
		for _, a := range g.Incident(v) {
			if a.Edge == parentEdge {
				continue
			}
			if a.To == v {
				// A self-loop is its own degenerate block.
				if !loopSeen[a.Edge] {
					loopSeen[a.Edge] = true
					t.Blocks = append(t.Blocks, makeBlock(g, []int{a.Edge}))
				}
				continue
			}
			if disc[a.To] == -1 {
				children++
				edgeStack = append(edgeStack, a.Edge)
				dfs(a.To, a.Edge)
				if low[a.To] < low[v] {
					low[v] = low[a.To]
				}
				if low[a.To] >= disc[v] {
					if parentEdge != -1 {
						t.isCut[v] = true
					}
					popBlock(a.Edge)
				}
			} else if disc[a.To] < disc[v] {
				edgeStack = append(edgeStack, a.Edge)
				if disc[a.To] < low[v] {
					low[v] = disc[a.To]
				}
			}
		}
		if parentEdge == -1 && children >= 2 {
			t.isCut[v] = true
		}
	}
	dfs(start, -1)

	for v := range t.isCut {
		t.CutVertices = append(t.CutVertices, v)
	}
	sort.Ints(t.CutVertices)
	for _, b := range t.Blocks {
		for _, v := range b.Vertices {
			if t.isCut[v] {
				b.CutVerts = append(b.CutVerts, v)
			}
		}
	}
	return t
}

func makeBlock(g *graph.Graph, edgeIdx []int) *Block {
	b := &Block{}
	seen := make(map[int]bool)
	for i := len(edgeIdx) - 1; i >= 0; i-- {
		e := g.Edges()[edgeIdx[i]]
		b.Edges = append(b.Edges, e)
		for _, v := range [2]int{e.U, e.V} {
			if !seen[v] {
				seen[v] = true
				b.Vertices = append(b.Vertices, v)
			}
		}
	}
	sort.Ints(b.Vertices)
	return b
}
