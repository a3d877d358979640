// Package spqr builds the triconnected-decomposition tree of one
// biconnected block. Each tree node owns a skeleton: a small graph over
// a subset of the block's vertices whose edges are either real (present
// in the block) or virtual (standing in for the rest of the block
// reachable through their two endpoints). Skeletons come in three
// types: S (cycle), P (parallel bundle), R (3-connected simple).
package spqr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fedarko/MetagenomeScope/internal/bctree"
)

// NodeType is the skeleton type of a tree node.
type NodeType string

const (
	TypeS NodeType = "S"
	TypeP NodeType = "P"
	TypeR NodeType = "R"
)

// Edge is a skeleton edge. Endpoints are original-graph vertex ids.
// Virtual edges come in twin pairs: the two edges sharing a Twin id
// live in adjacent tree nodes and together define the tree edge
// between them. Real edges have Twin == -1.
type Edge struct {
	U, V    int
	Virtual bool
	Twin    int
}

// Skeleton is the graph owned by one tree node. Verts are original
// vertex ids, sorted; skeleton-local indices are positions in Verts.
type Skeleton struct {
	Verts []int
	Edges []Edge
}

// Size is the rooting heuristic value |V| + |E|.
func (s *Skeleton) Size() int {
	return len(s.Verts) + len(s.Edges)
}

// LocalIndex returns the skeleton-local index of original vertex v,
// its position in Verts.
func (s *Skeleton) LocalIndex(v int) int {
	return sort.SearchInts(s.Verts, v)
}

// VirtualCount returns the number of virtual edges in the skeleton.
func (s *Skeleton) VirtualCount() int {
	n := 0
	for _, e := range s.Edges {
		if e.Virtual {
			n++
		}
	}
	return n
}

// Node is one node of the decomposition tree.
type Node struct {
	Type NodeType
	Skel Skeleton
}

// Tree is the triconnected-decomposition tree of one block. Nodes are
// listed in construction order; Adj is the tree adjacency derived from
// twin virtual edges. Root is chosen by the size heuristic.
type Tree struct {
	Nodes []*Node
	Adj   [][]int
	Root  int
}

// IneligibleError reports every structural precondition a block failed.
// An ineligible block is skipped, not fatal.
type IneligibleError struct {
	Reasons []string
}

func (e *IneligibleError) Error() string {
	return "block is not a valid input for SPQR-tree decomposition: " +
		strings.Join(e.Reasons, "; ")
}

// Build validates the block and, if eligible, decomposes it. A block
// must be biconnected, loop-free, and have more than 2 edges;
// otherwise Build returns an *IneligibleError naming each failed
// condition.
func Build(b *bctree.Block) (*Tree, error) {
	var reasons []string
	loopFree := true
	for _, e := range b.Edges {
		if e.U == e.V {
			loopFree = false
			break
		}
	}
	if !blockBiconnected(b) {
		reasons = append(reasons, "not biconnected")
	}
	if len(b.Edges) <= 2 {
		reasons = append(reasons, fmt.Sprintf("has %d edge(s), needs more than 2", len(b.Edges)))
	}
	if !loopFree {
		reasons = append(reasons, "not loop-free")
	}
	if len(reasons) > 0 {
		return nil, &IneligibleError{Reasons: reasons}
	}

	root := Skeleton{Verts: append([]int(nil), b.Vertices...)}
	sort.Ints(root.Verts)
	for _, e := range b.Edges {
		root.Edges = append(root.Edges, Edge{U: e.U, V: e.V, Twin: -1})
	}

	bld := &builder{}
	bld.decompose(root)
	nodes := mergeAdjacent(bld.nodes)
	return assemble(nodes), nil
}

// blockBiconnected checks connectivity and the absence of articulation
// vertices. Self-loops are ignored here; the loop-free check rejects
// them separately.
func blockBiconnected(b *bctree.Block) bool {
	if len(b.Vertices) < 2 {
		return false
	}
	local := make(map[int]int, len(b.Vertices))
	for i, v := range b.Vertices {
		local[v] = i
	}
	n := len(b.Vertices)
	type arc struct{ to, edge int }
	adj := make([][]arc, n)
	for i, e := range b.Edges {
		if e.U == e.V {
			continue
		}
		u, v := local[e.U], local[e.V]
		adj[u] = append(adj[u], arc{v, i})
		adj[v] = append(adj[v], arc{u, i})
	}

	disc := make([]int, n)
	low := make([]int, n)
	for i := range disc {
		disc[i] = -1
	}
	timer := 0
	ok := true
	var dfs func(v, parentEdge int)
	dfs = func(v, parentEdge int) {
		disc[v] = timer
		low[v] = timer
		timer++
		children := 0
		for _, a := range adj[v] {
			if a.edge == parentEdge {
				continue
			}
			if disc[a.to] == -1 {
				children++
				dfs(a.to, a.edge)
				if low[a.to] < low[v] {
					low[v] = low[a.to]
				}
				if parentEdge != -1 && low[a.to] >= disc[v] {
					ok = false
				}
			} else if disc[a.to] < low[v] {
				low[v] = disc[a.to]
			}
		}
		if parentEdge == -1 && children >= 2 {
			ok = false
		}
	}
	dfs(0, -1)
	for _, d := range disc {
		if d == -1 {
			return false
		}
	}
	return ok
}

// assemble links nodes into a tree by matching twin ids and roots it at
// the node whose skeleton maximizes |V| + |E|; ties keep the first
// such node in construction order.
func assemble(nodes []*Node) *Tree {
	t := &Tree{Nodes: nodes, Adj: make([][]int, len(nodes))}
	where := make(map[int]int)
	for i, n := range nodes {
		for _, e := range n.Skel.Edges {
			if !e.Virtual {
				continue
			}
			if j, ok := where[e.Twin]; ok {
				t.Adj[i] = append(t.Adj[i], j)
				t.Adj[j] = append(t.Adj[j], i)
			} else {
				where[e.Twin] = i
			}
		}
	}
	best := -1
	for i, n := range nodes {
		if s := n.Skel.Size(); s > best {
			best = s
			t.Root = i
		}
	}
	return t
}
