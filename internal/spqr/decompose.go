package spqr

import "sort"

// builder carries the state of one recursive decomposition: the
// emitted tree nodes and the counter handing out twin ids for virtual
// edge pairs.
type builder struct {
	nodes    []*Node
	nextTwin int
}

func (b *builder) newTwin() int {
	t := b.nextTwin
	b.nextTwin++
	return t
}

func (b *builder) emit(t NodeType, sk Skeleton) {
	b.nodes = append(b.nodes, &Node{Type: t, Skel: sk})
}

// decompose recursively splits sk until every piece is a bond, a
// cycle, or 3-connected. sk is always biconnected and loop-free: the
// root skeleton by validation, recursive pieces by construction (a
// separation class plus its virtual edge is biconnected).
func (b *builder) decompose(sk Skeleton) {
	if len(sk.Verts) == 2 {
		b.emit(TypeP, sk)
		return
	}
	if isCycle(sk) {
		b.emit(TypeS, sk)
		return
	}
	a, v, classes, ok := findSplitPair(sk)
	if !ok {
		b.emit(TypeR, sk)
		return
	}
	b.split(sk, a, v, classes)
}

// isCycle reports whether sk is a simple cycle. sk is connected, so
// with at least 3 vertices this reduces to every vertex having degree
// exactly 2.
func isCycle(sk Skeleton) bool {
	if len(sk.Verts) < 3 {
		return false
	}
	deg := make(map[int]int, len(sk.Verts))
	for _, e := range sk.Edges {
		deg[e.U]++
		deg[e.V]++
	}
	for _, v := range sk.Verts {
		if deg[v] != 2 {
			return false
		}
	}
	return true
}

// findSplitPair scans vertex pairs in sorted order and returns the
// first pair whose separation classes admit a split: at least three
// classes, or exactly two classes each holding at least two edges.
func findSplitPair(sk Skeleton) (a, b int, classes [][]int, ok bool) {
	for i := 0; i < len(sk.Verts)-1; i++ {
		for j := i + 1; j < len(sk.Verts); j++ {
			cl := separationClasses(sk, sk.Verts[i], sk.Verts[j])
			if len(cl) >= 3 || (len(cl) == 2 && len(cl[0]) >= 2 && len(cl[1]) >= 2) {
				return sk.Verts[i], sk.Verts[j], cl, true
			}
		}
	}
	return 0, 0, nil, false
}

// separationClasses partitions the edge indices of sk by the pair
// {a, b}: every a-b edge is its own class, and every other edge joins
// the class of the component of sk - {a, b} it touches. Classes are
// ordered by first appearance, component classes before a-b edge
// classes.
func separationClasses(sk Skeleton, a, b int) [][]int {
	comp := make(map[int]int, len(sk.Verts))
	for _, v := range sk.Verts {
		if v != a && v != b {
			comp[v] = -1
		}
	}
	adj := make(map[int][]int)
	for _, e := range sk.Edges {
		if _, ok := comp[e.U]; !ok {
			continue
		}
		if _, ok := comp[e.V]; !ok {
			continue
		}
		adj[e.U] = append(adj[e.U], e.V)
		adj[e.V] = append(adj[e.V], e.U)
	}
	nComp := 0
	for _, v := range sk.Verts {
		if c, ok := comp[v]; !ok || c != -1 {
			continue
		}
		comp[v] = nComp
		stack := []int{v}
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range adj[u] {
				if comp[w] == -1 {
					comp[w] = nComp
					stack = append(stack, w)
				}
			}
		}
		nComp++
	}

	classes := make([][]int, nComp)
	var abClasses [][]int
	for i, e := range sk.Edges {
		switch {
		case (e.U == a && e.V == b) || (e.U == b && e.V == a):
			abClasses = append(abClasses, []int{i})
		case e.U != a && e.U != b:
			classes[comp[e.U]] = append(classes[comp[e.U]], i)
		default:
			classes[comp[e.V]] = append(classes[comp[e.V]], i)
		}
	}
	return append(classes, abClasses...)
}

// split replaces sk with the split graphs of the pair {a, b}. With
// exactly two classes the two halves share one twin virtual edge and
// recurse directly; with three or more, a P node forms between a and b
// holding one edge per class.
func (b *builder) split(sk Skeleton, a, v int, classes [][]int) {
	if len(classes) == 2 {
		t := b.newTwin()
		b.decompose(subSkeleton(sk, classes[0], a, v, t))
		b.decompose(subSkeleton(sk, classes[1], a, v, t))
		return
	}
	lo, hi := a, v
	if hi < lo {
		lo, hi = hi, lo
	}
	p := Skeleton{Verts: []int{lo, hi}}
	for _, cl := range classes {
		e := sk.Edges[cl[0]]
		if len(cl) == 1 && ((e.U == a && e.V == v) || (e.U == v && e.V == a)) {
			// An a-b edge, real or an inherited virtual, joins the
			// bond directly.
			p.Edges = append(p.Edges, e)
			continue
		}
		t := b.newTwin()
		p.Edges = append(p.Edges, Edge{U: a, V: v, Virtual: true, Twin: t})
		b.decompose(subSkeleton(sk, cl, a, v, t))
	}
	b.emit(TypeP, p)
}

// subSkeleton builds the split graph of one separation class: the
// class edges plus a virtual a-b edge carrying the given twin id.
func subSkeleton(sk Skeleton, class []int, a, b, twin int) Skeleton {
	seen := map[int]bool{a: true, b: true}
	verts := []int{a, b}
	var edges []Edge
	for _, i := range class {
		e := sk.Edges[i]
		edges = append(edges, e)
		for _, v := range [2]int{e.U, e.V} {
			if !seen[v] {
				seen[v] = true
				verts = append(verts, v)
			}
		}
	}
	edges = append(edges, Edge{U: a, V: b, Virtual: true, Twin: twin})
	sort.Ints(verts)
	return Skeleton{Verts: verts, Edges: edges}
}

// mergeAdjacent contracts tree edges joining two S nodes or two P
// nodes until none remain, which makes the decomposition canonical:
// two adjacent cycles sharing a virtual edge are one larger cycle, two
// adjacent bonds are one larger bond.
func mergeAdjacent(nodes []*Node) []*Node {
	for {
		i, j, twin, found := findMergeable(nodes)
		if !found {
			return nodes
		}
		nodes[i] = merge(nodes[i], nodes[j], twin)
		nodes = append(nodes[:j], nodes[j+1:]...)
	}
}

func findMergeable(nodes []*Node) (i, j, twin int, found bool) {
	where := make(map[int]int)
	for idx, n := range nodes {
		for _, e := range n.Skel.Edges {
			if !e.Virtual {
				continue
			}
			other, ok := where[e.Twin]
			if !ok {
				where[e.Twin] = idx
				continue
			}
			ta, tb := nodes[other].Type, n.Type
			if ta == tb && (ta == TypeS || ta == TypeP) {
				return other, idx, e.Twin, true
			}
		}
	}
	return 0, 0, 0, false
}

func merge(x, y *Node, twin int) *Node {
	seen := make(map[int]bool)
	var verts []int
	var edges []Edge
	for _, n := range [2]*Node{x, y} {
		for _, v := range n.Skel.Verts {
			if !seen[v] {
				seen[v] = true
				verts = append(verts, v)
			}
		}
		for _, e := range n.Skel.Edges {
			if e.Virtual && e.Twin == twin {
				continue
			}
			edges = append(edges, e)
		}
	}
	sort.Ints(verts)
	return &Node{Type: x.Type, Skel: Skeleton{Verts: verts, Edges: edges}}
}
