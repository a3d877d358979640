// Package seppairs extracts separation pairs from decomposition-tree
// skeletons. A separation pair is two vertices whose joint removal
// disconnects their block; each skeleton type admits its own rule.
package seppairs

import "github.com/fedarko/MetagenomeScope/internal/spqr"

// Pair is an unordered separation pair in original-graph vertex ids,
// normalized so A < B.
type Pair struct {
	A, B int
}

// MakePair normalizes an unordered vertex pair.
func MakePair(u, v int) Pair {
	if u > v {
		u, v = v, u
	}
	return Pair{A: u, B: v}
}

// FromSkeleton applies the type-specific extraction rule to one tree
// node:
//
//   - R: every virtual edge marks a 2-cut, so its endpoints are a pair.
//   - P: the bond's two vertices are a pair when at least two of its
//     parallel edges are virtual, reported once.
//   - S: the skeleton is a cycle; every virtual edge's endpoints are a
//     pair, and so is every vertex pair not joined by a real edge (the
//     arcs either side of them keep the cycle together otherwise).
//
// The same cut can be rediscovered from adjacent skeletons, so the
// result may contain duplicates; callers deduplicate per block.
func FromSkeleton(n *spqr.Node) []Pair {
	var out []Pair
	switch n.Type {
	case spqr.TypeR:
		for _, e := range n.Skel.Edges {
			if e.Virtual {
				out = append(out, MakePair(e.U, e.V))
			}
		}
	case spqr.TypeP:
		if n.Skel.VirtualCount() >= 2 {
			out = append(out, MakePair(n.Skel.Verts[0], n.Skel.Verts[1]))
		}
	case spqr.TypeS:
		real := make(map[Pair]bool)
		for _, e := range n.Skel.Edges {
			if e.Virtual {
				out = append(out, MakePair(e.U, e.V))
			} else {
				real[MakePair(e.U, e.V)] = true
			}
		}
		vs := n.Skel.Verts
		for i := 0; i < len(vs)-1; i++ {
			for j := i + 1; j < len(vs); j++ {
				if p := MakePair(vs[i], vs[j]); !real[p] {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// FromTree extracts pairs from every skeleton of a decomposition tree,
// in node order, duplicates included.
func FromTree(t *spqr.Tree) []Pair {
	var out []Pair
	for _, n := range t.Nodes {
		out = append(out, FromSkeleton(n)...)
	}
	return out
}

// Dedupe removes repeated pairs, keeping first-discovery order.
func Dedupe(ps []Pair) []Pair {
	seen := make(map[Pair]bool, len(ps))
	var out []Pair
	for _, p := range ps {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
