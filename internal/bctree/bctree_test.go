package bctree

import (
	"testing"

	"github.com/fedarko/MetagenomeScope/internal/graph"
)

func triangles(t *testing.T) (*graph.Graph, map[string]int) {
	t.Helper()
	g := graph.New()
	ids := make(map[string]int)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		ids[name] = g.AddVertex(name)
	}
	// Triangle A-B-C and triangle A-D-E sharing vertex A.
	g.AddEdge(ids["A"], ids["B"])
	g.AddEdge(ids["B"], ids["C"])
	g.AddEdge(ids["C"], ids["A"])
	g.AddEdge(ids["A"], ids["D"])
	g.AddEdge(ids["D"], ids["E"])
	g.AddEdge(ids["E"], ids["A"])
	return g, ids
}

func TestSharedVertexSplitsBlocks(t *testing.T) {
	g, ids := triangles(t)
	tree := Build(g, ids["A"])

	if len(tree.Blocks) != 2 {
		t.Fatalf("found %d blocks, want 2", len(tree.Blocks))
	}
	if len(tree.CutVertices) != 1 || tree.CutVertices[0] != ids["A"] {
		t.Fatalf("cut vertices = %v, want [%d]", tree.CutVertices, ids["A"])
	}
	if !tree.IsCutVertex(ids["A"]) || tree.IsCutVertex(ids["B"]) {
		t.Error("IsCutVertex disagrees with CutVertices")
	}
	for _, b := range tree.Blocks {
		if len(b.Vertices) != 3 || len(b.Edges) != 3 {
			t.Errorf("block = %d vertices, %d edges, want 3 and 3", len(b.Vertices), len(b.Edges))
		}
		if len(b.CutVerts) != 1 || b.CutVerts[0] != ids["A"] {
			t.Errorf("block cut vertices = %v, want [%d]", b.CutVerts, ids["A"])
		}
	}
}

func TestEdgePartition(t *testing.T) {
	g, ids := triangles(t)
	// Hang a bridge path off C to get more blocks.
	f := g.AddVertex("F")
	gg := g.AddVertex("G")
	g.AddEdge(ids["C"], f)
	g.AddEdge(f, gg)

	tree := Build(g, ids["A"])

	// Every edge of the component lands in exactly one block.
	total := 0
	counts := make(map[graph.Edge]int)
	for _, b := range tree.Blocks {
		total += len(b.Edges)
		for _, e := range b.Edges {
			counts[e]++
		}
	}
	if total != g.NumEdges() {
		t.Errorf("blocks hold %d edges, graph has %d", total, g.NumEdges())
	}
	for e, c := range counts {
		if c != 1 {
			t.Errorf("edge %v assigned to %d blocks", e, c)
		}
	}
	if len(tree.Blocks) != 4 {
		t.Errorf("found %d blocks, want 4", len(tree.Blocks))
	}
}

func TestBiconnectedComponentIsOneBlock(t *testing.T) {
	g := graph.New()
	a := g.AddVertex("A")
	b := g.AddVertex("B")
	c := g.AddVertex("C")
	d := g.AddVertex("D")
	g.AddEdge(a, b)
	g.AddEdge(b, c)
	g.AddEdge(c, d)
	g.AddEdge(d, a)
	g.AddEdge(a, c) // chord

	tree := Build(g, a)
	if len(tree.Blocks) != 1 {
		t.Fatalf("found %d blocks, want 1", len(tree.Blocks))
	}
	if len(tree.CutVertices) != 0 {
		t.Errorf("cut vertices = %v, want none", tree.CutVertices)
	}
	if len(tree.Blocks[0].Edges) != 5 {
		t.Errorf("block has %d edges, want 5", len(tree.Blocks[0].Edges))
	}
}

func TestTwoCutVerticesFlankMiddleBlock(t *testing.T) {
	// Three triangles in a chain sharing corners B and C.
	g := graph.New()
	name := func(s string) int { return g.AddVertex(s) }
	a, b := name("A"), name("B")
	g.AddEdge(a, b)
	g.AddEdge(b, name("A2"))
	g.AddEdge(name("A2"), a)
	c := name("C")
	g.AddEdge(b, c)
	g.AddEdge(c, name("B2"))
	g.AddEdge(name("B2"), b)
	g.AddEdge(c, name("D"))
	g.AddEdge(name("D"), name("C2"))
	g.AddEdge(name("C2"), c)

	tree := Build(g, a)
	if len(tree.Blocks) != 3 {
		t.Fatalf("found %d blocks, want 3", len(tree.Blocks))
	}
	if len(tree.CutVertices) != 2 {
		t.Fatalf("cut vertices = %v, want B and C", tree.CutVertices)
	}
	middle := 0
	for _, blk := range tree.Blocks {
		if len(blk.CutVerts) == 2 {
			middle++
			if blk.CutVerts[0] != b || blk.CutVerts[1] != c {
				t.Errorf("middle block cut vertices = %v, want [%d %d]", blk.CutVerts, b, c)
			}
		}
	}
	if middle != 1 {
		t.Errorf("%d blocks flanked by two cut vertices, want 1", middle)
	}
}

func TestSelfLoopBecomesDegenerateBlock(t *testing.T) {
	g := graph.New()
	a := g.AddVertex("A")
	b := g.AddVertex("B")
	g.AddEdge(a, b)
	g.AddEdge(a, a)

	tree := Build(g, a)
	if len(tree.Blocks) != 2 {
		t.Fatalf("found %d blocks, want 2", len(tree.Blocks))
	}
	loops := 0
	for _, blk := range tree.Blocks {
		if len(blk.Vertices) == 1 {
			loops++
			if blk.Vertices[0] != a || len(blk.Edges) != 1 {
				t.Errorf("loop block = %+v", blk)
			}
		}
	}
	if loops != 1 {
		t.Errorf("%d single-vertex blocks, want 1", loops)
	}
}
