// Package collate drives the decomposition pipeline: connected
// components, block-cut trees, triconnected decomposition, and
// separation-pair extraction, feeding the reporting and storage
// layers.
package collate

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fedarko/MetagenomeScope/internal/bctree"
	"github.com/fedarko/MetagenomeScope/internal/graph"
	"github.com/fedarko/MetagenomeScope/internal/report"
	"github.com/fedarko/MetagenomeScope/internal/seppairs"
	"github.com/fedarko/MetagenomeScope/internal/spqr"
	"github.com/fedarko/MetagenomeScope/internal/store"
)

// Options configures one pipeline run.
type Options struct {
	// WriteSepPairs emits the separation-pairs report to SepPairsPath.
	WriteSepPairs bool
	SepPairsPath  string
	// WriteTrees emits spqr<N>.gml and component_<N>.info per
	// decomposed block.
	WriteTrees bool
	// Directory prefixes all output paths.
	Directory string
	// Compress writes tree exports zstd-compressed.
	Compress bool
	// DB, when non-nil, records the run; RunID must then be set.
	DB    *store.DB
	RunID string
	// Log receives diagnostics; defaults to os.Stderr.
	Log io.Writer
}

// Result summarizes one pipeline run.
type Result struct {
	Components int
	Blocks     int
	Decomposed int
	Skipped    int
	Pairs      int
}

// BlockPairs is the separation-pair set of one block, with the block's
// member contigs for provenance.
type BlockPairs struct {
	Members []string
	Pairs   []seppairs.Pair
}

// Run executes the pipeline over the whole graph. Blocks failing the
// decomposition preconditions are reported and skipped; any I/O or
// storage failure aborts the run.
func Run(g *graph.Graph, opts Options) (*Result, error) {
	log := opts.Log
	if log == nil {
		log = os.Stderr
	}

	cc := g.ConnectedComponents()
	fmt.Fprintf(log, "Nodes: %d\n", g.NumVertices())
	fmt.Fprintf(log, "Edges: %d\n", g.NumEdges())
	fmt.Fprintf(log, "Number of connected components = %d\n", cc.Count)

	var pairsOut *report.SepPairsWriter
	if opts.WriteSepPairs {
		w, err := report.NewSepPairsWriter(filepath.Join(opts.Directory, opts.SepPairsPath))
		if err != nil {
			return nil, err
		}
		pairsOut = w
		defer pairsOut.Close()
	}

	res := &Result{Components: cc.Count}
	treeIndex := 1
	for j := 0; j < cc.Count; j++ {
		bc := bctree.Build(g, cc.Start[j])
		fmt.Fprintf(log, "Component %d: %d biconnected component(s)\n", j, len(bc.Blocks))

		for _, block := range bc.Blocks {
			res.Blocks++
			members := memberNames(g, block)

			tree, err := spqr.Build(block)
			var ineligible *spqr.IneligibleError
			if errors.As(err, &ineligible) {
				res.Skipped++
				fmt.Fprintln(log, "Block is not a valid input for SPQR-tree decomposition!")
				fmt.Fprintln(log, "Reason(s):")
				for _, r := range ineligible.Reasons {
					fmt.Fprintf(log, "-> %s\n", r)
				}
				if opts.DB != nil {
					if _, err := opts.DB.RecordBlock(opts.RunID, j, members, len(block.Edges), ineligible.Reasons); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("decomposing block in component %d: %w", j, err)
			}
			res.Decomposed++

			bp := Extract(block, tree, g)
			res.Pairs += len(bp.Pairs)

			if opts.WriteTrees {
				gml := filepath.Join(opts.Directory, fmt.Sprintf("spqr%d.gml", treeIndex))
				if err := report.WriteTreeGML(gml, tree, opts.Compress); err != nil {
					return nil, err
				}
				info := filepath.Join(opts.Directory, fmt.Sprintf("component_%d.info", treeIndex))
				if err := report.WriteComponentInfo(info, tree, g, opts.Compress); err != nil {
					return nil, err
				}
			}
			treeIndex++

			if pairsOut != nil {
				for _, p := range bp.Pairs {
					if err := pairsOut.Write(g.Name(p.A), g.Name(p.B), bp.Members); err != nil {
						return nil, err
					}
				}
			}
			if opts.DB != nil {
				if err := record(opts.DB, opts.RunID, j, g, block, tree, bp); err != nil {
					return nil, err
				}
			}
		}
	}
	if pairsOut != nil {
		if err := pairsOut.Close(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Extract computes one block's separation pairs from its decomposition
// tree: the flanking cut-vertex pair when the block sits between
// exactly two cut vertices, then the per-skeleton rule results,
// deduplicated in first-discovery order.
func Extract(block *bctree.Block, tree *spqr.Tree, g *graph.Graph) BlockPairs {
	var pairs []seppairs.Pair
	if len(block.CutVerts) == 2 {
		pairs = append(pairs, seppairs.MakePair(block.CutVerts[0], block.CutVerts[1]))
	}
	pairs = append(pairs, seppairs.FromTree(tree)...)
	return BlockPairs{
		Members: memberNames(g, block),
		Pairs:   seppairs.Dedupe(pairs),
	}
}

func memberNames(g *graph.Graph, block *bctree.Block) []string {
	names := make([]string, len(block.Vertices))
	for i, v := range block.Vertices {
		names[i] = g.Name(v)
	}
	return names
}

func record(db *store.DB, runID string, component int, g *graph.Graph, block *bctree.Block, tree *spqr.Tree, bp BlockPairs) error {
	blockID, err := db.RecordBlock(runID, component, bp.Members, len(block.Edges), nil)
	if err != nil {
		return err
	}
	for i, n := range tree.Nodes {
		err := db.RecordSkeleton(runID, blockID, i, string(n.Type),
			len(n.Skel.Verts), len(n.Skel.Edges), n.Skel.VirtualCount(), i == tree.Root)
		if err != nil {
			return err
		}
	}
	for _, p := range bp.Pairs {
		if err := db.RecordPair(runID, blockID, g.Name(p.A), g.Name(p.B)); err != nil {
			return err
		}
	}
	return nil
}
