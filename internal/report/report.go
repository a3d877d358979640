// Package report writes the decomposition results to disk: the
// separation-pairs report, the per-block tree exports in GML, and the
// companion component-info files.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/fedarko/MetagenomeScope/internal/spqr"
)

// Namer resolves original vertex ids to contig names. *graph.Graph
// satisfies it.
type Namer interface {
	Name(id int) string
}

// SepPairsWriter appends separation-pair lines to one report file:
// contigA, contigB, then every member contig of the block the pair
// came from, tab-separated.
type SepPairsWriter struct {
	f *os.File
	w *bufio.Writer
}

// NewSepPairsWriter creates (truncating) the report file.
func NewSepPairsWriter(path string) (*SepPairsWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating separation-pairs file: %w", err)
	}
	return &SepPairsWriter{f: f, w: bufio.NewWriter(f)}, nil
}

// Write emits one pair line.
func (s *SepPairsWriter) Write(contigA, contigB string, members []string) error {
	fields := append([]string{contigA, contigB}, members...)
	if _, err := s.w.WriteString(strings.Join(fields, "\t") + "\n"); err != nil {
		return fmt.Errorf("writing separation pair: %w", err)
	}
	return nil
}

// Close flushes and closes the report. Closing twice is a no-op.
func (s *SepPairsWriter) Close() error {
	if s.f == nil {
		return nil
	}
	f := s.f
	s.f = nil
	if err := s.w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing separation-pairs file: %w", err)
	}
	return f.Close()
}

// openOut creates the output file, wrapping it in a zstd encoder (and
// appending the .zst suffix) when compress is set.
func openOut(path string, compress bool) (io.WriteCloser, error) {
	if !compress {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		return f, nil
	}
	f, err := os.Create(path + ".zst")
	if err != nil {
		return nil, fmt.Errorf("creating %s.zst: %w", path, err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return &zstdFile{enc: enc, f: f}, nil
}

type zstdFile struct {
	enc *zstd.Encoder
	f   *os.File
}

func (z *zstdFile) Write(p []byte) (int, error) { return z.enc.Write(p) }

func (z *zstdFile) Close() error {
	if err := z.enc.Close(); err != nil {
		z.f.Close()
		return err
	}
	return z.f.Close()
}

// WriteTreeGML exports the decomposition tree structure in GML: one
// node per skeleton, labeled with its type, one edge per tree edge.
func WriteTreeGML(path string, t *spqr.Tree, compress bool) error {
	out, err := openOut(path, compress)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "graph [")
	fmt.Fprintln(w, "\tdirected 0")
	for i, n := range t.Nodes {
		fmt.Fprintln(w, "\tnode [")
		fmt.Fprintf(w, "\t\tid %d\n", i)
		fmt.Fprintf(w, "\t\tlabel %q\n", string(n.Type))
		fmt.Fprintln(w, "\t]")
	}
	for i, adj := range t.Adj {
		for _, j := range adj {
			if i < j {
				fmt.Fprintln(w, "\tedge [")
				fmt.Fprintf(w, "\t\tsource %d\n", i)
				fmt.Fprintf(w, "\t\ttarget %d\n", j)
				fmt.Fprintln(w, "\t]")
			}
		}
	}
	fmt.Fprintln(w, "]")
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}

// WriteComponentInfo exports one block's skeletons: for each tree node
// its index and type, then for each skeleton vertex every adjacency it
// sources (tagged v for virtual, r for real, with both contig names)
// followed by the vertex's skeleton-local index and contig name.
func WriteComponentInfo(path string, t *spqr.Tree, names Namer, compress bool) error {
	out, err := openOut(path, compress)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	for i, n := range t.Nodes {
		fmt.Fprintf(w, "%d\n", i)
		fmt.Fprintf(w, "%s\n", n.Type)
		for local, v := range n.Skel.Verts {
			for _, e := range n.Skel.Edges {
				if e.U != v {
					continue
				}
				tag := "r"
				if e.Virtual {
					tag = "v"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", tag, names.Name(e.U), names.Name(e.V))
			}
			fmt.Fprintf(w, "%d\t%s\n", local, names.Name(v))
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return out.Close()
}
