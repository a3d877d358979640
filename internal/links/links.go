// Package links reads oriented contig-linkage records and loads them
// into a graph.
package links

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fedarko/MetagenomeScope/internal/graph"
)

// Link is one scaffolding link between two contigs. Only the two contig
// names feed the decomposition; orientation and gap statistics are
// carried as passthrough metadata for consumers outside the core.
type Link struct {
	ContigA    string
	OrientA    string
	ContigB    string
	OrientB    string
	Mean       float64
	Stdev      float64
	BundleSize int
}

// Parse reads whitespace-delimited link records, one per line, with
// fields: contigA orientA contigB orientB mean stdev bundleSize.
// Reading stops at the first malformed line; records up to that line
// are returned. This mirrors how the pipeline's producers terminate
// their streams.
func Parse(r io.Reader) ([]Link, error) {
	var out []Link
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		l, ok := parseLine(sc.Text())
		if !ok {
			break
		}
		out = append(out, l)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("reading links: %w", err)
	}
	return out, nil
}

func parseLine(line string) (Link, bool) {
	f := strings.Fields(line)
	if len(f) < 7 {
		return Link{}, false
	}
	mean, err := strconv.ParseFloat(f[4], 64)
	if err != nil {
		return Link{}, false
	}
	stdev, err := strconv.ParseFloat(f[5], 64)
	if err != nil {
		return Link{}, false
	}
	bundle, err := strconv.Atoi(f[6])
	if err != nil {
		return Link{}, false
	}
	return Link{
		ContigA:    f[0],
		OrientA:    f[1],
		ContigB:    f[2],
		OrientB:    f[3],
		Mean:       mean,
		Stdev:      stdev,
		BundleSize: bundle,
	}, true
}

// ReadFile parses one link file.
func ReadFile(path string) ([]Link, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening link file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Expand resolves each pattern against the filesystem. Patterns may use
// doublestar globs; a pattern with no glob metacharacters is kept
// as-is so missing plain paths still surface as open errors later.
// Matches are returned sorted, duplicates removed.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[{") {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
			continue
		}
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern %q: %w", p, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// BuildGraph adds the contigs and edges of the given links to g.
// Vertices are registered for both contigs of every link before any
// edge is added, so vertex ids depend only on name order of appearance.
func BuildGraph(g *graph.Graph, ls []Link) {
	for _, l := range ls {
		g.AddVertex(l.ContigA)
		g.AddVertex(l.ContigB)
	}
	for _, l := range ls {
		u, _ := g.ID(l.ContigA)
		v, _ := g.ID(l.ContigB)
		g.AddEdge(u, v)
	}
}
