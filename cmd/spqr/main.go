// Package main provides the spqr CLI: separation-pair detection over
// contig linkage graphs via block-cut and triconnected decomposition.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fedarko/MetagenomeScope/internal/collate"
	"github.com/fedarko/MetagenomeScope/internal/config"
	"github.com/fedarko/MetagenomeScope/internal/graph"
	"github.com/fedarko/MetagenomeScope/internal/links"
	"github.com/fedarko/MetagenomeScope/internal/store"
)

type cliFlags struct {
	linkFiles     []string
	writeSepPairs bool
	writeTrees    bool
	outputFile    string
	outputDir     string
	compress      bool
	dbPath        string
	configPath    string
}

func newRootCmd() *cobra.Command {
	fl := &cliFlags{}
	cmd := &cobra.Command{
		Use:   "spqr",
		Short: "Find separation pairs in a contig linkage graph",
		Long: `spqr reads oriented contig links, decomposes each connected component
into biconnected blocks and each block into its triconnected (SPQR)
tree, and reports the separation pairs: contig pairs whose removal
disconnects their block.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompose(cmd, fl)
		},
	}
	cmd.Flags().StringArrayVarP(&fl.linkFiles, "links", "l", nil, "Link file or glob pattern (repeatable)")
	cmd.Flags().BoolVarP(&fl.writeSepPairs, "seppairs", "s", false, "Output separation pairs to a file")
	cmd.Flags().BoolVarP(&fl.writeTrees, "spqrtree", "t", false, "Output SPQR tree files for each decomposed block")
	cmd.Flags().StringVarP(&fl.outputFile, "output", "o", "", "File to write separation pairs to; used if -s is passed")
	cmd.Flags().StringVarP(&fl.outputDir, "directory", "d", "", "Existing directory to write all files to")
	cmd.Flags().BoolVar(&fl.compress, "compress", false, "Write tree exports zstd-compressed")
	cmd.Flags().StringVar(&fl.dbPath, "db", "", "SQLite database to record the run in")
	cmd.Flags().StringVar(&fl.configPath, "config", "", "YAML config file; flags override its values")

	cmd.AddCommand(newRunsCmd())
	return cmd
}

func newRunsCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List decomposition runs recorded in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(dbPath)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to read runs from")
	return cmd
}

// buildConfig merges the optional config file with the command-line
// flags; an explicitly set flag wins over the file.
func buildConfig(cmd *cobra.Command, fl *cliFlags) (*config.Config, error) {
	cfg := &config.Config{}
	if fl.configPath != "" {
		loaded, err := config.Load(fl.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if len(fl.linkFiles) > 0 {
		cfg.Inputs = fl.linkFiles
	}
	if cmd.Flags().Changed("seppairs") {
		cfg.Output.WriteSepPairs = fl.writeSepPairs
	}
	if cmd.Flags().Changed("spqrtree") {
		cfg.Output.WriteTrees = fl.writeTrees
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.SepPairs = fl.outputFile
	}
	if cmd.Flags().Changed("directory") {
		cfg.Output.Directory = fl.outputDir
	}
	if cmd.Flags().Changed("compress") {
		cfg.Output.Compress = fl.compress
	}
	if cmd.Flags().Changed("db") {
		cfg.DB = fl.dbPath
	}
	return cfg, nil
}

func runDecompose(cmd *cobra.Command, fl *cliFlags) error {
	cfg, err := buildConfig(cmd, fl)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	files, err := links.Expand(cfg.Inputs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no link files match %v", cfg.Inputs)
	}

	g := graph.New()
	for _, path := range files {
		ls, err := links.ReadFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d link(s)\n", path, len(ls))
		links.BuildGraph(g, ls)
	}

	opts := collate.Options{
		WriteSepPairs: cfg.Output.WriteSepPairs,
		SepPairsPath:  cfg.Output.SepPairs,
		WriteTrees:    cfg.Output.WriteTrees,
		Directory:     cfg.Output.Directory,
		Compress:      cfg.Output.Compress,
		Log:           cmd.ErrOrStderr(),
	}
	if cfg.DB != "" {
		db, err := store.Open(cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		cc := g.ConnectedComponents()
		runID, err := db.BeginRun(files, g.NumVertices(), g.NumEdges(), cc.Count)
		if err != nil {
			return err
		}
		opts.DB = db
		opts.RunID = runID
	}

	res, err := collate.Run(g, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(),
		"%d component(s), %d block(s): %d decomposed, %d skipped, %d separation pair(s)\n",
		res.Components, res.Blocks, res.Decomposed, res.Skipped, res.Pairs)
	return nil
}

func runList(dbPath string) error {
	if dbPath == "" {
		return fmt.Errorf("--db is required")
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for _, r := range runs {
		when := time.UnixMilli(r.CreatedAt).Format(time.RFC3339)
		fmt.Printf("%s  %s  %d vertices, %d edges, %d component(s), %d pair(s)  %s\n",
			r.ID, when, r.NumVertices, r.NumEdges, r.NumComponents, r.NumPairs, r.LinkFiles)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
