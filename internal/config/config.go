// Package config loads the run configuration for the decomposition
// tool. CLI flags override file values; the file is optional.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Output controls what gets written and where.
type Output struct {
	// Directory prefixes every output path. It is not created; the
	// caller is expected to have set it up.
	Directory string `yaml:"directory"`
	// SepPairs is the separation-pairs report filename, required when
	// WriteSepPairs is set.
	SepPairs      string `yaml:"seppairs"`
	WriteSepPairs bool   `yaml:"write_seppairs"`
	// WriteTrees emits one tree export and one component-info file per
	// decomposed block.
	WriteTrees bool `yaml:"write_trees"`
	// Compress writes the tree and component-info exports
	// zstd-compressed, with a .zst suffix.
	Compress bool `yaml:"compress"`
}

// Config is the full run configuration.
type Config struct {
	// Inputs are link-file paths or doublestar glob patterns.
	Inputs []string `yaml:"inputs"`
	Output Output   `yaml:"output"`
	// DB, when set, records the run into a SQLite database at this
	// path.
	DB string `yaml:"db"`
}

// ErrNoSepPairsPath is the fatal startup error for a separation-pairs
// report requested without a filename.
var ErrNoSepPairsPath = errors.New("separation-pairs output requested but no output file given")

// Load reads a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &c, nil
}

// Validate checks the configuration before any decomposition work
// starts.
func (c *Config) Validate() error {
	if c.Output.WriteSepPairs && c.Output.SepPairs == "" {
		return ErrNoSepPairsPath
	}
	if len(c.Inputs) == 0 {
		return errors.New("no link files given")
	}
	return nil
}
