package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spqr.yaml")
	doc := `
inputs:
  - links/*.tsv
output:
  directory: out
  seppairs: seppairs.txt
  write_seppairs: true
  write_trees: true
  compress: true
db: runs.sqlite
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Inputs) != 1 || c.Inputs[0] != "links/*.tsv" {
		t.Errorf("Inputs = %v", c.Inputs)
	}
	if c.Output.Directory != "out" || c.Output.SepPairs != "seppairs.txt" {
		t.Errorf("Output = %+v", c.Output)
	}
	if !c.Output.WriteSepPairs || !c.Output.WriteTrees || !c.Output.Compress {
		t.Errorf("flags not parsed: %+v", c.Output)
	}
	if c.DB != "runs.sqlite" {
		t.Errorf("DB = %q", c.DB)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRequiresSepPairsPath(t *testing.T) {
	c := &Config{
		Inputs: []string{"links.tsv"},
		Output: Output{WriteSepPairs: true},
	}
	if err := c.Validate(); !errors.Is(err, ErrNoSepPairsPath) {
		t.Errorf("Validate = %v, want ErrNoSepPairsPath", err)
	}
	c.Output.SepPairs = "pairs.txt"
	if err := c.Validate(); err != nil {
		t.Errorf("Validate = %v, want nil", err)
	}
}

func TestValidateRequiresInputs(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err == nil {
		t.Error("Validate accepted empty inputs")
	}
}
