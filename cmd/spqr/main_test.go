package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestDecomposeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	linksPath := filepath.Join(dir, "square.links")
	data := "A\t+\tB\t+\t100\t10\t3\n" +
		"B\t+\tC\t+\t100\t10\t3\n" +
		"C\t+\tD\t+\t100\t10\t3\n" +
		"D\t+\tA\t+\t100\t10\t3\n"
	if err := os.WriteFile(linksPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-l", linksPath, "-s", "-o", "pairs.txt", "-d", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "1 component(s), 1 block(s): 1 decomposed, 0 skipped, 2 separation pair(s)") {
		t.Errorf("summary = %q", out)
	}

	got, err := os.ReadFile(filepath.Join(dir, "pairs.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := "A\tC\tA\tB\tC\tD\nB\tD\tA\tB\tC\tD\n"
	if string(got) != want {
		t.Errorf("report = %q, want %q", got, want)
	}
}

func TestSepPairsWithoutOutputFails(t *testing.T) {
	dir := t.TempDir()
	linksPath := filepath.Join(dir, "one.links")
	if err := os.WriteFile(linksPath, []byte("A\t+\tB\t+\t1\t1\t1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "-l", linksPath, "-s"); err == nil {
		t.Fatal("expected error when -s is passed without -o")
	}
}

func TestConfigFileOverriddenByFlags(t *testing.T) {
	dir := t.TempDir()
	linksPath := filepath.Join(dir, "square.links")
	data := "A\t+\tB\t+\t100\t10\t3\n" +
		"B\t+\tC\t+\t100\t10\t3\n" +
		"C\t+\tA\t+\t100\t10\t3\n"
	if err := os.WriteFile(linksPath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "spqr.yaml")
	cfgData := "inputs:\n  - " + linksPath + "\noutput:\n  seppairs: from-config.txt\n  write_seppairs: true\n  directory: " + dir + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfgData), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", cfgPath, "-o", "from-flag.txt"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-flag.txt")); err != nil {
		t.Errorf("flag-named report missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "from-config.txt")); err == nil {
		t.Error("config-named report should not exist")
	}
}
