package store

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunRoundTrip(t *testing.T) {
	db := openTest(t)

	runID, err := db.BeginRun([]string{"a.links", "b.links"}, 10, 14, 2)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	blockID, err := db.RecordBlock(runID, 0, []string{"A", "B", "C", "D"}, 4, nil)
	if err != nil {
		t.Fatalf("RecordBlock: %v", err)
	}
	if err := db.RecordSkeleton(runID, blockID, 0, "S", 4, 4, 0, true); err != nil {
		t.Fatalf("RecordSkeleton: %v", err)
	}
	if err := db.RecordPair(runID, blockID, "A", "C"); err != nil {
		t.Fatalf("RecordPair: %v", err)
	}
	if err := db.RecordPair(runID, blockID, "B", "D"); err != nil {
		t.Fatalf("RecordPair: %v", err)
	}

	runs, err := db.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	r := runs[0]
	if r.ID != runID || r.NumVertices != 10 || r.NumEdges != 14 || r.NumComponents != 2 {
		t.Errorf("run = %+v", r)
	}
	if r.NumPairs != 2 {
		t.Errorf("NumPairs = %d, want 2", r.NumPairs)
	}
	if r.LinkFiles != "a.links,b.links" {
		t.Errorf("LinkFiles = %q", r.LinkFiles)
	}

	pairs, err := db.Pairs(runID)
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}
	if len(pairs) != 2 || pairs[0] != [2]string{"A", "C"} || pairs[1] != [2]string{"B", "D"} {
		t.Errorf("pairs = %v", pairs)
	}
}

func TestRecordBlockSkipped(t *testing.T) {
	db := openTest(t)
	runID, err := db.BeginRun([]string{"a.links"}, 2, 1, 1)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	id, err := db.RecordBlock(runID, 0, []string{"A", "B"}, 1, []string{"has 1 edge(s), needs more than 2"})
	if err != nil {
		t.Fatalf("RecordBlock: %v", err)
	}
	if id == "" {
		t.Fatal("empty block id")
	}
	// Same content yields the same id on a second call.
	again, err := db.RecordBlock(runID, 0, []string{"A", "B"}, 1, []string{"has 1 edge(s), needs more than 2"})
	if err != nil {
		t.Fatalf("RecordBlock: %v", err)
	}
	if again != id {
		t.Errorf("block id changed: %s vs %s", id, again)
	}
}
