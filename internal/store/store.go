// Package store persists decomposition runs to a SQLite database, so
// separation-pair results can be compared across assemblies without
// re-running the decomposition.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/fedarko/MetagenomeScope/internal/ident"
)

//go:embed schema.sql
var schema string

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// BeginRun records a new run and returns its id.
func (db *DB) BeginRun(linkFiles []string, numVertices, numEdges, numComponents int) (string, error) {
	id := uuid.New().String()
	_, err := db.conn.Exec(`
		INSERT INTO runs (id, link_files, num_vertices, num_edges, num_components, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, strings.Join(linkFiles, ","), numVertices, numEdges, numComponents, ident.NowMs())
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// RecordBlock records one block of a run and returns the block's
// content-addressed id. skipReasons is empty for eligible blocks.
func (db *DB) RecordBlock(runID string, component int, members []string, numEdges int, skipReasons []string) (string, error) {
	id, err := ident.RecordID("Block", map[string]interface{}{
		"component": component,
		"members":   members,
		"num_edges": numEdges,
	})
	if err != nil {
		return "", fmt.Errorf("computing block id: %w", err)
	}
	eligible := 0
	if len(skipReasons) == 0 {
		eligible = 1
	}
	_, err = db.conn.Exec(`
		INSERT OR IGNORE INTO blocks (id, run_id, component, members, num_edges, eligible, skip_reasons, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, runID, component, strings.Join(members, ","), numEdges, eligible,
		strings.Join(skipReasons, "; "), ident.NowMs())
	if err != nil {
		return "", fmt.Errorf("inserting block: %w", err)
	}
	return id, nil
}

// RecordSkeleton records one decomposition-tree node of a block.
func (db *DB) RecordSkeleton(runID, blockID string, nodeIndex int, nodeType string, numVertices, numEdges, numVirtual int, isRoot bool) error {
	id, err := ident.RecordID("Skeleton", map[string]interface{}{
		"block":        blockID,
		"node_index":   nodeIndex,
		"type":         nodeType,
		"num_vertices": numVertices,
		"num_edges":    numEdges,
	})
	if err != nil {
		return fmt.Errorf("computing skeleton id: %w", err)
	}
	root := 0
	if isRoot {
		root = 1
	}
	_, err = db.conn.Exec(`
		INSERT OR IGNORE INTO skeletons (id, run_id, block_id, node_index, type, num_vertices, num_edges, num_virtual, is_root, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, runID, blockID, nodeIndex, nodeType, numVertices, numEdges, numVirtual, root, ident.NowMs())
	if err != nil {
		return fmt.Errorf("inserting skeleton: %w", err)
	}
	return nil
}

// RecordPair records one separation pair of a block.
func (db *DB) RecordPair(runID, blockID, contigA, contigB string) error {
	_, err := db.conn.Exec(`
		INSERT INTO pairs (run_id, block_id, contig_a, contig_b, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, runID, blockID, contigA, contigB, ident.NowMs())
	if err != nil {
		return fmt.Errorf("inserting pair: %w", err)
	}
	return nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID            string
	LinkFiles     string
	NumVertices   int
	NumEdges      int
	NumComponents int
	NumPairs      int
	CreatedAt     int64
}

// Runs lists recorded runs, newest first, with their pair counts.
func (db *DB) Runs() ([]RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.link_files, r.num_vertices, r.num_edges, r.num_components,
		       (SELECT COUNT(*) FROM pairs p WHERE p.run_id = r.id),
		       r.created_at
		FROM runs r ORDER BY r.created_at DESC, r.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.LinkFiles, &s.NumVertices, &s.NumEdges,
			&s.NumComponents, &s.NumPairs, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Pairs returns the separation pairs recorded for a run, in insertion
// order.
func (db *DB) Pairs(runID string) ([][2]string, error) {
	rows, err := db.conn.Query(`
		SELECT contig_a, contig_b FROM pairs WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying pairs: %w", err)
	}
	defer rows.Close()

	var out [][2]string
	for rows.Next() {
		var a, b string
		if err := rows.Scan(&a, &b); err != nil {
			return nil, fmt.Errorf("scanning pair: %w", err)
		}
		out = append(out, [2]string{a, b})
	}
	return out, rows.Err()
}
