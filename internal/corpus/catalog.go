package corpus

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Catalog is a rebuildable SQLite index over a directory of YAML
// corpus files: "have we already kept an entry with this coverage
// signature" without re-reading and re-parsing every file on disk.
// The YAML files remain the source of truth; Catalog only
// accelerates one query over them.
type Catalog struct {
	db *sql.DB
}

// OpenCatalog opens (creating if necessary) the SQLite database at
// path and ensures its schema exists.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("corpus: open catalog: %w", err)
	}
	const schema = `
	CREATE TABLE IF NOT EXISTS entries (
		signature    TEXT PRIMARY KEY,
		run_id       TEXT NOT NULL,
		file_path    TEXT NOT NULL,
		discovered   TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("corpus: create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database handle.
func (c *Catalog) Close() error { return c.db.Close() }

// CoverageSignature hashes a set of edge ids into a stable hex digest,
// independent of discovery order, so two traces that hit the same
// edges in different internal orders still dedupe against each other.
func CoverageSignature(coverage []uint64) string {
	sorted := append([]uint64(nil), coverage...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	buf := make([]byte, 8)
	h := sha256.New()
	for _, edge := range sorted {
		binary.BigEndian.PutUint64(buf, edge)
		h.Write(buf)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Seen reports whether signature is already recorded in the catalogue.
func (c *Catalog) Seen(ctx context.Context, signature string) (bool, error) {
	var runID string
	err := c.db.QueryRowContext(ctx, `SELECT run_id FROM entries WHERE signature = ?`, signature).Scan(&runID)
	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, fmt.Errorf("corpus: query catalog: %w", err)
	default:
		return true, nil
	}
}

// Record inserts or replaces the catalogue row for signature, pointing
// at the YAML file that backs it.
func (c *Catalog) Record(ctx context.Context, signature, runID, filePath string, discovered time.Time) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (signature, run_id, file_path, discovered) VALUES (?, ?, ?, ?)`,
		signature, runID, filePath, discovered.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("corpus: record catalog entry: %w", err)
	}
	return nil
}

// FilePath returns the YAML file path recorded for signature, if any.
func (c *Catalog) FilePath(ctx context.Context, signature string) (string, bool, error) {
	var path string
	err := c.db.QueryRowContext(ctx, `SELECT file_path FROM entries WHERE signature = ?`, signature).Scan(&path)
	switch {
	case err == sql.ErrNoRows:
		return "", false, nil
	case err != nil:
		return "", false, fmt.Errorf("corpus: query catalog: %w", err)
	default:
		return path, true, nil
	}
}
