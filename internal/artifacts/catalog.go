// Package artifacts collects files into the artifact store: one-shot
// directory scans and an fsnotify watch loop, backed by a SQLite catalog
// with sha256 idempotence and per-artifact metadata sidecars.
package artifacts

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"bazinga/internal/logging"
)

// Artifact is one cataloged file.
type Artifact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SourcePath  string    `json:"source_path"`
	StoredPath  string    `json:"stored_path"`
	Language    string    `json:"language"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	ValueScore  float64   `json:"value_score"`
	CollectedAt time.Time `json:"collected_at"`
}

// ============================================================================
// CATALOG
// ============================================================================

const catalogSchema = `
CREATE TABLE IF NOT EXISTS artifacts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	source_path TEXT NOT NULL,
	stored_path TEXT NOT NULL,
	language TEXT,
	size INTEGER NOT NULL,
	sha256 TEXT NOT NULL UNIQUE,
	value_score REAL DEFAULT 0,
	collected_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_artifacts_language ON artifacts(language);
CREATE INDEX IF NOT EXISTS idx_artifacts_collected ON artifacts(collected_at);
CREATE INDEX IF NOT EXISTS idx_artifacts_value ON artifacts(value_score);
`

// Catalog is the SQLite artifact index.
type Catalog struct {
	mu sync.RWMutex
	db *sql.DB
}

// OpenCatalog opens (or creates) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	timer := logging.StartTimer(logging.CategoryStore, "OpenCatalog")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("set busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("set journal_mode=WAL: %v", err)
	}

	if _, err := db.Exec(catalogSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create catalog schema: %w", err)
	}

	logging.StoreDebug("artifact catalog open at %s", path)
	return &Catalog{db: db}, nil
}

// Close closes the catalog database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Insert adds an artifact row.
func (c *Catalog) Insert(a Artifact) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(`INSERT INTO artifacts
		(id, name, source_path, stored_path, language, size, sha256, value_score, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.SourcePath, a.StoredPath, a.Language, a.Size, a.SHA256,
		a.ValueScore, a.CollectedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert artifact %s: %w", a.Name, err)
	}
	return nil
}

// Has reports whether an artifact with this content hash is cataloged.
func (c *Catalog) Has(sha string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	err := c.db.QueryRow("SELECT COUNT(*) FROM artifacts WHERE sha256 = ?", sha).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check artifact hash: %w", err)
	}
	return n > 0, nil
}

// Count returns the number of cataloged artifacts.
func (c *Catalog) Count() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM artifacts").Scan(&n); err != nil {
		return 0, fmt.Errorf("count artifacts: %w", err)
	}
	return n, nil
}

// List returns up to n artifacts, newest first. n <= 0 lists everything.
func (c *Catalog) List(n int) ([]Artifact, error) {
	query := "SELECT id, name, source_path, stored_path, language, size, sha256, value_score, collected_at FROM artifacts ORDER BY collected_at DESC"
	args := []interface{}{}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}
	return c.query(query, args...)
}

// Search returns artifacts whose name or source path contains term,
// newest first.
func (c *Catalog) Search(term string) ([]Artifact, error) {
	like := "%" + term + "%"
	return c.query(`SELECT id, name, source_path, stored_path, language, size, sha256, value_score, collected_at
		FROM artifacts WHERE name LIKE ? OR source_path LIKE ? ORDER BY collected_at DESC`, like, like)
}

// TopValued returns the n highest-scoring artifacts.
func (c *Catalog) TopValued(n int) ([]Artifact, error) {
	return c.query(`SELECT id, name, source_path, stored_path, language, size, sha256, value_score, collected_at
		FROM artifacts ORDER BY value_score DESC, collected_at DESC LIMIT ?`, n)
}

// DateRange returns the earliest and latest collection times. Zero times
// mean an empty catalog.
func (c *Catalog) DateRange() (time.Time, time.Time, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var earliest, latest sql.NullString
	err := c.db.QueryRow("SELECT MIN(collected_at), MAX(collected_at) FROM artifacts").
		Scan(&earliest, &latest)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("artifact date range: %w", err)
	}
	if !earliest.Valid || !latest.Valid {
		return time.Time{}, time.Time{}, nil
	}
	first, err := time.Parse(time.RFC3339, earliest.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse earliest: %w", err)
	}
	last, err := time.Parse(time.RFC3339, latest.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse latest: %w", err)
	}
	return first, last, nil
}

func (c *Catalog) query(query string, args ...interface{}) ([]Artifact, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	var out []Artifact
	for rows.Next() {
		var a Artifact
		var collected string
		if err := rows.Scan(&a.ID, &a.Name, &a.SourcePath, &a.StoredPath,
			&a.Language, &a.Size, &a.SHA256, &a.ValueScore, &collected); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, collected); err == nil {
			a.CollectedAt = t
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
