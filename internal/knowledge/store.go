package knowledge

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"bazinga/internal/logging"
)

// ============================================================================
// KNOWLEDGE STORE
// ============================================================================

// Document is one indexed chunk of a file.
type Document struct {
	ID      string    `json:"id"`
	Path    string    `json:"path"`
	Title   string    `json:"title"`
	Chunk   int       `json:"chunk"`
	Content string    `json:"content"`
	ModTime time.Time `json:"mtime"`
}

// Hit is a search result with its cosine distance to the query.
type Hit struct {
	Document
	Distance float64 `json:"distance"`
}

// StoreStats summarizes the index.
type StoreStats struct {
	Documents int `json:"documents"`
	Files     int `json:"files"`
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS documents (
	id      TEXT PRIMARY KEY,
	path    TEXT NOT NULL,
	title   TEXT NOT NULL,
	chunk   INTEGER NOT NULL DEFAULT 0,
	content TEXT NOT NULL,
	mtime   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);

CREATE TABLE IF NOT EXISTS embeddings (
	doc_id TEXT PRIMARY KEY,
	vector BLOB NOT NULL
);
`

// Store is the SQLite-backed document and embedding store. Ranking happens
// in SQL through the registered vector_distance_cos function.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// OpenStore opens (or creates) the knowledge store at the given path.
func OpenStore(path string) (*Store, error) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "OpenStore")
	defer timer.Stop()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := sql.Open(vecDriver, path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.Get(logging.CategoryKnowledge).Debug("busy_timeout pragma failed: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.Get(logging.CategoryKnowledge).Debug("journal_mode pragma failed: %v", err)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create knowledge schema: %w", err)
	}

	logging.Knowledge("knowledge store ready at %s (driver %s)", path, vecDriver)
	return &Store{db: db}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Upsert writes one document chunk and its embedding.
func (s *Store) Upsert(doc Document, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO documents (id, path, title, chunk, content, mtime)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Path, doc.Title, doc.Chunk, doc.Content,
		doc.ModTime.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}

	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO embeddings (doc_id, vector) VALUES (?, ?)`,
		doc.ID, EncodeVector(vector),
	); err != nil {
		return fmt.Errorf("upsert embedding %s: %w", doc.ID, err)
	}

	return tx.Commit()
}

// DeletePath removes every chunk indexed for a file.
func (s *Store) DeletePath(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM embeddings WHERE doc_id IN (SELECT id FROM documents WHERE path = ?)`, path,
	); err != nil {
		return fmt.Errorf("delete embeddings for %s: %w", path, err)
	}
	if _, err := tx.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return fmt.Errorf("delete documents for %s: %w", path, err)
	}

	return tx.Commit()
}

// PathModTime returns the recorded modification time for a file, or false
// when the file has never been indexed.
func (s *Store) PathModTime(path string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var raw sql.NullString
	err := s.db.QueryRow(`SELECT MAX(mtime) FROM documents WHERE path = ?`, path).Scan(&raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query mtime for %s: %w", path, err)
	}
	if !raw.Valid {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse mtime %q: %w", raw.String, err)
	}
	return t, true, nil
}

// Search ranks all chunks by cosine distance to the query vector and
// returns the k nearest.
func (s *Store) Search(vector []float32, k int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 {
		k = 10
	}

	rows, err := s.db.Query(
		`SELECT d.id, d.path, d.title, d.chunk, d.content, d.mtime,
		        vector_distance_cos(e.vector, ?) AS distance
		 FROM embeddings e
		 JOIN documents d ON d.id = e.doc_id
		 ORDER BY distance ASC
		 LIMIT ?`,
		EncodeVector(vector), k,
	)
	if err != nil {
		return nil, fmt.Errorf("search knowledge store: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var mtime string
		if err := rows.Scan(&h.ID, &h.Path, &h.Title, &h.Chunk, &h.Content, &mtime, &h.Distance); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, mtime); err == nil {
			h.ModTime = t
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// Stats counts indexed chunks and distinct files.
func (s *Store) Stats() (StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats StoreStats
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT path) FROM documents`,
	).Scan(&stats.Documents, &stats.Files)
	if err != nil {
		return StoreStats{}, fmt.Errorf("query store stats: %w", err)
	}
	return stats, nil
}
