package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"bazinga/internal/config"
	"bazinga/internal/logging"
)

// artifactExtensions lists the file types worth collecting.
var artifactExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".json": true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".go":   true,
	".sh":   true,
	".html": true,
	".css":  true,
	".svg":  true,
	".yaml": true,
	".yml":  true,
}

// Partial-write debounce: a file is stable when its size stops changing
// between polls.
const (
	stablePoll     = 200 * time.Millisecond
	stableMaxPolls = 25
)

// Stats summarizes a collector's work.
type Stats struct {
	TotalArtifacts int       `json:"total_artifacts"`
	NewArtifacts   int       `json:"new_artifacts"`
	LastUpdated    time.Time `json:"last_updated"`
}

// Collector copies artifact files into the store and catalogs them.
type Collector struct {
	home    string
	catalog *Catalog

	mu        sync.Mutex
	collected int
	updated   time.Time
}

// NewCollector opens the catalog under home and ensures the artifact
// directory exists.
func NewCollector(home string) (*Collector, error) {
	if err := os.MkdirAll(config.ArtifactsDir(home), 0755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}
	catalog, err := OpenCatalog(config.ArtifactsDB(home))
	if err != nil {
		return nil, err
	}
	return &Collector{home: home, catalog: catalog}, nil
}

// Close closes the underlying catalog.
func (c *Collector) Close() error {
	return c.catalog.Close()
}

// Catalog exposes the catalog for listing and search.
func (c *Collector) Catalog() *Catalog {
	return c.catalog
}

// Collect walks dir once and ingests every artifact file found. Already
// cataloged content is skipped.
func (c *Collector) Collect(dir string) (Stats, error) {
	timer := logging.StartTimer(logging.CategoryCollector, "Collect")
	defer timer.Stop()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !wantedFile(path) {
			return nil
		}
		if _, err := c.CollectFile(path); err != nil {
			logging.Get(logging.CategoryCollector).Warn("collect %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("scan %s: %w", dir, err)
	}

	stats := c.Stats()
	logging.Collector("collection complete: total=%d new=%d", stats.TotalArtifacts, stats.NewArtifacts)
	return stats, nil
}

// CollectFile ingests a single file: hash, copy under a uuid name, write
// the metadata sidecar, insert the catalog row. Returns nil when the
// content is already cataloged.
func (c *Collector) CollectFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	sha := hex.EncodeToString(sum[:])

	known, err := c.catalog.Has(sha)
	if err != nil {
		return nil, err
	}
	if known {
		logging.Collector("artifact %s already cataloged, skipping", filepath.Base(path))
		return nil, nil
	}

	id := uuid.New().String()
	stored := filepath.Join(config.ArtifactsDir(c.home), id+filepath.Ext(path))
	if err := os.WriteFile(stored, data, 0644); err != nil {
		return nil, fmt.Errorf("store artifact: %w", err)
	}

	art := Artifact{
		ID:          id,
		Name:        filepath.Base(path),
		SourcePath:  path,
		StoredPath:  stored,
		Language:    DetectLanguage(path, data),
		Size:        int64(len(data)),
		SHA256:      sha,
		ValueScore:  Score(data),
		CollectedAt: time.Now().UTC(),
	}

	if err := writeSidecar(stored, art); err != nil {
		return nil, err
	}
	if err := c.catalog.Insert(art); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.collected++
	c.updated = time.Now()
	c.mu.Unlock()

	logging.Collector("collected %s (%s, %d bytes, value %.2f)",
		art.Name, art.Language, art.Size, art.ValueScore)
	return &art, nil
}

// writeSidecar saves the artifact metadata next to the stored file.
func writeSidecar(stored string, art Artifact) error {
	data, err := json.MarshalIndent(art, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(stored+".meta.json", data, 0644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Watch collects artifact files as they appear under dir, until the
// context is cancelled. Partial writes are debounced by waiting for the
// file size to stabilize.
func (c *Collector) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logging.Collector("watching %s for artifacts", dir)

	for {
		select {
		case <-ctx.Done():
			logging.Collector("watch stopped: %d artifacts this session", c.Stats().NewArtifacts)
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !wantedFile(ev.Name) {
				continue
			}
			if err := c.awaitStable(ctx, ev.Name); err != nil {
				logging.Get(logging.CategoryCollector).Warn("unstable file %s: %v", ev.Name, err)
				continue
			}
			if _, err := c.CollectFile(ev.Name); err != nil {
				logging.Get(logging.CategoryCollector).Warn("collect %s: %v", ev.Name, err)
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryCollector).Warn("watcher: %v", werr)
		}
	}
}

// awaitStable polls the file size until two consecutive reads agree.
func (c *Collector) awaitStable(ctx context.Context, path string) error {
	last := int64(-1)
	for i := 0; i < stableMaxPolls; i++ {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(stablePoll):
		}
	}
	return fmt.Errorf("size still changing after %d polls", stableMaxPolls)
}

// Stats reports totals for this collector.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	collected, updated := c.collected, c.updated
	c.mu.Unlock()

	total, err := c.catalog.Count()
	if err != nil {
		logging.Get(logging.CategoryCollector).Warn("count artifacts: %v", err)
	}
	return Stats{TotalArtifacts: total, NewArtifacts: collected, LastUpdated: updated}
}

func wantedFile(path string) bool {
	return artifactExtensions[strings.ToLower(filepath.Ext(path))]
}
