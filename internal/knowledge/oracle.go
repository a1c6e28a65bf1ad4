package knowledge

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"bazinga/internal/config"
	"bazinga/internal/lambda"
	"bazinga/internal/logging"
)

// ============================================================================
// ORACLE
// ============================================================================

const (
	// maxIndexSize skips files larger than 1MB.
	maxIndexSize = 1 << 20

	// chunkTarget is the soft ceiling for one chunk, in bytes.
	chunkTarget = 1000

	// askRetrieve chunks are searched; askCite of them make the answer.
	askRetrieve = 20
	askCite     = 5

	// askPreview caps how much of a chunk enters the composed answer.
	askPreview = 500
)

// indexableExtensions marks the file types worth indexing.
var indexableExtensions = map[string]bool{
	".go": true, ".py": true, ".js": true, ".ts": true,
	".json": true, ".md": true, ".txt": true, ".html": true,
	".css": true, ".sh": true, ".yml": true, ".yaml": true,
}

// skipDirs are never descended into. Hidden directories are skipped too.
var skipDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"Library":      true,
}

// IndexStats reports one indexing run.
type IndexStats struct {
	Scanned int `json:"files_scanned"`
	Indexed int `json:"files_indexed"`
	Skipped int `json:"files_skipped"`
	Chunks  int `json:"chunks"`
	Errors  int `json:"errors"`
}

// Answer is the oracle's response to a question.
type Answer struct {
	Text      string   `json:"answer"`
	Sources   []string `json:"sources"`
	Coherence float64  `json:"coherence"`
	IsVAC     bool     `json:"is_vac"`
	Relevant  int      `json:"total_relevant"`
	Generated bool     `json:"generated"`
}

// generator produces free text from a prompt. Only the Gemini engine
// implements it; without one the oracle composes answers offline.
type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Oracle indexes files and answers questions from what it indexed. Answers
// emerge from your own data, not from a pretrained corpus.
type Oracle struct {
	store  *Store
	engine EmbeddingEngine
	gen    generator
}

// NewOracle opens the knowledge store under home and builds the configured
// embedding engine.
func NewOracle(home string, cfg *config.Config) (*Oracle, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}

	store, err := OpenStore(config.KnowledgeDB(home))
	if err != nil {
		return nil, err
	}

	o := &Oracle{store: store, engine: engine}
	if g, ok := engine.(generator); ok {
		o.gen = g
	}
	logging.Knowledge("oracle ready: engine=%s dims=%d", engine.Name(), engine.Dimensions())
	return o, nil
}

// Close releases the store and the engine.
func (o *Oracle) Close() error {
	if c, ok := o.engine.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			logging.Get(logging.CategoryKnowledge).Warn("close engine: %v", err)
		}
	}
	return o.store.Close()
}

// Engine returns the active embedding engine.
func (o *Oracle) Engine() EmbeddingEngine {
	return o.engine
}

// Stats summarizes the index.
func (o *Oracle) Stats() (StoreStats, error) {
	return o.store.Stats()
}

// Index walks dir and indexes every readable text file: chunk by paragraph,
// embed, upsert. Unchanged files (by modification time) are skipped.
func (o *Oracle) Index(ctx context.Context, dir string) (IndexStats, error) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "Index")
	defer timer.Stop()

	var stats IndexStats
	logging.Knowledge("indexing %s with %s", dir, o.engine.Name())

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			stats.Errors++
			logging.Get(logging.CategoryKnowledge).Warn("walk %s: %v", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		hidden := path != dir && strings.HasPrefix(d.Name(), ".")
		if d.IsDir() {
			if hidden || skipDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		stats.Scanned++
		if err := o.indexFile(ctx, path, &stats); err != nil {
			stats.Errors++
			logging.Get(logging.CategoryKnowledge).Warn("index %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	logging.Knowledge("indexed %d/%d files (%d chunks, %d skipped, %d errors)",
		stats.Indexed, stats.Scanned, stats.Chunks, stats.Skipped, stats.Errors)
	return stats, nil
}

// indexFile indexes a single file, bumping stats as appropriate.
func (o *Oracle) indexFile(ctx context.Context, path string, stats *IndexStats) error {
	if !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
		stats.Skipped++
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxIndexSize {
		stats.Skipped++
		return nil
	}

	// Stored mtimes have second precision, so compare at that grain.
	mtime := info.ModTime().UTC().Truncate(time.Second)
	if stored, ok, err := o.store.PathModTime(path); err != nil {
		return err
	} else if ok && !mtime.After(stored) {
		stats.Skipped++
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := strings.TrimSpace(string(raw))
	if content == "" {
		stats.Skipped++
		return nil
	}

	chunks := chunkParagraphs(content)
	vectors, err := o.engine.EmbedBatch(ctx, chunks)
	if err != nil {
		return err
	}

	// Replace any previous chunks so shrunken files leave no stale rows.
	if err := o.store.DeletePath(path); err != nil {
		return err
	}

	title := titleOf(path, content)
	idBase := fmt.Sprintf("%x", sha256.Sum256([]byte(path)))[:12]
	for i, chunk := range chunks {
		doc := Document{
			ID:      fmt.Sprintf("%s:%d", idBase, i),
			Path:    path,
			Title:   title,
			Chunk:   i,
			Content: chunk,
			ModTime: mtime,
		}
		if err := o.store.Upsert(doc, vectors[i]); err != nil {
			return err
		}
	}

	stats.Indexed++
	stats.Chunks += len(chunks)
	return nil
}

// Search embeds the query and returns the k nearest chunks.
func (o *Oracle) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	timer := logging.StartTimer(logging.CategoryKnowledge, "Search")
	defer timer.Stop()

	vec, err := o.engine.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := o.store.Search(vec, k)
	if err != nil {
		return nil, err
	}
	logging.Knowledge("search %q: %d hits", query, len(hits))
	return hits, nil
}

// askPrompt frames the retrieved context for the answer model.
const askPrompt = `Answer the question using only the indexed context below.
Cite the source paths you draw on.

Context:
%s
Question: %s`

// Ask retrieves the chunks nearest the question and composes an answer.
// With a Gemini engine the answer model writes it; offline, the answer is
// the retrieved passages themselves, each cited with its source path.
// Coherence of the composed text is measured with the lambda-g boundaries.
func (o *Oracle) Ask(ctx context.Context, question string) (*Answer, error) {
	hits, err := o.Search(ctx, question, askRetrieve)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return &Answer{
			Text: "No relevant knowledge found in the index. Run \"bazinga index <dir>\" to build it.",
		}, nil
	}

	cite := hits[:min(askCite, len(hits))]
	var sb strings.Builder
	sources := make([]string, 0, len(cite))
	seen := make(map[string]bool)
	for _, h := range cite {
		sb.WriteString(fmt.Sprintf("[From %s]\n%s\n\n", h.Path, truncate(h.Content, askPreview)))
		if !seen[h.Path] {
			seen[h.Path] = true
			sources = append(sources, h.Path)
		}
	}
	combined := strings.TrimRight(sb.String(), "\n")

	coherence := lambda.Coherence(combined)
	answer := &Answer{
		Text:      combined,
		Sources:   sources,
		Coherence: coherence.TotalCoherence,
		IsVAC:     coherence.IsVAC,
		Relevant:  len(hits),
	}

	if o.gen != nil {
		text, err := o.gen.Generate(ctx, fmt.Sprintf(askPrompt, combined, question))
		if err != nil {
			logging.Get(logging.CategoryKnowledge).Warn("answer generation failed, falling back to composed answer: %v", err)
			return answer, nil
		}
		answer.Text = text
		answer.Generated = true
	}
	return answer, nil
}

// chunkParagraphs splits content on blank lines and packs paragraphs into
// chunks of roughly chunkTarget bytes.
func chunkParagraphs(content string) []string {
	var chunks []string
	var sb strings.Builder
	for _, para := range strings.Split(content, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if sb.Len() > 0 && sb.Len()+len(para) > chunkTarget {
			chunks = append(chunks, sb.String())
			sb.Reset()
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(para)
	}
	if sb.Len() > 0 {
		chunks = append(chunks, sb.String())
	}
	return chunks
}

// titleOf takes the first Markdown heading in the opening lines, falling
// back to the file name.
func titleOf(path, content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if i >= 10 {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return filepath.Base(path)
}

// truncate cuts s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
