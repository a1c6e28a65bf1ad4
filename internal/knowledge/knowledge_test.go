package knowledge

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bazinga/internal/config"
)

func newTestOracle(t *testing.T) (*Oracle, string) {
	t.Helper()
	home := t.TempDir()
	o, err := NewOracle(home, config.Default())
	if err != nil {
		t.Fatalf("NewOracle: %v", err)
	}
	t.Cleanup(func() { o.Close() })
	return o, home
}

func TestHashEngineDeterministic(t *testing.T) {
	e := NewHashEngine()
	ctx := context.Background()

	a, err := e.Embed(ctx, "golden ratio harmonics resonance")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	b, _ := e.Embed(ctx, "golden ratio harmonics resonance")

	if len(a) != hashDims || e.Dimensions() != hashDims {
		t.Fatalf("dims = %d, want %d", len(a), hashDims)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at dim %d: %f != %f", i, a[i], b[i])
		}
	}

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("vector not L2 normalized: norm^2 = %f", norm)
	}
}

func TestHashEngineEmptyAndStopwords(t *testing.T) {
	e := NewHashEngine()
	for _, text := range []string{"", "the and for", "a io"} {
		vec, err := e.Embed(context.Background(), text)
		if err != nil {
			t.Fatalf("Embed(%q): %v", text, err)
		}
		for i, v := range vec {
			if v != 0 {
				t.Fatalf("Embed(%q) dim %d = %f, want zero vector", text, i, v)
			}
		}
	}
}

func TestHashEngineRanksOverlap(t *testing.T) {
	e := NewHashEngine()
	ctx := context.Background()

	query, _ := e.Embed(ctx, "golden ratio")
	near, _ := e.Embed(ctx, "golden ratio harmonics")
	far, _ := e.Embed(ctx, "cooking pasta tomato recipe")

	dNear, err := vectorDistance(query, near)
	if err != nil {
		t.Fatalf("vectorDistance: %v", err)
	}
	dFar, _ := vectorDistance(query, far)
	if dNear >= dFar {
		t.Errorf("overlapping text not closer: near=%f far=%f", dNear, dFar)
	}
}

func TestVectorCodec(t *testing.T) {
	in := []float32{0.5, -1.25, 3.75, 0}
	out, err := DecodeVector(EncodeVector(in))
	if err != nil {
		t.Fatalf("DecodeVector: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("dim %d: %f != %f", i, in[i], out[i])
		}
	}

	if _, err := DecodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for blob length not a multiple of 4")
	}
}

func TestVectorDistance(t *testing.T) {
	a := []float32{1, 0, 0}

	if d, _ := vectorDistance(a, a); math.Abs(d) > 1e-9 {
		t.Errorf("distance to self = %f, want 0", d)
	}
	if d, _ := vectorDistance(a, []float32{0, 1, 0}); math.Abs(d-1) > 1e-9 {
		t.Errorf("orthogonal distance = %f, want 1", d)
	}
	if d, _ := vectorDistance(a, []float32{-1, 0, 0}); math.Abs(d-2) > 1e-9 {
		t.Errorf("opposite distance = %f, want 2", d)
	}
	if d, _ := vectorDistance(nil, a); d != 1 {
		t.Errorf("empty vector distance = %f, want 1", d)
	}
	if d, _ := vectorDistance(a, []float32{0, 0, 0}); d != 1 {
		t.Errorf("zero magnitude distance = %f, want 1", d)
	}
	if _, err := vectorDistance(a, []float32{1, 2}); err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestChunkParagraphs(t *testing.T) {
	if got := chunkParagraphs(""); got != nil {
		t.Errorf("empty content chunks = %v", got)
	}

	small := chunkParagraphs("first paragraph\n\nsecond paragraph")
	if len(small) != 1 || !strings.Contains(small[0], "first paragraph\n\nsecond paragraph") {
		t.Errorf("small paragraphs not packed together: %v", small)
	}

	big := strings.Repeat("word ", 300) // well past chunkTarget
	chunks := chunkParagraphs(big + "\n\n" + "tail paragraph")
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if chunks[1] != "tail paragraph" {
		t.Errorf("second chunk = %q", chunks[1])
	}
}

func TestTitleOf(t *testing.T) {
	if got := titleOf("/x/notes.md", "# The Notes\n\nbody"); got != "The Notes" {
		t.Errorf("title = %q", got)
	}
	if got := titleOf("/x/plain.txt", "no heading here"); got != "plain.txt" {
		t.Errorf("fallback title = %q", got)
	}
	late := strings.Repeat("line\n", 12) + "# Too Late"
	if got := titleOf("/x/late.md", late); got != "late.md" {
		t.Errorf("late heading title = %q", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := OpenStore(filepath.Join(t.TempDir(), "knowledge.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	e := NewHashEngine()
	ctx := context.Background()
	mtime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	texts := map[string]string{
		"a": "golden ratio phi resonance harmonics",
		"b": "cooking pasta tomato recipe",
	}
	for id, text := range texts {
		vec, _ := e.Embed(ctx, text)
		doc := Document{
			ID: id + ":0", Path: "/notes/" + id + ".md", Title: id,
			Content: text, ModTime: mtime,
		}
		if err := store.Upsert(doc, vec); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	query, _ := e.Embed(ctx, "phi resonance")
	hits, err := store.Search(query, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Path != "/notes/a.md" {
		t.Errorf("top hit = %s, want /notes/a.md", hits[0].Path)
	}
	if hits[0].Distance >= hits[1].Distance {
		t.Errorf("hits not ordered by distance: %f >= %f", hits[0].Distance, hits[1].Distance)
	}
	if !hits[0].ModTime.Equal(mtime) {
		t.Errorf("mtime = %v, want %v", hits[0].ModTime, mtime)
	}

	stats, err := store.Stats()
	if err != nil || stats.Documents != 2 || stats.Files != 2 {
		t.Errorf("stats = %+v, %v", stats, err)
	}

	if err := store.DeletePath("/notes/a.md"); err != nil {
		t.Fatalf("DeletePath: %v", err)
	}
	stats, _ = store.Stats()
	if stats.Documents != 1 {
		t.Errorf("documents after delete = %d, want 1", stats.Documents)
	}

	if _, ok, _ := store.PathModTime("/notes/a.md"); ok {
		t.Error("deleted path still has an mtime")
	}
	got, ok, err := store.PathModTime("/notes/b.md")
	if err != nil || !ok || !got.Equal(mtime) {
		t.Errorf("PathModTime = %v, %v, %v", got, ok, err)
	}
}

func TestOracleIndexAndSearch(t *testing.T) {
	o, _ := newTestOracle(t)
	src := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("phi.md", "# Phi Notes\n\ngolden ratio phi resonance harmonics")
	write("pasta.txt", "cooking pasta tomato recipe")
	write("binary.bin", "not indexable")
	write(".hidden.md", "hidden note")
	if err := os.MkdirAll(filepath.Join(src, "node_modules"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "node_modules", "dep.js"), []byte("skip me"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	stats, err := o.Index(ctx, src)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if stats.Indexed != 2 {
		t.Errorf("indexed = %d, want 2 (stats %+v)", stats.Indexed, stats)
	}
	if stats.Scanned != 3 {
		t.Errorf("scanned = %d, want 3 (hidden and node_modules never scanned)", stats.Scanned)
	}

	hits, err := o.Search(ctx, "phi resonance", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) == 0 || filepath.Base(hits[0].Path) != "phi.md" {
		t.Fatalf("top hit = %+v, want phi.md", hits)
	}
	if hits[0].Title != "Phi Notes" {
		t.Errorf("title = %q, want Phi Notes", hits[0].Title)
	}

	// Second pass sees only unchanged files.
	again, err := o.Index(ctx, src)
	if err != nil {
		t.Fatalf("re-Index: %v", err)
	}
	if again.Indexed != 0 {
		t.Errorf("re-index indexed %d files, want 0", again.Indexed)
	}
}

func TestOracleAskOffline(t *testing.T) {
	o, _ := newTestOracle(t)
	src := t.TempDir()
	path := filepath.Join(src, "phi.md")
	if err := os.WriteFile(path, []byte("golden ratio phi resonance harmonics"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	empty, err := o.Ask(ctx, "what is phi")
	if err != nil {
		t.Fatalf("Ask on empty index: %v", err)
	}
	if !strings.Contains(empty.Text, "No relevant knowledge found") {
		t.Errorf("empty index answer = %q", empty.Text)
	}

	if _, err := o.Index(ctx, src); err != nil {
		t.Fatalf("Index: %v", err)
	}

	ans, err := o.Ask(ctx, "phi resonance")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(ans.Text, "[From "+path+"]") {
		t.Errorf("answer lacks citation: %q", ans.Text)
	}
	if len(ans.Sources) != 1 || ans.Sources[0] != path {
		t.Errorf("sources = %v", ans.Sources)
	}
	if ans.Relevant < 1 {
		t.Errorf("relevant = %d", ans.Relevant)
	}
	if ans.Generated {
		t.Error("offline answer marked as generated")
	}
	if ans.Coherence < 0 || ans.Coherence > 1 {
		t.Errorf("coherence = %f out of range", ans.Coherence)
	}
}
