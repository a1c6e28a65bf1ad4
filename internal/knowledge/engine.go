// Package knowledge indexes local files into an embedded vector store and
// answers questions from them. Embeddings come from one of three engines:
// a deterministic offline hash engine, a local Ollama server, or the Gemini
// API. The store works the same regardless of engine.
package knowledge

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"bazinga/internal/config"
	"bazinga/internal/logging"
)

// ============================================================================
// EMBEDDING ENGINE INTERFACE
// ============================================================================

// EmbeddingEngine generates vector embeddings for text.
type EmbeddingEngine interface {
	// Embed generates an embedding for a single text
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the dimensionality of embeddings
	Dimensions() int

	// Name returns the engine name
	Name() string
}

// NewEngine creates an embedding engine from the configuration.
func NewEngine(cfg *config.Config) (EmbeddingEngine, error) {
	logging.Knowledge("creating embedding engine: %s", cfg.EmbeddingEngine)

	switch cfg.EmbeddingEngine {
	case "hash", "":
		return NewHashEngine(), nil
	case "ollama":
		return NewOllamaEngine(cfg.OllamaEndpoint, cfg.OllamaModel)
	case "gemini":
		return NewGeminiEngine(cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		err := fmt.Errorf("unsupported embedding engine: %s (use hash, ollama, or gemini)", cfg.EmbeddingEngine)
		logging.Get(logging.CategoryKnowledge).Error("%v", err)
		return nil, err
	}
}

// ============================================================================
// HASH ENGINE
// ============================================================================

// hashDims is the dimensionality of the feature-hashed vectors.
const hashDims = 256

var (
	tokenRe = regexp.MustCompile(`[a-z0-9_]{3,}`)

	// Common words carry no signal and are dropped before hashing.
	hashStopwords = map[string]bool{
		"the": true, "and": true, "for": true, "are": true, "but": true,
		"not": true, "you": true, "all": true, "can": true, "had": true,
		"her": true, "was": true, "one": true, "our": true, "out": true,
	}
)

// HashEngine embeds text by feature hashing: each token lands in one of 256
// buckets with a hash-derived sign, and the result is L2 normalized. Fully
// offline and deterministic, so the same text always maps to the same
// vector. The quality ceiling is lexical overlap, which is enough for
// searching your own notes without a model.
type HashEngine struct{}

// NewHashEngine returns the offline feature-hash engine.
func NewHashEngine() *HashEngine {
	return &HashEngine{}
}

// Embed hashes the text into a normalized 256-dimensional vector.
func (e *HashEngine) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, hashDims)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if hashStopwords[tok] {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()
		bucket := int(sum % hashDims)
		if sum&0x80000000 != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, nil
}

// EmbedBatch embeds each text in turn.
func (e *HashEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the dimensionality of embeddings.
func (e *HashEngine) Dimensions() int {
	return hashDims
}

// Name returns the engine name.
func (e *HashEngine) Name() string {
	return "hash:fnv-256"
}
