package quantum

import (
	"fmt"
	"strconv"
	"time"
)

// ============================================================================
// UNIVERSAL GENERATOR
// ============================================================================

// Generation is one generator output. Exactly one of EmergentPattern or
// Synthesis is set depending on the tier; the conservative tier passes the
// input patterns through untouched.
type Generation struct {
	Type            string   `json:"type"`
	Patterns        []string `json:"patterns"`
	EmergentPattern string   `json:"emergent_pattern,omitempty"`
	Synthesis       string   `json:"synthesis,omitempty"`
	Resonance       float64  `json:"resonance,omitempty"`
}

// ResponsePatterns selects the patterns a response should be decoded from:
// the emergent pattern when present, then the synthesis, then the inputs.
func (g Generation) ResponsePatterns() []string {
	switch {
	case g.EmergentPattern != "":
		return []string{g.EmergentPattern}
	case g.Synthesis != "":
		return []string{g.Synthesis}
	default:
		return g.Patterns
	}
}

// GenerationRecord is one history entry.
type GenerationRecord struct {
	At       time.Time  `json:"at"`
	Patterns []string   `json:"patterns"`
	Trust    float64    `json:"trust"`
	Output   Generation `json:"output"`
}

// Generator produces pattern output from seed patterns, with the tier
// chosen by trust level.
type Generator struct {
	history []GenerationRecord
}

// NewGenerator returns a generator with empty history.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate picks the tier for the given trust level: above 0.7 creative,
// above 0.4 balanced, otherwise conservative.
func (g *Generator) Generate(patterns []string, trust float64) Generation {
	var out Generation
	switch {
	case trust > 0.7:
		out = Generation{
			Type:            "creative",
			Patterns:        patterns,
			EmergentPattern: CombinePatterns(patterns),
			Resonance:       GoldenRatio,
		}
	case trust > 0.4:
		out = Generation{
			Type:      "balanced",
			Patterns:  patterns,
			Synthesis: SynthesizePatterns(patterns),
		}
	default:
		out = Generation{
			Type:     "conservative",
			Patterns: patterns,
		}
	}

	g.history = append(g.history, GenerationRecord{
		At:       time.Now(),
		Patterns: patterns,
		Trust:    trust,
		Output:   out,
	})
	return out
}

// History returns all generation records.
func (g *Generator) History() []GenerationRecord {
	out := make([]GenerationRecord, len(g.history))
	copy(out, g.history)
	return out
}

// CombinePatterns XOR-folds the patterns into a single 5-bit pattern.
// Malformed patterns are skipped; an empty list yields growth.
func CombinePatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "10101"
	}

	combined := int64(0)
	first := true
	for _, p := range patterns {
		v, err := strconv.ParseInt(p, 2, 64)
		if err != nil {
			continue
		}
		if first {
			combined = v
			first = false
			continue
		}
		combined ^= v
	}
	return fmt.Sprintf("%05b", combined%32)
}

// SynthesizePatterns averages the patterns bit-position by bit-position,
// setting a bit where more than half the patterns set it. An empty list
// yields growth.
func SynthesizePatterns(patterns []string) string {
	if len(patterns) == 0 {
		return "10101"
	}

	var bitSums [5]int
	for _, p := range patterns {
		for i, bit := range p {
			if i >= len(bitSums) {
				break
			}
			if bit == '1' {
				bitSums[i]++
			}
		}
	}

	threshold := float64(len(patterns)) / 2
	out := [5]byte{}
	for i, sum := range bitSums {
		if float64(sum) > threshold {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out[:])
}
