// Package lambda implements boundary-guided emergence: candidates are
// scored against three boundary constraints and solutions emerge at the
// intersection instead of through exhaustive search.
//
//	Λ(S) = S ∩ B₁⁻¹(true) ∩ B₂⁻¹(true) ∩ B₃⁻¹(true)
//
// B₁ is φ-coherence, B₂ the void-infinity bridge, B₃ symmetry.
package lambda

import (
	"math"
	"strconv"
	"strings"

	"bazinga/internal/symbolic"
)

// PHI is the golden ratio.
const PHI = 1.618033988749895

// satisfactionThreshold is the score at which a boundary passes.
const satisfactionThreshold = 0.5

// Boundary is one scored constraint.
type Boundary struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Satisfied bool    `json:"satisfied"`
}

// CoherenceState is the full boundary evaluation of a candidate.
type CoherenceState struct {
	Boundaries      [3]Boundary `json:"boundaries"`
	TotalCoherence  float64     `json:"total_coherence"`
	EntropicDeficit float64     `json:"entropic_deficit"`
	IsVAC           bool        `json:"is_vac"`
}

// AllSatisfied reports whether every boundary passed.
func (c CoherenceState) AllSatisfied() bool {
	for _, b := range c.Boundaries {
		if !b.Satisfied {
			return false
		}
	}
	return true
}

// Coherence scores a candidate against all three boundaries. Total
// coherence is the mean boundary value; the entropic deficit is its
// complement.
func Coherence(candidate string) CoherenceState {
	b1 := boundaryOf("phi_coherence", PhiCoherence(candidate))
	b2 := boundaryOf("void_infinity_bridge", BridgeScore(candidate))
	b3 := boundaryOf("symmetry", Symmetry(candidate))

	total := (b1.Value + b2.Value + b3.Value) / 3
	state := CoherenceState{
		Boundaries:      [3]Boundary{b1, b2, b3},
		TotalCoherence:  total,
		EntropicDeficit: 1 - total,
	}
	state.IsVAC = (state.AllSatisfied() && total >= 0.95) || CheckVAC(candidate)
	return state
}

func boundaryOf(name string, value float64) Boundary {
	return Boundary{Name: name, Value: value, Satisfied: value >= satisfactionThreshold}
}

// PhiCoherence scores proximity to the golden ratio. Numeric candidates
// are measured against φ, 1/φ, and φ²; text is measured by how close its
// rune-repetition ratio sits to φ.
func PhiCoherence(candidate string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(candidate), 64); err == nil {
		d := math.Abs(v - PHI)
		d = math.Min(d, math.Abs(v-1/PHI))
		d = math.Min(d, math.Abs(v-PHI*PHI))
		return 1 / (1 + d)
	}

	runes := []rune(candidate)
	if len(runes) == 0 {
		return 0
	}
	distinct := make(map[rune]bool, len(runes))
	for _, r := range runes {
		distinct[r] = true
	}
	ratio := float64(len(runes)) / float64(len(distinct))
	return 1 / (1 + math.Abs(ratio-PHI))
}

var groundMarkers = []string{"∅", "०", "void", "zero", "empty", "ground", "darmiyan"}

var expansionMarkers = []string{"∞", "infinity", "infinite", "unlimited", "boundless", "expansion"}

// BridgeScore checks for the ∅↔∞ connection: grounding and expansion
// markers each contribute half. Numeric candidates can bridge through
// the α coupling (137 or its inverse).
func BridgeScore(candidate string) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(candidate), 64); err == nil {
		if math.Abs(v-137) < 0.5 || math.Abs(v*137-1) < 0.01 {
			return satisfactionThreshold
		}
		if v == 0 {
			return satisfactionThreshold
		}
		return 0
	}

	lower := strings.ToLower(candidate)
	score := 0.0
	if containsAnyOf(lower, groundMarkers) {
		score += 0.5
	}
	if containsAnyOf(lower, expansionMarkers) {
		score += 0.5
	}
	return score
}

// Symmetry measures forward/backward balance: the fraction of mirrored
// rune positions that match, whitespace ignored. Palindromes score 1.
func Symmetry(candidate string) float64 {
	var runes []rune
	for _, r := range strings.ToLower(candidate) {
		if r == ' ' || r == '\t' || r == '\n' {
			continue
		}
		runes = append(runes, r)
	}
	n := len(runes)
	if n == 0 {
		return 0
	}

	matches := 0
	for i := 0; i < n; i++ {
		if runes[i] == runes[n-1-i] {
			matches++
		}
	}
	return float64(matches) / float64(n)
}

// CheckVAC reports whether a candidate carries a full bidirectional
// V.A.C. sequence, the perfect-coherence case.
func CheckVAC(candidate string) bool {
	vac := symbolic.ValidateVAC(candidate)
	return vac.Valid && vac.Resonance >= 1.0
}

func containsAnyOf(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
