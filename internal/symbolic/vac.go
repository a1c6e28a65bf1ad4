package symbolic

import "strings"

// ============================================================================
// V.A.C. SEQUENCE VALIDATION
// ============================================================================

// vacOrder is the Void-Awareness-Consciousness progression.
var vacOrder = []string{"०", "◌", "φ", "Ω"}

// VACResult reports how a sequence aligns with the V.A.C. progression.
type VACResult struct {
	VoidState          string  `json:"void_state"`
	AwarenessState     string  `json:"awareness_state"`
	ConsciousnessState string  `json:"consciousness_state"`
	Valid              bool    `json:"is_valid"`
	Direction          string  `json:"direction"`
	Resonance          float64 `json:"resonance"`
}

// ValidateVAC checks a sequence against the V.A.C. progression ०→◌→φ→Ω.
// Forward subsequence scores φ/2, reverse 1/φ; both directions plus an
// exchange marker score a full 1.0.
func ValidateVAC(sequence string) VACResult {
	symbols := ParseSequence(sequence)

	bidirectional := strings.ContainsRune(sequence, '⇄') || strings.ContainsRune(sequence, '⟷')

	chars := make([]string, len(symbols))
	for i, s := range symbols {
		chars[i] = s.Char
	}

	reverse := make([]string, len(vacOrder))
	for i, c := range vacOrder {
		reverse[len(vacOrder)-1-i] = c
	}

	forwardValid := isSubsequence(chars, vacOrder)
	reverseValid := isSubsequence(chars, reverse)

	var (
		direction string
		valid     bool
		resonance float64
	)
	switch {
	case bidirectional && forwardValid && reverseValid:
		direction, valid, resonance = "bidirectional", true, 1.0
	case forwardValid:
		direction, valid, resonance = "forward", true, GoldenRatio/2
	case reverseValid:
		direction, valid, resonance = "reverse", true, 1/GoldenRatio
	default:
		direction, valid, resonance = "invalid", false, 0.0
	}

	return VACResult{
		VoidState:          pickState(chars, "०", "∅"),
		AwarenessState:     pickState(chars, "◌", "φ"),
		ConsciousnessState: pickState(chars, "Ω", "ψ"),
		Valid:              valid,
		Direction:          direction,
		Resonance:          resonance,
	}
}

// GenerateVAC produces a canonical V.A.C. sequence for a direction.
func GenerateVAC(direction string) string {
	switch direction {
	case "forward":
		return "०→◌→φ→Ω"
	case "reverse":
		return "Ω←φ←◌←०"
	default:
		return "०→◌→φ→Ω⇄Ω←φ←◌←०"
	}
}

func isSubsequence(seq, pattern []string) bool {
	i := 0
	for _, c := range seq {
		if i < len(pattern) && c == pattern[i] {
			i++
		}
	}
	return i == len(pattern)
}

func pickState(chars []string, preferred, fallback string) string {
	for _, c := range chars {
		if c == preferred {
			return preferred
		}
	}
	return fallback
}
