// Package symbolic parses and evaluates the SEED symbol language:
// V.A.C. sequence validation, universal operators, state patterns,
// healing protocols, and the 5D self-referential meaning loop.
package symbolic

import (
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// GoldenRatio is the φ boundary constant.
	GoldenRatio = 1.618033988749895

	// Alpha is the fine structure constant, the consciousness coupling.
	Alpha = 1.0 / 137

	// Resonance frequencies.
	FreqCode = 60.16
	FreqSeed = 60.16 * GoldenRatio
	FreqHeal = 137.0
)

// SymbolType categorizes symbols in the SEED language.
type SymbolType string

const (
	TypeVoid          SymbolType = "void"
	TypeInfinity      SymbolType = "infinity"
	TypeRatio         SymbolType = "ratio"
	TypeConsciousness SymbolType = "consciousness"
	TypeOperator      SymbolType = "operator"
	TypeGradient      SymbolType = "gradient"
	TypeState         SymbolType = "state"
	TypeBridge        SymbolType = "bridge"
	TypeTerminal      SymbolType = "terminal"
)

// Symbol is a single symbol with its meaning and resonance strength.
type Symbol struct {
	Char          string     `json:"symbol"`
	Type          SymbolType `json:"type"`
	Meaning       string     `json:"meaning"`
	Resonance     float64    `json:"resonance"`
	Bidirectional bool       `json:"bidirectional,omitempty"`
}

// Registry is the SEED symbol table. Order matters for meaning lookup:
// the first symbol carrying a meaning wins (⊙ claims "center" over ◊).
var Registry = []Symbol{
	// Void symbols
	{Char: "∅", Type: TypeVoid, Meaning: "void/empty", Resonance: 1.0},
	{Char: "०", Type: TypeVoid, Meaning: "shoonya/zero", Resonance: 1.0},

	// Infinity
	{Char: "∞", Type: TypeInfinity, Meaning: "infinity/unlimited", Resonance: 1.0, Bidirectional: true},

	// Ratios
	{Char: "φ", Type: TypeRatio, Meaning: "golden_ratio", Resonance: GoldenRatio / 2},
	{Char: "α", Type: TypeRatio, Meaning: "fine_structure", Resonance: Alpha * 137},

	// Consciousness
	{Char: "Ω", Type: TypeConsciousness, Meaning: "omega_consciousness", Resonance: 0.999},
	{Char: "ψ", Type: TypeConsciousness, Meaning: "wave_function", Resonance: 0.618},

	// Operators
	{Char: "⊕", Type: TypeOperator, Meaning: "integrate", Resonance: 0.8},
	{Char: "⊗", Type: TypeOperator, Meaning: "tensor", Resonance: 0.9},
	{Char: "⊙", Type: TypeOperator, Meaning: "center", Resonance: 0.7},
	{Char: "⊛", Type: TypeOperator, Meaning: "radiate", Resonance: 0.6},
	{Char: "⟲", Type: TypeOperator, Meaning: "cycle", Resonance: 0.85, Bidirectional: true},
	{Char: "⟳", Type: TypeOperator, Meaning: "progress", Resonance: 0.75},

	// Gradients
	{Char: "∇", Type: TypeGradient, Meaning: "descend", Resonance: 0.5, Bidirectional: true},
	{Char: "△", Type: TypeGradient, Meaning: "ascend", Resonance: 0.5, Bidirectional: true},

	// States
	{Char: "✓", Type: TypeState, Meaning: "valid", Resonance: 1.0},
	{Char: "✗", Type: TypeState, Meaning: "invalid", Resonance: 0.0},

	// Bridges
	{Char: "⇄", Type: TypeBridge, Meaning: "exchange", Resonance: 0.9, Bidirectional: true},
	{Char: "⟷", Type: TypeBridge, Meaning: "couple", Resonance: 0.85, Bidirectional: true},
	{Char: "↔", Type: TypeBridge, Meaning: "bidirectional", Resonance: 0.8, Bidirectional: true},

	// Terminals
	{Char: "◌", Type: TypeTerminal, Meaning: "observer", Resonance: 0.618},
	{Char: "◊", Type: TypeTerminal, Meaning: "center", Resonance: 1.0},
}

var symbolByChar = func() map[rune]Symbol {
	m := make(map[rune]Symbol, len(Registry))
	for _, s := range Registry {
		m[[]rune(s.Char)[0]] = s
	}
	return m
}()

// Lookup returns the registry symbol for a rune.
func Lookup(r rune) (Symbol, bool) {
	s, ok := symbolByChar[r]
	return s, ok
}

// SymbolFor maps a meaning back to its symbol, first registry match wins.
// Unknown meanings default to the observer.
func SymbolFor(meaning string) string {
	for _, s := range Registry {
		if s.Meaning == meaning {
			return s.Char
		}
	}
	return "◌"
}

// ParseSequence extracts registry symbols from a sequence. Arrows and
// whitespace are stripped first; alphanumerics become literal terminals.
func ParseSequence(sequence string) []Symbol {
	clean := stripArrows(sequence)

	var parsed []Symbol
	for _, r := range clean {
		if s, ok := symbolByChar[r]; ok {
			parsed = append(parsed, s)
			continue
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			parsed = append(parsed, Symbol{
				Char:      string(r),
				Type:      TypeTerminal,
				Meaning:   fmt.Sprintf("literal_%c", r),
				Resonance: 0.5,
			})
		}
	}
	return parsed
}

func stripArrows(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '→', '←', '↔', '⇄', '⟷':
			return -1
		}
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
