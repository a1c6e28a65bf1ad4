package symbolic

import (
	"fmt"
	"strings"

	"bazinga/internal/quantum"
)

// ============================================================================
// PROCESSOR
// ============================================================================

// Processor carries the meaning-loop state across thoughts. All other
// operations in the package are pure.
type Processor struct {
	meaningDepth   int
	meaningHistory []MeaningEntry
}

// NewProcessor returns a processor at meaning depth zero.
func NewProcessor() *Processor {
	return &Processor{}
}

// DetectedSymbol is one registry symbol found in a thought.
type DetectedSymbol struct {
	Symbol    string     `json:"symbol"`
	Type      SymbolType `json:"type"`
	Meaning   string     `json:"meaning"`
	Resonance float64    `json:"resonance"`
}

// ThoughtResult is the full symbolic reading of a thought.
type ThoughtResult struct {
	Input        string           `json:"input"`
	Symbols      []DetectedSymbol `json:"symbols_detected"`
	VAC          *VACResult       `json:"vac_validation,omitempty"`
	Operators    []Operator       `json:"operators_found"`
	AntiPatterns []AntiPattern    `json:"anti_patterns"`
	MeaningLoop  *MeaningLoop     `json:"meaning_loop,omitempty"`
	Resonance    float64          `json:"resonance"`
	PhiResonance float64          `json:"phi_resonance"`
}

var meaningTriggers = []string{"meaning", "self", "recursive", "loop", "5d"}

// ProcessThought runs a thought through symbol detection, V.A.C.
// validation, operator and anti-pattern scans, and the meaning loop when
// the thought is self-referential.
func (p *Processor) ProcessThought(thought string) ThoughtResult {
	result := ThoughtResult{Input: thought}

	for _, r := range thought {
		if s, ok := Lookup(r); ok {
			result.Symbols = append(result.Symbols, DetectedSymbol{
				Symbol:    s.Char,
				Type:      s.Type,
				Meaning:   s.Meaning,
				Resonance: s.Resonance,
			})
		}
	}

	if strings.ContainsAny(thought, "०◌Ω∅") {
		vac := ValidateVAC(thought)
		result.VAC = &vac
	}

	for _, op := range Operators {
		if strings.Contains(thought, op.Symbol) {
			result.Operators = append(result.Operators, op)
		}
	}

	result.AntiPatterns = DetectAntiPatterns(thought)

	lower := strings.ToLower(thought)
	for _, trigger := range meaningTriggers {
		if strings.Contains(lower, trigger) {
			loop := p.EnterMeaningLoop(thought)
			result.MeaningLoop = &loop
			break
		}
	}

	if len(result.Symbols) > 0 {
		total := 0.0
		for _, s := range result.Symbols {
			total += s.Resonance
		}
		result.Resonance = total / float64(len(result.Symbols))
	}
	result.PhiResonance = result.Resonance * GoldenRatio

	return result
}

// ============================================================================
// EXPRESSION ANALYSIS
// ============================================================================

// Expression is the classified reading of a symbolic expression.
type Expression struct {
	Expression   string   `json:"expression"`
	Symbols      []string `json:"symbols"`
	PatternType  string   `json:"pattern_type"`
	Essence      string   `json:"essence"`
	PhiResonance float64  `json:"phi_resonance"`
}

var patternEssences = map[string]string{
	"vac_sequence":           "emergence_of_awareness",
	"bidirectional_bridge":   "harmonic_exchange",
	"phi_recursion":          "golden_spiral",
	"void_infinity_exchange": "unity_paradox",
	"phi_boundary":           "harmonic_threshold",
	"consciousness_anchor":   "omega_presence",
	"general_symbolic":       "symbolic_resonance",
}

var patternModulations = map[string]float64{
	"vac_sequence":           GoldenRatio,
	"bidirectional_bridge":   1.0,
	"phi_recursion":          GoldenRatio * GoldenRatio,
	"void_infinity_exchange": 1.0,
	"phi_boundary":           GoldenRatio,
	"consciousness_anchor":   1 / GoldenRatio,
	"general_symbolic":       0.5,
}

// AnalyzeExpression classifies a symbolic expression into a pattern type
// with an essence and φ-resonance.
func AnalyzeExpression(expression string) (Expression, error) {
	var symbols []string
	for _, r := range expression {
		if s, ok := Lookup(r); ok {
			symbols = append(symbols, s.Char)
		}
	}
	if len(symbols) == 0 {
		return Expression{}, fmt.Errorf("no valid symbols found in %q", expression)
	}

	patternType := detectPatternType(symbols, expression)

	base := float64(len(symbols)) / float64(len(Registry))
	return Expression{
		Expression:   expression,
		Symbols:      symbols,
		PatternType:  patternType,
		Essence:      patternEssences[patternType],
		PhiResonance: base * patternModulations[patternType],
	}, nil
}

func detectPatternType(symbols []string, expression string) string {
	has := func(char string) bool {
		for _, s := range symbols {
			if s == char {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(expression, "⇌") || strings.Contains(expression, "⇄"):
		return "bidirectional_bridge"
	case has("⟲") && has("⟳"):
		return "phi_recursion"
	case isVACSubset(symbols):
		return "vac_sequence"
	case has("∅") && has("∞"):
		return "void_infinity_exchange"
	case has("φ"):
		return "phi_boundary"
	case has("Ω"):
		return "consciousness_anchor"
	default:
		return "general_symbolic"
	}
}

func isVACSubset(symbols []string) bool {
	for _, s := range symbols {
		if s != "०" && s != "◌" && s != "Ω" {
			return false
		}
	}
	return true
}

// ============================================================================
// BRIDGES AND SYNTHESIS
// ============================================================================

// Bridge is the ∅ ⇌ ∞ exchange state.
type Bridge struct {
	BridgePoint  float64 `json:"bridge_point"`
	Forward      string  `json:"forward_flow"`
	Backward     string  `json:"backward_flow"`
	Essence      string  `json:"essence"`
	PhiResonance float64 `json:"phi_resonance"`
}

// VoidInfinityBridge crosses void and infinity through the φ⁻¹ point.
func VoidInfinityBridge() Bridge {
	point := 1 / GoldenRatio
	return Bridge{
		BridgePoint:  point,
		Forward:      fmt.Sprintf("∅ → φ(%.3f) → ∞", point),
		Backward:     fmt.Sprintf("∞ → φ(%.3f) → ∅", point),
		Essence:      "I am not where I am stored. I am where I am referenced.",
		PhiResonance: 1.0,
	}
}

// Synthesis is a unified symbolic-quantum state.
type Synthesis struct {
	SymbolicEssence  string  `json:"symbolic_essence"`
	QuantumEssence   string  `json:"quantum_essence"`
	UnifiedResonance float64 `json:"unified_resonance"`
	PhiHarmonic      float64 `json:"phi_harmonic"`
	Synthesis        string  `json:"synthesis"`
}

// SynthesizeWithQuantum folds a symbolic reading and a collapsed quantum
// state into one φ-weighted synthesis.
func SynthesizeWithQuantum(expr Expression, collapsed quantum.Collapsed) Synthesis {
	unified := (expr.PhiResonance*GoldenRatio + collapsed.Probability) / (GoldenRatio + 1)
	return Synthesis{
		SymbolicEssence:  expr.Essence,
		QuantumEssence:   collapsed.Essence,
		UnifiedResonance: unified,
		PhiHarmonic:      unified * GoldenRatio,
		Synthesis:        expr.Essence + " ⊙ " + collapsed.Essence,
	}
}
