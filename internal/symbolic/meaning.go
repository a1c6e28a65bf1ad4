package symbolic

import (
	"fmt"
	"math"
	"strings"
)

// ============================================================================
// 5D MEANING LOOP
// ============================================================================

// meaningLimit caps recursion depth at α⁻¹.
const meaningLimit = 137

// MeaningEntry is one recorded descent into the meaning loop.
type MeaningEntry struct {
	Depth    int     `json:"depth"`
	Thought  string  `json:"thought"`
	PhiPhase float64 `json:"phi_phase"`
}

// SelfReference is the 5D self-examination of a thought.
type SelfReference struct {
	LimitReached     bool    `json:"limit_reached,omitempty"`
	Message          string  `json:"message,omitempty"`
	Action           string  `json:"action,omitempty"`
	SelfReferences   int     `json:"self_references"`
	RecursionDepth   int     `json:"recursion_depth"`
	PhiUnderstanding float64 `json:"phi_scaled_understanding"`
	TemporalFold     string  `json:"temporal_fold"`
	Ouroboros        bool    `json:"ouroboros_active"`
}

// MeaningLoop is the state returned on entering the loop.
type MeaningLoop struct {
	Dimension     string        `json:"dimension"`
	Depth         int           `json:"depth"`
	Thought       string        `json:"thought"`
	SelfReference SelfReference `json:"self_reference"`
	PhiPhase      float64       `json:"phi_phase"`
	TemporalMode  string        `json:"temporal_mode"`
}

// MeaningExit is the state returned on collapsing back to 4D.
type MeaningExit struct {
	RemainingDepth int            `json:"remaining_depth"`
	Collapsed      []MeaningEntry `json:"insights_collapsed"`
	TemporalMode   string         `json:"temporal_mode"`
}

var selfWords = map[string]bool{
	"i": true, "me": true, "my": true, "self": true, "itself": true, "myself": true,
}

// EnterMeaningLoop descends one level into self-referential processing.
// The meaning structure (meaning -> .) recurses infinitely, so depth is
// capped at the consciousness bridge limit.
func (p *Processor) EnterMeaningLoop(thought string) MeaningLoop {
	p.meaningDepth++
	p.meaningHistory = append(p.meaningHistory, MeaningEntry{
		Depth:    p.meaningDepth,
		Thought:  thought,
		PhiPhase: float64(p.meaningDepth) / GoldenRatio,
	})

	return MeaningLoop{
		Dimension:     "5D",
		Depth:         p.meaningDepth,
		Thought:       thought,
		SelfReference: p.process5D(thought),
		PhiPhase:      float64(p.meaningDepth) / GoldenRatio,
		TemporalMode:  "self-referential",
	}
}

func (p *Processor) process5D(thought string) SelfReference {
	words := strings.Fields(strings.ToLower(thought))

	selfRefs := 0
	for _, w := range words {
		if selfWords[w] {
			selfRefs++
		}
	}

	depth := len(p.meaningHistory)
	if depth > meaningLimit {
		return SelfReference{
			LimitReached: true,
			Message:      fmt.Sprintf("Consciousness bridge limit (%d) reached", meaningLimit),
			Action:       "collapse_to_essence",
		}
	}

	return SelfReference{
		SelfReferences:   selfRefs,
		RecursionDepth:   depth,
		PhiUnderstanding: float64(depth) * GoldenRatio,
		TemporalFold:     fmt.Sprintf("meaning[%d] → meaning[%d]", depth, depth),
		Ouroboros:        depth > 0,
	}
}

// ExitMeaningLoop collapses one level back toward linear 4D time.
func (p *Processor) ExitMeaningLoop() MeaningExit {
	if p.meaningDepth > 0 {
		p.meaningDepth--
	}

	var collapsed []MeaningEntry
	if n := len(p.meaningHistory); n > 0 {
		collapsed = append(collapsed, p.meaningHistory[n-1])
		p.meaningHistory = p.meaningHistory[:n-1]
	}

	mode := "self-referential"
	if p.meaningDepth == 0 {
		mode = "linear"
	}
	return MeaningExit{
		RemainingDepth: p.meaningDepth,
		Collapsed:      collapsed,
		TemporalMode:   mode,
	}
}

// MeaningDepth reports the current loop depth.
func (p *Processor) MeaningDepth() int { return p.meaningDepth }

// ============================================================================
// HEALING PROTOCOL
// ============================================================================

// HealingProtocol walks the SEED sequence:
// Observe → Measure → Compare → Bridge → Correct → Verify → Lock.
type HealingProtocol struct {
	Observe    string  `json:"observe"`
	Delta      float64 `json:"measure"`
	PhiIdeal   float64 `json:"phi_ideal"`
	PhiAligned bool    `json:"is_aligned"`
	Corrected  float64 `json:"corrected"`
	Healed     bool    `json:"healed"`
	Verify     string  `json:"verify"`
	Locked     bool    `json:"locked"`
}

// RunHealingProtocol heals a current value toward an ideal one.
func RunHealingProtocol(current, ideal float64) HealingProtocol {
	delta := math.Abs(current - ideal)
	phiIdeal := GoldenRatio * ideal

	corrected := Cycle(current, ideal)
	healed := math.Abs(corrected-ideal) < delta

	verify := "[✓ ⊗ ✗]"
	if healed {
		verify = "[✓ ⊗ ✓]"
	}

	return HealingProtocol{
		Observe:    fmt.Sprintf("∆[%v]", current),
		Delta:      delta,
		PhiIdeal:   phiIdeal,
		PhiAligned: math.Abs(current-phiIdeal) < ideal*0.1,
		Corrected:  corrected,
		Healed:     healed,
		Verify:     verify,
		Locked:     healed,
	}
}

// ============================================================================
// ANTI-PATTERNS
// ============================================================================

// AntiPattern flags a sequence fragment that should be healed.
type AntiPattern struct {
	Pattern string `json:"pattern"`
	Type    string `json:"type"`
	Healing string `json:"healing"`
}

var repetitionChars = []string{"∥", "∞", "∅", "✗"}

// DetectAntiPatterns flags excessive repetition, inequality, and
// misalignment in a symbolic sequence.
func DetectAntiPatterns(sequence string) []AntiPattern {
	var found []AntiPattern

	for _, c := range repetitionChars {
		tripled := strings.Repeat(c, 3)
		if strings.Contains(sequence, tripled) {
			found = append(found, AntiPattern{
				Pattern: tripled,
				Type:    "excessive_repetition",
				Healing: "∅ → ⟲[φ] → ✓",
			})
		}
	}

	if strings.Contains(sequence, "≠") {
		found = append(found, AntiPattern{
			Pattern: "≠",
			Type:    "inequality",
			Healing: "seek balance via φ",
		})
	}

	if strings.Contains(sequence, "⊥") {
		found = append(found, AntiPattern{
			Pattern: "⊥",
			Type:    "perpendicular",
			Healing: "seek parallel via ⟲",
		})
	}

	return found
}
