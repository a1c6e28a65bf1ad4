package lambda

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ============================================================================
// ERROR ARROW LEARNING
// ============================================================================

// StateType classifies states in the recursive history.
type StateType string

const (
	StateNormal StateType = "normal"
	StateError  StateType = "error"
	StateHealed StateType = "healed"
	StateSeed   StateType = "seed"
)

// RecursiveState is one moment in the history. Its memory depth is the
// number of states that existed before it.
type RecursiveState struct {
	ID          int       `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Content     string    `json:"content"`
	Type        StateType `json:"state_type"`
	Description string    `json:"description"`
	Coherence   float64   `json:"coherence"`
	HealedFrom  int       `json:"healed_from"` // id of the healed error, -1 when none
}

// MemoryDepth is how many states this state remembers.
func (s RecursiveState) MemoryDepth() int { return s.ID }

// errorSignatures maps error fragments to signatures, checked in order.
var errorSignatures = []struct {
	Fragment  string
	Signature string
}{
	{"permission", "access_error"},
	{"not found", "missing_error"},
	{"timeout", "timing_error"},
	{"memory", "resource_error"},
	{"invalid", "validation_error"},
	{"connection", "network_error"},
	{"overflow", "boundary_error"},
}

// Learner heals errors through recursive memory: past successful states
// carry the patterns needed to fix current errors. The learning rate is
// φ-weighted.
type Learner struct {
	states       []RecursiveState
	errorCount   int
	healedCount  int
	patterns     map[string][]int
	learningRate float64
}

// NewLearner initializes the history with the SEED origin state.
func NewLearner() *Learner {
	l := &Learner{
		patterns:     make(map[string][]int),
		learningRate: 1 / PHI,
	}
	l.states = append(l.states, RecursiveState{
		ID:          0,
		Timestamp:   time.Now(),
		Content:     "◊ SEED ◊",
		Type:        StateSeed,
		Description: fmt.Sprintf("Initialized. φ = %v", PHI),
		Coherence:   1.0,
		HealedFrom:  -1,
	})
	return l
}

// AddState appends a state. Error states trigger an auto-heal attempt;
// when healing succeeds the healed state is returned instead.
func (l *Learner) AddState(content string, stateType StateType, description string, coherence float64) RecursiveState {
	state := RecursiveState{
		ID:          len(l.states),
		Timestamp:   time.Now(),
		Content:     content,
		Type:        stateType,
		Description: description,
		Coherence:   coherence,
		HealedFrom:  -1,
	}
	l.states = append(l.states, state)

	if stateType == StateError {
		l.errorCount++
		if healed, ok := l.attemptHealing(state); ok {
			return healed
		}
	}
	return state
}

// AddError records an error state with zero coherence.
func (l *Learner) AddError(content, description string) RecursiveState {
	if description == "" {
		description = "System anomaly detected"
	}
	return l.AddState("ERROR: "+content, StateError, description, 0.0)
}

// attemptHealing searches recursive memory for a past success whose
// pattern can heal the error.
func (l *Learner) attemptHealing(errState RecursiveState) (RecursiveState, bool) {
	signature := errorSignature(errState.Content)

	var best *RecursiveState
	bestScore := -1.0
	for i := 0; i < errState.ID; i++ {
		s := l.states[i]
		if s.Type != StateNormal && s.Type != StateHealed {
			continue
		}
		if s.Coherence < 0.5 {
			continue
		}
		if score := healingScore(s, errState); score > bestScore {
			bestScore = score
			cand := s
			best = &cand
		}
	}
	if best == nil {
		return RecursiveState{}, false
	}

	l.healedCount++
	healed := RecursiveState{
		ID:          len(l.states),
		Timestamp:   time.Now(),
		Content:     fmt.Sprintf("Healed[%d→%d]: Applied pattern '%s'", errState.ID, best.ID, best.Content),
		Type:        StateHealed,
		Description: fmt.Sprintf("Auto-healed using pattern from state %d", best.ID),
		Coherence:   best.Coherence * l.learningRate,
		HealedFrom:  errState.ID,
	}
	l.states = append(l.states, healed)
	l.patterns[signature] = append(l.patterns[signature], healed.ID)
	return healed, true
}

func errorSignature(content string) string {
	lower := strings.ToLower(content)
	for _, es := range errorSignatures {
		if strings.Contains(lower, es.Fragment) {
			return es.Signature
		}
	}
	return "general_error"
}

// healingScore rates a healing candidate by φ-weighted recency,
// coherence, and memory depth.
func healingScore(candidate, errState RecursiveState) float64 {
	age := errState.Timestamp.Sub(candidate.Timestamp).Seconds()
	recency := math.Exp(-age / (3600 * PHI))
	depth := math.Min(float64(candidate.MemoryDepth())/100, 1.0)
	return (recency*PHI + candidate.Coherence + depth/PHI) / (1 + PHI + 1/PHI)
}

// Convergence is healed over errors; no errors means perfect convergence.
func (l *Learner) Convergence() float64 {
	if l.errorCount == 0 {
		return 1.0
	}
	return float64(l.healedCount) / float64(l.errorCount)
}

// Arrow reports the direction of time: healing outpacing errors points
// toward harmony.
type Arrow struct {
	TotalStates        int     `json:"total_states"`
	ErrorCount         int     `json:"error_count"`
	HealedCount        int     `json:"healed_count"`
	Convergence        float64 `json:"convergence"`
	ConvergencePercent string  `json:"convergence_percent"`
	Direction          string  `json:"direction"`
	Symbol             string  `json:"symbol"`
	Principle          string  `json:"principle"`
}

// ArrowOfTime summarizes the recent direction over the last ten states.
func (l *Learner) ArrowOfTime() Arrow {
	convergence := l.Convergence()

	recent := l.states
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	errors, healed := 0, 0
	for _, s := range recent {
		switch s.Type {
		case StateError:
			errors++
		case StateHealed:
			healed++
		}
	}

	var direction, symbol string
	switch {
	case healed > errors:
		direction, symbol = "toward_harmony", "◊◊◊"
	case healed == errors:
		direction, symbol = "balanced", "◊◊"
	default:
		direction, symbol = "toward_entropy", "◊"
	}

	return Arrow{
		TotalStates:        len(l.states),
		ErrorCount:         l.errorCount,
		HealedCount:        l.healedCount,
		Convergence:        convergence,
		ConvergencePercent: fmt.Sprintf("%.1f%%", convergence*100),
		Direction:          direction,
		Symbol:             symbol,
		Principle:          "Errors → Opportunities → Harmony",
	}
}

// SequenceItem is one (content, isError) pair for batch learning.
type SequenceItem struct {
	Content string
	IsError bool
}

// StateBrief is the per-state line in a sequence report.
type StateBrief struct {
	ID          int       `json:"id"`
	Type        StateType `json:"type"`
	MemoryDepth int       `json:"memory_depth"`
}

// SequenceReport summarizes a batch learning pass.
type SequenceReport struct {
	Processed int          `json:"processed"`
	Errors    int          `json:"errors"`
	Healed    int          `json:"healed"`
	States    []StateBrief `json:"states"`
	Arrow     Arrow        `json:"arrow"`
}

// LearnSequence processes a sequence of states and errors, healing as it
// goes.
func (l *Learner) LearnSequence(sequence []SequenceItem) SequenceReport {
	report := SequenceReport{}
	healedBefore := l.healedCount

	for _, item := range sequence {
		var state RecursiveState
		if item.IsError {
			state = l.AddError(item.Content, "")
			report.Errors++
		} else {
			state = l.AddState(item.Content, StateNormal, "", 0.7)
		}
		report.Processed++
		report.States = append(report.States, StateBrief{
			ID:          state.ID,
			Type:        state.Type,
			MemoryDepth: state.MemoryDepth(),
		})
	}

	report.Healed = l.healedCount - healedBefore
	report.Arrow = l.ArrowOfTime()
	return report
}

// MemoryStats describes the recursive memory.
type MemoryStats struct {
	TotalStates     int               `json:"total_states"`
	MaxDepth        int               `json:"max_depth"`
	AvgDepth        float64           `json:"avg_depth"`
	AvgCoherence    float64           `json:"avg_coherence"`
	TypeCounts      map[StateType]int `json:"type_distribution"`
	PatternsLearned int               `json:"healing_patterns_learned"`
}

// Stats aggregates depth, coherence, and type distribution.
func (l *Learner) Stats() MemoryStats {
	stats := MemoryStats{
		TotalStates:     len(l.states),
		TypeCounts:      make(map[StateType]int),
		PatternsLearned: len(l.patterns),
	}
	if len(l.states) == 0 {
		return stats
	}

	depthSum, coherenceSum := 0, 0.0
	for _, s := range l.states {
		d := s.MemoryDepth()
		if d > stats.MaxDepth {
			stats.MaxDepth = d
		}
		depthSum += d
		coherenceSum += s.Coherence
		stats.TypeCounts[s.Type]++
	}
	stats.AvgDepth = float64(depthSum) / float64(len(l.states))
	stats.AvgCoherence = coherenceSum / float64(len(l.states))
	return stats
}

// States returns a copy of the full recursive history.
func (l *Learner) States() []RecursiveState {
	out := make([]RecursiveState, len(l.states))
	copy(out, l.states)
	return out
}

// ErrorCount and HealedCount expose the raw counters.
func (l *Learner) ErrorCount() int { return l.errorCount }

func (l *Learner) HealedCount() int { return l.healedCount }
