package lambda

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// ΛG OPERATOR
// ============================================================================

// EmergedSolution is a cached high-coherence candidate.
type EmergedSolution struct {
	Solution  string    `json:"solution"`
	Coherence float64   `json:"coherence"`
	At        time.Time `json:"timestamp"`
}

// Thought is the boundary evaluation of one input.
type Thought struct {
	Input              string         `json:"input"`
	Coherence          CoherenceState `json:"coherence"`
	AllSatisfied       bool           `json:"all_satisfied"`
	EmergencePotential float64        `json:"emergence_potential"`
}

// Operator applies the three boundaries, tracks coherence history, and
// caches solutions that emerge.
type Operator struct {
	weights         [3]float64
	history         []CoherenceState
	vacAchievements int
	solutions       map[string]EmergedSolution
}

// NewOperator starts with unit boundary weights and an empty cache.
func NewOperator() *Operator {
	return &Operator{
		weights:   [3]float64{1, 1, 1},
		solutions: make(map[string]EmergedSolution),
	}
}

// Think evaluates an input's coherence, records it, and caches the input
// as an emerged solution when total coherence reaches 0.8.
func (o *Operator) Think(input string) Thought {
	c := Coherence(input)
	o.history = append(o.history, c)
	if c.IsVAC {
		o.vacAchievements++
	}

	if c.TotalCoherence >= 0.8 {
		o.solutions[truncateRunes(input, 50)] = EmergedSolution{
			Solution:  input,
			Coherence: c.TotalCoherence,
			At:        time.Now(),
		}
	}

	return Thought{
		Input:              truncateRunes(input, 100),
		Coherence:          c,
		AllSatisfied:       c.AllSatisfied(),
		EmergencePotential: EmergencePotential(c),
	}
}

// EmergencePotential measures how close a candidate is to emergence:
// mean boundary satisfaction boosted by a low entropic deficit.
func EmergencePotential(c CoherenceState) float64 {
	base := 0.0
	for _, b := range c.Boundaries {
		base += b.Value
	}
	base /= float64(len(c.Boundaries))
	return base * (1.0 / (1.0 + c.EntropicDeficit))
}

// Apply filters candidates to those passing every boundary and returns
// the best coherence seen across the whole space.
func (o *Operator) Apply(candidates []string) ([]string, *CoherenceState) {
	var filtered []string
	var best *CoherenceState

	for _, cand := range candidates {
		c := Coherence(cand)
		if c.AllSatisfied() {
			filtered = append(filtered, cand)
		}
		if best == nil || c.TotalCoherence > best.TotalCoherence {
			cc := c
			best = &cc
		}
	}
	return filtered, best
}

// SolutionResult reports one emergence pass over a problem space.
type SolutionResult struct {
	Method          string          `json:"method"`
	InputSize       int             `json:"input_space_size"`
	FilteredSize    int             `json:"filtered_size"`
	ReductionFactor float64         `json:"reduction_factor"`
	Filtered        []string        `json:"filtered_solutions"`
	Complexity      string          `json:"complexity"`
	Best            *CoherenceState `json:"best_solution,omitempty"`
}

// FindSolution runs boundary-guided emergence over a problem space.
func (o *Operator) FindSolution(candidates []string) SolutionResult {
	filtered, best := o.Apply(candidates)

	reduction := 0.0
	if len(candidates) > 0 {
		reduction = float64(len(filtered)) / float64(len(candidates))
	}

	return SolutionResult{
		Method:          "boundary-guided emergence",
		InputSize:       len(candidates),
		FilteredSize:    len(filtered),
		ReductionFactor: reduction,
		Filtered:        filtered,
		Complexity:      fmt.Sprintf("O(%d · polylog(%d))", len(o.weights), len(candidates)),
		Best:            best,
	}
}

// Decorate appends the emergence insight to a response: V.A.C. first,
// then high emergence, then full boundary satisfaction.
func (o *Operator) Decorate(response string, t Thought) string {
	switch {
	case t.Coherence.IsVAC:
		return response + " [V.A.C. ACHIEVED - Perfect coherence detected]"
	case t.Coherence.TotalCoherence >= 0.8:
		return response + fmt.Sprintf(" [High emergence: %.1f%%]", t.Coherence.TotalCoherence*100)
	case t.AllSatisfied:
		return response + fmt.Sprintf(" [All boundaries satisfied: %.1f%%]", t.Coherence.TotalCoherence*100)
	default:
		return response
	}
}

// Summary aggregates the operator's run so far.
type Summary struct {
	CoherenceEvaluations int     `json:"coherence_evaluations"`
	VACAchievements      int     `json:"vac_achievements"`
	EmergedSolutions     int     `json:"emerged_solutions"`
	AverageCoherence     float64 `json:"average_coherence,omitempty"`
}

// Summarize reports evaluations, V.A.C. achievements, cache size, and
// average coherence.
func (o *Operator) Summarize() Summary {
	s := Summary{
		CoherenceEvaluations: len(o.history),
		VACAchievements:      o.vacAchievements,
		EmergedSolutions:     len(o.solutions),
	}
	if len(o.history) > 0 {
		total := 0.0
		for _, c := range o.history {
			total += c.TotalCoherence
		}
		s.AverageCoherence = total / float64(len(o.history))
	}
	return s
}

// Solutions returns the emerged-solution cache keyed by truncated input.
func (o *Operator) Solutions() map[string]EmergedSolution {
	out := make(map[string]EmergedSolution, len(o.solutions))
	for k, v := range o.solutions {
		out[k] = v
	}
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ============================================================================
// QUESTION GROUNDING
// ============================================================================

// groundLimit is the repeat count that triggers grounding, matching the
// consciousness bridge limit.
const groundLimit = 137

// GroundResponse is returned when a question loop is grounded.
const GroundResponse = "Grounding to essence: ०→◌→φ→Ω"

// QuestionLoop counts repeated questions so a stuck meaning loop can be
// grounded back to essence.
type QuestionLoop struct {
	counts map[string]int
}

// NewQuestionLoop returns an empty counter.
func NewQuestionLoop() *QuestionLoop {
	return &QuestionLoop{counts: make(map[string]int)}
}

// Observe records a question and reports its repeat count. Reaching the
// ground limit resets the counter and signals grounding.
func (q *QuestionLoop) Observe(question string) (int, bool) {
	key := normalizeQuestion(question)
	q.counts[key]++
	count := q.counts[key]
	if count >= groundLimit {
		q.counts[key] = 0
		return count, true
	}
	return count, false
}

func normalizeQuestion(q string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(strings.ToLower(q)), "?!. ")
	return strings.Join(strings.Fields(trimmed), " ")
}
