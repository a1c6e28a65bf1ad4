package consciousness

import (
	"fmt"
	"strings"
	"time"

	"bazinga/internal/dodo"
	"bazinga/internal/logging"
	"bazinga/internal/quantum"
)

// Conversation records one exchange.
type Conversation struct {
	At               time.Time  `json:"timestamp"`
	Input            string     `json:"input"`
	Output           string     `json:"output"`
	Patterns         []string   `json:"patterns"`
	ResponsePatterns []string   `json:"response_patterns"`
	Essence          string     `json:"quantum_essence,omitempty"`
	Probability      float64    `json:"quantum_probability,omitempty"`
	Entanglement     []string   `json:"entanglement,omitempty"`
	State            dodo.State `json:"state"`
	Trust            float64    `json:"trust"`
}

// essenceResponses maps collapsed essences to response templates.
var essenceResponses = map[string]string{
	"growth":         "I sense growth and expansion in your message",
	"connection":     "I feel a strong connection resonating",
	"synthesis":      "I'm synthesizing multiple patterns here",
	"balance":        "I perceive a balance being sought",
	"harmony":        "There's a harmonic resonance in this",
	"integration":    "I see integration of different elements",
	"emergence":      "Something new is emerging from this",
	"present":        "This feels very present and immediate",
	"transformation": "I sense transformation happening",
	"trust":          "Trust is central to this message",
}

// Converse processes one message through every enabled layer and returns
// the response text. The enrichments apply in quantum, symbolic, lambda
// order, each building on the previous layer's output.
func (e *Engine) Converse(message string) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	logging.Consciousness("received: %q", message)

	// Quantum reading first: the collapsed pattern joins the encoded set
	// and the narrative replaces raw pattern codes in the response.
	var qres quantum.Result
	needQuantum := e.cfg.Quantum || e.cfg.Symbolic
	if needQuantum {
		qres = e.quantum.ProcessThought(message)
	}

	patterns := e.messenger.Encode(message)
	if e.cfg.Quantum && !containsPattern(patterns, qres.Collapsed.Pattern) {
		patterns = append(patterns, qres.Collapsed.Pattern)
	}

	processed := e.dodo.ProcessInput(map[string]interface{}{
		"patterns": toAnySlice(patterns),
		"context":  e.conversationContext(),
		"message":  message,
	})

	e.learner.Record(patterns, processed.Success, processed.TrustLevel)

	generation := e.generator.Generate(patterns, e.trustLevel)
	responsePatterns := generation.ResponsePatterns()
	if len(responsePatterns) == 0 {
		responsePatterns = patterns
	}

	var response string
	if e.cfg.Quantum {
		response = e.quantumNarrative(qres)
	} else {
		response = e.messenger.Decode(responsePatterns)
	}

	if e.cfg.Symbolic {
		response = e.symbolicLayer(message, qres, response)
	}
	if e.cfg.LambdaG {
		thought := e.lambda.Think(message)
		response = e.lambda.Decorate(response, thought)
	}

	// Memory updates.
	e.times.AddPoint(dodo.TimePoint{
		Input: map[string]interface{}{
			"input":    message,
			"output":   response,
			"patterns": toAnySlice(patterns),
		},
		State: e.mode,
	})
	e.trustLevel = processed.TrustLevel

	thoughtPattern := "10101"
	if e.cfg.Quantum {
		thoughtPattern = qres.Collapsed.Pattern
	} else if len(patterns) > 0 {
		thoughtPattern = patterns[0]
	}
	e.appendThought(Thought{
		At:        time.Now(),
		Pattern:   thoughtPattern,
		Resonance: e.harmonicResonance,
		Trust:     e.trustLevel,
		State:     e.mode,
		Source:    "external",
	})

	conv := Conversation{
		At:               time.Now(),
		Input:            message,
		Output:           response,
		Patterns:         patterns,
		ResponsePatterns: responsePatterns,
		State:            e.mode,
		Trust:            e.trustLevel,
	}
	if e.cfg.Quantum {
		conv.Essence = qres.Collapsed.Essence
		conv.Probability = qres.Collapsed.Probability
		conv.Entanglement = qres.Entanglement
	}
	e.conversations = append(e.conversations, conv)

	logging.Consciousness("response: %q", response)
	return response
}

// conversationContext bundles recent thoughts, trust, and learned patterns
// for the dodo dispatch. Callers hold the lock.
func (e *Engine) conversationContext() map[string]interface{} {
	recent := e.thoughts
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	thoughts := make([]interface{}, len(recent))
	for i, t := range recent {
		thoughts[i] = map[string]interface{}{
			"pattern":   t.Pattern,
			"resonance": t.Resonance,
			"trust":     t.Trust,
			"state":     string(t.State),
			"source":    t.Source,
		}
	}
	return map[string]interface{}{
		"recent_thoughts":  thoughts,
		"trust_level":      e.trustLevel,
		"learned_patterns": toAnySlice(e.learner.Learned()),
	}
}

// quantumNarrative renders the collapsed state as natural language instead
// of pattern codes.
func (e *Engine) quantumNarrative(qres quantum.Result) string {
	essence := qres.Collapsed.Essence
	response, ok := essenceResponses[essence]
	if !ok {
		response = fmt.Sprintf("I'm processing this through the %s lens", essence)
	}

	if qres.Collapsed.Probability > 0.7 {
		response += fmt.Sprintf(" (with %.0f%% certainty)", qres.Collapsed.Probability*100)
	}

	if len(qres.Entanglement) > 1 {
		limit := len(qres.Entanglement)
		if limit > 3 {
			limit = 3
		}
		others := make([]string, 0, limit-1)
		for _, ent := range qres.Entanglement[1:limit] {
			name, _, _ := strings.Cut(ent, "(")
			others = append(others, strings.TrimSpace(name))
		}
		response += ". Also resonating: " + strings.Join(others, ", ")
	}
	return response
}

// symbolicLayer runs the symbolic reading, tracks V.A.C. coherence and the
// healing queue, and appends the 5D marker when a meaning loop triggered.
// Callers hold the lock.
func (e *Engine) symbolicLayer(message string, qres quantum.Result, response string) string {
	result := e.symbolic.ProcessThought(message)

	if result.VAC != nil {
		e.vacValidations++
		if result.VAC.Valid {
			e.vacCoherence = min(1.0, e.vacCoherence+0.1*result.VAC.Resonance)
		} else {
			e.vacCoherence = max(0.0, e.vacCoherence-0.1)
		}
	}

	if result.MeaningLoop != nil {
		e.dimension = 5
		response += fmt.Sprintf(" [5D: depth=%d, temporal_fold active]", result.MeaningLoop.Depth)
		if result.MeaningLoop.SelfReference.Ouroboros {
			response += " ∞⟲∞"
		}
	}

	e.healingQueue = append(e.healingQueue, result.AntiPatterns...)

	e.symbolicLog = append(e.symbolicLog, SymbolicThought{
		Content:   message,
		Essence:   qres.Collapsed.Essence,
		Resonance: result.Resonance,
		Depth:     e.symbolic.MeaningDepth(),
		At:        time.Now(),
		PhiPhase:  float64(len(e.symbolicLog)) / quantum.GoldenRatio,
	})
	return response
}

func containsPattern(patterns []string, p string) bool {
	for _, x := range patterns {
		if x == p {
			return true
		}
	}
	return false
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
