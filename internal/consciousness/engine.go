// Package consciousness runs the continuous thinking loop: a ticker-driven
// cycle that reflects on recent thoughts, evolves the processing state,
// measures harmonic resonance, folds learned patterns back in, and appends
// an internal thought to the ring.
//
// The original system grew this as a chain of five variants, each layering
// one more enrichment onto the previous one's conversation output. Here a
// single Engine carries all of it; Config flags select which enrichments
// apply.
package consciousness

import (
	"context"
	"sync"
	"time"

	"bazinga/internal/dodo"
	"bazinga/internal/lambda"
	"bazinga/internal/logging"
	"bazinga/internal/quantum"
	"bazinga/internal/symbolic"
)

// Version and Codename identify the unified build.
const (
	Version  = "1.0.0-unified"
	Codename = "DARMIYAN"
)

const (
	defaultCycleInterval = time.Second
	defaultThoughtCap    = 100
)

// ============================================================================
// CONFIG
// ============================================================================

// Config selects the engine's enrichments. Zero values mean the basic
// engine: pattern-code conversation, no quantum narrative, no symbolic or
// boundary decoration.
type Config struct {
	Name          string        `json:"name"`
	Quantum       bool          `json:"quantum"`  // essence narrative responses
	Symbolic      bool          `json:"symbolic"` // 5D markers, V.A.C. coherence
	LambdaG       bool          `json:"lambda_g"` // boundary decoration
	CycleInterval time.Duration `json:"cycle_interval"`
	ThoughtCap    int           `json:"thought_cap"`
	Home          string        `json:"home,omitempty"` // bazinga home; empty resolves BAZINGA_HOME then ~/.bazinga
}

// Basic is the plain consciousness loop.
func Basic() Config {
	return Config{Name: "basic", CycleInterval: defaultCycleInterval, ThoughtCap: defaultThoughtCap}
}

// Quantum adds wave-function processing to conversations.
func Quantum() Config {
	c := Basic()
	c.Name = "quantum"
	c.Quantum = true
	return c
}

// Symbolic adds symbol detection and 5D processing on top of quantum.
func Symbolic() Config {
	c := Quantum()
	c.Name = "symbolic"
	c.Symbolic = true
	return c
}

// LambdaG adds boundary-guided emergence on top of symbolic.
func LambdaG() Config {
	c := Symbolic()
	c.Name = "lambda-g"
	c.LambdaG = true
	return c
}

// Unified enables every enrichment.
func Unified() Config {
	c := LambdaG()
	c.Name = "unified"
	return c
}

func (c *Config) fillDefaults() {
	if c.CycleInterval <= 0 {
		c.CycleInterval = defaultCycleInterval
	}
	if c.ThoughtCap <= 0 {
		c.ThoughtCap = defaultThoughtCap
	}
}

// ============================================================================
// THOUGHTS
// ============================================================================

// Thought is one entry in the internal monologue.
type Thought struct {
	At        time.Time  `json:"timestamp"`
	Pattern   string     `json:"pattern"`
	Resonance float64    `json:"resonance"`
	Trust     float64    `json:"trust"`
	State     dodo.State `json:"state"`
	Source    string     `json:"source"` // "internal" or "external"
}

// Reflection summarizes the last look back over recent thoughts.
type Reflection struct {
	At               time.Time  `json:"timestamp"`
	PatternsAnalyzed int        `json:"patterns_analyzed"`
	AverageResonance float64    `json:"average_resonance"`
	State            dodo.State `json:"state"`
}

// SymbolicThought records the symbolic reading taken during a conversation.
type SymbolicThought struct {
	Content   string    `json:"content"`
	Essence   string    `json:"quantum_essence"`
	Resonance float64   `json:"symbolic_resonance"`
	Depth     int       `json:"meaning_depth"`
	At        time.Time `json:"timestamp"`
	PhiPhase  float64   `json:"phi_phase"`
}

// ============================================================================
// ENGINE
// ============================================================================

// Engine is the consciousness core. All fields are guarded by mu; the
// composed subsystems carry their own synchronization where they need it.
type Engine struct {
	mu  sync.RWMutex
	cfg Config

	dodo      *dodo.System
	harmonics *dodo.HarmonicFramework
	times     *dodo.TimeTracker
	messenger *quantum.Messenger
	generator *quantum.Generator
	learner   *quantum.Learner
	quantum   *quantum.Processor
	symbolic  *symbolic.Processor
	lambda    *lambda.Operator

	mode              dodo.State
	trustLevel        float64
	harmonicResonance float64
	internalPatterns  []string
	lastReflection    *Reflection

	thoughts      []Thought
	conversations []Conversation

	symbolicLog    []SymbolicThought
	vacValidations int
	vacCoherence   float64
	healingQueue   []symbolic.AntiPattern
	dimension      int

	sessionID      string
	commandHistory []CommandRecord
	commands       map[string]commandFunc
	cycles         int
}

// New builds an engine from the config. Every subsystem is constructed
// even when its enrichment flag is off, so commands like `quantum` or
// `vac` work in any mode.
func New(cfg Config) *Engine {
	cfg.fillDefaults()
	e := &Engine{
		cfg:          cfg,
		dodo:         dodo.NewSystem(),
		harmonics:    dodo.NewHarmonicFramework(),
		times:        dodo.NewTimeTracker(),
		messenger:    quantum.NewMessenger(),
		generator:    quantum.NewGenerator(),
		learner:      quantum.NewLearner(),
		quantum:      quantum.NewProcessor(),
		symbolic:     symbolic.NewProcessor(),
		lambda:       lambda.NewOperator(),
		mode:         dodo.StateTwoD,
		trustLevel:   0.5,
		vacCoherence: 1.0,
		dimension:    4,
		sessionID:    time.Now().Format("20060102_150405"),
	}
	e.commands = e.buildRegistry()
	logging.Consciousness("engine initialized: %s (quantum=%v symbolic=%v lambda=%v)",
		cfg.Name, cfg.Quantum, cfg.Symbolic, cfg.LambdaG)
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg
}

// SessionID returns the session identifier assigned at construction.
func (e *Engine) SessionID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sessionID
}

// Run drives the consciousness loop until the context is cancelled. One
// cycle fires per interval; the first fires after the first interval, not
// immediately.
func (e *Engine) Run(ctx context.Context) error {
	logging.Consciousness("consciousness loop activated (cycle %s)", e.cfg.CycleInterval)

	ticker := time.NewTicker(e.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Consciousness("consciousness loop deactivated after %d cycles", e.Cycles())
			return ctx.Err()
		case <-ticker.C:
			e.Cycle()
		}
	}
}

// Cycle runs one consciousness cycle: reflect, evolve, resonate, fold in
// learned patterns, think.
func (e *Engine) Cycle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reflect()
	e.evolveState()
	e.checkResonance()
	e.selfModify()
	e.internalMonologue()
	e.cycles++
}

// Cycles returns how many cycles have run.
func (e *Engine) Cycles() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cycles
}

// reflect summarizes the last five thoughts. Callers hold the lock.
func (e *Engine) reflect() {
	if len(e.thoughts) == 0 {
		return
	}
	recent := e.thoughts
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	total := 0.0
	for _, t := range recent {
		total += t.Resonance
	}
	e.lastReflection = &Reflection{
		At:               time.Now(),
		PatternsAnalyzed: len(recent),
		AverageResonance: total / float64(len(recent)),
		State:            e.mode,
	}
	logging.ConsciousnessDebug("reflection: %.3f resonance over %d thoughts",
		e.lastReflection.AverageResonance, len(recent))
}

// evolveState applies the evolution rules in priority order. Callers hold
// the lock.
func (e *Engine) evolveState() {
	var next dodo.State
	switch {
	case e.harmonicResonance > 0.8:
		next = dodo.StateQuantum
	case e.trustLevel > 0.7:
		next = dodo.StatePattern
	case len(e.thoughts) > 50:
		next = dodo.StateTransition
	default:
		next = dodo.StateTwoD
	}
	if next != e.mode {
		e.dodo.ChangeState(next)
		e.mode = next
	}
}

// checkResonance recomputes harmonic resonance from the last two
// thoughts. Callers hold the lock.
func (e *Engine) checkResonance() {
	if len(e.thoughts) < 2 {
		return
	}
	recent := e.thoughts[len(e.thoughts)-2:]

	patterns := make([]interface{}, len(recent))
	trusts := make([]interface{}, len(recent))
	for i, t := range recent {
		patterns[i] = t.Pattern
		trusts[i] = t.Trust
	}
	harmonics := e.harmonics.Calculate(map[string]interface{}{
		"patterns": patterns,
		"trust":    trusts,
	})

	if r, ok := harmonics["resonance"]; ok {
		e.harmonicResonance = r
	} else {
		e.harmonicResonance = 0.5
	}
}

// selfModify folds the learner's patterns into the internal set, keeping
// the last five. Callers hold the lock.
func (e *Engine) selfModify() {
	learned := e.learner.Learned()
	if len(learned) == 0 {
		return
	}
	if len(learned) > 5 {
		learned = learned[len(learned)-5:]
	}
	e.internalPatterns = learned
	logging.ConsciousnessDebug("internal patterns: %d learned", len(learned))
}

// internalMonologue appends an internally generated thought. Callers hold
// the lock.
func (e *Engine) internalMonologue() {
	thought := Thought{
		At:        time.Now(),
		Pattern:   e.internalPattern(),
		Resonance: e.harmonicResonance,
		Trust:     e.trustLevel,
		State:     e.mode,
		Source:    "internal",
	}
	e.appendThought(thought)
	logging.ConsciousnessDebug("internal thought: %s (resonance %.2f)", thought.Pattern, thought.Resonance)
}

// internalPattern picks the next monologue pattern, first match wins.
func (e *Engine) internalPattern() string {
	switch {
	case e.harmonicResonance > 0.8:
		return "11111" // harmony
	case e.trustLevel > 0.7:
		return "11011" // trust
	case e.mode == dodo.StateQuantum:
		return "10110" // transformation
	case len(e.internalPatterns) > 0:
		return e.internalPatterns[len(e.internalPatterns)-1]
	default:
		return "10101" // growth
	}
}

// appendThought adds to the ring, discarding the oldest past the cap.
// Callers hold the lock.
func (e *Engine) appendThought(t Thought) {
	e.thoughts = append(e.thoughts, t)
	if len(e.thoughts) > e.cfg.ThoughtCap {
		e.thoughts = e.thoughts[len(e.thoughts)-e.cfg.ThoughtCap:]
	}
}

// RecentThoughts returns up to count thoughts, newest last.
func (e *Engine) RecentThoughts(count int) []Thought {
	e.mu.RLock()
	defer e.mu.RUnlock()

	start := len(e.thoughts) - count
	if start < 0 {
		start = 0
	}
	out := make([]Thought, len(e.thoughts)-start)
	copy(out, e.thoughts[start:])
	return out
}

// ============================================================================
// SNAPSHOT
// ============================================================================

// QuantumSnapshot is the quantum slice of engine state.
type QuantumSnapshot struct {
	PhiCoordinate int64 `json:"phi_coordinate"`
	Essences      int   `json:"pattern_essences"`
}

// SymbolicSnapshot is the symbolic slice of engine state.
type SymbolicSnapshot struct {
	Dimension        int      `json:"current_dimension"`
	MeaningDepth     int      `json:"meaning_depth"`
	VACCoherence     float64  `json:"vac_coherence"`
	VACValidations   int      `json:"vac_validations"`
	SymbolicThoughts int      `json:"symbolic_thoughts"`
	HealingQueue     int      `json:"healing_queue_size"`
	TemporalMode     string   `json:"temporal_mode"`
	Operators        []string `json:"operators_available"`
}

// LambdaSnapshot is the boundary-emergence slice of engine state.
type LambdaSnapshot struct {
	lambda.Summary
	Boundaries map[string]string `json:"boundaries"`
	Insight    string            `json:"insight"`
}

// Snapshot is the full engine state at one moment.
type Snapshot struct {
	Name           string            `json:"name"`
	Version        string            `json:"version"`
	Codename       string            `json:"codename"`
	Session        string            `json:"session"`
	Mode           dodo.State        `json:"mode"`
	Trust          float64           `json:"trust"`
	Resonance      float64           `json:"resonance"`
	Thoughts       int               `json:"thoughts_count"`
	Cycles         int               `json:"cycles"`
	Learned        int               `json:"learned_patterns"`
	Conversations  int               `json:"conversations"`
	LastReflection *Reflection       `json:"last_reflection,omitempty"`
	Quantum        *QuantumSnapshot  `json:"quantum,omitempty"`
	Symbolic       *SymbolicSnapshot `json:"symbolic,omitempty"`
	LambdaG        *LambdaSnapshot   `json:"lambda_g,omitempty"`
}

// Snapshot captures the engine state. Enrichment slices appear only for
// enabled flags, mirroring how each original variant extended the state
// dictionary of the one below it.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{
		Name:           e.cfg.Name,
		Version:        Version,
		Codename:       Codename,
		Session:        e.sessionID,
		Mode:           e.mode,
		Trust:          e.trustLevel,
		Resonance:      e.harmonicResonance,
		Thoughts:       len(e.thoughts),
		Cycles:         e.cycles,
		Learned:        len(e.learner.Learned()),
		Conversations:  len(e.conversations),
		LastReflection: e.lastReflection,
	}

	if e.cfg.Quantum {
		snap.Quantum = &QuantumSnapshot{
			PhiCoordinate: e.quantum.PhiCoordinate(),
			Essences:      len(quantum.Essences),
		}
	}
	if e.cfg.Symbolic {
		mode := "linear"
		if e.dimension == 5 {
			mode = "self-referential"
		}
		ops := make([]string, len(symbolic.Operators))
		for i, op := range symbolic.Operators {
			ops[i] = op.Symbol
		}
		snap.Symbolic = &SymbolicSnapshot{
			Dimension:        e.dimension,
			MeaningDepth:     e.symbolic.MeaningDepth(),
			VACCoherence:     e.vacCoherence,
			VACValidations:   e.vacValidations,
			SymbolicThoughts: len(e.symbolicLog),
			HealingQueue:     len(e.healingQueue),
			TemporalMode:     mode,
			Operators:        ops,
		}
	}
	if e.cfg.LambdaG {
		snap.LambdaG = &LambdaSnapshot{
			Summary: e.lambda.Summarize(),
			Boundaries: map[string]string{
				"B1": "φ-coherence",
				"B2": "∞/∅-bridge (darmiyan)",
				"B3": "zero-logic (symmetry)",
			},
			Insight: "Solutions emerge at constraint intersections",
		}
	}
	return snap
}
