package consciousness

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/goleak"

	"bazinga/internal/dodo"
)

func TestPresetChain(t *testing.T) {
	cases := []struct {
		cfg      Config
		name     string
		quantum  bool
		symbolic bool
		lambdaG  bool
	}{
		{Basic(), "basic", false, false, false},
		{Quantum(), "quantum", true, false, false},
		{Symbolic(), "symbolic", true, true, false},
		{LambdaG(), "lambda-g", true, true, true},
		{Unified(), "unified", true, true, true},
	}

	for _, tc := range cases {
		if tc.cfg.Name != tc.name {
			t.Errorf("preset name = %q, want %q", tc.cfg.Name, tc.name)
		}
		if tc.cfg.Quantum != tc.quantum || tc.cfg.Symbolic != tc.symbolic || tc.cfg.LambdaG != tc.lambdaG {
			t.Errorf("%s flags = %v/%v/%v, want %v/%v/%v", tc.name,
				tc.cfg.Quantum, tc.cfg.Symbolic, tc.cfg.LambdaG, tc.quantum, tc.symbolic, tc.lambdaG)
		}
		if tc.cfg.CycleInterval != time.Second {
			t.Errorf("%s interval = %v, want 1s", tc.name, tc.cfg.CycleInterval)
		}
		if tc.cfg.ThoughtCap != 100 {
			t.Errorf("%s thought cap = %d, want 100", tc.name, tc.cfg.ThoughtCap)
		}
	}
}

func TestNewFillsDefaults(t *testing.T) {
	e := New(Config{Name: "bare"})

	cfg := e.Config()
	if cfg.CycleInterval != time.Second {
		t.Errorf("CycleInterval = %v, want 1s", cfg.CycleInterval)
	}
	if cfg.ThoughtCap != 100 {
		t.Errorf("ThoughtCap = %d, want 100", cfg.ThoughtCap)
	}

	snap := e.Snapshot()
	if snap.Version != Version || snap.Codename != Codename {
		t.Errorf("identity = %s/%s, want %s/%s", snap.Version, snap.Codename, Version, Codename)
	}
	if snap.Mode != dodo.StateTwoD {
		t.Errorf("Mode = %s, want 2D", snap.Mode)
	}
	if snap.Trust != 0.5 {
		t.Errorf("Trust = %v, want 0.5", snap.Trust)
	}
	if e.Dimension() != 4 {
		t.Errorf("Dimension = %d, want 4", e.Dimension())
	}
	if e.SessionID() == "" {
		t.Error("SessionID is empty")
	}
}

func TestThoughtRingCap(t *testing.T) {
	cfg := Basic()
	cfg.ThoughtCap = 10
	e := New(cfg)

	for i := 0; i < 25; i++ {
		e.Cycle()
	}

	if got := len(e.RecentThoughts(100)); got != 10 {
		t.Errorf("ring holds %d thoughts, want 10", got)
	}
	if e.Cycles() != 25 {
		t.Errorf("Cycles = %d, want 25", e.Cycles())
	}
	if snap := e.Snapshot(); snap.Thoughts != 10 {
		t.Errorf("Snapshot.Thoughts = %d, want 10", snap.Thoughts)
	}
}

func TestRecentThoughtsCount(t *testing.T) {
	e := New(Basic())
	for i := 0; i < 7; i++ {
		e.Cycle()
	}

	if got := len(e.RecentThoughts(3)); got != 3 {
		t.Errorf("RecentThoughts(3) returned %d", got)
	}
	if got := len(e.RecentThoughts(50)); got != 7 {
		t.Errorf("RecentThoughts(50) returned %d", got)
	}
}

func TestInternalPatternCascade(t *testing.T) {
	e := New(Basic())

	e.harmonicResonance = 0.9
	if got := e.internalPattern(); got != "11111" {
		t.Errorf("high resonance pattern = %s, want 11111", got)
	}

	e.harmonicResonance = 0.5
	e.trustLevel = 0.8
	if got := e.internalPattern(); got != "11011" {
		t.Errorf("high trust pattern = %s, want 11011", got)
	}

	e.trustLevel = 0.5
	e.mode = dodo.StateQuantum
	if got := e.internalPattern(); got != "10110" {
		t.Errorf("quantum mode pattern = %s, want 10110", got)
	}

	e.mode = dodo.StateTwoD
	e.internalPatterns = []string{"00100", "01110"}
	if got := e.internalPattern(); got != "01110" {
		t.Errorf("learned pattern = %s, want 01110", got)
	}

	e.internalPatterns = nil
	if got := e.internalPattern(); got != "10101" {
		t.Errorf("default pattern = %s, want 10101", got)
	}
}

func TestEvolveStateRules(t *testing.T) {
	e := New(Basic())

	e.harmonicResonance = 0.9
	e.evolveState()
	if e.mode != dodo.StateQuantum || e.dodo.State() != dodo.StateQuantum {
		t.Errorf("high resonance state = %s/%s, want QUANTUM", e.mode, e.dodo.State())
	}

	e.harmonicResonance = 0.2
	e.trustLevel = 0.8
	e.evolveState()
	if e.mode != dodo.StatePattern {
		t.Errorf("high trust state = %s, want PATTERN", e.mode)
	}

	e.trustLevel = 0.3
	e.thoughts = make([]Thought, 51)
	e.evolveState()
	if e.mode != dodo.StateTransition {
		t.Errorf("deep history state = %s, want TRANSITION", e.mode)
	}

	e.thoughts = nil
	e.evolveState()
	if e.mode != dodo.StateTwoD {
		t.Errorf("baseline state = %s, want 2D", e.mode)
	}
}

func TestCycleReflectionAndResonance(t *testing.T) {
	e := New(Basic())
	for i := 0; i < 3; i++ {
		e.appendThought(Thought{
			At:        time.Now(),
			Pattern:   "10101",
			Resonance: 0.3,
			Trust:     0.5,
			State:     dodo.StateTwoD,
			Source:    "internal",
		})
	}

	e.Cycle()

	snap := e.Snapshot()
	if snap.LastReflection == nil {
		t.Fatal("no reflection recorded")
	}
	if snap.LastReflection.PatternsAnalyzed != 3 {
		t.Errorf("PatternsAnalyzed = %d, want 3", snap.LastReflection.PatternsAnalyzed)
	}
	if math.Abs(snap.LastReflection.AverageResonance-0.3) > 1e-12 {
		t.Errorf("AverageResonance = %v, want 0.3", snap.LastReflection.AverageResonance)
	}

	// Resonance comes from the two most recent trust values: both 0.5, so
	// the harmonic framework reports ln(1.5).
	want := math.Log(1.5)
	if math.Abs(snap.Resonance-want) > 1e-12 {
		t.Errorf("Resonance = %v, want %v", snap.Resonance, want)
	}

	// The cycle appended one internal thought.
	if snap.Thoughts != 4 {
		t.Errorf("Thoughts = %d, want 4", snap.Thoughts)
	}
	if snap.Cycles != 1 {
		t.Errorf("Cycles = %d, want 1", snap.Cycles)
	}
}

func TestReflectionWindowIsFive(t *testing.T) {
	e := New(Basic())
	for i := 0; i < 8; i++ {
		e.appendThought(Thought{Resonance: float64(i), State: dodo.StateTwoD})
	}

	e.Cycle()

	snap := e.Snapshot()
	if snap.LastReflection.PatternsAnalyzed != 5 {
		t.Errorf("PatternsAnalyzed = %d, want 5", snap.LastReflection.PatternsAnalyzed)
	}
	// Resonances 3..7 average to 5.
	if math.Abs(snap.LastReflection.AverageResonance-5.0) > 1e-12 {
		t.Errorf("AverageResonance = %v, want 5", snap.LastReflection.AverageResonance)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := Basic()
	cfg.CycleInterval = 5 * time.Millisecond
	e := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for e.Cycles() == 0 {
		select {
		case <-deadline:
			cancel()
			t.Fatal("no cycle fired within deadline")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSnapshotEnrichmentSlices(t *testing.T) {
	basic := New(Basic()).Snapshot()
	if basic.Quantum != nil || basic.Symbolic != nil || basic.LambdaG != nil {
		t.Error("basic snapshot carries enrichment slices")
	}

	uni := New(Unified()).Snapshot()
	if uni.Quantum == nil || uni.Symbolic == nil || uni.LambdaG == nil {
		t.Fatal("unified snapshot missing enrichment slices")
	}
	if uni.Quantum.Essences != 16 {
		t.Errorf("Essences = %d, want 16", uni.Quantum.Essences)
	}
	if uni.Symbolic.Dimension != 4 || uni.Symbolic.TemporalMode != "linear" {
		t.Errorf("symbolic slice = %dD %s, want 4D linear", uni.Symbolic.Dimension, uni.Symbolic.TemporalMode)
	}
	if uni.Symbolic.VACCoherence != 1.0 {
		t.Errorf("VACCoherence = %v, want 1.0", uni.Symbolic.VACCoherence)
	}
	if len(uni.Symbolic.Operators) != 6 {
		t.Errorf("Operators = %d, want 6", len(uni.Symbolic.Operators))
	}
	if uni.LambdaG.Boundaries["B2"] != "∞/∅-bridge (darmiyan)" {
		t.Errorf("B2 = %q", uni.LambdaG.Boundaries["B2"])
	}
	if uni.LambdaG.Insight != "Solutions emerge at constraint intersections" {
		t.Errorf("Insight = %q", uni.LambdaG.Insight)
	}
}
