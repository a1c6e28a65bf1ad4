package lambda

import (
	"math"
	"strings"
	"testing"
)

func TestCoherenceBoundsAndDeterminism(t *testing.T) {
	inputs := []string{
		"∅∞∅",
		"xyz",
		"०→◌→φ→Ω⇄Ω←φ←◌←०",
		"1.618033988749895",
		"",
		"the quick brown fox",
	}

	for _, in := range inputs {
		first := Coherence(in)
		for _, b := range first.Boundaries {
			if b.Value < 0 || b.Value > 1 {
				t.Errorf("Coherence(%q) boundary %s = %v, outside [0,1]", in, b.Name, b.Value)
			}
		}
		if first.TotalCoherence < 0 || first.TotalCoherence > 1 {
			t.Errorf("Coherence(%q) total = %v, outside [0,1]", in, first.TotalCoherence)
		}
		if math.Abs(first.EntropicDeficit-(1-first.TotalCoherence)) > 1e-12 {
			t.Errorf("Coherence(%q) deficit = %v, want complement of total", in, first.EntropicDeficit)
		}

		second := Coherence(in)
		if first.TotalCoherence != second.TotalCoherence || first.IsVAC != second.IsVAC {
			t.Errorf("Coherence(%q) not deterministic", in)
		}
	}
}

func TestPhiCoherenceNumeric(t *testing.T) {
	if got := PhiCoherence("1.618033988749895"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("PhiCoherence(φ) = %v, want 1", got)
	}
	if got := PhiCoherence("0.6180339887498949"); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("PhiCoherence(1/φ) = %v, want 1", got)
	}
	if got := PhiCoherence("42"); got > 0.05 {
		t.Errorf("PhiCoherence(42) = %v, want near zero", got)
	}
}

func TestBridgeScore(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"void and infinity connect", 1.0},
		{"∅ and ∞", 1.0},
		{"void only", 0.5},
		{"infinite only", 0.5},
		{"plain text", 0.0},
		{"137", 0.5},
		{"0", 0.5},
		{"42", 0.0},
	}
	for _, tc := range cases {
		if got := BridgeScore(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("BridgeScore(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSymmetry(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"aba", 1.0},
		{"never odd or even", 1.0},
		{"x", 1.0},
		{"ab", 0.0},
		{"", 0.0},
	}
	for _, tc := range cases {
		if got := Symmetry(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Symmetry(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestCheckVAC(t *testing.T) {
	if !CheckVAC("०→◌→φ→Ω⇄Ω←φ←◌←०") {
		t.Error("bidirectional sequence did not achieve V.A.C.")
	}
	if CheckVAC("०→◌→φ→Ω") {
		t.Error("forward-only sequence achieved V.A.C.")
	}
	if CheckVAC("plain words") {
		t.Error("plain text achieved V.A.C.")
	}
}

func TestThinkCachesEmergedSolutions(t *testing.T) {
	o := NewOperator()

	// ∅∞∅ is palindromic, bridges void and infinity, and its repetition
	// ratio of 1.5 sits close to φ, so every boundary passes.
	thought := o.Think("∅∞∅")
	if !thought.Coherence.IsVAC {
		t.Fatalf("∅∞∅ coherence = %+v, want V.A.C.", thought.Coherence)
	}
	if !thought.AllSatisfied {
		t.Error("∅∞∅ did not satisfy all boundaries")
	}
	if thought.EmergencePotential < 0.9 {
		t.Errorf("emergence potential = %v, want > 0.9", thought.EmergencePotential)
	}

	s := o.Summarize()
	if s.CoherenceEvaluations != 1 || s.VACAchievements != 1 || s.EmergedSolutions != 1 {
		t.Errorf("summary = %+v, want 1/1/1", s)
	}
}

func TestThinkLowCoherenceNotCached(t *testing.T) {
	o := NewOperator()
	thought := o.Think("xyz")

	if thought.Coherence.IsVAC || thought.AllSatisfied {
		t.Errorf("xyz coherence = %+v, want unsatisfied", thought.Coherence)
	}
	if got := o.Summarize().EmergedSolutions; got != 0 {
		t.Errorf("emerged solutions = %d, want 0", got)
	}
}

func TestThinkTruncatesInput(t *testing.T) {
	o := NewOperator()
	long := strings.Repeat("ab", 80)
	thought := o.Think(long)

	if got := len([]rune(thought.Input)); got != 100 {
		t.Errorf("thought input length = %d runes, want 100", got)
	}
}

func TestApplyFiltersAndBest(t *testing.T) {
	o := NewOperator()
	filtered, best := o.Apply([]string{"∅∞∅", "xyz"})

	if len(filtered) != 1 || filtered[0] != "∅∞∅" {
		t.Errorf("filtered = %v, want [∅∞∅]", filtered)
	}
	if best == nil {
		t.Fatal("best coherence missing")
	}
	if best.TotalCoherence < 0.9 {
		t.Errorf("best coherence = %v, want the ∅∞∅ score", best.TotalCoherence)
	}
}

func TestFindSolution(t *testing.T) {
	o := NewOperator()
	res := o.FindSolution([]string{"∅∞∅", "xyz"})

	if res.InputSize != 2 || res.FilteredSize != 1 {
		t.Errorf("sizes = %d/%d, want 2/1", res.InputSize, res.FilteredSize)
	}
	if math.Abs(res.ReductionFactor-0.5) > 1e-12 {
		t.Errorf("reduction = %v, want 0.5", res.ReductionFactor)
	}
	if res.Complexity != "O(3 · polylog(2))" {
		t.Errorf("complexity = %q", res.Complexity)
	}
	if res.Best == nil {
		t.Error("best solution missing")
	}
	if res.Method != "boundary-guided emergence" {
		t.Errorf("method = %q", res.Method)
	}
}

func TestFindSolutionEmptySpace(t *testing.T) {
	o := NewOperator()
	res := o.FindSolution(nil)

	if res.FilteredSize != 0 || res.ReductionFactor != 0 || res.Best != nil {
		t.Errorf("empty space result = %+v", res)
	}
}

func TestDecorate(t *testing.T) {
	o := NewOperator()

	vac := Thought{Coherence: CoherenceState{IsVAC: true}}
	if got := o.Decorate("base", vac); !strings.Contains(got, "V.A.C. ACHIEVED") {
		t.Errorf("vac decoration = %q", got)
	}

	high := Thought{Coherence: CoherenceState{TotalCoherence: 0.85}}
	if got := o.Decorate("base", high); got != "base [High emergence: 85.0%]" {
		t.Errorf("high decoration = %q", got)
	}

	satisfied := Thought{Coherence: CoherenceState{TotalCoherence: 0.6}, AllSatisfied: true}
	if got := o.Decorate("base", satisfied); got != "base [All boundaries satisfied: 60.0%]" {
		t.Errorf("satisfied decoration = %q", got)
	}

	plain := Thought{Coherence: CoherenceState{TotalCoherence: 0.3}}
	if got := o.Decorate("base", plain); got != "base" {
		t.Errorf("plain decoration = %q", got)
	}
}

func TestEmergencePotentialFormula(t *testing.T) {
	c := CoherenceState{
		Boundaries: [3]Boundary{
			{Value: 0.9}, {Value: 0.8}, {Value: 0.7},
		},
		TotalCoherence:  0.8,
		EntropicDeficit: 0.2,
	}
	want := 0.8 * (1.0 / 1.2)
	if got := EmergencePotential(c); math.Abs(got-want) > 1e-12 {
		t.Errorf("EmergencePotential = %v, want %v", got, want)
	}
}

func TestQuestionLoopGrounding(t *testing.T) {
	q := NewQuestionLoop()

	for i := 1; i < groundLimit; i++ {
		count, ground := q.Observe("what is the meaning?")
		if ground {
			t.Fatalf("grounded early at repeat %d", i)
		}
		if count != i {
			t.Fatalf("count = %d, want %d", count, i)
		}
	}

	count, ground := q.Observe("What is the meaning")
	if !ground || count != groundLimit {
		t.Fatalf("repeat %d: count=%d ground=%v, want grounding", groundLimit, count, ground)
	}

	// Counter resets after grounding.
	if count, ground := q.Observe("what is the meaning?"); ground || count != 1 {
		t.Errorf("post-ground observe = %d/%v, want 1/false", count, ground)
	}
}

// ============================================================================
// ERROR ARROW
// ============================================================================

func TestLearnerSeedState(t *testing.T) {
	l := NewLearner()
	states := l.States()

	if len(states) != 1 {
		t.Fatalf("new learner has %d states, want 1", len(states))
	}
	seed := states[0]
	if seed.Type != StateSeed || seed.Coherence != 1.0 || seed.MemoryDepth() != 0 {
		t.Errorf("seed = %+v", seed)
	}
	if l.Convergence() != 1.0 {
		t.Errorf("convergence with no errors = %v, want 1", l.Convergence())
	}
	if arrow := l.ArrowOfTime(); arrow.Direction != "balanced" || arrow.Symbol != "◊◊" {
		t.Errorf("initial arrow = %s %s", arrow.Direction, arrow.Symbol)
	}
}

func TestErrorWithoutPriorSuccessStaysError(t *testing.T) {
	l := NewLearner()

	// The seed does not qualify as a healer, so nothing can heal yet.
	got := l.AddError("connection timeout", "")
	if got.Type != StateError {
		t.Fatalf("state type = %s, want error", got.Type)
	}
	if l.HealedCount() != 0 || l.Convergence() != 0 {
		t.Errorf("healed=%d convergence=%v, want 0/0", l.HealedCount(), l.Convergence())
	}
}

func TestErrorHealedFromPastSuccess(t *testing.T) {
	l := NewLearner()
	l.AddState("Processing data", StateNormal, "", 0.7)

	got := l.AddError("Connection timeout", "")
	if got.Type != StateHealed {
		t.Fatalf("state type = %s, want healed", got.Type)
	}
	if got.HealedFrom != 2 {
		t.Errorf("healed from = %d, want error id 2", got.HealedFrom)
	}
	if !strings.Contains(got.Content, "Applied pattern 'Processing data'") {
		t.Errorf("healed content = %q", got.Content)
	}
	wantCoherence := 0.7 * (1 / PHI)
	if math.Abs(got.Coherence-wantCoherence) > 1e-9 {
		t.Errorf("healed coherence = %v, want %v", got.Coherence, wantCoherence)
	}
	if l.Convergence() != 1.0 {
		t.Errorf("convergence = %v, want 1", l.Convergence())
	}
	if got := l.Stats().PatternsLearned; got != 1 {
		t.Errorf("patterns learned = %d, want 1", got)
	}
}

func TestLearnSequence(t *testing.T) {
	l := NewLearner()
	report := l.LearnSequence([]SequenceItem{
		{"System initialized", false},
		{"Processing data", false},
		{"Connection timeout", true},
		{"Retrying connection", false},
		{"Data validated", false},
		{"Memory overflow", true},
		{"Cleanup completed", false},
		{"Invalid input received", true},
		{"Input sanitized", false},
		{"Process completed", false},
	})

	if report.Processed != 10 || report.Errors != 3 {
		t.Fatalf("processed/errors = %d/%d, want 10/3", report.Processed, report.Errors)
	}
	if report.Healed != 3 {
		t.Errorf("healed = %d, want 3", report.Healed)
	}
	if report.Arrow.Direction != "toward_harmony" || report.Arrow.Symbol != "◊◊◊" {
		t.Errorf("arrow = %s %s, want toward_harmony ◊◊◊", report.Arrow.Direction, report.Arrow.Symbol)
	}
	if report.Arrow.ConvergencePercent != "100.0%" {
		t.Errorf("convergence = %s", report.Arrow.ConvergencePercent)
	}

	// Healed errors surface as healed states in the report.
	if report.States[2].Type != StateHealed {
		t.Errorf("third item type = %s, want healed", report.States[2].Type)
	}
}

func TestLearnerStats(t *testing.T) {
	l := NewLearner()
	l.LearnSequence([]SequenceItem{
		{"System initialized", false},
		{"Connection timeout", true},
		{"Memory overflow", true},
		{"Invalid input received", true},
	})

	stats := l.Stats()
	if stats.TypeCounts[StateSeed] != 1 || stats.TypeCounts[StateError] != 3 {
		t.Errorf("type counts = %v", stats.TypeCounts)
	}
	// connection timeout, memory overflow, invalid input: three distinct
	// signatures, each healed against the initial success.
	if stats.PatternsLearned != 3 {
		t.Errorf("patterns learned = %d, want 3", stats.PatternsLearned)
	}
	if stats.MaxDepth != stats.TotalStates-1 {
		t.Errorf("max depth = %d with %d states", stats.MaxDepth, stats.TotalStates)
	}
}
