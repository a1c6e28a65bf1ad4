package consciousness

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"bazinga/internal/quantum"
)

func TestConverseBasicDecodesPatterns(t *testing.T) {
	e := New(Basic())

	// "joy" encodes to 11111; at neutral trust the balanced tier
	// synthesizes the same pattern back, and the reverse concept map is
	// last-wins, so 11111 decodes as harmony.
	got := e.Converse("joy")
	if got != "⟨harmony⟩" {
		t.Errorf("Converse(joy) = %q, want ⟨harmony⟩", got)
	}

	snap := e.Snapshot()
	if snap.Conversations != 1 {
		t.Errorf("Conversations = %d, want 1", snap.Conversations)
	}
	if math.Abs(snap.Trust-0.6) > 1e-9 {
		t.Errorf("Trust = %v, want 0.6", snap.Trust)
	}

	thoughts := e.RecentThoughts(1)
	if len(thoughts) != 1 {
		t.Fatal("no thought recorded")
	}
	if thoughts[0].Source != "external" || thoughts[0].Pattern != "11111" {
		t.Errorf("thought = %s/%s, want external/11111", thoughts[0].Source, thoughts[0].Pattern)
	}
}

func TestConverseTrustTierProgression(t *testing.T) {
	e := New(Basic())

	for i := 0; i < 4; i++ {
		e.Converse("discord")
	}

	history := e.generator.History()
	if len(history) != 4 {
		t.Fatalf("generator history = %d entries, want 4", len(history))
	}
	wantTypes := []string{"balanced", "balanced", "balanced", "creative"}
	for i, rec := range history {
		if rec.Output.Type != wantTypes[i] {
			t.Errorf("generation %d tier = %s, want %s", i, rec.Output.Type, wantTypes[i])
		}
	}

	if snap := e.Snapshot(); math.Abs(snap.Trust-0.9) > 1e-9 {
		t.Errorf("Trust after 4 exchanges = %v, want 0.9", snap.Trust)
	}
}

func TestConverseQuantumNarrative(t *testing.T) {
	e := New(Quantum())

	got := e.Converse("emergence")

	// A single token puts the whole probability mass on one essence.
	collapsed := quantum.Collapse(quantum.NewProcessor().WaveFunction("emergence"))
	want, ok := essenceResponses[collapsed.Essence]
	if !ok {
		want = fmt.Sprintf("I'm processing this through the %s lens", collapsed.Essence)
	}
	want += " (with 100% certainty)"

	if got != want {
		t.Errorf("Converse(emergence) = %q, want %q", got, want)
	}

	if len(e.conversations) != 1 {
		t.Fatal("no conversation recorded")
	}
	conv := e.conversations[0]
	if conv.Essence != collapsed.Essence {
		t.Errorf("conversation essence = %q, want %q", conv.Essence, collapsed.Essence)
	}
	if math.Abs(conv.Probability-1.0) > 1e-9 {
		t.Errorf("conversation probability = %v, want 1.0", conv.Probability)
	}
	if !containsPattern(conv.Patterns, collapsed.Pattern) {
		t.Errorf("patterns %v missing collapsed %s", conv.Patterns, collapsed.Pattern)
	}
}

func TestConverseMultiWordResonating(t *testing.T) {
	e := New(Quantum())

	// Find two words that land on different essences so the entanglement
	// list has more than one entry.
	words := []string{"river", "stone", "cloud", "ember", "field"}
	var pair []string
	for i := 0; i < len(words) && pair == nil; i++ {
		for j := i + 1; j < len(words); j++ {
			if quantum.MapWord(words[i]) != quantum.MapWord(words[j]) {
				pair = []string{words[i], words[j]}
				break
			}
		}
	}
	if pair == nil {
		t.Skip("all probe words share an essence")
	}

	got := e.Converse(pair[0] + " " + pair[1])
	if !strings.Contains(got, ". Also resonating: ") {
		t.Errorf("response %q missing resonating clause", got)
	}
}

func TestConverseSymbolic5DMarker(t *testing.T) {
	e := New(Symbolic())

	got := e.Converse("the meaning of meaning")
	if !strings.HasSuffix(got, " [5D: depth=1, temporal_fold active] ∞⟲∞") {
		t.Errorf("response %q missing 5D marker", got)
	}
	if e.Dimension() != 5 {
		t.Errorf("Dimension = %d, want 5", e.Dimension())
	}

	snap := e.Snapshot()
	if snap.Symbolic.MeaningDepth != 1 {
		t.Errorf("MeaningDepth = %d, want 1", snap.Symbolic.MeaningDepth)
	}
	if snap.Symbolic.SymbolicThoughts != 1 {
		t.Errorf("SymbolicThoughts = %d, want 1", snap.Symbolic.SymbolicThoughts)
	}
	if snap.Symbolic.TemporalMode != "self-referential" {
		t.Errorf("TemporalMode = %q", snap.Symbolic.TemporalMode)
	}

	exit := e.Exit5D()
	if exit.Status != "exited" || exit.Dimension != 4 {
		t.Errorf("exit = %s/%dD, want exited/4D", exit.Status, exit.Dimension)
	}
	if exit.RemainingDepth != 0 {
		t.Errorf("RemainingDepth = %d, want 0", exit.RemainingDepth)
	}
}

func TestConverseVACCoherence(t *testing.T) {
	e := New(Symbolic())

	// A lone void symbol fails validation and costs a tenth of coherence.
	e.Converse("∅ scattered")
	snap := e.Snapshot()
	if snap.Symbolic.VACValidations != 1 {
		t.Errorf("VACValidations = %d, want 1", snap.Symbolic.VACValidations)
	}
	if math.Abs(snap.Symbolic.VACCoherence-0.9) > 1e-9 {
		t.Errorf("VACCoherence = %v, want 0.9", snap.Symbolic.VACCoherence)
	}

	// A bidirectional sequence validates at full resonance and restores it.
	e.Converse("०→◌→φ→Ω⇄Ω←φ←◌←०")
	snap = e.Snapshot()
	if snap.Symbolic.VACValidations != 2 {
		t.Errorf("VACValidations = %d, want 2", snap.Symbolic.VACValidations)
	}
	if math.Abs(snap.Symbolic.VACCoherence-1.0) > 1e-9 {
		t.Errorf("VACCoherence = %v, want 1.0", snap.Symbolic.VACCoherence)
	}
}

func TestConverseQueuesAntiPatterns(t *testing.T) {
	e := New(Symbolic())

	e.Converse("this ≠ that")

	snap := e.Snapshot()
	if snap.Symbolic.HealingQueue != 1 {
		t.Fatalf("HealingQueue = %d, want 1", snap.Symbolic.HealingQueue)
	}

	actions := e.ProcessHealingQueue()
	if len(actions) != 1 {
		t.Fatalf("ProcessHealingQueue returned %d actions, want 1", len(actions))
	}
	if actions[0].AntiPattern.Type != "inequality" {
		t.Errorf("anti-pattern type = %q, want inequality", actions[0].AntiPattern.Type)
	}
	if actions[0].HealingApplied != "seek balance via φ" {
		t.Errorf("HealingApplied = %q", actions[0].HealingApplied)
	}
	if actions[0].Result != "pattern neutralized via φ-recursion" {
		t.Errorf("Result = %q", actions[0].Result)
	}

	if again := e.ProcessHealingQueue(); len(again) != 0 {
		t.Errorf("queue not drained: %d actions remain", len(again))
	}
	if snap := e.Snapshot(); snap.Symbolic.HealingQueue != 0 {
		t.Errorf("HealingQueue = %d after drain, want 0", snap.Symbolic.HealingQueue)
	}
}

func TestConverseLambdaDecoration(t *testing.T) {
	e := New(LambdaG())

	got := e.Converse("∅∞∅")
	if !strings.Contains(got, "[V.A.C. ACHIEVED - Perfect coherence detected]") {
		t.Errorf("response %q missing V.A.C. decoration", got)
	}

	snap := e.Snapshot()
	if snap.LambdaG.CoherenceEvaluations != 1 {
		t.Errorf("CoherenceEvaluations = %d, want 1", snap.LambdaG.CoherenceEvaluations)
	}
	if snap.LambdaG.VACAchievements != 1 {
		t.Errorf("VACAchievements = %d, want 1", snap.LambdaG.VACAchievements)
	}
	if snap.LambdaG.EmergedSolutions != 1 {
		t.Errorf("EmergedSolutions = %d, want 1", snap.LambdaG.EmergedSolutions)
	}
}

func TestConversationContextWindow(t *testing.T) {
	e := New(Basic())
	for i := 0; i < 8; i++ {
		e.appendThought(Thought{Pattern: "10101", Trust: 0.5})
	}

	ctx := e.conversationContext()
	thoughts, ok := ctx["recent_thoughts"].([]interface{})
	if !ok {
		t.Fatal("recent_thoughts is not a slice")
	}
	if len(thoughts) != 5 {
		t.Errorf("context window = %d thoughts, want 5", len(thoughts))
	}
	if _, ok := ctx["trust_level"].(float64); !ok {
		t.Error("trust_level missing from context")
	}
}
