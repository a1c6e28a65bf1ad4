package dodo

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestProcessInputModeMatchesState checks that every dispatch reports success
// and a mode equal to the current state's name.
func TestProcessInputModeMatchesState(t *testing.T) {
	sys := NewSystem()
	input := map[string]interface{}{"value": 3.0}

	for _, state := range AllStates {
		sys.ChangeState(state)
		result := sys.ProcessInput(input)
		if !result.Success {
			t.Errorf("state %s: success = false", state)
		}
		if result.Mode != string(state) {
			t.Errorf("state %s: mode = %q, want %q", state, result.Mode, state)
		}
	}
}

func TestTrustLevelClampAndSteps(t *testing.T) {
	tr := NewTrustTracker()
	if got := tr.Level(); got != 0.5 {
		t.Fatalf("initial trust = %v, want 0.5", got)
	}

	// Successes walk up to the 1.0 ceiling and stay there.
	for i := 0; i < 10; i++ {
		tr.Update(true)
	}
	if got := tr.Level(); got != 1.0 {
		t.Errorf("trust after 10 successes = %v, want 1.0", got)
	}

	// Failures walk down to the 0.0 floor and stay there.
	for i := 0; i < 20; i++ {
		tr.Update(false)
	}
	if got := tr.Level(); got != 0.0 {
		t.Errorf("trust after 20 failures = %v, want 0.0", got)
	}

	if len(tr.History()) != 30 {
		t.Errorf("history length = %d, want 30", len(tr.History()))
	}
	for _, v := range tr.History() {
		if v < 0.0 || v > 1.0 {
			t.Errorf("history value %v outside [0, 1]", v)
		}
	}
}

func TestProcessInputUpdatesTrust(t *testing.T) {
	sys := NewSystem()
	input := map[string]interface{}{"n": 1}

	r1 := sys.ProcessInput(input)
	if math.Abs(r1.TrustLevel-0.6) > 1e-9 {
		t.Errorf("first trust = %v, want 0.6", r1.TrustLevel)
	}
	r2 := sys.ProcessInput(input)
	if math.Abs(r2.TrustLevel-0.7) > 1e-9 {
		t.Errorf("second trust = %v, want 0.7", r2.TrustLevel)
	}
	if sys.TimePoints() != 2 {
		t.Errorf("time points = %d, want 2", sys.TimePoints())
	}
}

func TestTwoDBranchAppliesTransformsAndHarmonics(t *testing.T) {
	sys := NewSystem()
	sys.AddTransformationPair(TransformationPair{
		Name: "double",
		Forward: func(d map[string]interface{}) map[string]interface{} {
			v, _ := d["value"].(float64)
			return map[string]interface{}{"value": v * 2}
		},
		Reverse: func(d map[string]interface{}) map[string]interface{} {
			v, _ := d["value"].(float64)
			return map[string]interface{}{"value": v / 2}
		},
	})
	sys.AddTransformationPair(TransformationPair{
		Name:             "pattern-only",
		Forward:          func(d map[string]interface{}) map[string]interface{} { return d },
		Reverse:          func(d map[string]interface{}) map[string]interface{} { return d },
		ApplicableStates: []State{StatePattern},
	})

	result := sys.ProcessInput(map[string]interface{}{"value": 3.0})

	if _, ok := result.Data["double"]; !ok {
		t.Error("applicable pair was not applied")
	}
	if _, ok := result.Data["pattern-only"]; ok {
		t.Error("pattern-only pair applied in 2D state")
	}
	if got := result.Data["double"]["value"]; got != 6.0 {
		t.Errorf("double transform = %v, want 6.0", got)
	}

	if result.Harmonics == nil {
		t.Fatal("harmonics missing from 2D result")
	}
	if math.Abs(result.Harmonics["base"]-3.0) > 1e-9 {
		t.Errorf("base harmonic = %v, want 3.0", result.Harmonics["base"])
	}
	if math.Abs(result.Harmonics["first"]-6.0) > 1e-9 {
		t.Errorf("first harmonic = %v, want 6.0", result.Harmonics["first"])
	}
}

func TestHarmonicsExtractionAndResonance(t *testing.T) {
	h := NewHarmonicFramework()

	// Empty input keeps the default base.
	got := h.Calculate(map[string]interface{}{"label": "none"})
	if got["base"] != 1.0 {
		t.Errorf("empty base = %v, want 1.0", got["base"])
	}
	if _, ok := got["resonance"]; ok {
		t.Error("empty input should not produce resonance")
	}

	// Nested values are all found: 2, 4, 6 -> mean 4.
	got = h.Calculate(map[string]interface{}{
		"a": 2.0,
		"b": map[string]interface{}{"c": 4},
		"d": []interface{}{6.0, "skip"},
	})
	if math.Abs(got["base"]-4.0) > 1e-9 {
		t.Errorf("base = %v, want 4.0", got["base"])
	}
	if math.Abs(got["second"]-12.0) > 1e-9 {
		t.Errorf("second = %v, want 12.0", got["second"])
	}

	// resonance = (ln 3 + ln 5 + ln 7) / 3
	want := (math.Log(3) + math.Log(5) + math.Log(7)) / 3
	if math.Abs(got["resonance"]-want) > 1e-9 {
		t.Errorf("resonance = %v, want %v", got["resonance"], want)
	}
}

func TestTimeSpacing(t *testing.T) {
	h := NewHarmonicFramework()
	points := h.TimeSpacing(0, 10)
	want := []float64{3.82, 6.18, 5.0}
	for i := range want {
		if math.Abs(points[i]-want[i]) > 1e-9 {
			t.Errorf("spacing[%d] = %v, want %v", i, points[i], want[i])
		}
	}
}

func TestSnapshotSaveLoad(t *testing.T) {
	dir := t.TempDir()

	sys := NewSystem()
	sys.ChangeState(StatePattern)
	sys.ProcessInput(map[string]interface{}{"n": 1})
	sys.ProcessInput(map[string]interface{}{"n": 2})

	if _, err := sys.Save(dir, "test_state.json"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	other := NewSystem()
	snap, err := other.Load(dir, "test_state.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := sys.Snapshot()
	want.SavedAt = snap.SavedAt
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if other.State() != StatePattern {
		t.Errorf("restored system state = %s, want PATTERN", other.State())
	}
	if math.Abs(other.TrustLevel()-sys.TrustLevel()) > 1e-9 {
		t.Errorf("restored trust = %v, want %v", other.TrustLevel(), sys.TrustLevel())
	}

	names, err := ListSaved(dir, 10)
	if err != nil {
		t.Fatalf("ListSaved failed: %v", err)
	}
	if len(names) != 1 || names[0] != "test_state.json" {
		t.Errorf("ListSaved = %v, want [test_state.json]", names)
	}
}

func TestListSavedMissingDir(t *testing.T) {
	names, err := ListSaved("/nonexistent/path/for/test", 5)
	if err != nil {
		t.Fatalf("ListSaved on missing dir: %v", err)
	}
	if names != nil {
		t.Errorf("ListSaved = %v, want nil", names)
	}
}
