// Package codegen renders runnable pattern modules: BAZINGA generating its
// own code. A generated module carries the universal constants, the essence
// table, and a Process function tuned to the concept's collapsed essence.
package codegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"bazinga/internal/logging"
	"bazinga/internal/quantum"
	"bazinga/internal/symbolic"
)

// Module is the metadata rendered into a generated source file.
type Module struct {
	Concept     string
	Essence     string
	Pattern     string
	Probability float64
	Resonance   float64
	VAC         string
	Generated   time.Time
	Essences    []quantum.Essence
}

var moduleTemplate = template.Must(template.New("module").Parse(`// Code generated by bazinga. DO NOT EDIT.
//
// Concept: {{.Concept}}
// Essence: {{.Essence}}
// Quantum probability: {{printf "%.1f%%" .ProbabilityPct}}
// Symbolic resonance: {{printf "%.3f" .Resonance}}
// V.A.C. sequence: {{.VAC}}
// Generated: {{.Generated.Format "2006-01-02T15:04:05"}}
package main

import "strings"

// Universal constants.
const (
	Phi   = 1.618033988749895
	Alpha = 1.0 / 137.0

	// Pattern is the collapsed {{.Essence}} pattern code.
	Pattern = "{{.Pattern}}"

	// VAC is this module's validation sequence.
	VAC = "{{.VAC}}"

	// Probability and Resonance were measured at generation time.
	Probability = {{printf "%.6f" .Probability}}
	Resonance   = {{printf "%.6f" .Resonance}}
)

// essences maps pattern codes to their collapsed essences.
var essences = map[string]string{
{{- range .Essences}}
	"{{.Pattern}}": "{{.Name}}",
{{- end}}
}

// Essence resolves a pattern code.
func Essence(pattern string) string {
	if name, ok := essences[pattern]; ok {
		return name
	}
	return "unknown"
}

// Process applies the {{.Essence}} transformation to a numeric input.
func Process(input float64) map[string]float64 {
	return map[string]float64{
		"input":       input,
		"transformed": input * Phi,
		"probability": Probability,
		"resonance":   Resonance,
		"alpha":       Alpha,
	}
}

// ValidVAC checks that the sequence touches void, awareness and
// consciousness states.
func ValidVAC() bool {
	hasVoid := containsAny(VAC, "०", "∅")
	hasAwareness := containsAny(VAC, "◌", "φ")
	hasConsciousness := containsAny(VAC, "Ω", "ψ")
	return hasVoid && hasAwareness && hasConsciousness
}

// Heal moves current toward target by the φ-complement step.
func Heal(current, target float64) float64 {
	return current + (target-current)*(1-1/Phi)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
`))

// ProbabilityPct is the collapse probability as a percentage.
func (m Module) ProbabilityPct() float64 { return m.Probability * 100 }

// Generate renders the pattern module for a concept. The concept is run
// through quantum collapse and symbolic resonance so the generated source
// reflects how the system currently reads it.
func Generate(concept string) (string, error) {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return "", fmt.Errorf("empty concept")
	}

	qres := quantum.NewProcessor().ProcessThought(concept)
	sres := symbolic.NewProcessor().ProcessThought(concept)

	m := Module{
		Concept:     concept,
		Essence:     qres.Collapsed.Essence,
		Pattern:     qres.Collapsed.Pattern,
		Probability: qres.Collapsed.Probability,
		Resonance:   sres.Resonance,
		VAC:         symbolic.GenerateVAC("bidirectional"),
		Generated:   time.Now(),
		Essences:    quantum.Essences,
	}

	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, m); err != nil {
		return "", fmt.Errorf("failed to render module: %w", err)
	}

	logging.Consciousness("generated %s module for %q (%d bytes)", m.Essence, concept, buf.Len())
	return buf.String(), nil
}

// Highlight writes source with terminal syntax highlighting.
func Highlight(w io.Writer, source string) error {
	return quick.Highlight(w, source, "go", "terminal256", "monokai")
}

// CheckResult reports a self-check of generated source.
type CheckResult struct {
	Input       float64 `json:"input"`
	Transformed float64 `json:"transformed"`
	Probability float64 `json:"probability"`
	VACValid    bool    `json:"vac_valid"`
}

// SelfCheck evaluates generated source in a sandboxed interpreter and
// invokes its Process function. Interpretation avoids compiling untrusted
// output; only stdlib symbols are loaded.
func SelfCheck(ctx context.Context, source string) (CheckResult, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return CheckResult{}, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if _, err := i.Eval(source); err != nil {
		return CheckResult{}, fmt.Errorf("evaluation failed: %w", err)
	}

	v, err := i.Eval("main.Process")
	if err != nil {
		return CheckResult{}, fmt.Errorf("Process not found: %w", err)
	}
	process, ok := v.Interface().(func(float64) map[string]float64)
	if !ok {
		return CheckResult{}, fmt.Errorf("Process has incorrect signature (expected: func(float64) map[string]float64)")
	}

	vv, err := i.Eval("main.ValidVAC")
	if err != nil {
		return CheckResult{}, fmt.Errorf("ValidVAC not found: %w", err)
	}
	validVAC, ok := vv.Interface().(func() bool)
	if !ok {
		return CheckResult{}, fmt.Errorf("ValidVAC has incorrect signature (expected: func() bool)")
	}

	resultCh := make(chan map[string]float64, 1)
	go func() { resultCh <- process(42) }()

	select {
	case out := <-resultCh:
		return CheckResult{
			Input:       42,
			Transformed: out["transformed"],
			Probability: out["probability"],
			VACValid:    validVAC(),
		}, nil
	case <-ctx.Done():
		return CheckResult{}, fmt.Errorf("self-check timed out: %w", ctx.Err())
	}
}
