// Package quantum processes thoughts as superpositions over a fixed table
// of pattern essences. Text is mapped to a complex wave function with
// golden-ratio phase modulation, then collapsed to the dominant essence
// for response generation. Adapted from the QUANTUM-REPL lineage.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
	"time"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// GoldenRatio drives phase modulation and word-signature mapping.
	GoldenRatio = 1.618033988749895

	// Planck is carried for the physics dressing; nothing downstream
	// consumes it beyond reporting.
	Planck = 6.62607015e-34
)

// Essence pairs a named essence with its 5-bit pattern. The table order is
// load-bearing: word signatures index into it, so reordering entries
// changes which essence a word lands on.
type Essence struct {
	Name    string
	Pattern string
}

// Essences is the fixed table. Patterns are unique across the table.
var Essences = []Essence{
	// Growth and expansion
	{"growth", "10101"},
	{"expansion", "10001"},
	{"divergence", "10100"},

	// Connection and synthesis
	{"connection", "11010"},
	{"synthesis", "11011"},
	{"convergence", "11000"},
	{"integration", "11110"},

	// Balance and harmony
	{"balance", "01011"},
	{"harmony", "01010"},

	// Distribution and sharing
	{"distribution", "10111"},
	{"sharing", "10110"},

	// Cycling and return
	{"cycling", "01100"},
	{"return", "01101"},

	// Emergence and presence
	{"present", "11101"},
	{"emergence", "11001"},
	{"dissolution", "00101"},
}

// essenceByPattern reverses the table for collapse reporting.
var essenceByPattern = func() map[string]string {
	m := make(map[string]string, len(Essences))
	for _, e := range Essences {
		m[e.Pattern] = e.Name
	}
	return m
}()

// ============================================================================
// WAVE FUNCTION
// ============================================================================

// WaveFunction maps each essence pattern to a complex amplitude.
type WaveFunction map[string]complex128

// State is one essence's share of a wave function.
type State struct {
	Pattern     string  `json:"pattern"`
	Probability float64 `json:"probability"`
	Phase       float64 `json:"phase"`
	Real        float64 `json:"real"`
	Imag        float64 `json:"imag"`
}

// Collapsed is the classical state a wave function collapses to.
type Collapsed struct {
	Pattern     string  `json:"pattern"`
	Essence     string  `json:"essence"`
	Probability float64 `json:"probability"`
	Amplitude   float64 `json:"amplitude"`
	Phase       float64 `json:"phase"`
}

// Result bundles one full quantum processing pass.
type Result struct {
	Input         string    `json:"input"`
	Wave          []State   `json:"wave_function"`
	Entanglement  []string  `json:"entanglement"`
	Collapsed     Collapsed `json:"collapsed_state"`
	Timestamp     time.Time `json:"timestamp"`
	PhiCoordinate int64     `json:"phi_coordinate"`
}

// ============================================================================
// PROCESSOR
// ============================================================================

// Processor holds the resident superposition and the φ-coordinate captured
// at construction. Methods that take an explicit WaveFunction are pure;
// the resident wave only changes through Absorb.
type Processor struct {
	phiCoordinate int64
	wave          WaveFunction
}

// NewProcessor starts in equal superposition across all essences.
func NewProcessor() *Processor {
	return &Processor{
		phiCoordinate: int64(float64(time.Now().Unix()) * GoldenRatio),
		wave:          initialWave(),
	}
}

func initialWave() WaveFunction {
	amp := complex(1.0/math.Sqrt(float64(len(Essences))), 0)
	wf := make(WaveFunction, len(Essences))
	for _, e := range Essences {
		wf[e.Pattern] = amp
	}
	return wf
}

func zeroWave() WaveFunction {
	wf := make(WaveFunction, len(Essences))
	for _, e := range Essences {
		wf[e.Pattern] = 0
	}
	return wf
}

// PhiCoordinate reports the temporal coordinate fixed at construction.
func (p *Processor) PhiCoordinate() int64 { return p.phiCoordinate }

// ProcessThought runs the full pass: wave function, entanglement scan,
// collapse.
func (p *Processor) ProcessThought(input string) Result {
	wf := p.WaveFunction(input)
	return Result{
		Input:         input,
		Wave:          States(wf),
		Entanglement:  Entangled(wf),
		Collapsed:     Collapse(wf),
		Timestamp:     time.Now(),
		PhiCoordinate: p.phiCoordinate,
	}
}

// Absorb folds input into the resident superposition and returns the
// updated wave.
func (p *Processor) Absorb(input string) WaveFunction {
	wf := p.WaveFunction(input)
	for pattern, amp := range wf {
		p.wave[pattern] += amp
	}
	p.wave = Normalize(p.wave)
	return p.wave
}

// Wave returns a copy of the resident superposition.
func (p *Processor) Wave() WaveFunction {
	out := make(WaveFunction, len(p.wave))
	for pattern, amp := range p.wave {
		out[pattern] = amp
	}
	return out
}

// WaveFunction computes the wave for a piece of text. Each token lands on
// one essence pattern and contributes e^{iθ} with θ spread across the
// token sequence and damped by 1/φ.
func (p *Processor) WaveFunction(text string) WaveFunction {
	tokens := strings.Fields(strings.ToLower(text))
	wf := zeroWave()
	if len(tokens) == 0 {
		return wf
	}

	for i, token := range tokens {
		pattern := MapWord(token)
		phase := 2 * math.Pi * float64(i) / float64(len(tokens)) * (1 / GoldenRatio)
		wf[pattern] += cmplx.Exp(complex(0, phase))
	}

	return Normalize(wf)
}

// MapWord maps a word onto an essence pattern via its harmonic signature:
// the sum of code points times the rune length, divided by the running
// product mod 1000 (floored to 1), scaled by φ and wrapped into the table.
func MapWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return Essences[0].Pattern
	}

	totalSum := 0
	product := 1
	for _, r := range runes {
		v := int(r)
		totalSum += v
		product = (product * v) % 1000
	}
	if product == 0 {
		product = 1
	}

	signature := float64(totalSum*len(runes)) / float64(product)
	index := int(math.Mod(signature*GoldenRatio, float64(len(Essences))))
	return Essences[index].Pattern
}

// Normalize scales amplitudes so probabilities sum to one. A near-zero
// wave is returned untouched.
func Normalize(wf WaveFunction) WaveFunction {
	sumSquared := 0.0
	for _, amp := range wf {
		sumSquared += real(amp)*real(amp) + imag(amp)*imag(amp)
	}
	if sumSquared < 1e-10 {
		return wf
	}

	norm := complex(1.0/math.Sqrt(sumSquared), 0)
	out := make(WaveFunction, len(wf))
	for pattern, amp := range wf {
		out[pattern] = amp * norm
	}
	return out
}

// Collapse picks the highest-probability pattern. Ties go to the earlier
// essence in table order, which keeps collapse deterministic.
func Collapse(wf WaveFunction) Collapsed {
	best := Essences[0].Pattern
	bestProb := -1.0
	for _, e := range Essences {
		prob := probability(wf[e.Pattern])
		if prob > bestProb {
			best = e.Pattern
			bestProb = prob
		}
	}

	name, ok := essenceByPattern[best]
	if !ok {
		name = "unknown"
	}
	amp := wf[best]
	return Collapsed{
		Pattern:     best,
		Essence:     name,
		Probability: bestProb,
		Amplitude:   cmplx.Abs(amp),
		Phase:       cmplx.Phase(amp),
	}
}

// Entangled lists essences holding more than 10% of the probability mass,
// formatted for display.
func Entangled(wf WaveFunction) []string {
	var entangled []string
	for _, e := range Essences {
		prob := probability(wf[e.Pattern])
		if prob > 0.1 {
			entangled = append(entangled, fmt.Sprintf("%s (%.2f%%)", e.Name, prob*100))
		}
	}
	return entangled
}

// States expands a wave function into per-essence states sorted by
// probability, highest first.
func States(wf WaveFunction) []State {
	states := make([]State, 0, len(Essences))
	for _, e := range Essences {
		amp := wf[e.Pattern]
		states = append(states, State{
			Pattern:     e.Pattern,
			Probability: probability(amp),
			Phase:       cmplx.Phase(amp),
			Real:        real(amp),
			Imag:        imag(amp),
		})
	}
	sort.SliceStable(states, func(i, j int) bool {
		return states[i].Probability > states[j].Probability
	})
	return states
}

// Resonance measures fidelity between two wave functions as the squared
// magnitude of their inner product.
func Resonance(a, b WaveFunction) float64 {
	var inner complex128
	for _, e := range Essences {
		inner += a[e.Pattern] * cmplx.Conj(b[e.Pattern])
	}
	return real(inner)*real(inner) + imag(inner)*imag(inner)
}

func probability(amp complex128) float64 {
	return real(amp)*real(amp) + imag(amp)*imag(amp)
}
