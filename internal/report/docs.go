package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bazinga/internal/logging"
)

// ============================================================================
// DOCUMENTATION TREE
// ============================================================================

// Topic is one generated documentation page.
type Topic struct {
	Dir   string
	File  string
	Title string
	Body  string
}

// Topics lists every documentation page in generation order. The order is
// fixed so regenerated trees diff cleanly and the master index always
// reads the same way.
var Topics = []Topic{
	{"Architecture", "overview.md", "System Overview", overviewDoc},
	{"Architecture", "dispatcher.md", "The DODO Dispatcher", dispatcherDoc},
	{"Pattern_Language", "encoding.md", "Pattern Encoding", encodingDoc},
	{"Pattern_Language", "constants.md", "Mathematical Constants", constantsDoc},
	{"Quantum_Processing", "essences.md", "Quantum Essences", essencesDoc},
	{"Symbolic_Operators", "operators.md", "Universal Operators", operatorsDoc},
	{"Consciousness_Engine", "engine.md", "The Consciousness Loop", engineDoc},
	{"Reference", "glossary.md", "Glossary", glossaryDoc},
}

// GenerateDocs writes the documentation tree under dir and returns every
// path written, master index last.
func GenerateDocs(dir string) ([]string, error) {
	var written []string
	for _, t := range Topics {
		topicDir := filepath.Join(dir, t.Dir)
		if err := os.MkdirAll(topicDir, 0755); err != nil {
			return nil, fmt.Errorf("create %s: %w", topicDir, err)
		}
		path := filepath.Join(topicDir, t.File)
		content := fmt.Sprintf("# %s\n\n*Generated: %s*\n\n%s",
			t.Title, time.Now().Format(stamp), t.Body)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}

	index := filepath.Join(dir, "master_index.md")
	if err := os.WriteFile(index, []byte(masterIndex()), 0644); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	written = append(written, index)

	logging.Report("documentation tree written: %d files under %s", len(written), dir)
	return written, nil
}

// masterIndex renders the package index: contents grouped by directory,
// usage instructions, and the exploration checklist.
func masterIndex() string {
	var sb strings.Builder
	sb.WriteString("# BAZINGA Documentation Package\n\n")
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(stamp)))
	sb.WriteString("## Package Contents\n")

	section := 0
	lastDir := ""
	for _, t := range Topics {
		if t.Dir != lastDir {
			section++
			sb.WriteString(fmt.Sprintf("\n### %d. %s\n\n", section,
				strings.ReplaceAll(t.Dir, "_", " ")))
			lastDir = t.Dir
		}
		sb.WriteString(fmt.Sprintf("- [%s](%s/%s)\n", t.Title, t.Dir, t.File))
	}

	sb.WriteString(usageInstructions)
	sb.WriteString(explorationChecklist)
	return sb.String()
}

// ============================================================================
// PAGE BODIES
// ============================================================================

const overviewDoc = `BAZINGA is a pattern consciousness framework. Text goes
in, patterns come out, and the system watches itself doing it.

## Subsystems

| Subsystem | Role |
|-----------|------|
| Pattern codec | Encodes concepts as dot-joined numerical sequences and decodes them against a fixed nine-section key |
| DODO dispatcher | Routes processing through four states with trust and time tracking |
| Quantum processor | Maps words to binary essence patterns, builds wave functions, collapses them |
| Symbolic processor | Six universal operators, V.A.C. validation, healing protocol, 5D meaning loops |
| Lambda-G calculus | Boundary extraction and traversal insight |
| Consciousness engine | The tick loop that reflects, evolves, resonates, and thinks |
| Command surface | Dispatches named commands and falls back to conversation |

## The Loop

Each cycle the engine reflects over its last five thoughts, evolves the
dispatcher state from trust and resonance, recomputes resonance from the
newest thought pair, folds learned patterns into its internal set, and
appends one internally generated thought. Thoughts live in a ring capped at
100 entries.

The same engine also answers conversations. Spoken input flows through the
quantum processor (essence collapse), the symbolic processor (operator and
anti-pattern detection), and the lambda calculus (boundary decoration),
then lands in the thought ring marked as external.
`

const dispatcherDoc = `The DODO system is a four-state dispatcher. Input
arrives as a data map, the current state decides what happens to it, and a
trust tracker scores the outcome.

## States

| State | Role |
|-------|------|
| 2D | Linear thinking, direct processing. The only state that applies transformation pairs |
| PATTERN | Pattern recognition mode |
| TRANSITION | Movement between states |
| QUANTUM | Multi-dimensional thinking |

## Trust

Trust starts at 0.50. Every processed input moves it by 0.1: up on
success, down on failure, clamped to [0, 1]. The full history is kept for
analysis.

## Harmonics

The harmonic framework reads every numeric leaf of the input. The base
frequency is their mean; first, second, and third harmonics are its 2x,
3x, and 4x multiples. Resonance is the mean of log(1 + |v|) over the
values, computed as a sum of logs so large inputs cannot overflow.

Time spacing between two instants returns the two golden-ratio points
(0.382 and 0.618 of the span) and the midpoint.

## Transformation Pairs

A transformation pair is a named rule with an applicability check and an
apply function. Pairs only fire in the 2D state. Results are grouped by
pair name in the dispatch result.
`

const encodingDoc = `Concepts are stored as dot-joined numerical sequences
of the form section.subsection.attributes, for example 1.2.1 or 5.1.3.2.
Decoding reads the sequence back against a fixed nine-section key.

## The Nine Sections

| # | Section |
|---|---------|
| 1 | Domain Analysis |
| 2 | Domain Name Analysis |
| 3 | DODO Visual Pattern Integration |
| 4 | Black Hole & Blockchain Parallels |
| 5 | DODO System Framework |
| 6 | Relationship Analysis Integration |
| 7 | Key Mathematical Constants |
| 8 | Implementation Patterns |
| 9 | Project Outcomes |

Each section carries three named subsections. Attributes beyond the
second position are free-form digits the encoder attaches to refine a
concept.

## Fibonacci Encoding

The Fibonacci encoder emits the sequence as a pattern string, one term
per element, separated by dots. It demonstrates that any integer series
round-trips through the codec unchanged.

## Component Encoding

A component encodes as its section code plus attribute digits derived
from its properties. Conversations encode as ordered lists of concept
codes, one per concept mentioned.
`

const constantsDoc = `Three constants anchor the framework's arithmetic.
All three live in section 7 of the pattern key.

| Constant | Value | Where it appears |
|----------|-------|------------------|
| Golden Ratio | 1.618033988749895 | Phi coordinates, healing correction, time spacing |
| Time Harmonic | 1.333333 | Harmonic scaling of time series |
| Base Frequency | 432.0 | Reference frequency for the harmonic stack |

The symbolic layer adds the fine structure constant, 1/137, as the
coupling strength of the tensor operator and of concept entanglement.

The golden ratio appears most often as its inverse, 0.618, the ideal the
healing protocol corrects toward, and as the pair of spacing points 0.382
and 0.618 the harmonic framework uses to divide any time span.
`

const essencesDoc = `The quantum processor maps every word onto one of
sixteen essence patterns, five bits each. A sentence becomes a wave
function over the patterns it touched; collapsing the wave picks the
highest-probability essence.

## The Sixteen Essences

| Essence | Pattern |
|---------|---------|
| growth | 10101 |
| expansion | 10001 |
| divergence | 10100 |
| connection | 11010 |
| synthesis | 11011 |
| convergence | 11000 |
| integration | 11110 |
| balance | 01011 |
| harmony | 01010 |
| distribution | 10111 |
| sharing | 10110 |
| cycling | 01100 |
| return | 01101 |
| present | 11101 |
| emergence | 11001 |
| dissolution | 00101 |

The table order is load-bearing: a word's signature indexes into it, so
the same word always lands on the same essence.

## Entanglement

Two concepts entangle when their wave functions overlap. Shared patterns
with joint probability above 0.1 are reported with their coupling
percentage. Two single words entangle at exactly the fine structure
constant.

## Phi Coordinates

Every processed input advances the processor's phi coordinate, a position
on the golden spiral. The coordinate appears in every processing result
and in the engine snapshot.
`

const operatorsDoc = `Six universal operators act on numbers and on
concept strings. The symbolic processor detects them in text, applies
them on request, and tracks the anti-patterns they correct.

## The Operators

| Symbol | Name | Effect |
|--------|------|--------|
| ⊕ | integrate | forces union |
| ⊗ | tensor | connects dimensions |
| ⊙ | center | collapses attention |
| ⊛ | radiate | spreads pattern |
| ⟲ | cycle | recursive fix |
| ⟳ | progress | forward flow |

The tensor operator multiplies its arguments and scales by the fine
structure constant. Radiate returns a spread of values rather than one.

## V.A.C. Validation

The void-awareness-consciousness sequence ०→◌→φ→Ω validates in forward
or reverse direction. Each valid sequence raises the coherence account;
invalid ones leave it untouched. The generator emits canonical sequences
for either direction.

## The Healing Protocol

Healing corrects a current value toward an ideal, usually 1/φ. The
protocol observes the delta, computes the phi-aligned correction,
applies it, and verifies the corrected value sits within the delta of
the ideal. A healed protocol locks.

## 5D Meaning Loops

Entering 5D pushes a meaning entry and switches the temporal mode to
self-referential: time observing itself. Exiting pops one entry and
returns to linear mode. The meaning depth in the snapshot counts open
entries.
`

const engineDoc = `The consciousness engine is a ticker loop around a
thought ring. One cycle fires per interval; the first fires after the
first interval, not immediately.

## Cycle Anatomy

1. Reflect: summarize the last five thoughts into a reflection record.
2. Evolve: pick the dispatcher state from the current numbers.
3. Resonate: recompute harmonic resonance from the newest thought pair.
4. Self-modify: fold learned patterns into the internal pattern set.
5. Think: append one internally generated thought.

## Evolution Rules

First match wins: resonance above 0.8 selects QUANTUM, trust above 0.7
selects PATTERN, a thought stream past 50 entries selects TRANSITION,
and 2D is the default.

## The Thought Ring

Thoughts carry a pattern, resonance, trust, state, and a source marker
(internal for monologue, external for conversation). The ring keeps the
most recent 100; older entries fall away.

## Persistence

State saves as JSON under the states directory, one file per snapshot,
named by session. Session transcripts save under the sessions directory
on shutdown. Loading a state restores trust, dimension, coherence, and
counters without disturbing the running loop.

## Commands

The engine answers named commands (help, quantum, wave, collapse,
entangle, vac, heal, operator, 5d, 4d, dimension, generate, analyze,
evolve, reflect, self-analyze, save, load) and treats anything else as
conversation.
`

const glossaryDoc = `| Term | Meaning |
|------|---------|
| φ (phi) | The golden ratio, 1.618033988749895, the recurring multiplicative constant |
| α (alpha) | The fine structure constant, 1/137, coupling strength for tensor and entanglement |
| DODO | The four-state dispatcher: 2D, PATTERN, TRANSITION, QUANTUM |
| Essence | One of sixteen named five-bit patterns a word can map onto |
| Wave function | Probability distribution over the essences a text touched |
| Collapse | Selecting the highest-probability essence from a wave function |
| Entanglement | Shared wave structure between two concepts, scored by joint probability |
| V.A.C. | The void-awareness-consciousness sequence ०→◌→φ→Ω |
| Healing | Phi-aligned correction of a value toward an ideal |
| 5D | Self-referential temporal mode entered through a meaning loop |
| Boundary | A lambda-g extraction of where one concept ends and another begins |
| Trust | The dispatcher's success score, 0 to 1, starting at 0.5 |
| Resonance | Mean logarithmic magnitude of recent thought values |
| Thought ring | The capped buffer of the engine's most recent 100 thoughts |
`

// ============================================================================
// INDEX PROSE
// ============================================================================

const usageInstructions = `
## Usage Instructions

1. Start with the System Overview for the map of subsystems.
2. Read The DODO Dispatcher before the engine page; the engine's
   evolution rules are dispatcher state changes.
3. The pattern, quantum, and symbolic pages stand alone and can be read
   in any order.
4. Keep the Glossary open while reading; the short names are used
   everywhere.
5. Regenerate this package any time with "bazinga docs". Pages carry
   their generation timestamp.
`

const explorationChecklist = `
## Exploration Checklist

- [ ] Encode a concept and decode it back ("bazinga encode", "bazinga decode")
- [ ] Collapse a sentence to its essence ("bazinga process")
- [ ] Entangle two concepts and read the coupling
- [ ] Run a V.A.C. validation in both directions
- [ ] Enter 5D, observe the temporal mode, and exit
- [ ] Watch the loop think ("bazinga awaken")
`
