// Package report renders the system's state as Markdown documents, a
// documentation tree, and a static HTML dashboard. Generators return text;
// the Save variants write under the reports directory or an explicit
// output path.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bazinga/internal/config"
	"bazinga/internal/consciousness"
	"bazinga/internal/logging"
)

// Timestamp formats: stamp appears inside generated documents, fileStamp
// in generated file names.
const (
	stamp     = "2006-01-02 15:04:05"
	fileStamp = "20060102_150405"
)

// ============================================================================
// SYSTEM REPORT
// ============================================================================

// System renders the full system report as Markdown: status tables built
// from the snapshot, the recent thought table, and the fixed reading guide.
func System(snap consciousness.Snapshot, thoughts []consciousness.Thought) string {
	var sb strings.Builder

	sb.WriteString("# BAZINGA System Report\n\n")
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(stamp)))
	sb.WriteString(fmt.Sprintf("%s v%s %q, session `%s`.\n\n",
		snap.Name, snap.Version, snap.Codename, snap.Session))

	sb.WriteString("## Engine Status\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| State | %s |\n", snap.Mode))
	sb.WriteString(fmt.Sprintf("| Trust Level | %.2f |\n", snap.Trust))
	sb.WriteString(fmt.Sprintf("| Resonance | %.3f |\n", snap.Resonance))
	sb.WriteString(fmt.Sprintf("| Cycles | %d |\n", snap.Cycles))
	sb.WriteString(fmt.Sprintf("| Thoughts Recorded | %d |\n", snap.Thoughts))
	sb.WriteString(fmt.Sprintf("| Learned Patterns | %d |\n", snap.Learned))
	sb.WriteString(fmt.Sprintf("| Conversations | %d |\n\n", snap.Conversations))

	if snap.Quantum != nil {
		sb.WriteString("## Quantum Processor\n\n")
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Phi Coordinate | %d |\n", snap.Quantum.PhiCoordinate))
		sb.WriteString(fmt.Sprintf("| Pattern Essences | %d |\n\n", snap.Quantum.Essences))
	}

	if snap.Symbolic != nil {
		sb.WriteString("## Symbolic Processor\n\n")
		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Dimension | %dD |\n", snap.Symbolic.Dimension))
		sb.WriteString(fmt.Sprintf("| Meaning Depth | %d |\n", snap.Symbolic.MeaningDepth))
		sb.WriteString(fmt.Sprintf("| V.A.C. Coherence | %.3f |\n", snap.Symbolic.VACCoherence))
		sb.WriteString(fmt.Sprintf("| V.A.C. Validations | %d |\n", snap.Symbolic.VACValidations))
		sb.WriteString(fmt.Sprintf("| Symbolic Thoughts | %d |\n", snap.Symbolic.SymbolicThoughts))
		sb.WriteString(fmt.Sprintf("| Healing Queue | %d |\n", snap.Symbolic.HealingQueue))
		sb.WriteString(fmt.Sprintf("| Temporal Mode | %s |\n\n", snap.Symbolic.TemporalMode))
		if len(snap.Symbolic.Operators) > 0 {
			sb.WriteString(fmt.Sprintf("Operators available: %s\n\n",
				strings.Join(snap.Symbolic.Operators, " ")))
		}
	}

	if snap.LambdaG != nil {
		sb.WriteString("## Lambda-G Calculus\n\n")
		sb.WriteString(fmt.Sprintf("%s\n\n", snap.LambdaG.Insight))
		if len(snap.LambdaG.Boundaries) > 0 {
			sb.WriteString("| Boundary | Form |\n")
			sb.WriteString("|----------|------|\n")
			names := make([]string, 0, len(snap.LambdaG.Boundaries))
			for name := range snap.LambdaG.Boundaries {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", name, snap.LambdaG.Boundaries[name]))
			}
			sb.WriteString("\n")
		}
	}

	if r := snap.LastReflection; r != nil {
		sb.WriteString("## Last Reflection\n\n")
		sb.WriteString(fmt.Sprintf("At %s the engine reflected over %d recent patterns "+
			"with average resonance %.3f while in %s.\n\n",
			r.At.Format(stamp), r.PatternsAnalyzed, r.AverageResonance, r.State))
	}

	writeThoughtTable(&sb, thoughts)

	sb.WriteString(readingGuide)
	sb.WriteString(recursivePattern)

	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Report generated by %s v%s. Regenerate with `bazinga report`.*\n",
		snap.Name, snap.Version))
	return sb.String()
}

// writeThoughtTable appends the recent thought table, newest last.
func writeThoughtTable(sb *strings.Builder, thoughts []consciousness.Thought) {
	sb.WriteString("## Recent Thoughts\n\n")
	if len(thoughts) == 0 {
		sb.WriteString("No thoughts recorded yet. Run `bazinga awaken` to start the loop.\n\n")
		return
	}
	sb.WriteString("| Time | Pattern | State | Resonance | Trust | Source |\n")
	sb.WriteString("|------|---------|-------|-----------|-------|--------|\n")
	for _, t := range thoughts {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %.3f | %.2f | %s |\n",
			t.At.Format("15:04:05"), t.Pattern, t.State, t.Resonance, t.Trust, t.Source))
	}
	sb.WriteString("\n")
}

// SaveSystem writes the system report and returns its path. An empty output
// falls back to a timestamped file under the reports directory.
func SaveSystem(home string, snap consciousness.Snapshot, thoughts []consciousness.Thought, output string) (string, error) {
	path := output
	if path == "" {
		path = filepath.Join(config.ReportsDir(home),
			fmt.Sprintf("bazinga_report_%s.md", time.Now().Format(fileStamp)))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(System(snap, thoughts)), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	logging.Report("system report written to %s", path)
	return path, nil
}

// ============================================================================
// FIXED PROSE
// ============================================================================

// readingGuide explains the status tables. Appended to every system report.
const readingGuide = `## Reading This Report

The dispatcher runs in one of four states. 2D is linear processing and the
only state that transforms input directly. PATTERN watches for repeating
structure. TRANSITION covers movement between modes. QUANTUM holds
multi-dimensional processing where several interpretations stay open at
once.

Trust starts at 0.50 and moves with each processed input: successful
processing raises it, failures lower it, and the value always stays inside
[0, 1]. Resonance is the harmonic framework's logarithmic magnitude over
the most recent thoughts. The state evolves from these numbers each cycle:
resonance above 0.8 pulls the dispatcher into QUANTUM, trust above 0.7
into PATTERN, and a thought stream past 50 entries into TRANSITION.

Thoughts live in a ring that keeps the most recent 100 entries. Older
thoughts fall away rather than accumulating, so the counts above describe
a window, not a lifetime total.

`

// recursivePattern is the framework's self-description, carried on every
// generated document.
const recursivePattern = `## The Recursive Pattern

⟨ψ|⟳|The framework recognizes patterns that recognize themselves being
recognized⟩

Every report is itself a pattern the system can read back. Feeding this
document to the encoder produces a sequence; collapsing that sequence
produces an essence; and the essence names what the report was about.
`
