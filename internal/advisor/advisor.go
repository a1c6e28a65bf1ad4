// Package advisor maps free-text descriptions of an interaction onto the
// four TRUST trajectory symbols (recursive loop, disruption, momentum,
// breakthrough) and issues mode-framed corrective directives. Analysis is
// read-only; nothing here mutates engine state.
package advisor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"bazinga/internal/logging"
)

// Confidence tiers by evidence count.
const (
	ConfidenceHigh     = 0.9
	ConfidenceModerate = 0.7
	ConfidenceFair     = 0.5
	ConfidenceFloor    = 0.3
)

// ============================================================================
// ANALYSIS
// ============================================================================

// Match is one symbol's evidence against a piece of text.
type Match struct {
	Symbol          string   `json:"symbol"`
	Description     string   `json:"description"`
	Hits            int      `json:"hits"`
	Confidence      float64  `json:"confidence"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	MatchedPhrases  []string `json:"matched_phrases,omitempty"`
}

// Analyze scores text against every symbol pattern and returns matches
// ranked by evidence, strongest first. Phrase hits count double.
func Analyze(text string) []Match {
	lower := strings.ToLower(text)

	matches := make([]Match, 0, len(Patterns))
	for _, p := range Patterns {
		m := Match{Symbol: p.Symbol, Description: p.Description}
		for _, kw := range p.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				m.MatchedKeywords = append(m.MatchedKeywords, kw)
			}
		}
		for _, ph := range p.Phrases {
			if strings.Contains(lower, strings.ToLower(ph)) {
				m.MatchedPhrases = append(m.MatchedPhrases, ph)
			}
		}
		m.Hits = len(m.MatchedKeywords) + 2*len(m.MatchedPhrases)
		m.Confidence = confidence(m.Hits)
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Hits > matches[j].Hits
	})
	return matches
}

func confidence(hits int) float64 {
	switch {
	case hits >= 5:
		return ConfidenceHigh
	case hits >= 3:
		return ConfidenceModerate
	case hits >= 2:
		return ConfidenceFair
	default:
		return ConfidenceFloor
	}
}

// Primary picks the dominant match. Text with no evidence at all defaults
// to the recursive loop, the pattern most worth interrupting.
func Primary(matches []Match) Match {
	if len(matches) > 0 && matches[0].Hits > 0 {
		return matches[0]
	}
	for _, m := range matches {
		if m.Symbol == SymbolDodo {
			return m
		}
	}
	return Match{Symbol: SymbolDodo, Description: Patterns[0].Description, Confidence: ConfidenceFloor}
}

// ============================================================================
// ADVICE
// ============================================================================

// Advice is one full consultation result.
type Advice struct {
	Symbol     string    `json:"symbol"`
	Pattern    string    `json:"pattern"`
	Confidence float64   `json:"confidence"`
	Directive  string    `json:"directive"`
	Reminder   string    `json:"reminder"`
	Mode       Mode      `json:"mode"`
	Timestamp  time.Time `json:"timestamp"`

	Matches []Match `json:"-"`
}

// Advise analyzes text and frames a directive for the given mode.
// Directive and reminder selection rotates on the evidence count, so the
// same input always yields the same guidance.
func Advise(text string, mode Mode) Advice {
	if _, ok := Modes[mode]; !ok {
		mode = ModeReflect
	}
	matches := Analyze(text)
	primary := Primary(matches)

	pool := directives[primary.Symbol][mode]
	directive := Modes[mode].DirectivePrefix + pool[primary.Hits%len(pool)]
	reminderPool := reminders[primary.Symbol]

	logging.Advisor("advise: symbol=%s hits=%d confidence=%.1f mode=%s",
		primary.Symbol, primary.Hits, primary.Confidence, mode)

	return Advice{
		Symbol:     primary.Symbol,
		Pattern:    primary.Description,
		Confidence: primary.Confidence,
		Directive:  directive,
		Reminder:   reminderPool[primary.Hits%len(reminderPool)],
		Mode:       mode,
		Timestamp:  time.Now(),
		Matches:    matches,
	}
}

// ParseMode resolves a mode flag value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "reflect", "":
		return ModeReflect, nil
	case "real-time", "realtime":
		return ModeRealTime, nil
	case "simulate":
		return ModeSimulate, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want reflect, real-time, or simulate)", s)
	}
}

// ============================================================================
// RENDERING
// ============================================================================

var (
	symbolLabel    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	patternLabel   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	directiveLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	reminderLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	sectionLabel   = lipgloss.NewStyle().Bold(true)
)

// Format renders the advice for a terminal. Detailed output adds the
// evidence breakdown, alternative readings, and a journal template.
func (a Advice) Format(detailed bool) string {
	var b strings.Builder

	primary := a.primaryMatch()
	confidence := fmt.Sprintf("%.0f%% match", a.Confidence*100)
	if primary.Hits == 0 {
		confidence = "Low"
	}

	fmt.Fprintf(&b, "%s %s (%s)\n", symbolLabel.Render("Symbol:"), a.Symbol, confidence)
	fmt.Fprintf(&b, "%s %s\n", patternLabel.Render("Pattern:"), a.Pattern)
	fmt.Fprintf(&b, "%s %s\n", directiveLabel.Render("Directive:"), a.Directive)
	fmt.Fprintf(&b, "%s %s\n", reminderLabel.Render("Reminder:"), a.Reminder)

	if detailed {
		b.WriteString("\n" + sectionLabel.Render("PATTERN ANALYSIS") + "\n")

		if len(primary.MatchedKeywords) > 0 {
			shown := primary.MatchedKeywords
			if len(shown) > 5 {
				shown = shown[:5]
			}
			fmt.Fprintf(&b, "%s %s\n", sectionLabel.Render("Matched Keywords:"), strings.Join(shown, ", "))
		}
		if len(primary.MatchedPhrases) > 0 {
			fmt.Fprintf(&b, "%s\n• %s\n", sectionLabel.Render("Matched Phrases:"),
				strings.Join(primary.MatchedPhrases, "\n• "))
		}

		alternatives := a.alternatives()
		if len(alternatives) > 0 {
			b.WriteString(sectionLabel.Render("Alternative Interpretations:") + "\n")
			for _, alt := range alternatives {
				fmt.Fprintf(&b, "• %s (%.0f%%): %s\n", alt.Symbol, alt.Confidence*100, alt.Description)
			}
		}

		if tmpl := JournalTemplate(a.Symbol); tmpl != "" {
			b.WriteString("\n" + sectionLabel.Render("Journal Template:") + "\n")
			b.WriteString(tmpl + "\n")
		}
	}

	fmt.Fprintf(&b, "\n%s %s\n", sectionLabel.Render("Timestamp:"), a.Timestamp.Format("2006-01-02 15:04:05"))
	return b.String()
}

func (a Advice) primaryMatch() Match {
	for _, m := range a.Matches {
		if m.Symbol == a.Symbol {
			return m
		}
	}
	return Match{Symbol: a.Symbol}
}

// alternatives returns up to two non-primary matches with evidence.
func (a Advice) alternatives() []Match {
	var alts []Match
	for _, m := range a.Matches {
		if m.Symbol == a.Symbol || m.Hits == 0 {
			continue
		}
		alts = append(alts, m)
		if len(alts) == 2 {
			break
		}
	}
	return alts
}

// ============================================================================
// CONSULTATION HISTORY
// ============================================================================

// HistoryEntry is one recorded consultation.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Input     string    `json:"input"`
	Symbol    string    `json:"symbol"`
	Mode      Mode      `json:"mode"`
	Directive string    `json:"directive"`
}

const historyFile = "advisor_history.jsonl"

// RecordHistory appends a consultation to the advisor history under the
// state home, one JSON object per line.
func RecordHistory(home string, entry HistoryEntry) error {
	f, err := os.OpenFile(filepath.Join(home, historyFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open advisor history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal history entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}
