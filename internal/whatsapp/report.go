package whatsapp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bazinga/internal/config"
	"bazinga/internal/logging"
)

const (
	stamp     = "2006-01-02 15:04:05"
	fileStamp = "20060102_150405"
	dateOnly  = "2006-01-02"
)

// ============================================================================
// MARKDOWN REPORT
// ============================================================================

// Report renders the analysis as Markdown: summary and participant tables,
// the golden-ratio segment summaries, the DODO rhythm table and the
// resonant event list.
func Report(a *Analysis) string {
	var sb strings.Builder

	sb.WriteString("# WhatsApp Chat Analysis\n\n")
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", time.Now().Format(stamp)))
	sb.WriteString(fmt.Sprintf("%d messages from %d participants, %s to %s (%d days, %.1f/day).\n\n",
		a.Messages, len(a.Senders), a.First.Format(dateOnly), a.Last.Format(dateOnly),
		a.Days, a.PerDay))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Messages | %d |\n", a.Messages))
	sb.WriteString(fmt.Sprintf("| Media Omitted | %d |\n", a.Media))
	sb.WriteString(fmt.Sprintf("| Busiest Date | %s (%d messages) |\n", a.BusiestDate, a.BusiestDateN))
	sb.WriteString(fmt.Sprintf("| Busiest Hour | %02d:00 (%d messages) |\n", a.BusiestHour, a.BusiestHourN))
	sb.WriteString(fmt.Sprintf("| Average Sentiment | %+.3f (%s) |\n\n", a.Sentiment, Category(a.Sentiment)))

	sb.WriteString("## Participants\n\n")
	sb.WriteString("| Sender | Messages | Share | Words | Sentiment | Peak Hour | DODO Alignment |\n")
	sb.WriteString("|--------|----------|-------|-------|-----------|-----------|----------------|\n")
	for _, s := range a.Senders {
		share := float64(s.Messages) / float64(a.Messages) * 100
		sb.WriteString(fmt.Sprintf("| %s | %d | %.1f%% | %d | %+.3f | %02d:00 | %.3f |\n",
			cell(s.Name, 40), s.Messages, share, s.Words, s.Sentiment, s.PeakHour, s.DodoScore))
	}
	sb.WriteString("\n")

	sb.WriteString("## Golden-Ratio Segments\n\n")
	sb.WriteString("The timeline splits at 0.382 and 0.618 of its span, the two cuts the\n")
	sb.WriteString("golden ratio fixes.\n\n")
	sb.WriteString("| Segment | Span | Messages | Per Day | Sentiment | Top Sender |\n")
	sb.WriteString("|---------|------|----------|---------|-----------|------------|\n")
	for _, seg := range a.Segments {
		sb.WriteString(fmt.Sprintf("| %s | %s to %s | %d | %.1f | %+.3f | %s |\n",
			seg.Label, seg.From.Format(dateOnly), seg.To.Format(dateOnly),
			seg.Messages, seg.PerDay, seg.Sentiment, cell(seg.Top, 40)))
	}
	sb.WriteString("\n")
	for _, seg := range a.Segments {
		if seg.Messages == 0 {
			sb.WriteString(fmt.Sprintf("- The %s stayed quiet.\n", seg.Label))
			continue
		}
		sb.WriteString(fmt.Sprintf("- The %s carried %d messages at %.1f a day, %s overall, led by %s.\n",
			seg.Label, seg.Messages, seg.PerDay, Category(seg.Sentiment), seg.Top))
	}
	sb.WriteString("\n")

	sb.WriteString("## DODO Rhythm\n\n")
	sb.WriteString("Eight equal periods of the timeline against the 5.1.1.2.3.4.5.1\n")
	sb.WriteString("reference rhythm.\n\n")
	sb.WriteString("| Period | Value | From | Messages | Sentiment | Active Days |\n")
	sb.WriteString("|--------|-------|------|----------|-----------|-------------|\n")
	for i, p := range a.Periods {
		sb.WriteString(fmt.Sprintf("| %d | %d | %s | %d | %+.3f | %d |\n",
			i+1, p.Value, p.From.Format(dateOnly), p.Messages, p.Sentiment, p.ActiveDays))
	}
	sb.WriteString("\n")

	sb.WriteString("## Resonant Events\n\n")
	if len(a.Events) == 0 {
		sb.WriteString("No messages fell within 12 hours of a resonant point.\n\n")
	} else {
		sb.WriteString("Messages closest to the phi cuts and the eight DODO points.\n\n")
		sb.WriteString("| Time | Sender | Boundary | Message |\n")
		sb.WriteString("|------|--------|----------|---------|\n")
		for _, e := range a.Events {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				e.At.Format(stamp), cell(e.Sender, 40), e.Boundary, cell(e.Text, 80)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Sentiment Distribution\n\n")
	sb.WriteString("| Category | Share |\n")
	sb.WriteString("|----------|-------|\n")
	for _, cat := range Categories {
		sb.WriteString(fmt.Sprintf("| %s | %.1f%% |\n", cat, a.Distribution[cat]*100))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Most positive, from %s at %s: %s\n\n",
		a.MostPositive.Sender, a.MostPositive.At.Format(stamp), cell(a.MostPositive.Text, 80)))
	sb.WriteString(fmt.Sprintf("Most negative, from %s at %s: %s\n\n",
		a.MostNegative.Sender, a.MostNegative.At.Format(stamp), cell(a.MostNegative.Text, 80)))

	sb.WriteString("---\n\n")
	sb.WriteString("*DODO pattern 5.1.1.2.3.4.5.1 | φ = 1.618033988749895*\n")
	return sb.String()
}

// SaveReport writes the Markdown report and returns its path. An empty
// output falls back to a timestamped file under the reports directory.
func SaveReport(home string, a *Analysis, output string) (string, error) {
	path := output
	if path == "" {
		path = filepath.Join(config.ReportsDir(home),
			fmt.Sprintf("whatsapp_analysis_%s.md", time.Now().Format(fileStamp)))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Report(a)), 0644); err != nil {
		return "", fmt.Errorf("write whatsapp report: %w", err)
	}
	logging.Analyzer("whatsapp report written to %s", path)
	return path, nil
}

// cell flattens text into a single Markdown table cell: whitespace runs
// collapse, pipes are escaped and anything past n runes is cut.
func cell(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n]) + "..."
	}
	return s
}
