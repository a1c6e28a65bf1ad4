package artifacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"bazinga/internal/config"
	"bazinga/internal/logging"
)

// ============================================================================
// LANGUAGE DETECTION
// ============================================================================

var extLanguages = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".sh":   "shell",
	".md":   "markdown",
	".txt":  "text",
	".json": "json",
	".html": "html",
	".css":  "css",
	".svg":  "svg",
	".yaml": "yaml",
	".yml":  "yaml",
}

// DetectLanguage maps the extension to a language, falling back to the
// shebang line for extensionless scripts.
func DetectLanguage(path string, content []byte) string {
	if lang, ok := extLanguages[strings.ToLower(filepath.Ext(path))]; ok {
		return lang
	}
	if bytes.HasPrefix(content, []byte("#!")) {
		line := content
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line = content[:i]
		}
		shebang := string(line)
		switch {
		case strings.Contains(shebang, "python"):
			return "python"
		case strings.Contains(shebang, "node"):
			return "javascript"
		case strings.Contains(shebang, "bash"), strings.Contains(shebang, "sh"):
			return "shell"
		}
	}
	return "unknown"
}

// ============================================================================
// VALUE SCORING
// ============================================================================

// topicKeywords is the high-value content table. An artifact scores 0.25
// per topic it shows evidence for.
var topicKeywords = map[string][]string{
	"technical":  {"code", "function", "algorithm", "data", "api", "server", "python", "javascript"},
	"business":   {"business", "strategy", "market", "customer", "revenue", "profit", "growth"},
	"creative":   {"story", "design", "creative", "art", "music", "novel", "character"},
	"analytical": {"analysis", "analyze", "research", "study", "survey", "statistics", "results"},
}

// topicOrder keeps reports deterministic.
var topicOrder = []string{"technical", "business", "creative", "analytical"}

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// Score rates content by topic evidence: 0.25 per topic with at least one
// keyword hit, so the range is 0 to 1.
func Score(content []byte) float64 {
	words := wordSet(content)
	score := 0.0
	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if words[kw] {
				score += 0.25
				break
			}
		}
	}
	return score
}

// topics lists the topics content shows evidence for.
func topics(content []byte) []string {
	words := wordSet(content)
	var out []string
	for _, topic := range topicOrder {
		for _, kw := range topicKeywords[topic] {
			if words[kw] {
				out = append(out, topic)
				break
			}
		}
	}
	return out
}

func wordSet(content []byte) map[string]bool {
	set := make(map[string]bool)
	for _, w := range wordRe.FindAllString(strings.ToLower(string(content)), -1) {
		set[w] = true
	}
	return set
}

// ============================================================================
// ANALYSIS
// ============================================================================

// WordCount is one entry of the common-word ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Analysis is the artifact corpus summary.
type Analysis struct {
	GeneratedAt    time.Time          `json:"report_generated"`
	TotalArtifacts int                `json:"total_artifacts"`
	WithContent    int                `json:"total_with_content"`
	Earliest       time.Time          `json:"earliest,omitempty"`
	Latest         time.Time          `json:"latest,omitempty"`
	CommonWords    []WordCount        `json:"common_words"`
	Topics         map[string]float64 `json:"topic_distribution"`
	Languages      map[string]int     `json:"languages"`
	TopValued      []Artifact         `json:"top_valued"`
}

// commonWordLimit caps the common-word ranking.
const commonWordLimit = 20

// Analyze reads every stored artifact and summarizes the corpus: word
// frequency, topic distribution, language counts, and the topN most
// valuable artifacts.
func (c *Collector) Analyze(topN int) (*Analysis, error) {
	timer := logging.StartTimer(logging.CategoryCollector, "Analyze")
	defer timer.Stop()

	arts, err := c.catalog.List(0)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		GeneratedAt:    time.Now(),
		TotalArtifacts: len(arts),
		Topics:         make(map[string]float64),
		Languages:      make(map[string]int),
	}

	counts := make(map[string]int)
	topicHits := make(map[string]int)
	for _, art := range arts {
		a.Languages[art.Language]++

		content, err := os.ReadFile(art.StoredPath)
		if err != nil || len(content) == 0 {
			continue
		}
		a.WithContent++

		for _, w := range wordRe.FindAllString(strings.ToLower(string(content)), -1) {
			counts[w]++
		}
		for _, topic := range topics(content) {
			topicHits[topic]++
		}
	}

	if a.WithContent > 0 {
		for _, topic := range topicOrder {
			a.Topics[topic] = float64(topicHits[topic]) / float64(a.WithContent)
		}
	}

	a.CommonWords = rankWords(counts, commonWordLimit)

	if a.TopValued, err = c.catalog.TopValued(topN); err != nil {
		return nil, err
	}
	if a.Earliest, a.Latest, err = c.catalog.DateRange(); err != nil {
		return nil, err
	}

	logging.Collector("analysis complete: %d artifacts, %d with content",
		a.TotalArtifacts, a.WithContent)
	return a, nil
}

// rankWords orders by count descending, then alphabetically for stable
// output.
func rankWords(counts map[string]int, limit int) []WordCount {
	ranked := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, WordCount{Word: w, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Summary renders the human-readable analysis report.
func (a *Analysis) Summary() string {
	var sb strings.Builder
	sb.WriteString("Bazinga Analysis Report\n")
	sb.WriteString("======================\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", a.GeneratedAt.Format("2006-01-02 15:04:05")))

	sb.WriteString("Artifact Statistics\n")
	sb.WriteString("------------------\n")
	sb.WriteString(fmt.Sprintf("Total artifacts: %d\n", a.TotalArtifacts))
	if !a.Earliest.IsZero() {
		sb.WriteString(fmt.Sprintf("Date range: %s to %s\n",
			a.Earliest.Format("2006-01-02"), a.Latest.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	sb.WriteString("Content Analysis\n")
	sb.WriteString("---------------\n")
	parts := make([]string, 0, len(topicOrder))
	for _, topic := range topicOrder {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", topic, a.Topics[topic]))
	}
	sb.WriteString(fmt.Sprintf("Top topics: %s\n", strings.Join(parts, ", ")))
	sb.WriteString(fmt.Sprintf("Total artifacts with content: %d\n\n", a.WithContent))

	sb.WriteString("Most common words:\n")
	limit := len(a.CommonWords)
	if limit > 10 {
		limit = 10
	}
	for _, wc := range a.CommonWords[:limit] {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", wc.Word, wc.Count))
	}

	if len(a.TopValued) > 0 {
		sb.WriteString("\nHighest value artifacts:\n")
		for _, art := range a.TopValued {
			sb.WriteString(fmt.Sprintf("- %s (%s, %.2f)\n", art.Name, art.Language, art.ValueScore))
		}
	}
	return sb.String()
}

// SaveAnalysis writes the JSON report and the text summary under the
// reports directory and returns both paths.
func SaveAnalysis(home string, a *Analysis) (string, string, error) {
	dir := config.ReportsDir(home)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create reports dir: %w", err)
	}

	jsonPath := filepath.Join(dir, "bazinga_analysis_report.json")
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode analysis: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("write analysis report: %w", err)
	}

	summaryPath := filepath.Join(dir, "bazinga_summary.txt")
	if err := os.WriteFile(summaryPath, []byte(a.Summary()), 0644); err != nil {
		return "", "", fmt.Errorf("write summary: %w", err)
	}

	logging.Collector("analysis saved to %s", jsonPath)
	return jsonPath, summaryPath, nil
}
