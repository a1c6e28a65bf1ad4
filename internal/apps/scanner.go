// Package apps scans application directories for suspicious entries:
// bundles with bogus names, missing code signatures or implausibly small
// payloads, and launch agents named after known junkware. All checks are
// pure filesystem reads.
package apps

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gobwas/glob"

	"bazinga/internal/logging"
)

// Risk buckets findings from most to least urgent.
type Risk string

const (
	RiskHigh   Risk = "High"
	RiskMedium Risk = "Medium"
	RiskLow    Risk = "Low"
)

var riskOrder = map[Risk]int{RiskHigh: 0, RiskMedium: 1, RiskLow: 2}

// Finding is one flagged entry with every reason that applied.
type Finding struct {
	Name     string    `json:"name"`
	Path     string    `json:"path"`
	Kind     string    `json:"kind"`
	Reasons  []string  `json:"reasons"`
	Risk     Risk      `json:"risk"`
	Modified time.Time `json:"modified"`
}

// ============================================================================
// NAME HEURISTICS
// ============================================================================

// suspiciousPatterns cover the usual cleaner/optimizer/defender naming of
// junkware. Matched case-insensitively against the entry name.
var suspiciousPatterns = compilePatterns(
	`adware`, `malware`, `clean.*mac`, `optimizer`, `speedup`,
	`boost.*mac`, `mac.*keeper`, `system.*optimizer`,
	`advanced.*mac.*cleaner`, `mac.*cleanup`, `mac.*doctor`,
	`mac.*boost`, `flash.*player.*update`, `mac.*protector`,
	`mac.*defender`, `cleanmy`,
)

// knownBogus are names that warrant a flag on their own.
var knownBogus = []string{
	"MacKeeper", "Advanced Mac Cleaner", "Mac Defender", "MacBooster", "CleanMyMac",
}

func compilePatterns(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

// suspiciousName reports whether an entry name matches the known bogus
// list or any suspicious pattern.
func suspiciousName(name string) bool {
	lower := strings.ToLower(name)
	for _, bogus := range knownBogus {
		if strings.Contains(lower, strings.ToLower(bogus)) {
			return true
		}
	}
	for _, re := range suspiciousPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// ============================================================================
// SCANNER
// ============================================================================

// Bundles smaller than this are treated as empty shells.
const minBundleBytes = 64 * 1024

// Scanner walks application and launch-agent directories.
type Scanner struct {
	appDirs   []string
	agentDirs []string
	excludes  []glob.Glob
	window    time.Duration
	now       func() time.Time
}

// NewScanner builds a scanner over explicit directories. Exclude patterns
// are globs matched against both the entry name and its full path.
func NewScanner(appDirs, agentDirs, excludes []string) (*Scanner, error) {
	s := &Scanner{
		appDirs:   appDirs,
		agentDirs: agentDirs,
		window:    30 * 24 * time.Hour,
		now:       time.Now,
	}
	for _, pattern := range excludes {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		s.excludes = append(s.excludes, g)
	}
	return s, nil
}

// DefaultScanner covers the standard macOS application and launch-agent
// locations.
func DefaultScanner(excludes []string) (*Scanner, error) {
	home, _ := os.UserHomeDir()
	return NewScanner(
		[]string{
			"/Applications",
			filepath.Join(home, "Applications"),
			"/Library/Application Support",
			filepath.Join(home, "Library", "Application Support"),
		},
		[]string{
			"/Library/LaunchAgents",
			filepath.Join(home, "Library", "LaunchAgents"),
			"/Library/LaunchDaemons",
		},
		excludes,
	)
}

// Scan checks every application bundle and launch agent once. Unreadable
// directories are skipped with a warning rather than failing the scan.
func (s *Scanner) Scan() []Finding {
	defer logging.StartTimer(logging.CategoryAnalyzer, "Scan").Stop()

	var findings []Finding
	for _, dir := range s.appDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Get(logging.CategoryAnalyzer).Warn("skipping %s: %v", dir, err)
			}
			continue
		}
		for _, e := range entries {
			if !e.IsDir() || !strings.HasSuffix(e.Name(), ".app") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if s.excluded(e.Name(), path) {
				continue
			}
			if f, ok := s.checkBundle(path, e.Name()); ok {
				findings = append(findings, f)
			}
		}
	}

	for _, dir := range s.agentDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Get(logging.CategoryAnalyzer).Warn("skipping %s: %v", dir, err)
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".plist") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if s.excluded(e.Name(), path) || !suspiciousName(e.Name()) {
				continue
			}
			f := Finding{
				Name:    e.Name(),
				Path:    path,
				Kind:    "launch agent",
				Reasons: []string{"suspicious name pattern"},
				Risk:    RiskMedium,
			}
			if info, err := e.Info(); err == nil {
				f.Modified = info.ModTime()
			}
			findings = append(findings, f)
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Risk != findings[j].Risk {
			return riskOrder[findings[i].Risk] < riskOrder[findings[j].Risk]
		}
		return findings[i].Path < findings[j].Path
	})
	logging.Analyzer("app scan flagged %d of the entries checked", len(findings))
	return findings
}

func (s *Scanner) excluded(name, path string) bool {
	for _, g := range s.excludes {
		if g.Match(name) || g.Match(path) {
			return true
		}
	}
	return false
}

// checkBundle applies every bundle heuristic and keeps the highest risk.
func (s *Scanner) checkBundle(path, name string) (Finding, bool) {
	f := Finding{Name: name, Path: path, Kind: "application", Risk: RiskLow}
	flag := func(reason string, risk Risk) {
		f.Reasons = append(f.Reasons, reason)
		if riskOrder[risk] < riskOrder[f.Risk] {
			f.Risk = risk
		}
	}

	if suspiciousName(name) {
		flag("suspicious name pattern", RiskHigh)
	}
	if !signedBundle(path) {
		flag("no code signature", RiskHigh)
	}
	if size, small := tinyBundle(path); small {
		flag(fmt.Sprintf("bundle holds only %d bytes", size), RiskMedium)
	}
	if info, err := os.Stat(path); err == nil {
		f.Modified = info.ModTime()
		if s.now().Sub(info.ModTime()) <= s.window {
			flag(fmt.Sprintf("modified within the last %d days", int(s.window.Hours()/24)), RiskLow)
		}
	}

	return f, len(f.Reasons) > 0
}

// Signed bundles carry Contents/_CodeSignature/CodeResources; its absence
// is the filesystem tell for an unsigned app.
func signedBundle(path string) bool {
	_, err := os.Stat(filepath.Join(path, "Contents", "_CodeSignature", "CodeResources"))
	return err == nil
}

// tinyBundle sums bundle contents, stopping as soon as the total clears
// the threshold.
func tinyBundle(path string) (int64, bool) {
	var total int64
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		if total >= minBundleBytes {
			return fs.SkipAll
		}
		return nil
	})
	return total, total < minBundleBytes
}

// ============================================================================
// REPORT TABLE
// ============================================================================

// Table renders findings as an aligned text table, highest risk first.
func Table(findings []Finding) string {
	if len(findings) == 0 {
		return "No suspicious applications found.\n"
	}
	var counts [3]int
	for _, f := range findings {
		counts[riskOrder[f.Risk]]++
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Flagged %d items: %d high, %d medium, %d low risk.\n\n",
		len(findings), counts[0], counts[1], counts[2])
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RISK\tKIND\tNAME\tREASONS\tPATH")
	for _, f := range findings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			f.Risk, f.Kind, f.Name, strings.Join(f.Reasons, "; "), f.Path)
	}
	w.Flush()
	return buf.String()
}

// Recommendations is the fixed advice block printed after a scan.
const Recommendations = `Recommendations:
  1. Research each application before removing it
  2. For high-risk items, consider removal if you don't recognize them
  3. For unsigned applications, verify they're from a trusted source
  4. Launch agents usually belong to an application of the same name`
