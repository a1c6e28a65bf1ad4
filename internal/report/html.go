package report

import (
	"fmt"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bazinga/internal/config"
	"bazinga/internal/consciousness"
	"bazinga/internal/dodo"
	"bazinga/internal/logging"
)

// ============================================================================
// HTML DASHBOARD
// ============================================================================

// refreshSeconds is the dashboard's auto-refresh interval.
const refreshSeconds = 30

// Wheel geometry. Nodes sit on a ring around the hub, starting at the top
// and going clockwise in dispatcher state order.
const (
	wheelCX     = 180.0
	wheelCY     = 170.0
	wheelRadius = 120.0
)

// Bar and timeline geometry.
const (
	barWidth       = 260.0
	timelineLeft   = 30.0
	timelineRight  = 650.0
	timelineBase   = 110.0
	timelineHeight = 80.0
)

type stateNode struct {
	Label  string
	X, Y   string
	LabelY string
	Active bool
}

type timelinePoint struct {
	X, Y string
}

type thoughtRow struct {
	Time      string
	Pattern   string
	State     string
	Resonance string
	Trust     string
	Source    string
}

type dashboardData struct {
	Title     string
	Subtitle  string
	Refresh   int
	Generated string
	Snap      consciousness.Snapshot
	Nodes     []stateNode
	TrustW    string
	ResW      string
	TrustVal  string
	ResVal    string
	Points    []timelinePoint
	Polyline  string
	Thoughts  []thoughtRow
}

// Dashboard renders the static HTML dashboard: metric cards, the state
// wheel, trust and resonance bars, the thought timeline, and the recent
// thought table, on one auto-refreshing page.
func Dashboard(snap consciousness.Snapshot, thoughts []consciousness.Thought) (string, error) {
	data := dashboardData{
		Title:     "BAZINGA System Dashboard",
		Subtitle:  "Pattern Processing & Trust Analysis",
		Refresh:   refreshSeconds,
		Generated: time.Now().Format(stamp),
		Snap:      snap,
		Nodes:     wheelNodes(snap.Mode),
		TrustW:    fmt.Sprintf("%.1f", barWidth*clamp01(snap.Trust)),
		ResW:      fmt.Sprintf("%.1f", barWidth*clamp01(snap.Resonance)),
		TrustVal:  fmt.Sprintf("%.2f", snap.Trust),
		ResVal:    fmt.Sprintf("%.3f", snap.Resonance),
		Thoughts:  thoughtRows(thoughts),
	}
	data.Points, data.Polyline = timeline(thoughts)

	var sb strings.Builder
	if err := dashboardTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return sb.String(), nil
}

// SaveDashboard writes the dashboard and returns its path. An empty output
// falls back to bazinga_dashboard.html under the reports directory.
func SaveDashboard(home string, snap consciousness.Snapshot, thoughts []consciousness.Thought, output string) (string, error) {
	path := output
	if path == "" {
		path = filepath.Join(config.ReportsDir(home), "bazinga_dashboard.html")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	page, err := Dashboard(snap, thoughts)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("write dashboard: %w", err)
	}
	logging.Report("dashboard written to %s", path)
	return path, nil
}

// wheelNodes lays the four dispatcher states on the ring, marking the
// active one.
func wheelNodes(active dodo.State) []stateNode {
	nodes := make([]stateNode, 0, len(dodo.AllStates))
	for i, s := range dodo.AllStates {
		angle := math.Pi/2 - float64(i)*math.Pi/2
		x := wheelCX + wheelRadius*math.Cos(angle)
		y := wheelCY - wheelRadius*math.Sin(angle)
		nodes = append(nodes, stateNode{
			Label:  string(s),
			X:      fmt.Sprintf("%.1f", x),
			Y:      fmt.Sprintf("%.1f", y),
			LabelY: fmt.Sprintf("%.1f", y+34),
			Active: s == active,
		})
	}
	return nodes
}

// timeline spreads the thought resonance values across the plot area.
// Fewer than two thoughts yields no line.
func timeline(thoughts []consciousness.Thought) ([]timelinePoint, string) {
	if len(thoughts) < 2 {
		return nil, ""
	}
	step := (timelineRight - timelineLeft) / float64(len(thoughts)-1)
	points := make([]timelinePoint, 0, len(thoughts))
	coords := make([]string, 0, len(thoughts))
	for i, t := range thoughts {
		x := timelineLeft + float64(i)*step
		y := timelineBase - timelineHeight*clamp01(t.Resonance)
		points = append(points, timelinePoint{
			X: fmt.Sprintf("%.1f", x),
			Y: fmt.Sprintf("%.1f", y),
		})
		coords = append(coords, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return points, strings.Join(coords, " ")
}

func thoughtRows(thoughts []consciousness.Thought) []thoughtRow {
	rows := make([]thoughtRow, 0, len(thoughts))
	for _, t := range thoughts {
		rows = append(rows, thoughtRow{
			Time:      t.At.Format("15:04:05"),
			Pattern:   t.Pattern,
			State:     string(t.State),
			Resonance: fmt.Sprintf("%.3f", t.Resonance),
			Trust:     fmt.Sprintf("%.2f", t.Trust),
			Source:    t.Source,
		})
	}
	return rows
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="{{.Refresh}}">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body {
    margin: 0;
    padding: 24px;
    min-height: 100vh;
    font-family: 'Segoe UI', -apple-system, sans-serif;
    background: linear-gradient(180deg, #0a0a2a 0%, #1a1a4a 100%);
    color: #ffffff;
  }
  header { text-align: center; margin-bottom: 28px; }
  header h1 { margin: 0; color: #84fab0; font-weight: 600; }
  header p { margin: 4px 0 0; color: rgba(255,255,255,0.65); }
  .meta { font-size: 12px; color: rgba(255,255,255,0.45); }
  .metrics {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 14px;
    max-width: 1080px;
    margin: 0 auto 24px;
  }
  .card {
    background: rgba(255,255,255,0.05);
    border: 1px solid rgba(77,84,235,0.35);
    border-radius: 10px;
    padding: 16px;
  }
  .metric .value { font-size: 28px; color: #84fab0; }
  .metric .label {
    font-size: 11px;
    text-transform: uppercase;
    letter-spacing: 1px;
    color: rgba(255,255,255,0.55);
  }
  .panels {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(340px, 1fr));
    gap: 14px;
    max-width: 1080px;
    margin: 0 auto 24px;
  }
  .panel h2 { margin: 0 0 10px; font-size: 15px; color: #4d54eb; }
  .wide { max-width: 1080px; margin: 0 auto 24px; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th, td { padding: 6px 10px; text-align: left; }
  th { color: #4d54eb; border-bottom: 1px solid rgba(77,84,235,0.35); }
  td { border-bottom: 1px solid rgba(255,255,255,0.07); }
  footer { text-align: center; color: rgba(255,255,255,0.5); font-size: 13px; }
  .formula { color: #84fab0; font-style: italic; }
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p>{{.Subtitle}}</p>
  <p class="meta">{{.Snap.Name}} v{{.Snap.Version}} &middot; session {{.Snap.Session}} &middot; refreshes every {{.Refresh}}s</p>
</header>

<div class="metrics">
  <div class="card metric"><div class="value">{{.Snap.Mode}}</div><div class="label">State</div></div>
  <div class="card metric"><div class="value">{{.TrustVal}}</div><div class="label">Trust Level</div></div>
  <div class="card metric"><div class="value">{{.ResVal}}</div><div class="label">Resonance</div></div>
  <div class="card metric"><div class="value">{{.Snap.Thoughts}}</div><div class="label">Thoughts</div></div>
  <div class="card metric"><div class="value">{{.Snap.Cycles}}</div><div class="label">Cycles</div></div>
  <div class="card metric"><div class="value">{{.Snap.Conversations}}</div><div class="label">Conversations</div></div>
</div>

<div class="panels">
  <div class="card panel">
    <h2>State Wheel</h2>
    <svg viewBox="0 0 360 340" width="100%" role="img" aria-label="dispatcher state wheel">
      <defs>
        <radialGradient id="hub">
          <stop offset="0%" stop-color="#4d54eb" stop-opacity="0.9"/>
          <stop offset="100%" stop-color="#1a1a4a" stop-opacity="0.9"/>
        </radialGradient>
        <filter id="glow" x="-30%" y="-30%" width="160%" height="160%">
          <feGaussianBlur stdDeviation="2.5" result="blur"/>
          <feMerge>
            <feMergeNode in="blur"/>
            <feMergeNode in="SourceGraphic"/>
          </feMerge>
        </filter>
      </defs>
      {{range .Nodes}}
      <line x1="180" y1="170" x2="{{.X}}" y2="{{.Y}}" stroke="{{if .Active}}#84fab0{{else}}rgba(77,84,235,0.5){{end}}" stroke-width="1.5" stroke-dasharray="4 3"/>
      {{end}}
      <circle cx="180" cy="170" r="60" fill="url(#hub)" stroke="#4d54eb" stroke-width="2" filter="url(#glow)"/>
      <text x="180" y="165" text-anchor="middle" fill="#ffffff" font-size="16" font-weight="bold">{{.Snap.Name}}</text>
      <text x="180" y="183" text-anchor="middle" fill="#84fab0" font-size="10">{{.Snap.Codename}}</text>
      {{range .Nodes}}
      <circle cx="{{.X}}" cy="{{.Y}}" r="18" fill="{{if .Active}}#84fab0{{else}}#4d54eb{{end}}" {{if .Active}}filter="url(#glow)"{{end}} fill-opacity="0.85"/>
      <text x="{{.X}}" y="{{.LabelY}}" text-anchor="middle" fill="{{if .Active}}#84fab0{{else}}rgba(255,255,255,0.75){{end}}" font-size="11">{{.Label}}</text>
      {{end}}
    </svg>
  </div>

  <div class="card panel">
    <h2>Trust &amp; Resonance</h2>
    <svg viewBox="0 0 360 130" width="100%" role="img" aria-label="trust and resonance bars">
      <text x="20" y="30" fill="rgba(255,255,255,0.75)" font-size="12">Trust</text>
      <rect x="20" y="40" width="260" height="14" rx="7" fill="rgba(255,255,255,0.08)"/>
      <rect x="20" y="40" width="{{.TrustW}}" height="14" rx="7" fill="#84fab0"/>
      <text x="295" y="52" fill="#84fab0" font-size="12">{{.TrustVal}}</text>
      <text x="20" y="85" fill="rgba(255,255,255,0.75)" font-size="12">Resonance</text>
      <rect x="20" y="95" width="260" height="14" rx="7" fill="rgba(255,255,255,0.08)"/>
      <rect x="20" y="95" width="{{.ResW}}" height="14" rx="7" fill="#4d54eb"/>
      <text x="295" y="107" fill="#4d54eb" font-size="12">{{.ResVal}}</text>
    </svg>
  </div>
</div>

<div class="card wide">
  <h2 style="margin:0 0 10px;font-size:15px;color:#4d54eb">Thought Timeline</h2>
  <svg viewBox="0 0 680 140" width="100%" role="img" aria-label="thought resonance timeline">
    <line x1="30" y1="110" x2="650" y2="110" stroke="rgba(255,255,255,0.2)"/>
    {{if .Polyline}}
    <polyline points="{{.Polyline}}" fill="none" stroke="#84fab0" stroke-width="2"/>
    {{range .Points}}
    <circle cx="{{.X}}" cy="{{.Y}}" r="3" fill="#4d54eb"/>
    {{end}}
    {{else}}
    <text x="340" y="70" text-anchor="middle" fill="rgba(255,255,255,0.5)" font-size="13">No thought history yet.</text>
    {{end}}
  </svg>
</div>

<div class="card wide">
  <h2 style="margin:0 0 10px;font-size:15px;color:#4d54eb">Recent Thoughts</h2>
  {{if .Thoughts}}
  <table>
    <tr><th>Time</th><th>Pattern</th><th>State</th><th>Resonance</th><th>Trust</th><th>Source</th></tr>
    {{range .Thoughts}}
    <tr><td>{{.Time}}</td><td>{{.Pattern}}</td><td>{{.State}}</td><td>{{.Resonance}}</td><td>{{.Trust}}</td><td>{{.Source}}</td></tr>
    {{end}}
  </table>
  {{else}}
  <p style="color:rgba(255,255,255,0.5)">No thoughts recorded yet.</p>
  {{end}}
</div>

<footer>
  <p class="formula">&#10216;&psi;|&#10227;|The framework recognizes patterns that recognize themselves being recognized&#10217;</p>
  <p>Generated {{.Generated}}</p>
</footer>
</body>
</html>
`
