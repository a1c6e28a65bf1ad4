// Package tui renders the terminal monitor: a one-line header with the
// current processing state, trust, and resonance, a table of the most
// recent thoughts, and a spinner while the engine completes its first
// cycle. A tick message once per second pulls a fresh engine snapshot.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bazinga/internal/consciousness"
)

// ============================================================================
// STYLES
// ============================================================================

var (
	accentColor  = lipgloss.Color("#84fab0")
	primaryColor = lipgloss.Color("#4d54eb")
	mutedColor   = lipgloss.Color("#6c7086")
	alertColor   = lipgloss.Color("#e05667")
)

// Styles holds the lipgloss styles used by the monitor view.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Alert   lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// DefaultStyles builds the monitor palette. The colors track the HTML
// dashboard so the two surfaces read as one tool.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Foreground(accentColor).Bold(true),
		Label:   lipgloss.NewStyle().Foreground(mutedColor),
		Value:   lipgloss.NewStyle().Foreground(accentColor),
		Alert:   lipgloss.NewStyle().Foreground(alertColor),
		Muted:   lipgloss.NewStyle().Foreground(mutedColor),
		Spinner: lipgloss.NewStyle().Foreground(primaryColor),
	}
}

// ============================================================================
// MODEL
// ============================================================================

// thoughtRows is how many recent thoughts the table keeps on screen.
const thoughtRows = 10

// tickMsg asks the model to pull a fresh snapshot.
type tickMsg time.Time

// Model is the bubbletea model behind the live monitor.
type Model struct {
	engine  *consciousness.Engine
	styles  Styles
	spinner spinner.Model
	table   table.Model
	snap    consciousness.Snapshot
	width   int
	height  int
}

// NewModel builds a monitor around an engine. The engine is expected to
// be cycling already (Run in another goroutine); the model only reads.
func NewModel(engine *consciousness.Engine) Model {
	styles := DefaultStyles()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	t := table.New(
		table.WithColumns(thoughtColumns()),
		table.WithHeight(thoughtRows),
	)

	return Model{
		engine:  engine,
		styles:  styles,
		spinner: sp,
		table:   t,
		snap:    engine.Snapshot(),
	}
}

func thoughtColumns() []table.Column {
	return []table.Column{
		{Title: "Time", Width: 8},
		{Title: "Pattern", Width: 12},
		{Title: "State", Width: 10},
		{Title: "Resonance", Width: 9},
		{Title: "Trust", Width: 5},
		{Title: "Source", Width: 8},
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the spinner and the once-per-second refresh.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

// Update handles key, tick, spinner, and resize messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width - 2)
		return m, nil

	case tickMsg:
		m.refresh()
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refresh pulls the current snapshot and rebuilds the thought rows,
// newest first.
func (m *Model) refresh() {
	m.snap = m.engine.Snapshot()

	thoughts := m.engine.RecentThoughts(thoughtRows)
	rows := make([]table.Row, 0, len(thoughts))
	for i := len(thoughts) - 1; i >= 0; i-- {
		t := thoughts[i]
		rows = append(rows, table.Row{
			t.At.Format("15:04:05"),
			t.Pattern,
			string(t.State),
			fmt.Sprintf("%.3f", t.Resonance),
			fmt.Sprintf("%.2f", t.Trust),
			t.Source,
		})
	}
	m.table.SetRows(rows)
}

// ============================================================================
// VIEW
// ============================================================================

// View renders the monitor. Before the first completed cycle only the
// spinner shows; after that the header and thought table take over.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("BAZINGA Monitor"))
	sb.WriteString("  ")
	sb.WriteString(m.styles.Muted.Render(fmt.Sprintf("%s %s · session %s", m.snap.Codename, m.snap.Version, m.snap.Session)))
	sb.WriteString("\n\n")

	if m.snap.Cycles == 0 {
		sb.WriteString(" ")
		sb.WriteString(m.spinner.View())
		sb.WriteString(m.styles.Muted.Render(" waking up"))
		sb.WriteString("\n")
	} else {
		sb.WriteString(m.header())
		sb.WriteString("\n\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render(" q quit"))
	return sb.String()
}

func (m Model) header() string {
	trustStyle := m.styles.Value
	if m.snap.Trust < 0.3 {
		trustStyle = m.styles.Alert
	}

	parts := []string{
		m.styles.Label.Render("State ") + m.styles.Value.Render(string(m.snap.Mode)),
		m.styles.Label.Render("Trust ") + trustStyle.Render(fmt.Sprintf("%.2f", m.snap.Trust)),
		m.styles.Label.Render("Resonance ") + m.styles.Value.Render(fmt.Sprintf("%.3f", m.snap.Resonance)),
		m.styles.Label.Render("Thoughts ") + m.styles.Value.Render(fmt.Sprintf("%d", m.snap.Thoughts)),
		m.styles.Label.Render("Cycles ") + m.styles.Value.Render(fmt.Sprintf("%d", m.snap.Cycles)),
	}
	return " " + strings.Join(parts, m.styles.Muted.Render("  |  "))
}

// ============================================================================
// RUNNER
// ============================================================================

// Run blocks inside the monitor until the user quits.
func Run(engine *consciousness.Engine) error {
	p := tea.NewProgram(NewModel(engine), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running monitor: %w", err)
	}
	return nil
}
