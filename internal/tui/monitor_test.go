package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"bazinga/internal/consciousness"
)

func testEngine() *consciousness.Engine {
	return consciousness.New(consciousness.Basic())
}

func TestViewShowsSpinnerBeforeFirstCycle(t *testing.T) {
	m := NewModel(testEngine())

	view := m.View()
	if !strings.Contains(view, "BAZINGA Monitor") {
		t.Errorf("view missing title:\n%s", view)
	}
	if !strings.Contains(view, "waking up") {
		t.Errorf("view should show the startup spinner before the first cycle:\n%s", view)
	}
	if strings.Contains(view, "Resonance") {
		t.Errorf("header should not render before the first cycle:\n%s", view)
	}
}

func TestTickRefreshesSnapshot(t *testing.T) {
	engine := testEngine()
	engine.Cycle()

	m := NewModel(engine)
	updated, cmd := m.Update(tickMsg{})
	m = updated.(Model)

	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}

	view := m.View()
	for _, want := range []string{"State", "Trust", "Resonance", "Cycles", "internal"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q after tick:\n%s", want, view)
		}
	}
	if strings.Contains(view, "waking up") {
		t.Errorf("spinner should be gone once cycles have run:\n%s", view)
	}
}

func TestThoughtTableNewestFirst(t *testing.T) {
	engine := testEngine()
	for i := 0; i < 3; i++ {
		engine.Cycle()
	}

	m := NewModel(engine)
	m.refresh()

	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}

	recent := engine.RecentThoughts(thoughtRows)
	if got, want := rows[0][1], recent[len(recent)-1].Pattern; got != want {
		t.Errorf("top row pattern = %q, want newest thought %q", got, want)
	}
}

func TestQuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyEsc},
	}
	for _, key := range keys {
		m := NewModel(testEngine())
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("key %q should quit", key.String())
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("key %q returned %T, want tea.QuitMsg", key.String(), cmd())
		}
	}
}

func TestOtherKeysIgnored(t *testing.T) {
	m := NewModel(testEngine())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil {
		t.Errorf("unbound key should not produce a command")
	}
}

func TestWindowResize(t *testing.T) {
	m := NewModel(testEngine())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
	if m.View() == "" {
		t.Error("view should still render after resize")
	}
}

func TestInitSchedulesTickAndSpinner(t *testing.T) {
	m := NewModel(testEngine())
	if m.Init() == nil {
		t.Error("Init should schedule the spinner and refresh tick")
	}
}
