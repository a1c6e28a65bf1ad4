package report

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal renders Markdown for terminal display, styled to the
// terminal's background. Callers should fall back to the raw text when
// stdout is not a terminal.
func RenderTerminal(markdown string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
