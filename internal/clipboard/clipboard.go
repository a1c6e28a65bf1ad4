// Package clipboard inspects and repairs the system clipboard. Oversized
// clipboard content is a common cause of sluggish paste and wedged terminal
// sessions, so the package can report what the clipboard holds, clear it
// with an empty write that keeps copy/paste working, or trim it down.
package clipboard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	clip "github.com/atotto/clipboard"

	"bazinga/internal/logging"
)

// Size levels reported by Stats.
const (
	LevelNormal   = "normal"
	LevelLarge    = "large"
	LevelCritical = "very large"
)

// Level thresholds in bytes.
const (
	largeBytes    = 500 * 1024
	criticalBytes = 1024 * 1024
)

// DefaultTrimLimit caps clipboard text when Trim is called without an
// explicit limit.
const DefaultTrimLimit = 5000

// Seams over the platform clipboard so tests can run without one.
var (
	readAll     = clip.ReadAll
	writeAll    = clip.WriteAll
	unsupported = func() bool { return clip.Unsupported }
)

// Info describes the current clipboard content.
type Info struct {
	HasText bool   `json:"has_text"`
	Bytes   int    `json:"bytes"`
	Chars   int    `json:"chars"`
	Level   string `json:"level"`
}

func available() error {
	if unsupported() {
		return fmt.Errorf("no clipboard helper found (install xsel, xclip, or wl-clipboard)")
	}
	return nil
}

// Clear writes an empty string to the system clipboard. Platform-level
// resets can break subsequent copy/paste; an empty write does not.
func Clear() error {
	if err := available(); err != nil {
		return err
	}
	if err := writeAll(""); err != nil {
		return fmt.Errorf("clearing clipboard: %w", err)
	}
	logging.Get(logging.CategoryClipboard).Info("clipboard cleared")
	return nil
}

// Stats reads the clipboard and reports whether it holds text and how
// much. The clipboard itself is left untouched.
func Stats() (Info, error) {
	if err := available(); err != nil {
		return Info{}, err
	}
	text, err := readAll()
	if err != nil {
		return Info{}, fmt.Errorf("reading clipboard: %w", err)
	}
	info := Info{
		HasText: text != "",
		Bytes:   len(text),
		Chars:   utf8.RuneCountInString(text),
		Level:   levelFor(len(text)),
	}
	logging.Get(logging.CategoryClipboard).Debug("clipboard holds %d bytes (%s)", info.Bytes, info.Level)
	return info, nil
}

func levelFor(bytes int) string {
	switch {
	case bytes > criticalBytes:
		return LevelCritical
	case bytes > largeBytes:
		return LevelLarge
	default:
		return LevelNormal
	}
}

// Trim rewrites the clipboard with at most limit characters of its
// current text and reports whether anything was cut. A limit of zero or
// less falls back to DefaultTrimLimit.
func Trim(limit int) (bool, error) {
	if err := available(); err != nil {
		return false, err
	}
	if limit <= 0 {
		limit = DefaultTrimLimit
	}
	text, err := readAll()
	if err != nil {
		return false, fmt.Errorf("reading clipboard: %w", err)
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return false, nil
	}
	if err := writeAll(string(runes[:limit])); err != nil {
		return false, fmt.Errorf("writing trimmed clipboard: %w", err)
	}
	logging.Get(logging.CategoryClipboard).Info("clipboard trimmed from %d to %d characters", len(runes), limit)
	return true, nil
}

// Verify round-trips a probe string through the clipboard to confirm
// copy/paste works, then restores whatever was there before.
func Verify() error {
	if err := available(); err != nil {
		return err
	}
	before, err := readAll()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}
	const probe = "bazinga clipboard probe"
	if err := writeAll(probe); err != nil {
		return fmt.Errorf("writing clipboard: %w", err)
	}
	got, readErr := readAll()
	restoreErr := writeAll(before)
	if readErr != nil {
		return fmt.Errorf("reading clipboard back: %w", readErr)
	}
	if strings.TrimSpace(got) != probe {
		return fmt.Errorf("clipboard round-trip failed: wrote %q, read back %q", probe, got)
	}
	if restoreErr != nil {
		return fmt.Errorf("restoring clipboard: %w", restoreErr)
	}
	logging.Get(logging.CategoryClipboard).Debug("clipboard round-trip verified")
	return nil
}
