package clipboard

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

// stubBoard replaces the platform clipboard with an in-memory one for
// the duration of the test and returns a pointer to its content.
func stubBoard(t *testing.T, initial string) *string {
	t.Helper()
	text := initial
	origRead, origWrite, origAvail := readAll, writeAll, unsupported
	readAll = func() (string, error) { return text, nil }
	writeAll = func(s string) error { text = s; return nil }
	unsupported = func() bool { return false }
	t.Cleanup(func() {
		readAll, writeAll, unsupported = origRead, origWrite, origAvail
	})
	return &text
}

func TestClear(t *testing.T) {
	text := stubBoard(t, "six months of shell history")
	if err := Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if *text != "" {
		t.Errorf("clipboard not cleared, still holds %q", *text)
	}
}

func TestStats(t *testing.T) {
	stubBoard(t, "ψψψ")
	info, err := Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !info.HasText {
		t.Error("HasText = false for non-empty clipboard")
	}
	if info.Bytes != 6 || info.Chars != 3 {
		t.Errorf("got %d bytes / %d chars, want 6 / 3", info.Bytes, info.Chars)
	}
	if info.Level != LevelNormal {
		t.Errorf("Level = %q, want %q", info.Level, LevelNormal)
	}
}

func TestStatsEmpty(t *testing.T) {
	stubBoard(t, "")
	info, err := Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if info.HasText {
		t.Error("HasText = true for empty clipboard")
	}
	if info.Bytes != 0 {
		t.Errorf("Bytes = %d, want 0", info.Bytes)
	}
}

func TestStatsLevels(t *testing.T) {
	tests := []struct {
		bytes int
		want  string
	}{
		{0, LevelNormal},
		{largeBytes, LevelNormal},
		{largeBytes + 1, LevelLarge},
		{criticalBytes, LevelLarge},
		{criticalBytes + 1, LevelCritical},
	}
	for _, tt := range tests {
		if got := levelFor(tt.bytes); got != tt.want {
			t.Errorf("levelFor(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}

func TestTrim(t *testing.T) {
	text := stubBoard(t, strings.Repeat("x", DefaultTrimLimit+500))
	trimmed, err := Trim(0)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !trimmed {
		t.Fatal("Trim reported nothing cut")
	}
	if got := utf8.RuneCountInString(*text); got != DefaultTrimLimit {
		t.Errorf("clipboard holds %d characters after trim, want %d", got, DefaultTrimLimit)
	}

	trimmed, err = Trim(0)
	if err != nil {
		t.Fatalf("second Trim: %v", err)
	}
	if trimmed {
		t.Error("second Trim cut an already trimmed clipboard")
	}
}

func TestTrimMultibyte(t *testing.T) {
	text := stubBoard(t, strings.Repeat("ψ", 20))
	trimmed, err := Trim(10)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}
	if !trimmed {
		t.Fatal("Trim reported nothing cut")
	}
	if !utf8.ValidString(*text) {
		t.Error("trim split a multibyte character")
	}
	if got := utf8.RuneCountInString(*text); got != 10 {
		t.Errorf("clipboard holds %d characters after trim, want 10", got)
	}
}

func TestVerifyRestores(t *testing.T) {
	text := stubBoard(t, "original content")
	if err := Verify(); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if *text != "original content" {
		t.Errorf("clipboard not restored, holds %q", *text)
	}
}

func TestVerifyDetectsBrokenPaste(t *testing.T) {
	stubBoard(t, "")
	readAll = func() (string, error) { return "stale", nil }
	writeAll = func(string) error { return nil }
	err := Verify()
	if err == nil || !strings.Contains(err.Error(), "round-trip") {
		t.Errorf("Verify = %v, want round-trip failure", err)
	}
}

func TestReadErrors(t *testing.T) {
	stubBoard(t, "")
	readAll = func() (string, error) { return "", errors.New("no DISPLAY") }
	if _, err := Stats(); err == nil {
		t.Error("Stats swallowed a read error")
	}
	if _, err := Trim(0); err == nil {
		t.Error("Trim swallowed a read error")
	}
}

func TestUnsupportedPlatform(t *testing.T) {
	stubBoard(t, "anything")
	unsupported = func() bool { return true }
	if err := Clear(); err == nil {
		t.Error("Clear succeeded without a clipboard helper")
	}
	if _, err := Stats(); err == nil {
		t.Error("Stats succeeded without a clipboard helper")
	}
	if _, err := Trim(0); err == nil {
		t.Error("Trim succeeded without a clipboard helper")
	}
	if err := Verify(); err == nil {
		t.Error("Verify succeeded without a clipboard helper")
	}
}
