package whatsapp

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bazinga/internal/config"
)

func TestParseMixedFormats(t *testing.T) {
	export := "[01/01/24, 09:00:00] Alice: Good morning team\n" +
		"01/01/24, 09:05 - Bob: Morning, all good here\n" +
		"[01/01/24, 09:45:10] Alice: Shall we review the notes?\n"

	chat, err := Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(chat.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(chat.Messages))
	}
	if got := chat.Participants; len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Errorf("participants = %v, want [Alice Bob]", got)
	}
	want := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local)
	if !chat.Messages[0].At.Equal(want) {
		t.Errorf("first At = %v, want %v", chat.Messages[0].At, want)
	}
	if got := chat.Messages[1]; got.Sender != "Bob" || got.At.Minute() != 5 {
		t.Errorf("second message = %+v", got)
	}
	if !chat.First.Equal(want) || !chat.Last.Equal(chat.Messages[2].At) {
		t.Errorf("range = %v..%v", chat.First, chat.Last)
	}
	if chat.Days() != 0 {
		t.Errorf("Days = %d, want 0", chat.Days())
	}
}

func TestParseSkipsSystemAndMedia(t *testing.T) {
	export := "[01/01/24, 08:59:00] Alice: Messages and calls are end-to-end encrypted. No one outside of this chat can read them.\n" +
		"[01/01/24, 09:00:00] Alice: hello there\n" +
		"[01/01/24, 09:01:00] Bob: <Media omitted>\n" +
		"[01/01/24, 09:02:00] Bob: ‎video omitted\n" +
		"[01/01/24, 09:03:00] Bob: that was fun\n"

	chat, err := Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(chat.Messages))
	}
	if chat.Media != 2 {
		t.Errorf("media = %d, want 2", chat.Media)
	}
	if chat.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", chat.Skipped)
	}
	if got := chat.Messages[0].Text; got != "hello there" {
		t.Errorf("first text = %q", got)
	}
}

func TestParseMultilineContinuation(t *testing.T) {
	export := "[01/01/24, 09:00:00] Alice: first line\n" +
		"second line\n" +
		"[01/01/24, 09:01:00] Bob: <Media omitted>\n" +
		"caption dropped with it\n" +
		"[01/01/24, 09:02:00] Bob: done\n"

	chat, err := Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(chat.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(chat.Messages))
	}
	if got := chat.Messages[0].Text; got != "first line\nsecond line" {
		t.Errorf("continuation text = %q", got)
	}
	if chat.Media != 1 {
		t.Errorf("media = %d, want 1", chat.Media)
	}
}

func TestParseDateOrder(t *testing.T) {
	cases := []struct {
		name   string
		export string
		day    int
		month  time.Month
	}{
		{"day first proven", "[25/01/24, 10:00:00] Alice: hi\n", 25, time.January},
		{"month first proven", "[01/25/24, 10:00:00] Alice: hi\n", 25, time.January},
		{"ambiguous defaults to day first", "[03/04/24, 10:00:00] Alice: hi\n", 3, time.April},
	}
	for _, tc := range cases {
		chat, err := Parse(strings.NewReader(tc.export))
		if err != nil {
			t.Fatalf("%s: Parse: %v", tc.name, err)
		}
		at := chat.Messages[0].At
		if at.Day() != tc.day || at.Month() != tc.month {
			t.Errorf("%s: parsed %v, want day %d month %s", tc.name, at, tc.day, tc.month)
		}
	}
}

func TestParseTwelveHourClock(t *testing.T) {
	export := "[12/25/23, 9:45:10 PM] Alice: merry christmas\n" +
		"[12/25/23, 12:05 AM] Alice: midnight\n"

	chat, err := Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := chat.Messages[0].At; got.Hour() != 21 || got.Minute() != 45 || got.Second() != 10 {
		t.Errorf("PM time = %v, want 21:45:10", got)
	}
	if got := chat.Messages[1].At; got.Hour() != 0 || got.Minute() != 5 {
		t.Errorf("AM time = %v, want 00:05", got)
	}
	if got := chat.Messages[0].At; got.Day() != 25 || got.Month() != time.December {
		t.Errorf("date = %v, want Dec 25", got)
	}
}

func TestParseNoMessages(t *testing.T) {
	if _, err := Parse(strings.NewReader("just prose, no export lines\n")); err == nil {
		t.Error("expected error for export without messages")
	}
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"this is wonderful and great", 0.4},
		{"bad terrible day", -2.0 / 3.0},
		{"the cat sat on the mat", 0},
		{"", 0},
		{"great", 1},
	}
	for _, tc := range cases {
		if got := Score(tc.text); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Score(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestCategory(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{-1, "very negative"},
		{-0.5, "very negative"},
		{-0.3, "negative"},
		{-0.1, "negative"},
		{0, "neutral"},
		{0.1, "neutral"},
		{0.3, "positive"},
		{0.5, "positive"},
		{0.51, "very positive"},
		{1, "very positive"},
	}
	for _, tc := range cases {
		if got := Category(tc.score); got != tc.want {
			t.Errorf("Category(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestDodoAlignment(t *testing.T) {
	var proportional [24]int
	for i, v := range DodoPattern {
		proportional[i*3] = v
	}
	if got := dodoAlignment(proportional); math.Abs(got-1) > 1e-9 {
		t.Errorf("proportional profile = %v, want 1", got)
	}

	var empty [24]int
	if got := dodoAlignment(empty); got != 0 {
		t.Errorf("empty profile = %v, want 0", got)
	}

	var uniform [24]int
	for h := range uniform {
		uniform[h] = 1
	}
	got := dodoAlignment(uniform)
	if got <= 0 || got >= 1 {
		t.Errorf("uniform profile = %v, want inside (0, 1)", got)
	}
}

// hundredDayChat spreads eleven messages over a 100-day span, alternating
// senders, with one clearly positive and one clearly negative text.
func hundredDayChat() *Chat {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	texts := map[int]string{
		4: "this is wonderful and great",
		7: "bad terrible day",
	}
	chat := &Chat{First: base, Participants: []string{"Alice", "Bob"}}
	for i := 0; i <= 10; i++ {
		sender := "Alice"
		if i%2 == 1 {
			sender = "Bob"
		}
		text, ok := texts[i]
		if !ok {
			text = "status update"
		}
		at := base.AddDate(0, 0, i*10)
		chat.Messages = append(chat.Messages, Message{At: at, Sender: sender, Text: text})
		chat.Last = at
	}
	return chat
}

func TestAnalyzeSegmentsAndPeriods(t *testing.T) {
	a, err := Analyze(hundredDayChat())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if a.Messages != 11 || a.Days != 100 {
		t.Fatalf("messages/days = %d/%d, want 11/100", a.Messages, a.Days)
	}

	wantSegs := [3]int{4, 3, 4}
	for i, seg := range a.Segments {
		if seg.Messages != wantSegs[i] {
			t.Errorf("segment %q messages = %d, want %d", seg.Label, seg.Messages, wantSegs[i])
		}
	}
	if a.Segments[1].Top != "Alice" {
		t.Errorf("middle top sender = %q, want Alice", a.Segments[1].Top)
	}

	var total int
	for _, p := range a.Periods {
		total += p.Messages
	}
	if total != 11 {
		t.Errorf("period total = %d, want 11", total)
	}
	if a.Periods[0].Messages != 2 || a.Periods[4].Messages != 2 || a.Periods[7].Messages != 2 {
		t.Errorf("period distribution = %+v", a.Periods)
	}
	if a.Periods[0].Value != 5 || a.Periods[4].Value != 3 {
		t.Errorf("period values = %d/%d, want 5/3", a.Periods[0].Value, a.Periods[4].Value)
	}
	if a.Periods[0].ActiveDays != 2 {
		t.Errorf("period 1 active days = %d, want 2", a.Periods[0].ActiveDays)
	}
}

func TestAnalyzeSenders(t *testing.T) {
	a, err := Analyze(hundredDayChat())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(a.Senders) != 2 {
		t.Fatalf("senders = %d, want 2", len(a.Senders))
	}
	if a.Senders[0].Name != "Alice" || a.Senders[0].Messages != 6 {
		t.Errorf("top sender = %+v, want Alice with 6", a.Senders[0])
	}
	if a.Senders[1].Name != "Bob" || a.Senders[1].Messages != 5 {
		t.Errorf("second sender = %+v, want Bob with 5", a.Senders[1])
	}
	for _, s := range a.Senders {
		if s.DodoScore < 0 || s.DodoScore > 1 {
			t.Errorf("%s dodo score = %v, want [0, 1]", s.Name, s.DodoScore)
		}
		if s.PeakHour != 0 {
			t.Errorf("%s peak hour = %d, want 0", s.Name, s.PeakHour)
		}
	}
}

func TestAnalyzeEventsAndExtremes(t *testing.T) {
	a, err := Analyze(hundredDayChat())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	// Only the day-0 and day-50 messages sit within 12 hours of a
	// boundary: the first DODO point and the fifth at position 0.5.
	if len(a.Events) != 2 {
		t.Fatalf("events = %d, want 2: %+v", len(a.Events), a.Events)
	}
	if a.Events[0].Boundary != "DODO-5" || a.Events[0].Offset != 0 {
		t.Errorf("first event = %+v", a.Events[0])
	}
	if a.Events[1].Boundary != "DODO-3" || a.Events[1].Position != 0.5 {
		t.Errorf("second event = %+v", a.Events[1])
	}

	if a.MostPositive.Text != "this is wonderful and great" {
		t.Errorf("most positive = %q", a.MostPositive.Text)
	}
	if a.MostNegative.Text != "bad terrible day" {
		t.Errorf("most negative = %q", a.MostNegative.Text)
	}
	if a.BusiestDate != "2024-01-01" || a.BusiestDateN != 1 {
		t.Errorf("busiest date = %s (%d)", a.BusiestDate, a.BusiestDateN)
	}
	if a.BusiestHour != 0 || a.BusiestHourN != 11 {
		t.Errorf("busiest hour = %d (%d)", a.BusiestHour, a.BusiestHourN)
	}
	if got := a.Distribution["neutral"]; math.Abs(got-9.0/11.0) > 1e-9 {
		t.Errorf("neutral share = %v, want 9/11", got)
	}

	var weekdays int
	for _, n := range a.Weekdays {
		weekdays += n
	}
	if weekdays != 11 {
		t.Errorf("weekday total = %d, want 11", weekdays)
	}
}

func TestAnalyzeEmptyChat(t *testing.T) {
	if _, err := Analyze(nil); err == nil {
		t.Error("expected error for nil chat")
	}
	if _, err := Analyze(&Chat{}); err == nil {
		t.Error("expected error for empty chat")
	}
}

func TestReportLayout(t *testing.T) {
	export := "[01/01/24, 09:00:00] Alice: this is wonderful and great\n" +
		"[01/01/24, 10:00:00] Bob: pipe | in text\n" +
		"[02/01/24, 11:00:00] Alice: bad terrible day\n"
	chat, err := Parse(strings.NewReader(export))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, err := Analyze(chat)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	report := Report(a)
	wants := []string{
		"# WhatsApp Chat Analysis",
		"## Summary",
		"| Media Omitted | 0 |",
		"| Busiest Date | 2024-01-01 (2 messages) |",
		"## Participants",
		"| Alice | 2 | 66.7% |",
		"## Golden-Ratio Segments",
		"## DODO Rhythm",
		"## Resonant Events",
		"## Sentiment Distribution",
		"Most positive, from Alice",
		"bad terrible day",
		"φ = 1.618033988749895",
	}
	for _, want := range wants {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestSaveReport(t *testing.T) {
	a, err := Analyze(hundredDayChat())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	home := t.TempDir()
	path, err := SaveReport(home, a, "")
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if dir := filepath.Dir(path); dir != config.ReportsDir(home) {
		t.Errorf("report dir = %s, want %s", dir, config.ReportsDir(home))
	}
	if base := filepath.Base(path); !strings.HasPrefix(base, "whatsapp_analysis_") {
		t.Errorf("report name = %s", base)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat report: %v", err)
	}

	explicit := filepath.Join(home, "out.md")
	if _, err := SaveReport(home, a, explicit); err != nil {
		t.Fatalf("SaveReport explicit: %v", err)
	}
	data, err := os.ReadFile(explicit)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# WhatsApp Chat Analysis") {
		t.Error("explicit report missing header")
	}
}

func TestCell(t *testing.T) {
	if got := cell("a|b\nc", 80); got != "a\\|b c" {
		t.Errorf("cell = %q", got)
	}
	if got := cell(strings.Repeat("xy", 50), 10); got != "xyxyxyxyxy..." {
		t.Errorf("truncated cell = %q", got)
	}
	if got := cell("ψψψψ", 2); got != "ψψ..." {
		t.Errorf("rune cell = %q", got)
	}
}
