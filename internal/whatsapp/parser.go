package whatsapp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bazinga/internal/logging"
)

// Message is one parsed chat line with its derived timestamp.
type Message struct {
	At     time.Time `json:"at"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
}

// Chat holds a parsed export: the surviving messages plus counts of the
// lines the parser dropped.
type Chat struct {
	Messages     []Message `json:"messages"`
	Participants []string  `json:"participants"`
	First        time.Time `json:"first"`
	Last         time.Time `json:"last"`
	Media        int       `json:"media"`
	Skipped      int       `json:"skipped"`
}

// Duration is the span from the first message to the last.
func (c *Chat) Duration() time.Duration {
	return c.Last.Sub(c.First)
}

// Days is the whole number of days the chat covers.
func (c *Chat) Days() int {
	return int(c.Duration().Hours() / 24)
}

// ============================================================================
// LINE FORMATS
// ============================================================================

// Exports come in two shapes depending on the platform:
//
//	[25/12/23, 21:45:10] Alice: took the bins out
//	25/12/23, 21:45 - Alice: took the bins out
//
// Seconds are optional, and US-locale exports write 12-hour times with an
// AM/PM suffix.
var (
	bracketLine = regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}(?::\d{2})?(?: [AP]M)?)\] ([^:]+): (.+)$`)
	plainLine   = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}),? (\d{1,2}:\d{2}(?::\d{2})?(?: [AP]M)?) - ([^:]+): (.+)$`)
)

// Exports carry direction marks before system text and narrow no-break
// spaces inside 12-hour times. Strip the former, widen the latter.
var lineNormalizer = strings.NewReplacer("‎", "", " ", " ", " ", " ")

// mediaMarkers are the placeholders WhatsApp writes for attachments the
// export left out.
var mediaMarkers = []string{
	"<media omitted>",
	"image omitted",
	"video omitted",
	"audio omitted",
	"sticker omitted",
	"gif omitted",
	"document omitted",
}

func isMediaText(text string) bool {
	t := strings.ToLower(text)
	for _, marker := range mediaMarkers {
		if strings.Contains(t, marker) {
			return true
		}
	}
	return false
}

func isSystemText(text string) bool {
	return strings.Contains(strings.ToLower(text), "end-to-end encrypted")
}

// rawMessage is a matched line before timestamps are resolved. The date
// field order cannot be settled until the whole export has been seen.
type rawMessage struct {
	date   string
	clock  string
	sender string
	text   string
}

// ============================================================================
// PARSING
// ============================================================================

// ParseFile reads a WhatsApp export from disk.
func ParseFile(path string) (*Chat, error) {
	defer logging.StartTimer(logging.CategoryAnalyzer, "ParseFile").Stop()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer f.Close()

	chat, err := Parse(f)
	if err != nil {
		return nil, err
	}
	logging.Analyzer("parsed %d messages from %d participants in %s",
		len(chat.Messages), len(chat.Participants), filepath.Base(path))
	return chat, nil
}

// Parse reads an export line by line. Lines that match neither format are
// treated as continuations of the previous message, so multi-line texts
// survive; continuations of a dropped line are dropped with it.
func Parse(r io.Reader) (*Chat, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var raws []rawMessage
	for scanner.Scan() {
		line := lineNormalizer.Replace(scanner.Text())
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := bracketLine.FindStringSubmatch(line)
		if m == nil {
			m = plainLine.FindStringSubmatch(line)
		}
		if m == nil {
			if len(raws) > 0 {
				raws[len(raws)-1].text += "\n" + line
			}
			continue
		}
		raws = append(raws, rawMessage{
			date:   m[1],
			clock:  m[2],
			sender: strings.TrimSpace(m[3]),
			text:   strings.TrimSpace(m[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	dayFirst := detectDayFirst(raws)
	chat := &Chat{}
	seen := make(map[string]bool)
	for _, raw := range raws {
		switch {
		case isSystemText(raw.text):
			chat.Skipped++
			continue
		case isMediaText(raw.text):
			chat.Media++
			continue
		}
		at, err := parseTimestamp(raw.date, raw.clock, dayFirst)
		if err != nil {
			chat.Skipped++
			logging.Get(logging.CategoryAnalyzer).Warn("dropped line: %v", err)
			continue
		}
		chat.Messages = append(chat.Messages, Message{At: at, Sender: raw.sender, Text: raw.text})
		if !seen[raw.sender] {
			seen[raw.sender] = true
			chat.Participants = append(chat.Participants, raw.sender)
		}
		if chat.First.IsZero() || at.Before(chat.First) {
			chat.First = at
		}
		if at.After(chat.Last) {
			chat.Last = at
		}
	}
	if len(chat.Messages) == 0 {
		return nil, fmt.Errorf("no messages found in export")
	}
	return chat, nil
}

// detectDayFirst settles the date field order for the whole export. A first
// field above 12 proves day-first, a second field above 12 proves
// month-first; an export that never disambiguates is read as DD/MM.
func detectDayFirst(raws []rawMessage) bool {
	for _, raw := range raws {
		parts := strings.SplitN(raw.date, "/", 3)
		if len(parts) < 2 {
			continue
		}
		a, _ := strconv.Atoi(parts[0])
		b, _ := strconv.Atoi(parts[1])
		if a > 12 {
			return true
		}
		if b > 12 {
			return false
		}
	}
	return true
}

var clockLayouts = []string{"15:04:05", "15:04", "3:04:05 PM", "3:04 PM"}

func parseTimestamp(date, clock string, dayFirst bool) (time.Time, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("bad date %q", date)
	}
	a, _ := strconv.Atoi(parts[0])
	b, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	if len(parts[2]) == 2 {
		year += 2000
	}
	day, month := a, b
	if !dayFirst {
		day, month = b, a
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("bad date %q", date)
	}

	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		h, min, sec := t.Clock()
		return time.Date(year, time.Month(month), day, h, min, sec, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", clock)
}
