// Package whatsapp analyzes WhatsApp chat exports. It parses the export
// text, scores message sentiment from word lists, splits the timeline at
// the golden-ratio cuts, aligns per-sender activity against the DODO
// rhythm, and renders the result as a Markdown report.
package whatsapp

import (
	"fmt"
	"math"
	"sort"
	"time"

	"bazinga/internal/logging"
)

const (
	GoldenRatio = 1.618033988749895
	phiInverse  = 0.618033988749895

	// Resonant events are messages within this window of a boundary,
	// at most eventsPerPoint per boundary and maxEvents overall.
	eventWindow    = 12 * time.Hour
	eventsPerPoint = 3
	maxEvents      = 10
)

// DodoPattern is the reference rhythm activity profiles are aligned against.
var DodoPattern = [8]int{5, 1, 1, 2, 3, 4, 5, 1}

// segmentLabels name the three golden-ratio slices of the timeline.
var segmentLabels = [3]string{"opening", "golden middle", "closing"}

// ============================================================================
// RESULT TYPES
// ============================================================================

// SenderStats aggregates one participant's share of the conversation.
type SenderStats struct {
	Name      string  `json:"name"`
	Messages  int     `json:"messages"`
	Words     int     `json:"words"`
	Sentiment float64 `json:"sentiment"`
	Hourly    [24]int `json:"hourly"`
	PeakHour  int     `json:"peak_hour"`
	DodoScore float64 `json:"dodo_score"`
}

// Segment is one golden-ratio slice of the timeline.
type Segment struct {
	Label     string    `json:"label"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Messages  int       `json:"messages"`
	PerDay    float64   `json:"per_day"`
	Sentiment float64   `json:"sentiment"`
	Top       string    `json:"top_sender"`
}

// Period is one of the eight equal DODO slices of the timeline.
type Period struct {
	Value      int       `json:"value"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Messages   int       `json:"messages"`
	Sentiment  float64   `json:"sentiment"`
	ActiveDays int       `json:"active_days"`
}

// Event is a message that landed near a resonant point of the timeline.
type Event struct {
	Message
	Boundary string        `json:"boundary"`
	Position float64       `json:"position"`
	Offset   time.Duration `json:"offset"`
}

// Analysis is the full result of analyzing one chat export.
type Analysis struct {
	Messages     int                `json:"messages"`
	Days         int                `json:"days"`
	PerDay       float64            `json:"per_day"`
	Media        int                `json:"media"`
	First        time.Time          `json:"first"`
	Last         time.Time          `json:"last"`
	Senders      []SenderStats      `json:"senders"`
	Segments     [3]Segment         `json:"segments"`
	Periods      [8]Period          `json:"periods"`
	Events       []Event            `json:"events"`
	Sentiment    float64            `json:"sentiment"`
	Distribution map[string]float64 `json:"distribution"`
	MostPositive Message            `json:"most_positive"`
	MostNegative Message            `json:"most_negative"`
	BusiestDate  string             `json:"busiest_date"`
	BusiestDateN int                `json:"busiest_date_count"`
	BusiestHour  int                `json:"busiest_hour"`
	BusiestHourN int                `json:"busiest_hour_count"`
	Weekdays     [7]int             `json:"weekdays"`
}

// ============================================================================
// ANALYSIS
// ============================================================================

// Analyze computes the full analysis for a parsed chat.
func Analyze(chat *Chat) (*Analysis, error) {
	if chat == nil || len(chat.Messages) == 0 {
		return nil, fmt.Errorf("chat has no messages")
	}
	defer logging.StartTimer(logging.CategoryAnalyzer, "Analyze").Stop()

	d := chat.Duration()
	position := func(at time.Time) float64 {
		if d <= 0 {
			return 0
		}
		return float64(at.Sub(chat.First)) / float64(d)
	}
	pointAt := func(pos float64) time.Time {
		return chat.First.Add(time.Duration(float64(d) * pos))
	}

	scores := make([]float64, len(chat.Messages))
	for i, m := range chat.Messages {
		scores[i] = Score(m.Text)
	}

	a := &Analysis{
		Messages:     len(chat.Messages),
		Days:         chat.Days(),
		PerDay:       perDay(len(chat.Messages), d),
		Media:        chat.Media,
		First:        chat.First,
		Last:         chat.Last,
		Distribution: make(map[string]float64),
	}

	a.Senders = senderStats(chat, scores)
	a.Segments = segmentStats(chat, scores, position, pointAt)
	a.Periods = periodStats(chat, scores, position, pointAt)
	a.Events = resonantEvents(chat, pointAt)

	// Global sentiment, activity peaks and the weekday profile.
	var sum float64
	counts := make(map[string]int)
	dates := make(map[string]int)
	var hours [24]int
	posIdx, negIdx := 0, 0
	for i, m := range chat.Messages {
		sum += scores[i]
		counts[Category(scores[i])]++
		dates[m.At.Format("2006-01-02")]++
		hours[m.At.Hour()]++
		a.Weekdays[int(m.At.Weekday())]++
		if scores[i] > scores[posIdx] {
			posIdx = i
		}
		if scores[i] < scores[negIdx] {
			negIdx = i
		}
	}
	a.Sentiment = sum / float64(len(chat.Messages))
	for _, cat := range Categories {
		a.Distribution[cat] = float64(counts[cat]) / float64(len(chat.Messages))
	}
	a.MostPositive = chat.Messages[posIdx]
	a.MostNegative = chat.Messages[negIdx]
	for date, n := range dates {
		if n > a.BusiestDateN || (n == a.BusiestDateN && (a.BusiestDate == "" || date < a.BusiestDate)) {
			a.BusiestDate, a.BusiestDateN = date, n
		}
	}
	for h, n := range hours {
		if n > a.BusiestHourN {
			a.BusiestHour, a.BusiestHourN = h, n
		}
	}

	logging.Analyzer("analysis complete: %d messages, %d senders, %d resonant events",
		a.Messages, len(a.Senders), len(a.Events))
	return a, nil
}

// senderStats aggregates per-participant counts, sorted most talkative first.
func senderStats(chat *Chat, scores []float64) []SenderStats {
	byName := make(map[string]*SenderStats)
	sums := make(map[string]float64)
	for i, m := range chat.Messages {
		s := byName[m.Sender]
		if s == nil {
			s = &SenderStats{Name: m.Sender}
			byName[m.Sender] = s
		}
		s.Messages++
		s.Words += countWords(m.Text)
		s.Hourly[m.At.Hour()]++
		sums[m.Sender] += scores[i]
	}
	out := make([]SenderStats, 0, len(byName))
	for name, s := range byName {
		s.Sentiment = sums[name] / float64(s.Messages)
		for h, n := range s.Hourly {
			if n > s.Hourly[s.PeakHour] {
				s.PeakHour = h
			}
		}
		s.DodoScore = dodoAlignment(s.Hourly)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Messages != out[j].Messages {
			return out[i].Messages > out[j].Messages
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// dodoAlignment compares a 24-hour activity profile against the DODO
// rhythm. Hours collapse into eight 3-hour blocks to match the pattern
// length; the result is the cosine between the two, so it lands in [0, 1].
func dodoAlignment(hourly [24]int) float64 {
	var blocks [8]float64
	for h, n := range hourly {
		blocks[h/3] += float64(n)
	}
	var dot, na, nb float64
	for i, v := range DodoPattern {
		dot += blocks[i] * float64(v)
		na += blocks[i] * blocks[i]
		nb += float64(v * v)
	}
	if na == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// segmentStats splits the timeline at 0.382 and 0.618 of its span, the two
// cuts the golden ratio fixes, and aggregates each slice.
func segmentStats(chat *Chat, scores []float64, position func(time.Time) float64, pointAt func(float64) time.Time) [3]Segment {
	cuts := [4]float64{0, 1 - phiInverse, phiInverse, 1}
	var segs [3]Segment
	for i := range segs {
		segs[i] = Segment{
			Label: segmentLabels[i],
			From:  pointAt(cuts[i]),
			To:    pointAt(cuts[i+1]),
		}
	}
	var sums [3]float64
	senders := [3]map[string]int{{}, {}, {}}
	for i, m := range chat.Messages {
		pos := position(m.At)
		idx := 0
		if pos >= 1-phiInverse {
			idx = 1
		}
		if pos >= phiInverse {
			idx = 2
		}
		segs[idx].Messages++
		sums[idx] += scores[i]
		senders[idx][m.Sender]++
	}
	for i := range segs {
		if segs[i].Messages > 0 {
			segs[i].Sentiment = sums[i] / float64(segs[i].Messages)
		}
		segs[i].PerDay = perDay(segs[i].Messages, segs[i].To.Sub(segs[i].From))
		segs[i].Top = topSender(senders[i])
	}
	return segs
}

// periodStats divides the timeline into eight equal slices, one per DODO
// pattern value.
func periodStats(chat *Chat, scores []float64, position func(time.Time) float64, pointAt func(float64) time.Time) [8]Period {
	var periods [8]Period
	var sums [8]float64
	days := [8]map[string]struct{}{}
	for i := range periods {
		periods[i] = Period{
			Value: DodoPattern[i],
			From:  pointAt(float64(i) / 8),
			To:    pointAt(float64(i+1) / 8),
		}
		days[i] = make(map[string]struct{})
	}
	for i, m := range chat.Messages {
		idx := int(position(m.At) * 8)
		if idx > 7 {
			idx = 7
		}
		periods[idx].Messages++
		sums[idx] += scores[i]
		days[idx][m.At.Format("2006-01-02")] = struct{}{}
	}
	for i := range periods {
		if periods[i].Messages > 0 {
			periods[i].Sentiment = sums[i] / float64(periods[i].Messages)
		}
		periods[i].ActiveDays = len(days[i])
	}
	return periods
}

// resonantEvents finds the messages closest to the phi cuts and the eight
// DODO points.
func resonantEvents(chat *Chat, pointAt func(float64) time.Time) []Event {
	type boundary struct {
		label    string
		position float64
	}
	bounds := []boundary{
		{"φ⁻¹", phiInverse},
		{"1-φ⁻¹", 1 - phiInverse},
	}
	for i, v := range DodoPattern {
		bounds = append(bounds, boundary{fmt.Sprintf("DODO-%d", v), float64(i) / 8})
	}

	var events []Event
	for _, b := range bounds {
		at := pointAt(b.position)
		var near []Event
		for _, m := range chat.Messages {
			off := m.At.Sub(at)
			if off < 0 {
				off = -off
			}
			if off <= eventWindow {
				near = append(near, Event{Message: m, Boundary: b.label, Position: b.position, Offset: off})
			}
		}
		sort.Slice(near, func(i, j int) bool { return near[i].Offset < near[j].Offset })
		if len(near) > eventsPerPoint {
			near = near[:eventsPerPoint]
		}
		events = append(events, near...)
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Position != events[j].Position {
			return events[i].Position < events[j].Position
		}
		if events[i].Offset != events[j].Offset {
			return events[i].Offset < events[j].Offset
		}
		return events[i].At.Before(events[j].At)
	})
	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	return events
}

func topSender(counts map[string]int) string {
	var top string
	var best int
	for name, n := range counts {
		if n > best || (n == best && (top == "" || name < top)) {
			top, best = name, n
		}
	}
	return top
}

func perDay(n int, span time.Duration) float64 {
	days := span.Hours() / 24
	if days <= 0 {
		return float64(n)
	}
	return float64(n) / days
}
