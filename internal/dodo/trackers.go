package dodo

import "time"

// TimePoint records one input as it entered the system.
type TimePoint struct {
	Input map[string]interface{} `json:"input"`
	State State                  `json:"state"`
	At    time.Time              `json:"at"`
}

// TimeTracker implements the time dimension (5.1.1).
type TimeTracker struct {
	points  []TimePoint
	current float64
}

// NewTimeTracker returns an empty tracker.
func NewTimeTracker() *TimeTracker {
	return &TimeTracker{}
}

// AddPoint appends a time point and advances the clock by one unit.
func (t *TimeTracker) AddPoint(p TimePoint) {
	if p.At.IsZero() {
		p.At = time.Now()
	}
	t.points = append(t.points, p)
	t.current += 1.0
}

// Series returns the recorded time points.
func (t *TimeTracker) Series() []TimePoint {
	return t.points
}

// Current returns the accumulated time units.
func (t *TimeTracker) Current() float64 {
	return t.current
}

// TrustTracker implements the trust dimension (5.1.2). Trust starts neutral
// at 0.5 and moves 0.1 per result, clamped to [0, 1].
type TrustTracker struct {
	level   float64
	history []float64
}

// NewTrustTracker returns a tracker at neutral trust.
func NewTrustTracker() *TrustTracker {
	return &TrustTracker{level: 0.5}
}

// Update adjusts trust for a result and records it in the history.
func (t *TrustTracker) Update(success bool) float64 {
	if success {
		t.level = min(1.0, t.level+0.1)
	} else {
		t.level = max(0.0, t.level-0.1)
	}
	t.history = append(t.history, t.level)
	return t.level
}

// Level returns the current trust level.
func (t *TrustTracker) Level() float64 {
	return t.level
}

// History returns every recorded trust level.
func (t *TrustTracker) History() []float64 {
	return t.history
}
