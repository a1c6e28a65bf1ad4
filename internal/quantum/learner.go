package quantum

import "time"

// ============================================================================
// INTERACTION LEARNER
// ============================================================================

// Interaction is one recorded exchange the learner can draw from.
type Interaction struct {
	At       time.Time `json:"at"`
	Patterns []string  `json:"patterns"`
	Success  bool      `json:"success"`
	Trust    float64   `json:"trust"`
}

// LearnedPattern records how a pattern earned its place.
type LearnedPattern struct {
	Frequency int       `json:"frequency"`
	LearnedAt time.Time `json:"learned_at"`
}

// Learner promotes frequently seen patterns into a learned set. Promotion
// looks at the last five interactions and keeps the most common pattern,
// so the set grows slowly and in first-learned order.
type Learner struct {
	history []Interaction
	learned map[string]LearnedPattern
	order   []string
}

// NewLearner returns an empty learner.
func NewLearner() *Learner {
	return &Learner{learned: make(map[string]LearnedPattern)}
}

// Record stores one interaction and synthesizes a new learned pattern once
// enough history has accumulated.
func (l *Learner) Record(patterns []string, success bool, trust float64) {
	l.history = append(l.history, Interaction{
		At:       time.Now(),
		Patterns: patterns,
		Success:  success,
		Trust:    trust,
	})

	if len(l.history) >= 5 {
		l.synthesize()
	}
}

// synthesize counts pattern occurrences over the last five interactions
// and promotes the most common one. Ties resolve to the pattern seen
// first.
func (l *Learner) synthesize() {
	recent := l.history[len(l.history)-5:]

	counts := make(map[string]int)
	var seen []string
	for _, entry := range recent {
		for _, p := range entry.Patterns {
			if _, ok := counts[p]; !ok {
				seen = append(seen, p)
			}
			counts[p]++
		}
	}
	if len(seen) == 0 {
		return
	}

	best := seen[0]
	for _, p := range seen[1:] {
		if counts[p] > counts[best] {
			best = p
		}
	}

	if _, ok := l.learned[best]; !ok {
		l.order = append(l.order, best)
	}
	l.learned[best] = LearnedPattern{
		Frequency: counts[best],
		LearnedAt: time.Now(),
	}
}

// Learned returns the learned patterns in the order they were first
// promoted.
func (l *Learner) Learned() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// History returns all recorded interactions.
func (l *Learner) History() []Interaction {
	out := make([]Interaction, len(l.history))
	copy(out, l.history)
	return out
}
