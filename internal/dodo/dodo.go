// Package dodo implements the DODO processing system: a four-state dispatcher
// with trust and time tracking, a harmonic framework, and transformation
// pairs. Only the 2D state does real work on the input; the other branches
// report their mode and move on.
package dodo

import (
	"sync"

	"bazinga/internal/logging"
)

// State is one of the four processing states.
type State string

const (
	StateTwoD       State = "2D"         // Linear thinking, direct processing
	StatePattern    State = "PATTERN"    // Pattern recognition
	StateTransition State = "TRANSITION" // Moving between states
	StateQuantum    State = "QUANTUM"    // Multi-dimensional thinking
)

// AllStates lists every processing state.
var AllStates = []State{StateTwoD, StatePattern, StateTransition, StateQuantum}

// Result is the outcome of one dispatch.
type Result struct {
	Success    bool                              `json:"success"`
	Mode       string                            `json:"mode"`
	Data       map[string]map[string]interface{} `json:"data,omitempty"`
	Harmonics  map[string]float64                `json:"harmonics,omitempty"`
	TrustLevel float64                           `json:"trust_level"`
}

// System is the core DODO dispatcher.
type System struct {
	mu        sync.RWMutex
	state     State
	harmonics *HarmonicFramework
	time      *TimeTracker
	trust     *TrustTracker
	pairs     []TransformationPair
	cache     map[string]interface{}
}

// NewSystem returns a system in the 2D state with neutral trust.
func NewSystem() *System {
	return &System{
		state:     StateTwoD,
		harmonics: NewHarmonicFramework(),
		time:      NewTimeTracker(),
		trust:     NewTrustTracker(),
		cache:     make(map[string]interface{}),
	}
}

// AddTransformationPair registers a transformation pair.
func (s *System) AddTransformationPair(p TransformationPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pairs = append(s.pairs, p)
}

// ProcessInput dispatches the input through the current state's branch and
// stamps the result with the updated trust level.
func (s *System) ProcessInput(data map[string]interface{}) *Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.time.AddPoint(TimePoint{Input: data, State: s.state})

	var result *Result
	switch s.state {
	case StateTwoD:
		result = s.processTwoD(data)
	case StatePattern:
		result = &Result{Success: true, Mode: string(StatePattern)}
	case StateTransition:
		result = &Result{Success: true, Mode: string(StateTransition)}
	default:
		result = &Result{Success: true, Mode: string(StateQuantum)}
	}

	result.TrustLevel = s.trust.Update(result.Success)
	logging.Dodo("processed input in %s mode, trust=%.2f", result.Mode, result.TrustLevel)
	return result
}

// processTwoD applies each applicable transformation pair and attaches the
// harmonic values. Callers hold the lock.
func (s *System) processTwoD(data map[string]interface{}) *Result {
	result := &Result{
		Success: true,
		Mode:    string(StateTwoD),
		Data:    make(map[string]map[string]interface{}),
	}

	for _, pair := range s.pairs {
		if pair.IsApplicable(data, s.state) {
			result.Data[pair.Name] = pair.Apply(data, false)
		}
	}

	result.Harmonics = s.harmonics.Calculate(data)
	return result
}

// ChangeState moves the system to a new processing state.
func (s *System) ChangeState(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != next {
		logging.Dodo("state change %s -> %s", s.state, next)
	}
	s.state = next
}

// State returns the current processing state.
func (s *System) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// TrustLevel returns the current trust level.
func (s *System) TrustLevel() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trust.Level()
}

// TimePoints returns the number of recorded time points.
func (s *System) TimePoints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.time.Series())
}
