package dodo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Snapshot is the persisted form of the system state.
type Snapshot struct {
	State        State     `json:"state"`
	TrustLevel   float64   `json:"trust_level"`
	TrustHistory []float64 `json:"trust_history"`
	TimePoints   int       `json:"time_points"`
	SavedAt      time.Time `json:"saved_at"`
}

// Snapshot captures the current state for persistence or display.
func (s *System) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := make([]float64, len(s.trust.history))
	copy(history, s.trust.history)
	return Snapshot{
		State:        s.state,
		TrustLevel:   s.trust.level,
		TrustHistory: history,
		TimePoints:   len(s.time.points),
		SavedAt:      time.Now(),
	}
}

// Restore applies a snapshot's state and trust back onto the system.
// Time points are counts only in the saved form and are not rebuilt.
func (s *System) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = snap.State
	s.trust.level = snap.TrustLevel
	s.trust.history = append([]float64(nil), snap.TrustHistory...)
}

// Save writes the snapshot as JSON into dir, named dodo_{timestamp}.json
// unless a name is given.
func (s *System) Save(dir, name string) (string, error) {
	if name == "" {
		name = fmt.Sprintf("dodo_%s.json", time.Now().Format("20060102_150405"))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create state dir: %w", err)
	}

	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal state: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write state: %w", err)
	}
	return path, nil
}

// Load reads a snapshot from dir by name and restores it.
func (s *System) Load(dir, name string) (Snapshot, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read state %s: %w", name, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse state %s: %w", name, err)
	}
	s.Restore(snap)
	return snap, nil
}

// ListSaved returns the last n saved state filenames in dir, oldest first.
func ListSaved(dir string, n int) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if n > 0 && len(names) > n {
		names = names[len(names)-n:]
	}
	return names, nil
}
