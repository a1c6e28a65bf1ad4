package pattern

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Manager maps pattern names to numerical codes and validates user-supplied
// codes. Lookup normalizes names (case, dashes, underscores) so "time-trust",
// "Time_Trust", and "timetrust" all resolve to the same entry.
type Manager struct {
	mu       sync.RWMutex
	patterns map[string]string
}

// NewManager returns a manager seeded with the default pattern codes.
func NewManager() *Manager {
	return &Manager{
		patterns: map[string]string{
			"time-trust":   "4.1.1.3.5.2.4",
			"harmonic":     "3.2.2.1.5.3.2",
			"relationship": "6.1.1.2.3.4.5.2.1",
			"mandelbrot":   "5.1.1.0.1.0.1",
		},
	}
}

func normalizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}

// Code resolves a pattern name to its numerical code. A string that is
// already a valid code passes through unchanged.
func (m *Manager) Code(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := normalizeName(name)
	for key, code := range m.patterns {
		if normalizeName(key) == want {
			return code, nil
		}
	}

	if IsValidCode(name) {
		return name, nil
	}

	return "", fmt.Errorf("pattern %q (available: %s): %w",
		name, strings.Join(m.names(), ", "), ErrUnknownPattern)
}

// Register adds or replaces a named pattern code.
func (m *Manager) Register(name, code string) error {
	if !IsValidCode(code) {
		return fmt.Errorf("code %q must be numbers separated by dots: %w", code, ErrInvalidSequence)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns[name] = code
	return nil
}

// Name reverse-resolves a code to its registered name. Names are scanned
// in sorted order so duplicate codes resolve deterministically.
func (m *Manager) Name(code string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, key := range m.names() {
		if m.patterns[key] == code {
			return key, nil
		}
	}
	return "", fmt.Errorf("no pattern named for code %q: %w", code, ErrUnknownPattern)
}

// All returns a copy of the name-to-code mapping.
func (m *Manager) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.patterns))
	for k, v := range m.patterns {
		out[k] = v
	}
	return out
}

// Segments resolves a name or code and returns its integer segments.
// Float-bearing codes (the section-7 constants) fail here, as segments are
// integral by definition.
func (m *Manager) Segments(name string) ([]int, error) {
	code, err := m.Code(name)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(code, ".")
	segs := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("segment %q of %s: %w", p, code, ErrInvalidSequence)
		}
		segs = append(segs, n)
	}
	return segs, nil
}

// names returns the sorted pattern names (callers hold the lock).
func (m *Manager) names() []string {
	names := make([]string, 0, len(m.patterns))
	for k := range m.patterns {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
