package consciousness

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"bazinga/internal/config"
	"bazinga/internal/logging"
)

// ErrNoSession marks a lookup of a state save that does not exist.
var ErrNoSession = errors.New("no saved session")

// ============================================================================
// STATE SAVES (save/load commands)
// ============================================================================

// savedState is the on-disk layout of one state save.
type savedState struct {
	State            Snapshot          `json:"state"`
	CommandHistory   []CommandRecord   `json:"command_history"`
	SymbolicThoughts []SymbolicThought `json:"symbolic_thoughts"`
	SavedAt          time.Time         `json:"saved_at"`
}

// SaveResult reports a completed state save.
type SaveResult struct {
	Type string `json:"type"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// SaveState writes the current state under the states directory. An empty
// name saves as bazinga_<session>.json.
func (e *Engine) SaveState(name string) (SaveResult, error) {
	home, err := config.Home(e.Config().Home)
	if err != nil {
		return SaveResult{}, err
	}
	if name == "" {
		name = fmt.Sprintf("bazinga_%s.json", e.SessionID())
	}

	e.mu.RLock()
	doc := savedState{
		CommandHistory:   append([]CommandRecord(nil), e.commandHistory...),
		SymbolicThoughts: append([]SymbolicThought(nil), e.symbolicLog...),
		SavedAt:          time.Now(),
	}
	e.mu.RUnlock()
	doc.State = e.Snapshot()

	dir := config.StatesDir(home)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return SaveResult{}, fmt.Errorf("failed to create states dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return SaveResult{}, fmt.Errorf("failed to marshal state: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return SaveResult{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Consciousness("state saved: %s (%d bytes)", path, len(data))
	return SaveResult{Type: "save", Path: path, Size: int64(len(data))}, nil
}

// StateList lists available state saves, most recent last.
type StateList struct {
	Type      string   `json:"type"`
	Available []string `json:"available"`
}

// ListStates returns up to the last ten saved state files. Save names embed
// the session timestamp, so lexical order is chronological.
func (e *Engine) ListStates() (StateList, error) {
	home, err := config.Home(e.Config().Home)
	if err != nil {
		return StateList{}, err
	}

	matches, err := filepath.Glob(filepath.Join(config.StatesDir(home), "*.json"))
	if err != nil {
		return StateList{}, fmt.Errorf("failed to list states: %w", err)
	}
	sort.Strings(matches)
	if len(matches) > 10 {
		matches = matches[len(matches)-10:]
	}

	names := make([]string, len(matches))
	for i, path := range matches {
		names[i] = filepath.Base(path)
	}
	return StateList{Type: "load_list", Available: names}, nil
}

// LoadResult returns a previously saved state for inspection.
type LoadResult struct {
	Type    string    `json:"type"`
	Path    string    `json:"path"`
	State   Snapshot  `json:"state"`
	SavedAt time.Time `json:"saved_at"`
}

// LoadState reads a saved state back. It reports the stored snapshot; the
// running engine keeps its own state.
func (e *Engine) LoadState(name string) (LoadResult, error) {
	home, err := config.Home(e.Config().Home)
	if err != nil {
		return LoadResult{}, err
	}

	path := filepath.Join(config.StatesDir(home), name)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return LoadResult{}, fmt.Errorf("state not found: %s: %w", name, ErrNoSession)
	}
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc savedState
	if err := json.Unmarshal(data, &doc); err != nil {
		return LoadResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return LoadResult{Type: "load", Path: path, State: doc.State, SavedAt: doc.SavedAt}, nil
}

// ============================================================================
// SESSION TRANSCRIPT (shutdown persistence)
// ============================================================================

// SessionRecord is the transcript written when a session ends.
type SessionRecord struct {
	Session       string         `json:"session"`
	Config        Config         `json:"config"`
	State         Snapshot       `json:"state"`
	Trust         float64        `json:"trust"`
	Thoughts      []Thought      `json:"thoughts"`
	Conversations []Conversation `json:"conversations"`
	EndedAt       time.Time      `json:"ended_at"`
}

// SaveSession writes the session transcript under the sessions directory
// and returns the path written.
func (e *Engine) SaveSession() (string, error) {
	home, err := config.Home(e.Config().Home)
	if err != nil {
		return "", err
	}

	e.mu.RLock()
	rec := SessionRecord{
		Session:       e.sessionID,
		Config:        e.cfg,
		Trust:         e.trustLevel,
		Thoughts:      append([]Thought(nil), e.thoughts...),
		Conversations: append([]Conversation(nil), e.conversations...),
		EndedAt:       time.Now(),
	}
	e.mu.RUnlock()
	rec.State = e.Snapshot()

	dir := config.SessionsDir(home)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create sessions dir: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	path := filepath.Join(dir, rec.Session+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logging.Consciousness("session saved: %s", path)
	return path, nil
}
