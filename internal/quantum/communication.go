package quantum

import (
	"fmt"
	"strings"
)

// ============================================================================
// PATTERN COMMUNICATION
// ============================================================================

// conceptPatterns maps concept words to 5-bit patterns. Several concepts
// share a pattern; the decode map is built value-to-key with the LAST
// entry winning, so order matters here too.
var conceptPatterns = []struct {
	Word    string
	Pattern string
}{
	// Emotional patterns
	{"joy", "11111"},
	{"growth", "10101"},
	{"connection", "11010"},
	{"trust", "11011"},
	{"uncertainty", "01010"},
	{"transformation", "10110"},

	// Cognitive patterns
	{"analysis", "01101"},
	{"synthesis", "11010"},
	{"divergence", "10101"},
	{"convergence", "01011"},
	{"emergence", "10110"},

	// Relational patterns
	{"harmony", "11111"},
	{"discord", "00000"},
	{"resonance", "10111"},
	{"distance", "00100"},
}

// Messenger translates between words and 5-bit pattern strings.
type Messenger struct {
	patterns map[string]string
	concepts map[string]string
}

// NewMessenger builds the forward and reverse concept maps.
func NewMessenger() *Messenger {
	m := &Messenger{
		patterns: make(map[string]string, len(conceptPatterns)),
		concepts: make(map[string]string, len(conceptPatterns)),
	}
	for _, cp := range conceptPatterns {
		m.patterns[cp.Word] = cp.Pattern
		m.concepts[cp.Pattern] = cp.Word
	}
	return m
}

// Encode turns text into one 5-bit pattern per word. Known concepts use
// their table pattern; everything else derives bits from word shape.
func (m *Messenger) Encode(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	patterns := make([]string, 0, len(words))
	for _, word := range words {
		if p, ok := m.patterns[word]; ok {
			patterns = append(patterns, p)
			continue
		}
		patterns = append(patterns, WordPattern(word))
	}
	return patterns
}

// Decode renders a pattern sequence as bracketed concepts. Patterns
// outside the concept table keep their raw bits.
func (m *Messenger) Decode(patterns []string) string {
	concepts := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if name, ok := m.concepts[p]; ok {
			concepts = append(concepts, fmt.Sprintf("⟨%s⟩", name))
		} else {
			concepts = append(concepts, fmt.Sprintf("⟨%s⟩", p))
		}
	}
	return strings.Join(concepts, " ")
}

// WordPattern derives a 5-bit pattern from word shape: length over five,
// vowel majority, vowel start, vowel end, even length.
func WordPattern(word string) string {
	runes := []rune(word)
	length := len(runes)
	if length == 0 {
		return "00000"
	}

	vowelCount := 0
	for _, r := range runes {
		if isVowel(r) {
			vowelCount++
		}
	}
	consonants := length - vowelCount

	bits := [5]byte{'0', '0', '0', '0', '0'}
	if length > 5 {
		bits[0] = '1'
	}
	if vowelCount > consonants {
		bits[1] = '1'
	}
	if isVowel(runes[0]) {
		bits[2] = '1'
	}
	if isVowel(runes[length-1]) {
		bits[3] = '1'
	}
	if length%2 == 0 {
		bits[4] = '1'
	}
	return string(bits[:])
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
