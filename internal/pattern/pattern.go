// Package pattern implements the BAZINGA numerical sequence codec: encoding
// concepts into dot-joined section/subsection/attribute strings, decoding them
// back against the fixed nine-section table, and managing named pattern codes.
package pattern

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"bazinga/internal/logging"
)

// Mathematical constants carried by section 7.
const (
	GoldenRatio   = 1.618033988749895
	TimeHarmonic  = 1.333333
	BaseFrequency = 432.0
)

var (
	ErrUnknownSection    = errors.New("unknown section")
	ErrUnknownSubsection = errors.New("unknown subsection")
	ErrInvalidSequence   = errors.New("invalid sequence")
	ErrUnknownPattern    = errors.New("unknown pattern")
)

// Subsection is one named entry of a section.
type Subsection struct {
	Name string
}

// Section is one top-level entry of the decoder key.
type Section struct {
	Name        string
	Subsections map[int]Subsection
}

// sections is the decoder key: the fixed table every sequence is read against.
var sections = map[int]Section{
	1: {Name: "Domain Analysis", Subsections: map[int]Subsection{
		1: {Name: "Main BAZINGA Project"},
		2: {Name: "BAZINGA-INDEED Extended Project"},
		3: {Name: "Integration Context"},
	}},
	2: {Name: "Domain Name Analysis", Subsections: map[int]Subsection{
		1: {Name: "Top Recommended Domain Names"},
		2: {Name: "Secondary Domain Options"},
		3: {Name: "Budget Considerations"},
	}},
	3: {Name: "DODO Visual Pattern Integration", Subsections: map[int]Subsection{
		1: {Name: "Key Elements & Significance"},
		2: {Name: "Harmonic Framework"},
		3: {Name: "Transformation Pairs"},
	}},
	4: {Name: "Black Hole & Blockchain Parallels", Subsections: map[int]Subsection{
		1: {Name: "Time & Trust Dimensions"},
		2: {Name: "Gravity & Consensus"},
		3: {Name: "Symmetry & Invariance"},
	}},
	5: {Name: "DODO System Framework", Subsections: map[int]Subsection{
		1: {Name: "Fundamental Dimensions"},
		2: {Name: "System Models"},
		3: {Name: "Implementation Goals"},
	}},
	6: {Name: "Relationship Analysis Integration", Subsections: map[int]Subsection{
		1: {Name: "Unified Data Components"},
		2: {Name: "Analysis Techniques"},
		3: {Name: "System Structure"},
	}},
	7: {Name: "Key Mathematical Constants", Subsections: map[int]Subsection{
		1: {Name: "Golden Ratio"},
		2: {Name: "Time Harmonic"},
		3: {Name: "Base Frequency"},
	}},
	8: {Name: "Implementation Patterns", Subsections: map[int]Subsection{
		1: {Name: "Integration Flow"},
		2: {Name: "Component Connections"},
		3: {Name: "Data Flow Patterns"},
	}},
	9: {Name: "Project Outcomes", Subsections: map[int]Subsection{
		1: {Name: "System Functionality"},
		2: {Name: "Integration Results"},
		3: {Name: "Future Expansion"},
	}},
}

// codeRe validates the general shape of a pattern code.
var codeRe = regexp.MustCompile(`^(\d+\.)+\d+$`)

// Sections returns a copy of the section table (for listings).
func Sections() map[int]Section {
	out := make(map[int]Section, len(sections))
	for k, v := range sections {
		subs := make(map[int]Subsection, len(v.Subsections))
		for sk, sv := range v.Subsections {
			subs[sk] = sv
		}
		out[k] = Section{Name: v.Name, Subsections: subs}
	}
	return out
}

// IsValidCode reports whether s looks like a pattern code (numbers joined by dots).
func IsValidCode(s string) bool {
	return codeRe.MatchString(s)
}

// Encode builds the sequence "{section}.{subsection}.{a1}.{a2}...".
// Section 7 bypasses the general path with hardcoded constant literals.
func Encode(section, subsection int, attrs []int) (string, error) {
	sec, ok := sections[section]
	if !ok {
		return "", fmt.Errorf("section %d: %w", section, ErrUnknownSection)
	}
	if _, ok := sec.Subsections[subsection]; !ok {
		return "", fmt.Errorf("subsection %d of section %d: %w", subsection, section, ErrUnknownSubsection)
	}

	// Mathematical constants are emitted as literals, not attribute lists.
	if section == 7 {
		switch subsection {
		case 1:
			return fmt.Sprintf("7.1.%v", GoldenRatio), nil
		case 2:
			return fmt.Sprintf("7.2.1.%v", TimeHarmonic), nil
		case 3:
			return fmt.Sprintf("7.3.%d", int(BaseFrequency)), nil
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d", section, subsection)
	for _, a := range attrs {
		fmt.Fprintf(&b, ".%d", a)
	}
	seq := b.String()
	logging.Pattern("encoded %d.%d with %d attrs -> %s", section, subsection, len(attrs), seq)
	return seq, nil
}

// EncodeFibonacci generates the Fibonacci integration sequence, e.g.
// "8.1.1.1.2.3.5.8" for six terms.
func EncodeFibonacci(maxTerms int) string {
	fib := []int{1, 1}
	for i := 2; i < maxTerms; i++ {
		fib = append(fib, fib[i-1]+fib[i-2])
	}

	var b strings.Builder
	b.WriteString("8.1")
	for _, n := range fib {
		fmt.Fprintf(&b, ".%d", n)
	}
	return b.String()
}

// ComponentAttrs carries the optional attributes for EncodeComponent.
type ComponentAttrs struct {
	Type        string   // core, extension, integration
	Priority    int      // 0 means unset
	Complexity  int      // 0 means unset
	Connections []string // counted, not encoded individually
}

// componentSections maps name keywords to sections.
var componentSections = []struct {
	keyword string
	section int
}{
	{"visual", 3},
	{"blockchain", 4},
	{"system", 5},
	{"data", 6},
	{"math", 7},
	{"integration", 8},
	{"outcome", 9},
}

// componentTypes maps component types to subsections.
var componentTypes = map[string]int{
	"core":        1,
	"extension":   2,
	"integration": 3,
}

// EncodeComponent encodes a named system component using keyword mappings:
// section from the name, subsection from the type, attributes from
// priority/complexity/connection count padded with 1s to length five.
func EncodeComponent(name string, attrs ComponentAttrs) (string, error) {
	section := 5 // default to system framework
	lower := strings.ToLower(name)
	for _, m := range componentSections {
		if strings.Contains(lower, m.keyword) {
			section = m.section
			break
		}
	}

	subsection := 1
	if t, ok := componentTypes[strings.ToLower(attrs.Type)]; ok {
		subsection = t
	}

	var seq []int
	if attrs.Priority > 0 {
		seq = append(seq, attrs.Priority)
	}
	if attrs.Complexity > 0 {
		seq = append(seq, attrs.Complexity)
	}
	if len(attrs.Connections) > 0 {
		seq = append(seq, len(attrs.Connections))
	}
	for len(seq) < 5 {
		seq = append(seq, 1)
	}

	return Encode(section, subsection, seq)
}

// Concept is one entry of a conversation encoding.
type Concept struct {
	Section    int
	Subsection int
	Attributes []int
}

// EncodeConversation encodes a list of concepts, applying the original
// defaults (section 5, subsection 1, attributes [1 2 3]) for zero values.
func EncodeConversation(concepts []Concept) ([]string, error) {
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		if c.Section == 0 {
			c.Section = 5
		}
		if c.Subsection == 0 {
			c.Subsection = 1
		}
		if c.Attributes == nil {
			c.Attributes = []int{1, 2, 3}
		}
		seq, err := Encode(c.Section, c.Subsection, c.Attributes)
		if err != nil {
			return nil, err
		}
		out = append(out, seq)
	}
	return out, nil
}
