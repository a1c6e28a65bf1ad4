package pattern

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"bazinga/internal/logging"
)

// Value is one decoded attribute token. Tokens with a decimal point decode as
// floats, plain digit runs as ints, anything else is kept raw.
type Value struct {
	Kind  ValueKind
	Int   int
	Float float64
	Text  string
}

// ValueKind discriminates Value.
type ValueKind int

const (
	KindInt ValueKind = iota
	KindFloat
	KindText
)

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	default:
		return v.Text
	}
}

// Special identifies a sequence matched by one of the special-pattern
// matchers before standard decoding.
type Special struct {
	Type        string // "fibonacci" or "mathematical_constant"
	Name        string
	Value       float64
	Description string
	Sequence    []int // fibonacci terms
}

// Decoded is the human-readable form of a sequence.
type Decoded struct {
	Section        int
	SectionName    string
	Subsection     int
	SubsectionName string
	Attributes     []Value
	Note           string // set when the section is not in the table
	Raw            string
	Special        *Special // non-nil when a special matcher fired
}

// Decode reverses Encode: splits on dots, looks up display names, and
// type-coerces the remaining tokens. Special matchers (Fibonacci and the
// section-7 constants) run first. Unknown sections decode with a note
// instead of failing; sequences with fewer than two components fail.
func Decode(seq string) (*Decoded, error) {
	if sp := matchSpecial(seq); sp != nil {
		return &Decoded{Raw: seq, Special: sp}, nil
	}

	parts := strings.Split(seq, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("sequence %q: %w", seq, ErrInvalidSequence)
	}

	section, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("sequence %q: section token %q: %w", seq, parts[0], ErrInvalidSequence)
	}
	subsection, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("sequence %q: subsection token %q: %w", seq, parts[1], ErrInvalidSequence)
	}

	d := &Decoded{
		Section:    section,
		Subsection: subsection,
		Attributes: coerceValues(parts[2:]),
		Raw:        seq,
	}

	sec, ok := sections[section]
	if !ok {
		d.Note = "Unknown section"
		logging.Pattern("decoded %s: unknown section %d", seq, section)
		return d, nil
	}

	d.SectionName = sec.Name
	d.SubsectionName = fmt.Sprintf("Subsection %d", subsection)
	if sub, ok := sec.Subsections[subsection]; ok {
		d.SubsectionName = sub.Name
	}

	return d, nil
}

// Explain renders a one-line human-readable explanation of a sequence.
func Explain(seq string) (string, error) {
	d, err := Decode(seq)
	if err != nil {
		return "", err
	}

	if d.Special != nil {
		switch d.Special.Type {
		case "fibonacci":
			return fmt.Sprintf("Fibonacci sequence (%v) used for progressive integration steps", d.Special.Sequence), nil
		case "mathematical_constant":
			return fmt.Sprintf("%s (%v): %s", d.Special.Name, d.Special.Value, d.Special.Description), nil
		}
	}

	explanation := fmt.Sprintf("Section %d (%s), Subsection %d (%s)",
		d.Section, d.SectionName, d.Subsection, d.SubsectionName)
	if d.Note != "" {
		explanation = fmt.Sprintf("Section %d (%s), Subsection %d", d.Section, d.Note, d.Subsection)
	}
	if len(d.Attributes) > 0 {
		strs := make([]string, len(d.Attributes))
		for i, a := range d.Attributes {
			strs[i] = a.String()
		}
		explanation += fmt.Sprintf(" with attributes: [%s]", strings.Join(strs, " "))
	}
	return explanation, nil
}

// DecodeConversation decodes a slice of sequences.
func DecodeConversation(seqs []string) ([]*Decoded, error) {
	out := make([]*Decoded, 0, len(seqs))
	for _, s := range seqs {
		d, err := Decode(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func coerceValues(tokens []string) []Value {
	vals := make([]Value, 0, len(tokens))
	for _, tok := range tokens {
		if strings.Contains(tok, ".") {
			if f, err := strconv.ParseFloat(tok, 64); err == nil {
				vals = append(vals, Value{Kind: KindFloat, Float: f})
				continue
			}
		} else if n, err := strconv.Atoi(tok); err == nil {
			vals = append(vals, Value{Kind: KindInt, Int: n})
			continue
		}
		vals = append(vals, Value{Kind: KindText, Text: tok})
	}
	return vals
}

// matchSpecial runs the special-pattern matchers in fixed order.
func matchSpecial(seq string) *Special {
	if sp := matchFibonacci(seq); sp != nil {
		return sp
	}
	if sp := matchConstant(seq, "7.1.", 3, GoldenRatio, 1e-4, "Golden Ratio",
		"Used for visual harmonics and spatial arrangements"); sp != nil {
		return sp
	}
	if sp := matchConstant(seq, "7.2.1.", 4, TimeHarmonic, 1e-4, "Time Harmonic Ratio",
		"Used for execution cycles"); sp != nil {
		return sp
	}
	if sp := matchConstant(seq, "7.3.", 3, BaseFrequency, 0.1, "Base Frequency",
		"Used for sound harmonics (Hz)"); sp != nil {
		return sp
	}
	return nil
}

func matchFibonacci(seq string) *Special {
	if !strings.HasPrefix(seq, "8.1.") {
		return nil
	}
	parts := strings.Split(seq, ".")
	if len(parts) < 4 {
		return nil
	}
	nums := make([]int, 0, len(parts)-2)
	for _, p := range parts[2:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		nums = append(nums, n)
	}
	for i := 2; i < len(nums); i++ {
		if nums[i] != nums[i-1]+nums[i-2] {
			return nil
		}
	}
	return &Special{
		Type:        "fibonacci",
		Description: "Fibonacci sequence for integration steps",
		Sequence:    nums,
	}
}

// matchConstant checks whether the tail after the literal prefix parses to the
// given constant. The tail is everything past the first tailStart-1 dots, so a
// float written into the sequence keeps its decimal point.
func matchConstant(seq, prefix string, tailStart int, want, tol float64, name, desc string) *Special {
	if !strings.HasPrefix(seq, prefix) {
		return nil
	}
	parts := strings.SplitN(seq, ".", tailStart)
	if len(parts) < tailStart {
		return nil
	}
	v, err := strconv.ParseFloat(parts[tailStart-1], 64)
	if err != nil {
		return nil
	}
	if math.Abs(v-want) >= tol {
		return nil
	}
	return &Special{
		Type:        "mathematical_constant",
		Name:        name,
		Value:       v,
		Description: desc,
	}
}
