package pattern

import (
	"errors"
	"strings"
	"testing"
)

// TestEncodeDecodeRoundTrip covers every section/subsection pair in the table
// with integer attributes. Section 7 is excluded: its encoder emits constant
// literals instead of the attribute list.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	attrSets := [][]int{
		{},
		{1},
		{2, 1, 5, 3, 2},
		{0, 1, 0, 1},
	}

	for section := 1; section <= 9; section++ {
		if section == 7 {
			continue
		}
		for subsection := 1; subsection <= 3; subsection++ {
			for _, attrs := range attrSets {
				seq, err := Encode(section, subsection, attrs)
				if err != nil {
					t.Fatalf("Encode(%d, %d, %v) failed: %v", section, subsection, attrs, err)
				}

				d, err := Decode(seq)
				if err != nil {
					t.Fatalf("Decode(%q) failed: %v", seq, err)
				}
				if d.Special != nil {
					// Attribute sets that happen to form a Fibonacci run
					// under section 8 are matched specially; skip those.
					if section == 8 && subsection == 1 {
						continue
					}
					t.Fatalf("Decode(%q) unexpectedly special: %+v", seq, d.Special)
				}
				if d.Section != section || d.Subsection != subsection {
					t.Errorf("Decode(%q) = section %d.%d, want %d.%d",
						seq, d.Section, d.Subsection, section, subsection)
				}
				if len(d.Attributes) != len(attrs) {
					t.Fatalf("Decode(%q) returned %d attributes, want %d",
						seq, len(d.Attributes), len(attrs))
				}
				for i, a := range attrs {
					got := d.Attributes[i]
					if got.Kind != KindInt || got.Int != a {
						t.Errorf("Decode(%q) attribute %d = %v, want int %d", seq, i, got, a)
					}
				}
			}
		}
	}
}

func TestEncodeRejectsUnknownTableEntries(t *testing.T) {
	if _, err := Encode(12, 1, nil); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("Encode(12, 1) error = %v, want ErrUnknownSection", err)
	}
	if _, err := Encode(3, 9, nil); !errors.Is(err, ErrUnknownSubsection) {
		t.Errorf("Encode(3, 9) error = %v, want ErrUnknownSubsection", err)
	}
}

func TestEncodeConstantLiterals(t *testing.T) {
	tests := []struct {
		subsection int
		want       string
	}{
		{1, "7.1.1.618033988749895"},
		{2, "7.2.1.1.333333"},
		{3, "7.3.432"},
	}
	for _, tt := range tests {
		got, err := Encode(7, tt.subsection, []int{9, 9, 9})
		if err != nil {
			t.Fatalf("Encode(7, %d) failed: %v", tt.subsection, err)
		}
		if got != tt.want {
			t.Errorf("Encode(7, %d) = %q, want %q (attributes must be bypassed)",
				tt.subsection, got, tt.want)
		}
	}
}

func TestDecodeSpecialMatchers(t *testing.T) {
	tests := []struct {
		seq      string
		wantType string
		wantName string
	}{
		{"8.1.1.1.2.3.5.8", "fibonacci", ""},
		{"7.1.1.618033988749895", "mathematical_constant", "Golden Ratio"},
		{"7.2.1.1.333333", "mathematical_constant", "Time Harmonic Ratio"},
		{"7.3.432", "mathematical_constant", "Base Frequency"},
	}
	for _, tt := range tests {
		d, err := Decode(tt.seq)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", tt.seq, err)
		}
		if d.Special == nil {
			t.Fatalf("Decode(%q): expected special match", tt.seq)
		}
		if d.Special.Type != tt.wantType {
			t.Errorf("Decode(%q) type = %q, want %q", tt.seq, d.Special.Type, tt.wantType)
		}
		if tt.wantName != "" && d.Special.Name != tt.wantName {
			t.Errorf("Decode(%q) name = %q, want %q", tt.seq, d.Special.Name, tt.wantName)
		}
	}

	// A broken Fibonacci run decodes through the standard path.
	d, err := Decode("8.1.1.2.4.8")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Special != nil {
		t.Errorf("non-Fibonacci sequence matched specially: %+v", d.Special)
	}
	if d.SectionName != "Implementation Patterns" {
		t.Errorf("SectionName = %q, want Implementation Patterns", d.SectionName)
	}
}

func TestDecodeUnknownSectionKeepsGoing(t *testing.T) {
	d, err := Decode("42.1.2.3")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if d.Note != "Unknown section" {
		t.Errorf("Note = %q, want Unknown section", d.Note)
	}
	if d.Section != 42 || d.Subsection != 1 {
		t.Errorf("got section %d.%d, want 42.1", d.Section, d.Subsection)
	}
}

func TestDecodeRejectsShortAndMalformed(t *testing.T) {
	for _, seq := range []string{"5", "", "x.y.z"} {
		if _, err := Decode(seq); !errors.Is(err, ErrInvalidSequence) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidSequence", seq, err)
		}
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		seq      string
		contains string
	}{
		{"3.2.2.1.5.3.2", "DODO Visual Pattern Integration"},
		{"3.2.2.1.5.3.2", "Harmonic Framework"},
		{"8.1.1.1.2.3.5.8", "Fibonacci"},
		{"7.3.432", "Base Frequency"},
	}
	for _, tt := range tests {
		got, err := Explain(tt.seq)
		if err != nil {
			t.Fatalf("Explain(%q) failed: %v", tt.seq, err)
		}
		if !strings.Contains(got, tt.contains) {
			t.Errorf("Explain(%q) = %q, want substring %q", tt.seq, got, tt.contains)
		}
	}
}

func TestEncodeFibonacci(t *testing.T) {
	if got := EncodeFibonacci(6); got != "8.1.1.1.2.3.5.8" {
		t.Errorf("EncodeFibonacci(6) = %q, want 8.1.1.1.2.3.5.8", got)
	}
	// Every generated sequence must decode as a Fibonacci special.
	for terms := 2; terms <= 10; terms++ {
		seq := EncodeFibonacci(terms)
		d, err := Decode(seq)
		if err != nil {
			t.Fatalf("Decode(%q) failed: %v", seq, err)
		}
		if d.Special == nil || d.Special.Type != "fibonacci" {
			t.Errorf("Decode(%q) did not match fibonacci", seq)
		}
	}
}

func TestEncodeComponent(t *testing.T) {
	tests := []struct {
		name  string
		attrs ComponentAttrs
		want  string
	}{
		{
			name:  "visual-renderer",
			attrs: ComponentAttrs{Type: "extension", Priority: 2, Complexity: 3},
			want:  "3.2.2.3.1.1.1",
		},
		{
			name:  "unrelated-widget",
			attrs: ComponentAttrs{},
			want:  "5.1.1.1.1.1.1", // defaults: system framework, core, padded
		},
		{
			name: "data-pipeline",
			attrs: ComponentAttrs{
				Type:        "integration",
				Priority:    1,
				Complexity:  4,
				Connections: []string{"a", "b", "c"},
			},
			want: "6.3.1.4.3.1.1",
		},
	}
	for _, tt := range tests {
		got, err := EncodeComponent(tt.name, tt.attrs)
		if err != nil {
			t.Fatalf("EncodeComponent(%q) failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("EncodeComponent(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestManagerLookupAndNormalization(t *testing.T) {
	m := NewManager()

	for _, name := range []string{"time-trust", "TIME-TRUST", "time_trust", "timetrust"} {
		code, err := m.Code(name)
		if err != nil {
			t.Fatalf("Code(%q) failed: %v", name, err)
		}
		if code != "4.1.1.3.5.2.4" {
			t.Errorf("Code(%q) = %q, want 4.1.1.3.5.2.4", name, code)
		}
	}

	// A raw valid code passes through.
	code, err := m.Code("9.9.9")
	if err != nil {
		t.Fatalf("Code passthrough failed: %v", err)
	}
	if code != "9.9.9" {
		t.Errorf("Code passthrough = %q", code)
	}

	if _, err := m.Code("nonsense"); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("Code(nonsense) error = %v, want ErrUnknownPattern", err)
	}

	name, err := m.Name("3.2.2.1.5.3.2")
	if err != nil {
		t.Fatalf("Name failed: %v", err)
	}
	if name != "harmonic" {
		t.Errorf("Name(3.2.2.1.5.3.2) = %q, want harmonic", name)
	}
	if _, err := m.Name("9.9.9"); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("Name(9.9.9) error = %v, want ErrUnknownPattern", err)
	}
}

func TestManagerRegisterAndSegments(t *testing.T) {
	m := NewManager()

	if err := m.Register("custom", "1.2.3.4"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	segs, err := m.Segments("custom")
	if err != nil {
		t.Fatalf("Segments failed: %v", err)
	}
	want := []int{1, 2, 3, 4}
	for i, s := range want {
		if segs[i] != s {
			t.Errorf("Segments[%d] = %d, want %d", i, segs[i], s)
		}
	}

	if err := m.Register("bad", "not.a.code"); err == nil {
		t.Error("Register accepted an invalid code")
	}

	all := m.All()
	if len(all) != 5 {
		t.Errorf("All() returned %d patterns, want 5", len(all))
	}
}

func TestIsValidCode(t *testing.T) {
	valid := []string{"1.2", "5.1.1.0.1.0.1", "7.1.1.618033988749895"}
	invalid := []string{"", "5", "5.", ".5", "a.b", "1..2"}
	for _, s := range valid {
		if !IsValidCode(s) {
			t.Errorf("IsValidCode(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidCode(s) {
			t.Errorf("IsValidCode(%q) = true, want false", s)
		}
	}
}
