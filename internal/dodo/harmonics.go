package dodo

import "math"

// HarmonicFramework calculates harmonic relationships in data.
type HarmonicFramework struct {
	baseFrequency float64
}

// NewHarmonicFramework returns a framework at the default base frequency.
func NewHarmonicFramework() *HarmonicFramework {
	return &HarmonicFramework{baseFrequency: 1.0}
}

// Calculate derives harmonics from the numeric leaves of the data. The base
// frequency is the mean of all values; first/second/third harmonics are its
// 2x/3x/4x multiples. Empty input returns just the current base.
func (h *HarmonicFramework) Calculate(data map[string]interface{}) map[string]float64 {
	values := extractNumericValues(data)
	if len(values) == 0 {
		return map[string]float64{"base": h.baseFrequency}
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	h.baseFrequency = sum / float64(len(values))

	return map[string]float64{
		"base":      h.baseFrequency,
		"first":     h.baseFrequency * 2,
		"second":    h.baseFrequency * 3,
		"third":     h.baseFrequency * 4,
		"resonance": resonance(values),
	}
}

// TimeSpacing returns the harmonic time spacings between start and end:
// the two golden-ratio points and the midpoint.
func (h *HarmonicFramework) TimeSpacing(start, end float64) []float64 {
	duration := end - start
	return []float64{
		start + duration*0.382, // golden ratio first point
		start + duration*0.618, // golden ratio second point
		start + duration*0.5,   // midpoint
	}
}

// resonance is log(product(1+|v|)) / n, computed as a sum of logs so large
// value sets cannot overflow the product.
func resonance(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	var sum float64
	for _, v := range values {
		sum += math.Log(1.0 + math.Abs(v))
	}
	return sum / float64(len(values))
}

// extractNumericValues walks the data tree collecting every numeric leaf.
func extractNumericValues(item interface{}) []float64 {
	var values []float64
	var walk func(interface{})
	walk = func(v interface{}) {
		switch x := v.(type) {
		case float64:
			values = append(values, x)
		case float32:
			values = append(values, float64(x))
		case int:
			values = append(values, float64(x))
		case int64:
			values = append(values, float64(x))
		case map[string]interface{}:
			for _, e := range x {
				walk(e)
			}
		case []interface{}:
			for _, e := range x {
				walk(e)
			}
		}
	}
	walk(item)
	return values
}
