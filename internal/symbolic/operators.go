package symbolic

import (
	"fmt"
	"math"
)

// ============================================================================
// UNIVERSAL OPERATORS
// ============================================================================

// Operator is one of the six universal operators.
type Operator struct {
	Symbol      string `json:"operator"`
	Name        string `json:"name"`
	Description string `json:"effect"`
}

// Operators lists the universal operators in SEED order.
var Operators = []Operator{
	{"⊕", "integrate", "forces union"},
	{"⊗", "tensor", "connects dimensions"},
	{"⊙", "center", "collapses attention"},
	{"⊛", "radiate", "spreads pattern"},
	{"⟲", "cycle", "recursive fix"},
	{"⟳", "progress", "forward flow"},
}

// OperatorResult is one operator application. Radiate fills Values; every
// other operator fills Value.
type OperatorResult struct {
	Operator    string    `json:"operator"`
	Operation   string    `json:"operation"`
	Description string    `json:"description"`
	Left        float64   `json:"left"`
	Right       float64   `json:"right"`
	Value       float64   `json:"result,omitempty"`
	Values      []float64 `json:"results,omitempty"`
}

// Apply evaluates an operator over two numbers.
func Apply(operator string, a, b float64) (OperatorResult, error) {
	var op Operator
	found := false
	for _, o := range Operators {
		if o.Symbol == operator {
			op, found = o, true
			break
		}
	}
	if !found {
		return OperatorResult{}, fmt.Errorf("unknown operator: %s", operator)
	}

	res := OperatorResult{
		Operator:    op.Symbol,
		Operation:   op.Name,
		Description: op.Description,
		Left:        a,
		Right:       b,
	}

	switch operator {
	case "⊕":
		res.Value = Integrate(a, b)
	case "⊗":
		res.Value = Tensor(a, b)
	case "⊙":
		res.Value = Center(a, b)
	case "⊛":
		res.Values = Radiate(a)
	case "⟲":
		res.Value = Cycle(a, b)
	case "⟳":
		res.Value = Progress(a, b)
	}
	return res, nil
}

// Integrate merges two values through the φ midpoint.
func Integrate(a, b float64) float64 { return (a + b) * GoldenRatio / 2 }

// Tensor couples two values via the fine structure constant.
func Tensor(a, b float64) float64 { return a * b * Alpha }

// Center collapses two values to their midpoint.
func Center(a, b float64) float64 { return (a + b) / 2 }

// Radiate spreads a value across φ ratios from φ⁻² to φ².
func Radiate(a float64) []float64 {
	out := make([]float64, 0, 5)
	for i := -2; i <= 2; i++ {
		out = append(out, a*math.Pow(GoldenRatio, float64(i)))
	}
	return out
}

// Cycle heals a value toward a target via φ-damped oscillation.
func Cycle(current, target float64) float64 {
	return current + (target-current)*(1-1/GoldenRatio)
}

// Progress advances two values in φ-weighted forward flow.
func Progress(a, b float64) float64 { return a*GoldenRatio + b/GoldenRatio }

// IntegrateStrings and TensorStrings are the symbolic forms for
// non-numeric operands.
func IntegrateStrings(a, b string) string { return a + "⊕" + b }

func TensorStrings(a, b string) string { return "[" + a + "⊗" + b + "]" }

// ============================================================================
// STATE PATTERNS
// ============================================================================

// StateCheck reports what a [left op right] state pattern means.
type StateCheck struct {
	Pattern string `json:"pattern"`
	State   string `json:"state"`
	Action  string `json:"action"`
}

var statePatterns = map[[3]string]string{
	{"✓", "⊗", "✓"}: "balance_maintained",
	{"✓", "⊗", "✗"}: "healing_flows",
	{"✗", "⊗", "✗"}: "reset_via_void",
}

var stateActions = map[string]string{
	"balance_maintained": "Continue current operation",
	"healing_flows":      "Apply healing from ✓→✗",
	"reset_via_void":     "Reset through ∅, then restart",
}

// CheckStatePattern interprets a state triple like [✓ ⊗ ✓].
func CheckStatePattern(left, op, right string) StateCheck {
	rendered := fmt.Sprintf("[%s %s %s]", left, op, right)

	if state, ok := statePatterns[[3]string{left, op, right}]; ok {
		return StateCheck{
			Pattern: rendered,
			State:   state,
			Action:  stateActions[state],
		}
	}
	return StateCheck{
		Pattern: rendered,
		State:   "unknown",
		Action:  "observe and analyze",
	}
}
