package dodo

// Transform mutates or derives data in one direction of a pair.
type Transform func(map[string]interface{}) map[string]interface{}

// TransformationPair couples a forward and reverse transform with the states
// it applies in. A nil ApplicableStates means all four.
type TransformationPair struct {
	Name             string
	Forward          Transform
	Reverse          Transform
	ApplicableStates []State
}

// IsApplicable reports whether the pair applies in the given state.
func (p TransformationPair) IsApplicable(_ map[string]interface{}, state State) bool {
	states := p.ApplicableStates
	if states == nil {
		states = AllStates
	}
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}

// Apply runs the transform in the requested direction.
func (p TransformationPair) Apply(data map[string]interface{}, reverse bool) map[string]interface{} {
	if reverse {
		return p.Reverse(data)
	}
	return p.Forward(data)
}
