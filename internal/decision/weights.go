package decision

// Weights configures the relative factor importance. Weights are
// normalized to sum to 1 before use, so callers may supply any positive
// values.
type Weights struct {
	Business   float64 `json:"business"`
	Technical  float64 `json:"technical"`
	Dependency float64 `json:"dependency"`
}

// DefaultWeights balances business pull against technical readiness and
// unblocking impact.
func DefaultWeights() Weights {
	return Weights{Business: 0.40, Technical: 0.35, Dependency: 0.25}
}

// Normalized returns weights scaled to sum to 1. Non-positive totals fall
// back to the defaults.
func (w Weights) Normalized() Weights {
	sum := w.Business + w.Technical + w.Dependency
	if sum <= 0 {
		return DefaultWeights()
	}
	return Weights{
		Business:   w.Business / sum,
		Technical:  w.Technical / sum,
		Dependency: w.Dependency / sum,
	}
}
