// Package decision ranks eligible features with one canonical,
// weight-configurable multi-criteria scoring function and selects the
// single feature to build next.
package decision

import "github.com/canopyapps/nextup/internal/scoring"

// Factor names used across candidates.
const (
	FactorBusiness   = "business_value"
	FactorTechnical  = "technical_readiness"
	FactorDependency = "dependency_impact"
)

// FactorScore is one normalized, weighted factor with its provenance.
type FactorScore struct {
	Name string `json:"name"`

	// Score is normalized to [0,1].
	Score float64 `json:"score"`

	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`

	Evidence   []string           `json:"evidence"`
	Confidence scoring.Confidence `json:"confidence"`
}

// Candidate is one eligible feature with its factor breakdown.
type Candidate struct {
	Feature string        `json:"feature"`
	Factors []FactorScore `json:"factors"`
	Total   float64       `json:"total"`
}

// Factor returns the named factor, if present.
func (c *Candidate) Factor(name string) (FactorScore, bool) {
	for _, f := range c.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return FactorScore{}, false
}

// Matrix is the full ranking outcome.
type Matrix struct {
	// Candidates are sorted by total, descending.
	Candidates []Candidate `json:"candidates"`

	Winner Candidate `json:"winner"`

	// RunnersUp are the next candidates after the winner, at most three.
	RunnersUp []Candidate `json:"runners_up"`

	// WhyNot maps each runner-up feature to a generated rationale naming
	// the largest factor deltas against the winner.
	WhyNot map[string]string `json:"why_not"`

	// Vetoed lists features excluded by unresolved blocksAll blockers.
	Vetoed []string `json:"vetoed,omitempty"`

	// VetoReason explains a project-wide veto, when one applies.
	VetoReason string `json:"veto_reason,omitempty"`
}
