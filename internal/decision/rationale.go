package decision

import (
	"fmt"
	"sort"
	"strings"
)

var factorLabels = map[string]string{
	FactorBusiness:   "business value",
	FactorTechnical:  "technical readiness",
	FactorDependency: "dependency impact",
}

// whyNot verbalizes the largest per-factor weighted deltas between the
// winner and a runner-up.
func whyNot(winner, runner Candidate) string {
	type delta struct {
		name string
		gap  float64
	}

	var deltas []delta
	for _, wf := range winner.Factors {
		rf, ok := runner.Factor(wf.Name)
		if !ok {
			continue
		}
		if gap := wf.WeightedScore - rf.WeightedScore; gap > 0 {
			deltas = append(deltas, delta{name: wf.Name, gap: gap})
		}
	}

	if len(deltas) == 0 {
		return fmt.Sprintf("scored within %.3f of %s on every factor; effectively tied, ordering is stable by rank",
			winner.Total-runner.Total, winner.Feature)
	}

	sort.Slice(deltas, func(i, j int) bool { return deltas[i].gap > deltas[j].gap })
	if len(deltas) > 2 {
		deltas = deltas[:2]
	}

	parts := make([]string, len(deltas))
	for i, d := range deltas {
		parts[i] = fmt.Sprintf("%s trails by %.2f on %s", runner.Feature, d.gap, factorLabels[d.name])
	}
	return strings.Join(parts, "; ")
}
