package decision

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/canopyapps/nextup/internal/bizdata"
	"github.com/canopyapps/nextup/internal/blockers"
	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
)

// Precondition carries the persisted blocker-check record the ranking step
// depends on.
type Precondition struct {
	Results   []blockers.Result
	CheckedAt time.Time
}

// Ranker computes the decision matrix.
type Ranker struct {
	Weights  Weights
	Business *bizdata.Set

	// FreshnessWindow bounds how old the blocker precondition may be.
	FreshnessWindow time.Duration
}

// NewRanker creates a ranker with the given weights (normalized before
// use) and business inputs.
func NewRanker(weights Weights, business *bizdata.Set, freshness time.Duration) *Ranker {
	if freshness <= 0 {
		freshness = 30 * time.Minute
	}
	return &Ranker{
		Weights:         weights.Normalized(),
		Business:        business,
		FreshnessWindow: freshness,
	}
}

// Rank builds the decision matrix. It fails hard only on the two spec'd
// preconditions: zero discovered features, or an absent/stale blocker
// check. Everything else degrades to labeled evidence.
func (r *Ranker) Rank(
	features []*scan.FeatureScan,
	scores map[string]*scoring.CompletenessScore,
	graph *featgraph.Analysis,
	pre *Precondition,
) (*Matrix, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("no features discovered: nothing to rank")
	}
	if pre == nil {
		return nil, fmt.Errorf("blocker check missing: run blocker detection before ranking")
	}
	if age := time.Since(pre.CheckedAt); age > r.FreshnessWindow {
		return nil, fmt.Errorf("blocker check is stale (%s old, window %s): re-run blocker detection",
			age.Round(time.Second), r.FreshnessWindow)
	}

	matrix := &Matrix{WhyNot: make(map[string]string)}

	unresolved := blockers.UnresolvedBlocksAll(pre.Results)
	if len(unresolved) > 0 {
		names := make([]string, len(unresolved))
		for i, b := range unresolved {
			names[i] = b.Name
		}
		matrix.VetoReason = fmt.Sprintf(
			"unresolved project-wide blockers veto all shipping recommendations: %s",
			strings.Join(names, ", "))
		for _, f := range features {
			matrix.Vetoed = append(matrix.Vetoed, f.Name)
		}
		return matrix, nil
	}

	maxUnblocks := 0
	for _, f := range features {
		if n := graph.UnblockCount(f.Name); n > maxUnblocks {
			maxUnblocks = n
		}
	}

	for _, f := range features {
		matrix.Candidates = append(matrix.Candidates, r.scoreCandidate(f, scores[f.Name], graph, maxUnblocks))
	}

	sort.SliceStable(matrix.Candidates, func(i, j int) bool {
		return matrix.Candidates[i].Total > matrix.Candidates[j].Total
	})

	matrix.Winner = matrix.Candidates[0]
	for i := 1; i < len(matrix.Candidates) && i <= 3; i++ {
		runner := matrix.Candidates[i]
		matrix.RunnersUp = append(matrix.RunnersUp, runner)
		matrix.WhyNot[runner.Feature] = whyNot(matrix.Winner, runner)
	}

	return matrix, nil
}

// scoreCandidate computes the three factors for one feature. A feature
// with no business input gets an UNKNOWN business factor and falls back to
// purely technical evidence: the business weight is redistributed over the
// remaining factors rather than scored as zero.
func (r *Ranker) scoreCandidate(
	f *scan.FeatureScan,
	score *scoring.CompletenessScore,
	graph *featgraph.Analysis,
	maxUnblocks int,
) Candidate {
	candidate := Candidate{Feature: f.Name}

	bizValue, bizKnown := 0.0, false
	var bizEvidence []string
	if r.Business != nil {
		bizValue, bizKnown, bizEvidence = r.Business.Value(f.Name)
	}

	weights := r.Weights
	if !bizKnown {
		// Redistribute the business weight proportionally so the candidate
		// competes on technical evidence alone.
		rest := weights.Technical + weights.Dependency
		if rest > 0 {
			weights.Technical += weights.Business * weights.Technical / rest
			weights.Dependency += weights.Business * weights.Dependency / rest
		}
		weights.Business = 0
	}

	bizFactor := FactorScore{
		Name:       FactorBusiness,
		Score:      bizValue,
		Weight:     weights.Business,
		Evidence:   bizEvidence,
		Confidence: scoring.ConfidenceMeasured,
	}
	if !bizKnown {
		bizFactor.Confidence = scoring.ConfidenceUnavailable
		bizFactor.Evidence = append(bizFactor.Evidence,
			"no business input covers this feature; reported UNKNOWN, ranking falls back to technical evidence")
	}
	bizFactor.WeightedScore = bizFactor.Score * bizFactor.Weight

	techScore, techConfidence, techEvidence := technicalFactor(score)
	techFactor := FactorScore{
		Name:          FactorTechnical,
		Score:         techScore,
		Weight:        weights.Technical,
		WeightedScore: techScore * weights.Technical,
		Evidence:      techEvidence,
		Confidence:    techConfidence,
	}

	depScore := 0.0
	unblocks := graph.UnblockCount(f.Name)
	if maxUnblocks > 0 {
		depScore = float64(unblocks) / float64(maxUnblocks)
	}
	depEvidence := []string{fmt.Sprintf("unblocks %d dependent features", unblocks)}
	if graph.SharedStoreBlocking() && containsName(graph.SharedStoreUsers, f.Name) {
		depScore = maxFloat(depScore, 0.75)
		depEvidence = append(depEvidence, "participates in shared state container used by multiple features")
	}
	depFactor := FactorScore{
		Name:          FactorDependency,
		Score:         depScore,
		Weight:        weights.Dependency,
		WeightedScore: depScore * weights.Dependency,
		Evidence:      depEvidence,
		Confidence:    scoring.ConfidenceMeasured,
	}

	candidate.Factors = []FactorScore{bizFactor, techFactor, depFactor}
	for _, factor := range candidate.Factors {
		candidate.Total += factor.WeightedScore
	}
	return candidate
}

// technicalFactor converts a completeness score into a [0,1] readiness
// value, carrying forward the weakest dimension confidence.
func technicalFactor(score *scoring.CompletenessScore) (float64, scoring.Confidence, []string) {
	if score == nil {
		return 0, scoring.ConfidenceUnavailable, []string{"feature was not scored"}
	}

	confidence := scoring.ConfidenceMeasured
	for _, d := range []scoring.ScoreDetail{score.Implementation, score.TestSignal, score.Accessibility, score.CodeQuality} {
		if weakerConfidence(d.Confidence, confidence) {
			confidence = d.Confidence
		}
	}

	evidence := []string{
		fmt.Sprintf("completeness %d/100 (%s)", score.Total, score.Band),
	}
	return float64(score.Total) / 100, confidence, evidence
}

var confidenceRank = map[scoring.Confidence]int{
	scoring.ConfidenceMeasured:     5,
	scoring.ConfidenceValidated:    5,
	scoring.ConfidenceEstimated:    3,
	scoring.ConfidencePatternBased: 3,
	scoring.ConfidenceHeuristic:    2,
	scoring.ConfidenceUnavailable:  1,
}

func weakerConfidence(a, b scoring.Confidence) bool {
	return confidenceRank[a] < confidenceRank[b]
}

func containsName(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
