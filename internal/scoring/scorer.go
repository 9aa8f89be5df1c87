package scoring

import (
	"context"

	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/validators"
)

// Scorer computes completeness scores for features. Validators and Cache
// are optional; when absent the code-quality dimension is estimated. The
// cache is injected per run so repeated or parallel runs stay isolated.
type Scorer struct {
	// RoutesContent is the routing definition checked for feature wiring.
	RoutesContent string

	Validators *validators.Runner
	Cache      *validators.Cache

	// LintThresholds are numeric thresholds pulled from the project's
	// linter config; they tune the estimated quality cutoffs.
	LintThresholds map[string]int

	knownSelectors map[string]bool
}

// NewScorer creates a scorer over the full discovered feature set so child
// selector references can be resolved across features.
func NewScorer(features []*scan.FeatureScan, routesContent string) *Scorer {
	return &Scorer{
		RoutesContent:  routesContent,
		knownSelectors: collectSelectors(features),
	}
}

// Score computes the four dimensions and the clamped composite for one
// feature. Missing inputs yield zero-scored dimensions with explicit
// reasons; Score never fails.
func (s *Scorer) Score(ctx context.Context, feature *scan.FeatureScan) *CompletenessScore {
	score := &CompletenessScore{
		Feature:        feature.Name,
		Implementation: s.scoreImplementation(feature),
		TestSignal:     s.scoreTestSignal(feature),
		Accessibility:  s.scoreAccessibility(feature),
		CodeQuality:    s.scoreCodeQuality(ctx, feature),
	}

	score.Total = clampTotal(score.Implementation.Score +
		score.TestSignal.Score +
		score.Accessibility.Score +
		score.CodeQuality.Score)
	score.Band = Band(score.Total)

	return score
}

// ScoreAll scores every feature, keyed by name.
func (s *Scorer) ScoreAll(ctx context.Context, features []*scan.FeatureScan) map[string]*CompletenessScore {
	scores := make(map[string]*CompletenessScore, len(features))
	for _, f := range features {
		scores[f.Name] = s.Score(ctx, f)
	}
	return scores
}
