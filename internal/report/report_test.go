package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/canopyapps/nextup/internal/blockers"
	"github.com/canopyapps/nextup/internal/decision"
	"github.com/canopyapps/nextup/internal/plan"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
)

func TestRenderCoversAllTiers(t *testing.T) {
	in := &Input{
		RunID:       "11111111-2222-3333-4444-555555555555",
		GeneratedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Features: []*scan.FeatureScan{
			{Name: "orders", Metrics: scan.FeatureMetrics{TodoCount: 2}, RiskDomains: []string{"payments"}},
			{Name: "billing"},
		},
		Scores: map[string]*scoring.CompletenessScore{
			"orders":  {Feature: "orders", Total: 80, Band: scoring.Band(80)},
			"billing": {Feature: "billing", Total: 30, Band: scoring.Band(30)},
		},
		Blockers: []blockers.Result{
			{ID: "auth-subsystem", Name: "Authentication subsystem", BlocksAll: true,
				Status: blockers.StatusCompleted,
				Evidence: blockers.Evidence{CompletionPercentage: 100}},
		},
		Matrix: &decision.Matrix{
			Winner: decision.Candidate{
				Feature: "orders",
				Total:   0.71,
				Factors: []decision.FactorScore{{
					Name: decision.FactorTechnical, Score: 0.8, Weight: 0.5,
					WeightedScore: 0.4, Confidence: scoring.ConfidenceMeasured,
					Evidence: []string{"completeness 80/100"},
				}},
			},
			RunnersUp: []decision.Candidate{{Feature: "billing", Total: 0.31}},
			WhyNot:    map[string]string{"billing": "billing trails by 0.25 on technical readiness"},
		},
		Plan: &plan.Plan{
			Feature:    "orders",
			Tasks:      []plan.Task{{ID: "orders-01", Title: "Add ui error display", Category: plan.CategoryCore, FilePath: "orders.component.html", Operation: plan.OpModify, EstimatedHours: 3}},
			BuildOrder: []string{"orders-01"},
			Effort:     plan.Estimate{TotalHours: 3, Confidence: scoring.ConfidenceEstimated},
		},
	}

	out := Render(in)

	for _, want := range []string{
		in.RunID,
		"Critical blockers",
		"Recommended next feature",
		"orders",
		"why not: billing trails",
		"Feature completeness",
		"Technical debt signals",
		"2 TODO/FIXME markers",
		"payments",
		"Implementation plan",
		"Add ui error display",
		"Confidence legend",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderVetoSuppressesRecommendation(t *testing.T) {
	in := &Input{
		RunID: "run",
		Matrix: &decision.Matrix{
			VetoReason: "unresolved project-wide blockers veto all shipping recommendations: Authentication subsystem",
			Vetoed:     []string{"orders"},
		},
	}

	out := Render(in)
	assert.Contains(t, out, "veto all shipping recommendations")
	assert.NotContains(t, out, "Build next")
}

func TestRenderHandlesMissingSections(t *testing.T) {
	out := Render(&Input{RunID: "run"})

	assert.Contains(t, out, "no blocker check available")
	assert.Contains(t, out, "ranking unavailable")
	assert.Contains(t, out, "no features discovered")
	assert.Contains(t, out, "no plan generated")
}
