package plan

import (
	"math"

	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
)

// Discrete effort multipliers. Each adjustment is independent; the default
// for an unremarkable feature is 1.0 on every axis.
const (
	sizeLargeLines  = 1500
	sizeMediumLines = 600

	complexHandlers  = 20
	moderateHandlers = 8

	coverageGapBelow = 10

	integrationEdges = 2
)

// EstimateEffort derives a base hours figure from remaining completeness and
// applies discrete multipliers for size, structural complexity, coverage gap
// and cross-feature integration risk. More completeness never increases the
// estimate.
func EstimateEffort(feature *scan.FeatureScan, score *scoring.CompletenessScore, graph *featgraph.Analysis) Estimate {
	remaining := 100
	testDimension := 0
	if score != nil {
		remaining = 100 - score.Total
		testDimension = score.TestSignal.Score
	}
	if remaining < 0 {
		remaining = 0
	}

	est := Estimate{
		BaseHours:   float64(remaining) * 0.2,
		Multipliers: make(map[string]float64),
		Confidence:  scoring.ConfidenceEstimated,
	}

	switch {
	case feature.Metrics.TotalLines >= sizeLargeLines:
		est.Multipliers["size"] = 1.5
	case feature.Metrics.TotalLines >= sizeMediumLines:
		est.Multipliers["size"] = 1.25
	}

	switch {
	case feature.Metrics.HandlerCount >= complexHandlers:
		est.Multipliers["complexity"] = 1.4
	case feature.Metrics.HandlerCount >= moderateHandlers:
		est.Multipliers["complexity"] = 1.2
	}

	if testDimension < coverageGapBelow {
		est.Multipliers["coverage_gap"] = 1.3
	}

	edges := 0
	if graph != nil {
		edges = len(graph.DependsOn[feature.Name]) + len(graph.DependedOnBy[feature.Name])
	}
	if edges > integrationEdges {
		est.Multipliers["integration_risk"] = 1.25
	}

	total := est.BaseHours
	for _, m := range est.Multipliers {
		total *= m
	}
	est.TotalHours = math.Round(total*10) / 10

	// Two or more non-default multipliers means the estimate is several
	// estimates compounded.
	if len(est.Multipliers) >= 2 {
		est.Confidence = scoring.ConfidenceHeuristic
	}
	if len(est.Multipliers) == 0 {
		est.Multipliers = nil
	}
	return est
}
