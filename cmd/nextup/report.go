package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/blockers"
	"github.com/canopyapps/nextup/internal/decision"
	"github.com/canopyapps/nextup/internal/manifest"
	"github.com/canopyapps/nextup/internal/plan"
	"github.com/canopyapps/nextup/internal/report"
	"github.com/canopyapps/nextup/internal/scan"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the full pipeline and emit the composite report",
	Long: `Run every stage end to end: scan, score, dependency graph, a fresh
blocker check, ranking, and a plan for the winner, rendered as one
tiered report (critical blockers, recommended next feature, completeness
overview, technical debt signals, implementation plan).

The blocker check and the finished report are archived in the run store
under a new run ID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx := context.Background()
		runID := uuid.New().String()

		features, err := p.scanFeatures(ctx)
		if err != nil {
			return err
		}

		scorer := p.scorer(features)
		scores := scorer.ScoreAll(ctx, features)
		graph := p.graph(features)

		// Fresh blocker check so the ranking precondition is satisfied by
		// this same run.
		detector := blockers.NewDetector(p.root)
		blockerResults, err := detector.Detect(ctx)
		if err != nil {
			return err
		}

		store, err := p.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveBlockerCheck(ctx, runID, blockerResults); err != nil {
			return err
		}

		weights := decision.Weights{
			Business:   p.cfg.Weights.Business,
			Technical:  p.cfg.Weights.Technical,
			Dependency: p.cfg.Weights.Dependency,
		}
		ranker := decision.NewRanker(weights, p.business(), p.cfg.FreshnessWindow())
		pre := &decision.Precondition{Results: blockerResults, CheckedAt: time.Now()}

		matrix, err := ranker.Rank(features, scores, graph, pre)
		if err != nil {
			return err
		}

		var taskPlan *plan.Plan
		if matrix.VetoReason == "" {
			winner := findFeature(features, matrix.Winner.Feature)
			if winner != nil {
				verifier, err := p.verifier()
				if err != nil {
					return err
				}
				verifyResults, err := verifier.CheckAll(winner)
				if err != nil {
					return err
				}
				generator := plan.NewGenerator(p.routesContent())
				taskPlan, err = generator.Generate(winner, scores[winner.Name], verifyResults, graph)
				if err != nil {
					return err
				}
			}
		}

		var unused, missing []string
		if m, err := manifest.Load(p.root); err == nil && m != nil {
			var corpus strings.Builder
			for _, f := range features {
				corpus.WriteString(f.CombinedContent())
			}
			unused = m.UnusedPackages(corpus.String())
			missing = m.MissingPackages(corpus.String())
		}

		in := &report.Input{
			RunID:           runID,
			GeneratedAt:     time.Now(),
			Features:        features,
			Scores:          scores,
			Blockers:        blockerResults,
			Matrix:          matrix,
			Plan:            taskPlan,
			Graph:           graph,
			UnusedPackages:  unused,
			MissingPackages: missing,
		}

		if jsonOutput {
			return emitJSON(in)
		}

		rendered := report.Render(in)
		fmt.Print(rendered)

		winnerName := ""
		if matrix.VetoReason == "" {
			winnerName = matrix.Winner.Feature
		}
		return store.SaveRun(ctx, runID, winnerName, len(features), rendered)
	},
}

func findFeature(features []*scan.FeatureScan, name string) *scan.FeatureScan {
	for _, f := range features {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
