package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/decision"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank features and pick the one to build next",
	Long: `Run the weighted decision matrix over all discovered features:
business value, technical readiness and dependency impact, each
normalized and confidence-tagged.

Requires a fresh blocker check (run "nextup blockers" first); the
ranking refuses to use a record older than the configured freshness
window, and refuses to run at all when zero features are discovered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx := context.Background()
		matrix, rc, err := runRanking(ctx, p)
		if err != nil {
			return err
		}

		if jsonOutput {
			return emitJSON(matrix)
		}

		printMatrix(matrix)
		if n := len(rc.blockerResults); n > 0 {
			fmt.Printf("\nranked %d features against %d prerequisite checks\n",
				len(rc.features), n)
		}
		return nil
	},
}

// runRanking executes the full pipeline up to the decision matrix.
func runRanking(ctx context.Context, p *pipeline) (*decision.Matrix, *rankingContext, error) {
	features, err := p.scanFeatures(ctx)
	if err != nil {
		return nil, nil, err
	}

	scorer := p.scorer(features)
	scores := scorer.ScoreAll(ctx, features)
	graph := p.graph(features)

	store, err := p.openStore()
	if err != nil {
		return nil, nil, err
	}
	defer store.Close()

	check, err := store.LatestBlockerCheck(ctx)
	if err != nil {
		return nil, nil, err
	}

	var pre *decision.Precondition
	if check != nil {
		pre = &decision.Precondition{Results: check.Results, CheckedAt: check.CreatedAt}
	}

	weights := decision.Weights{
		Business:   p.cfg.Weights.Business,
		Technical:  p.cfg.Weights.Technical,
		Dependency: p.cfg.Weights.Dependency,
	}
	ranker := decision.NewRanker(weights, p.business(), p.cfg.FreshnessWindow())

	matrix, err := ranker.Rank(features, scores, graph, pre)
	if err != nil {
		return nil, nil, err
	}

	rc := &rankingContext{features: features, scores: scores, graph: graph}
	if check != nil {
		rc.blockerResults = check.Results
	}
	return matrix, rc, nil
}

func printMatrix(matrix *decision.Matrix) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if matrix.VetoReason != "" {
		fmt.Printf("%s %s\n", red("✗"), matrix.VetoReason)
		return
	}

	w := matrix.Winner
	fmt.Printf("%s Build next: %s (total %.3f)\n", green("✓"), w.Feature, w.Total)
	for _, f := range w.Factors {
		fmt.Printf("    %-22s %.2f × %.2f = %.3f [%s]\n",
			f.Name, f.Score, f.Weight, f.WeightedScore, f.Confidence)
		for _, e := range f.Evidence {
			fmt.Printf("      %s\n", e)
		}
	}

	if len(matrix.RunnersUp) > 0 {
		fmt.Printf("\n%s Runners-up\n", cyan("▶"))
		for _, r := range matrix.RunnersUp {
			fmt.Printf("  %s (total %.3f)\n", r.Feature, r.Total)
			if why, ok := matrix.WhyNot[r.Feature]; ok {
				fmt.Printf("    why not: %s\n", why)
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
