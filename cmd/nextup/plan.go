package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/plan"
	"github.com/canopyapps/nextup/internal/scan"
)

var planCmd = &cobra.Command{
	Use:   "plan [feature]",
	Short: "Generate the implementation task plan for a feature",
	Long: `Generate a dependency-ordered task graph for the given feature, or
for the recommended winner when no feature is named (which requires a
fresh blocker check, like "nextup recommend").

Tasks are partitioned into phases (prerequisite data contracts, core
implementation, tests, optional design-system and navigation work), each
with a target file, operation, dependency reasons, acceptance criteria
and an effort share.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx := context.Background()

		var feature *scan.FeatureScan
		var rc *rankingContext
		if len(args) == 1 {
			features, err := p.scanFeatures(ctx)
			if err != nil {
				return err
			}
			picked := filterFeature(features, args[0])
			if len(picked) == 0 {
				return fmt.Errorf("feature %q not found", args[0])
			}
			feature = picked[0]
			scorer := p.scorer(features)
			rc = &rankingContext{
				features: features,
				scores:   scorer.ScoreAll(ctx, features),
				graph:    p.graph(features),
			}
		} else {
			matrix, ranked, err := runRanking(ctx, p)
			if err != nil {
				return err
			}
			if matrix.VetoReason != "" {
				return fmt.Errorf("cannot plan: %s", matrix.VetoReason)
			}
			rc = ranked
			for _, f := range rc.features {
				if f.Name == matrix.Winner.Feature {
					feature = f
				}
			}
		}

		verifier, err := p.verifier()
		if err != nil {
			return err
		}
		verifyResults, err := verifier.CheckAll(feature)
		if err != nil {
			return err
		}

		generator := plan.NewGenerator(p.routesContent())
		taskPlan, err := generator.Generate(feature, rc.scores[feature.Name], verifyResults, rc.graph)
		if err != nil {
			return err
		}

		if jsonOutput {
			return emitJSON(taskPlan)
		}

		printPlan(taskPlan)
		return nil
	},
}

func printPlan(taskPlan *plan.Plan) {
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Printf("%s Implementation plan for %s\n", cyan("▶"), taskPlan.Feature)
	fmt.Printf("  %.1fh estimated [%s]\n", taskPlan.Effort.TotalHours, taskPlan.Effort.Confidence)
	for name, m := range taskPlan.Effort.Multipliers {
		fmt.Printf("    ×%.2f %s\n", m, name)
	}
	fmt.Println()

	for i, id := range taskPlan.BuildOrder {
		task, ok := taskPlan.TaskByID(id)
		if !ok {
			continue
		}
		fmt.Printf("%2d. [%s] %s\n", i+1, task.Category, task.Title)
		fmt.Printf("      %s %s (%.1fh)\n", task.Operation, task.FilePath, task.EstimatedHours)
		for _, dep := range task.DependsOn {
			fmt.Printf("      after %s: %s\n", dep.TaskID, dep.Reason)
		}
		for _, ac := range task.AcceptanceCriteria {
			fmt.Printf("      %s\n", ac)
		}
	}
}

func init() {
	rootCmd.AddCommand(planCmd)
}
