package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/scoring"
)

var scoreVerbose bool

var scoreCmd = &cobra.Command{
	Use:   "score [feature]",
	Short: "Compute four-dimension completeness scores",
	Long: `Score each feature's implementation, test signal, accessibility and
code quality on a 0-25 sub-range each, summed and clamped to 0-100.

Every dimension carries a confidence tag; enable validators in the
configuration to upgrade code quality from regex estimation to real
linter/type-checker results.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx := context.Background()
		features, err := p.scanFeatures(ctx)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			features = filterFeature(features, args[0])
			if len(features) == 0 {
				return fmt.Errorf("feature %q not found", args[0])
			}
		}

		scorer := p.scorer(features)
		scores := scorer.ScoreAll(ctx, features)

		if jsonOutput {
			return emitJSON(scores)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		names := make([]string, 0, len(scores))
		for name := range scores {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return scores[names[i]].Total > scores[names[j]].Total })

		fmt.Printf("%s Completeness scores\n\n", cyan("▶"))
		for _, name := range names {
			s := scores[name]
			marker := yellow("⚠")
			if s.Total >= 75 {
				marker = green("✓")
			} else if s.Total < 25 {
				marker = red("✗")
			}
			fmt.Printf("%s %-20s %3d/100  %s\n", marker, name, s.Total, s.Band)
			if scoreVerbose {
				dims := []struct {
					label  string
					detail scoring.ScoreDetail
				}{
					{"implementation", s.Implementation},
					{"tests", s.TestSignal},
					{"accessibility", s.Accessibility},
					{"code quality", s.CodeQuality},
				}
				for _, d := range dims {
					fmt.Printf("    %-15s %2d/25 [%s]\n", d.label, d.detail.Score, d.detail.Confidence)
					for _, line := range d.detail.Details {
						fmt.Printf("        %s\n", line)
					}
				}
			}
		}
		return nil
	},
}

func init() {
	scoreCmd.Flags().BoolVarP(&scoreVerbose, "verbose", "v", false, "show per-dimension breakdown")
	rootCmd.AddCommand(scoreCmd)
}
