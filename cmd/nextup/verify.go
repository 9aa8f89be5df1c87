package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/verify"
)

var verifyCategory string

var verifyCmd = &cobra.Command{
	Use:   "verify [feature]",
	Short: "Check improvement categories against feature evidence",
	Long: `Run the pattern catalog against discovered features and report, per
(feature, category) pair, whether the capability is already present or
still needed, with the matched and missing patterns listed.

With a feature argument, only that feature is checked. With --category,
only that category runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		features, err := p.scanFeatures(context.Background())
		if err != nil {
			return err
		}
		if len(args) == 1 {
			features = filterFeature(features, args[0])
			if len(features) == 0 {
				return fmt.Errorf("feature %q not found", args[0])
			}
		}

		verifier, err := p.verifier()
		if err != nil {
			return err
		}
		var results []verify.Result
		for _, f := range features {
			if verifyCategory != "" {
				r, err := verifier.Check(f, verifyCategory)
				if err != nil {
					return err
				}
				results = append(results, r)
				continue
			}
			all, err := verifier.CheckAll(f)
			if err != nil {
				return err
			}
			results = append(results, all...)
		}

		if jsonOutput {
			return emitJSON(results)
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		current := ""
		for _, r := range results {
			if r.Feature != current {
				current = r.Feature
				fmt.Printf("\n%s %s\n", cyan("▶"), r.Feature)
			}
			if !r.Needed {
				fmt.Printf("  %s %s\n", green("✓"), r.CategoryID)
				continue
			}
			fmt.Printf("  %s %s (scope: %s)\n", yellow("⚠"), r.CategoryID, r.ScopeUsed)
			for _, m := range r.Missing {
				fmt.Printf("      missing: %s\n", m)
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyCategory, "category", "", "check a single improvement category")
	rootCmd.AddCommand(verifyCmd)
}
