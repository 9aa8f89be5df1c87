package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/scan"
)

var scanHistory bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Discover features and collect per-feature evidence",
	Long: `Scan the features directory and report each discovered feature's
file inventory, metrics and risk domains.

With --history, also extract recent version-control history and tag each
commit with the features it touched. History failure degrades to an
explicit "unavailable" flag, never an error.`,
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

		var history scan.HistoryResult
		if scanHistory {
			scanner, err := scan.New(p.featuresRoot())
			if err != nil {
				return err
			}
			names := make([]string, len(features))
			for i, f := range features {
				names[i] = f.Name
			}
			history = scanner.History(ctx, p.root, p.cfg.HistoryCommits, names)
		}

		if jsonOutput {
			return emitJSON(map[string]any{
				"features": features,
				"history":  history,
			})
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("%s Scanned %d features under %s\n\n", cyan("▶"), len(features), p.featuresRoot())
		for _, f := range features {
			fmt.Printf("%s %s\n", green("✓"), f.Name)
			fmt.Printf("    %d files · %d lines · %d handlers · %d TODOs\n",
				f.Metrics.FileCount, f.Metrics.TotalLines, f.Metrics.HandlerCount, f.Metrics.TodoCount)
			fmt.Printf("    components %d · templates %d · styles %d · specs %d · docs %d\n",
				len(f.ComponentFiles), len(f.TemplateFiles), len(f.StyleFiles), len(f.SpecFiles), len(f.DocFiles))
			if len(f.RiskDomains) > 0 {
				fmt.Printf("    %s risk domains: %s\n", yellow("⚠"), strings.Join(f.RiskDomains, ", "))
			}
		}

		if scanHistory {
			fmt.Println()
			if !history.Available {
				fmt.Printf("%s history unavailable\n", yellow("⚠"))
			} else {
				fmt.Printf("%s %d commits inspected\n", cyan("▶"), len(history.Commits))
				for _, c := range history.Commits {
					if len(c.Features) == 0 {
						continue
					}
					fmt.Printf("    %s %s (%s)\n", c.Hash[:minInt(8, len(c.Hash))], c.Subject, strings.Join(c.Features, ", "))
				}
			}
		}

		if len(features) == 0 {
			fmt.Fprintf(os.Stderr, "no features found; check features_dir in %s\n", cfgPath)
		}
		return nil
	},
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func init() {
	scanCmd.Flags().BoolVar(&scanHistory, "history", false, "include version-control history evidence")
	rootCmd.AddCommand(scanCmd)
}
