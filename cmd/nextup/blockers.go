package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/blockers"
)

var blockersCmd = &cobra.Command{
	Use:   "blockers",
	Short: "Detect project-wide prerequisite blockers",
	Long: `Evaluate the prerequisite catalog (authentication subsystem, core
data schema, permission layer) against the project tree and persist the
results as the precondition record the recommend step requires.

A blocksAll entry that is not COMPLETED vetoes every shipping
recommendation until it is resolved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		ctx := context.Background()
		detector := blockers.NewDetector(p.root)
		results, err := detector.Detect(ctx)
		if err != nil {
			return err
		}

		store, err := p.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runID := uuid.New().String()
		if err := store.SaveBlockerCheck(ctx, runID, results); err != nil {
			return err
		}

		if jsonOutput {
			return emitJSON(map[string]any{
				"run_id":  runID,
				"results": results,
			})
		}

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("%s Blocker check %s\n\n", cyan("▶"), runID)
		for _, r := range results {
			marker := yellow("⚠")
			if r.Status == blockers.StatusCompleted {
				marker = green("✓")
			} else if r.BlocksAll {
				marker = red("✗")
			}
			fmt.Printf("%s %s: %s at %d%%", marker, r.Name, strings.ToLower(string(r.Status)), r.Evidence.CompletionPercentage)
			if r.BlocksAll {
				fmt.Printf(" (blocks all)")
			}
			fmt.Println()
			for _, f := range r.Evidence.FilesMissing {
				fmt.Printf("    missing file: %s\n", f)
			}
			for _, m := range r.Evidence.PatternsMissing {
				fmt.Printf("    missing: %s\n", m)
			}
		}

		if unresolved := blockers.UnresolvedBlocksAll(results); len(unresolved) > 0 {
			fmt.Printf("\n%s %d unresolved blocksAll entries veto all recommendations\n", red("✗"), len(unresolved))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blockersCmd)
}
