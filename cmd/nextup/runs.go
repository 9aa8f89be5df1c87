package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List archived report runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		store, err := p.openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.RecentRuns(context.Background(), runsLimit)
		if err != nil {
			return err
		}

		if jsonOutput {
			return emitJSON(runs)
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s Recent runs\n", cyan("▶"))
		if len(runs) == 0 {
			fmt.Println("  none recorded")
			return nil
		}
		for _, r := range runs {
			winner := r.Winner
			if winner == "" {
				winner = "(vetoed)"
			}
			fmt.Printf("  %s  %-20s %2d features  %s\n",
				r.RunID[:8], winner, r.TotalFeatures, r.CreatedAt.Local().Format(time.RFC822))
		}
		return nil
	},
}

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 10, "how many runs to list")
	rootCmd.AddCommand(runsCmd)
}
