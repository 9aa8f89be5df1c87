package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgPath     string
	projectRoot string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "nextup",
	Short: "Evidence-based feature completeness and recommendation engine",
	Long: `nextup scans a project's feature tree, turns file content into
structured per-feature evidence, scores completeness across four
dimensions, builds dependency and blocker graphs, ranks candidates with a
weighted decision matrix, and emits a dependency-ordered implementation
plan for the winning feature.

Every invocation re-reads the filesystem; nothing is cached between runs
except the blocker-check record the ranking step depends on.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".nextup.yml", "engine configuration file")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "project root to analyze")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "emit structured JSON instead of human output")
}

func main() {
	// Optional; a missing .env is the normal case.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
