package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/canopyapps/nextup/internal/manifest"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Build the feature dependency graph and manifest heuristics",
	Long: `Analyze import-style references between features to build the
dependency graph: forward and reverse edges, dangling references to
non-existent features, sampled multi-hop chains and shared-state usage.

Also runs the dependency-manifest heuristics (unused and missing
packages) when a package.json or go.mod is present at the project root.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := newPipeline()
		if err != nil {
			return err
		}

		features, err := p.scanFeatures(context.Background())
		if err != nil {
			return err
		}

		analysis := p.graph(features)

		var unused, missing []string
		m, err := manifest.Load(p.root)
		if err != nil {
			return err
		}
		if m != nil {
			var corpus strings.Builder
			for _, f := range features {
				corpus.WriteString(f.CombinedContent())
			}
			unused = m.UnusedPackages(corpus.String())
			missing = m.MissingPackages(corpus.String())
		}

		if jsonOutput {
			return emitJSON(map[string]any{
				"graph":            analysis,
				"unused_packages":  unused,
				"missing_packages": missing,
			})
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("%s Feature dependencies\n", cyan("▶"))
		names := make([]string, 0, len(analysis.DependsOn))
		for name := range analysis.DependsOn {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			deps := analysis.DependsOn[name]
			if len(deps) == 0 {
				fmt.Printf("  %-20s (independent)\n", name)
				continue
			}
			fmt.Printf("  %-20s → %s\n", name, strings.Join(deps, ", "))
		}

		if len(analysis.Blocked) > 0 {
			fmt.Printf("\n%s Blocked references\n", cyan("▶"))
			for _, b := range analysis.Blocked {
				fmt.Printf("  %s %s → %q (%s)\n", red("✗"), b.Feature, b.Target, b.Import)
			}
		}

		if len(analysis.Chains) > 0 {
			fmt.Printf("\n%s Dependency chains (sampled)\n", cyan("▶"))
			for _, c := range analysis.Chains {
				fmt.Printf("  %s\n", strings.Join(c.Nodes, " → "))
			}
		}

		if analysis.SharedStoreBlocking() {
			fmt.Printf("\n%s shared state container used by: %s\n",
				yellow("⚠"), strings.Join(analysis.SharedStoreUsers, ", "))
		}

		if len(unused) > 0 {
			fmt.Printf("\n%s declared but unreferenced: %s\n", yellow("⚠"), strings.Join(unused, ", "))
		}
		if len(missing) > 0 {
			fmt.Printf("%s imported but undeclared: %s\n", red("✗"), strings.Join(missing, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(depsCmd)
}
