// Package report renders the composite tiered recommendation report that
// combines every pipeline stage into one human-readable document.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/canopyapps/nextup/internal/blockers"
	"github.com/canopyapps/nextup/internal/decision"
	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/plan"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
)

// Input collects the stage outputs the report is composed from. Nil or
// empty sections render as explicit "unavailable" lines rather than being
// silently dropped.
type Input struct {
	RunID       string
	GeneratedAt time.Time

	Features []*scan.FeatureScan
	Scores   map[string]*scoring.CompletenessScore
	Blockers []blockers.Result
	Matrix   *decision.Matrix
	Plan     *plan.Plan
	Graph    *featgraph.Analysis

	UnusedPackages  []string
	MissingPackages []string
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Render produces the tiered report text.
func Render(in *Input) string {
	var b strings.Builder

	when := in.GeneratedAt
	if when.IsZero() {
		when = time.Now()
	}
	fmt.Fprintf(&b, "%s nextup report\n", cyan("▶"))
	fmt.Fprintf(&b, "  run %s · %s\n\n", in.RunID, when.Format(time.RFC3339))

	renderBlockers(&b, in.Blockers)
	renderRecommendation(&b, in.Matrix)
	renderHighValue(&b, in.Features, in.Scores)
	renderDebt(&b, in)
	renderPlan(&b, in.Plan)
	renderLegend(&b)

	return b.String()
}

func renderBlockers(b *strings.Builder, results []blockers.Result) {
	fmt.Fprintf(b, "%s Critical blockers\n", cyan("▶"))
	if len(results) == 0 {
		fmt.Fprintf(b, "  %s no blocker check available\n\n", yellow("⚠"))
		return
	}

	clear := true
	for _, r := range results {
		switch {
		case r.Status == blockers.StatusCompleted:
			fmt.Fprintf(b, "  %s %s (%d%%)\n", green("✓"), r.Name, r.Evidence.CompletionPercentage)
		case r.BlocksAll:
			clear = false
			fmt.Fprintf(b, "  %s %s: %s at %d%%, blocks all recommendations\n",
				red("✗"), r.Name, strings.ToLower(string(r.Status)), r.Evidence.CompletionPercentage)
			for _, missing := range r.Evidence.FilesMissing {
				fmt.Fprintf(b, "      missing file: %s\n", missing)
			}
			for _, missing := range r.Evidence.PatternsMissing {
				fmt.Fprintf(b, "      missing: %s\n", missing)
			}
		default:
			fmt.Fprintf(b, "  %s %s: %s at %d%%\n",
				yellow("⚠"), r.Name, strings.ToLower(string(r.Status)), r.Evidence.CompletionPercentage)
		}
	}
	if clear {
		fmt.Fprintf(b, "  %s no blocking prerequisites outstanding\n", green("✓"))
	}
	b.WriteString("\n")
}

func renderRecommendation(b *strings.Builder, matrix *decision.Matrix) {
	fmt.Fprintf(b, "%s Recommended next feature\n", cyan("▶"))
	if matrix == nil {
		fmt.Fprintf(b, "  %s ranking unavailable\n\n", yellow("⚠"))
		return
	}
	if matrix.VetoReason != "" {
		fmt.Fprintf(b, "  %s %s\n\n", red("✗"), matrix.VetoReason)
		return
	}

	w := matrix.Winner
	fmt.Fprintf(b, "  %s %s (total %.3f)\n", green("✓"), w.Feature, w.Total)
	for _, f := range w.Factors {
		fmt.Fprintf(b, "      %-22s %.2f × %.2f = %.3f [%s]\n",
			f.Name, f.Score, f.Weight, f.WeightedScore, f.Confidence)
		for _, e := range f.Evidence {
			fmt.Fprintf(b, "        %s\n", e)
		}
	}

	if len(matrix.RunnersUp) > 0 {
		fmt.Fprintf(b, "  runners-up:\n")
		for _, r := range matrix.RunnersUp {
			fmt.Fprintf(b, "    %s (total %.3f)\n", r.Feature, r.Total)
			if why, ok := matrix.WhyNot[r.Feature]; ok {
				fmt.Fprintf(b, "      why not: %s\n", why)
			}
		}
	}
	b.WriteString("\n")
}

func renderHighValue(b *strings.Builder, features []*scan.FeatureScan, scores map[string]*scoring.CompletenessScore) {
	fmt.Fprintf(b, "%s Feature completeness\n", cyan("▶"))
	if len(features) == 0 {
		fmt.Fprintf(b, "  %s no features discovered\n\n", yellow("⚠"))
		return
	}

	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name)
	}
	sort.Slice(names, func(i, j int) bool {
		return scoreTotal(scores, names[i]) > scoreTotal(scores, names[j])
	})

	for _, name := range names {
		score := scores[name]
		if score == nil {
			fmt.Fprintf(b, "  %s %-20s not scored\n", yellow("⚠"), name)
			continue
		}
		marker := yellow("⚠")
		if score.Total >= 75 {
			marker = green("✓")
		} else if score.Total < 25 {
			marker = red("✗")
		}
		fmt.Fprintf(b, "  %s %-20s %3d/100  %s\n", marker, name, score.Total, score.Band)
	}
	b.WriteString("\n")
}

func scoreTotal(scores map[string]*scoring.CompletenessScore, name string) int {
	if s := scores[name]; s != nil {
		return s.Total
	}
	return -1
}

func renderDebt(b *strings.Builder, in *Input) {
	fmt.Fprintf(b, "%s Technical debt signals\n", cyan("▶"))
	found := false

	for _, f := range in.Features {
		if f.Metrics.TodoCount > 0 {
			found = true
			fmt.Fprintf(b, "  %s %s carries %d TODO/FIXME markers\n", yellow("⚠"), f.Name, f.Metrics.TodoCount)
		}
		if len(f.RiskDomains) > 0 {
			found = true
			fmt.Fprintf(b, "  %s %s touches risk domains: %s\n", yellow("⚠"), f.Name, strings.Join(f.RiskDomains, ", "))
		}
	}

	if in.Graph != nil {
		for _, blocked := range in.Graph.Blocked {
			found = true
			fmt.Fprintf(b, "  %s %s references non-existent feature %q (%s)\n",
				red("✗"), blocked.Feature, blocked.Target, blocked.Import)
		}
	}
	if len(in.UnusedPackages) > 0 {
		found = true
		fmt.Fprintf(b, "  %s declared but unreferenced packages: %s\n", yellow("⚠"), strings.Join(in.UnusedPackages, ", "))
	}
	if len(in.MissingPackages) > 0 {
		found = true
		fmt.Fprintf(b, "  %s imported but undeclared packages: %s\n", red("✗"), strings.Join(in.MissingPackages, ", "))
	}

	if !found {
		fmt.Fprintf(b, "  %s no debt signals detected\n", green("✓"))
	}
	b.WriteString("\n")
}

func renderPlan(b *strings.Builder, p *plan.Plan) {
	fmt.Fprintf(b, "%s Implementation plan\n", cyan("▶"))
	if p == nil {
		fmt.Fprintf(b, "  %s no plan generated\n\n", yellow("⚠"))
		return
	}

	fmt.Fprintf(b, "  feature %s · %.1fh estimated [%s]\n", p.Feature, p.Effort.TotalHours, p.Effort.Confidence)
	for name, m := range p.Effort.Multipliers {
		fmt.Fprintf(b, "    ×%.2f %s\n", m, name)
	}
	for i, id := range p.BuildOrder {
		task, ok := p.TaskByID(id)
		if !ok {
			continue
		}
		fmt.Fprintf(b, "  %d. [%s] %s: %s %s (%.1fh)\n",
			i+1, task.Category, task.Title, task.Operation, task.FilePath, task.EstimatedHours)
		for _, dep := range task.DependsOn {
			fmt.Fprintf(b, "       after %s: %s\n", dep.TaskID, dep.Reason)
		}
		for _, ac := range task.AcceptanceCriteria {
			fmt.Fprintf(b, "       %s\n", ac)
		}
	}
	b.WriteString("\n")
}

func renderLegend(b *strings.Builder) {
	fmt.Fprintf(b, "%s Confidence legend\n", cyan("▶"))
	fmt.Fprintf(b, "  MEASURED       counted directly from files on disk\n")
	fmt.Fprintf(b, "  VALIDATED      confirmed by an external tool run\n")
	fmt.Fprintf(b, "  ESTIMATED      regex-based approximation\n")
	fmt.Fprintf(b, "  PATTERN-BASED  pattern detection, not a certified result\n")
	fmt.Fprintf(b, "  HEURISTIC      several estimates compounded\n")
	fmt.Fprintf(b, "  UNAVAILABLE    required input did not exist\n")
}
