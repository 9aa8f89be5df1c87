package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
	"github.com/canopyapps/nextup/internal/verify"
)

func orderedBefore(t *testing.T, order []string, first, second string) {
	t.Helper()
	fi, si := -1, -1
	for i, id := range order {
		if id == first {
			fi = i
		}
		if id == second {
			si = i
		}
	}
	require.NotEqual(t, -1, fi, "%s missing from order %v", first, order)
	require.NotEqual(t, -1, si, "%s missing from order %v", second, order)
	assert.Less(t, fi, si, "%s must appear before %s", first, second)
}

func TestBuildOrderRespectsDependencies(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Category: CategoryPrerequisite},
		{ID: "t2", Category: CategoryCore, DependsOn: []Dependency{{TaskID: "t1"}}},
		{ID: "t3", Category: CategoryCore, DependsOn: []Dependency{{TaskID: "t1"}}},
		{ID: "t4", Category: CategoryTesting, DependsOn: []Dependency{{TaskID: "t2"}, {TaskID: "t3"}}},
	}

	order, err := BuildOrder(tasks)
	require.NoError(t, err)
	require.Len(t, order, 4)

	for _, task := range tasks {
		for _, dep := range task.DependsOn {
			orderedBefore(t, order, dep.TaskID, task.ID)
		}
	}
}

func TestBuildOrderRejectsCycle(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Category: CategoryCore, DependsOn: []Dependency{{TaskID: "t2"}}},
		{ID: "t2", Category: CategoryCore, DependsOn: []Dependency{{TaskID: "t1"}}},
	}

	_, err := BuildOrder(tasks)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circular")
}

func TestBuildOrderRejectsUnknownDependency(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Category: CategoryCore, DependsOn: []Dependency{{TaskID: "ghost"}}},
	}

	_, err := BuildOrder(tasks)
	assert.Error(t, err)
}

func TestEffortMonotoneInCompleteness(t *testing.T) {
	feature := &scan.FeatureScan{
		Name:    "orders",
		Metrics: scan.FeatureMetrics{TotalLines: 800, HandlerCount: 10},
		Content: map[string]string{},
	}
	graph := &featgraph.Analysis{
		DependsOn:    map[string][]string{},
		DependedOnBy: map[string][]string{},
	}

	previous := -1.0
	for total := 0; total <= 100; total += 10 {
		score := &scoring.CompletenessScore{
			Feature:    "orders",
			Total:      total,
			TestSignal: scoring.ScoreDetail{Score: 15},
		}
		est := EstimateEffort(feature, score, graph)
		if previous >= 0 {
			assert.LessOrEqual(t, est.TotalHours, previous,
				"estimate must not increase as completeness rises (total=%d)", total)
		}
		previous = est.TotalHours
	}
}

func TestEffortConfidenceEscalatesWithMultipliers(t *testing.T) {
	small := &scan.FeatureScan{Name: "a", Content: map[string]string{}}
	big := &scan.FeatureScan{
		Name:    "b",
		Metrics: scan.FeatureMetrics{TotalLines: 2000, HandlerCount: 25},
		Content: map[string]string{},
	}
	score := &scoring.CompletenessScore{Total: 40, TestSignal: scoring.ScoreDetail{Score: 15}}

	plain := EstimateEffort(small, score, nil)
	assert.Equal(t, scoring.ConfidenceEstimated, plain.Confidence)

	compounded := EstimateEffort(big, score, nil)
	assert.Equal(t, scoring.ConfidenceHeuristic, compounded.Confidence,
		"size and complexity multipliers both applied")
	assert.Greater(t, compounded.TotalHours, plain.TotalHours)
}

func makeOrdersFeature() *scan.FeatureScan {
	return &scan.FeatureScan{
		Name: "orders",
		Root: "src/features/orders",
		ComponentFiles: []scan.ComponentFile{{
			Path:         "orders.component.ts",
			TemplatePath: "orders.component.html",
			HasTemplate:  true,
			Content:      "export class OrdersComponent {}",
		}},
		TemplateFiles: []string{"orders.component.html"},
		Content: map[string]string{
			"orders.component.html": "<div>orders</div>",
		},
	}
}

func TestGenerateProducesOrderedPhases(t *testing.T) {
	feature := makeOrdersFeature()
	score := &scoring.CompletenessScore{Feature: "orders", Total: 40}
	verifyResults := []verify.Result{
		{CategoryID: "ui-error-display", Feature: "orders", Needed: true,
			Missing: []string{"conditional error markup", "error message styling or alert role"}},
		{CategoryID: "tests", Feature: "orders", Needed: true, Missing: []string{"test blocks", "assertions"}},
		{CategoryID: "loading-state", Feature: "orders", Needed: false},
	}
	graph := &featgraph.Analysis{
		DependsOn:        map[string][]string{"orders": nil},
		DependedOnBy:     map[string][]string{},
		SharedStoreUsers: []string{"orders", "billing"},
	}

	g := NewGenerator("path: 'orders'")
	p, err := g.Generate(feature, score, verifyResults, graph)
	require.NoError(t, err)

	var prereq, core, tests []string
	for _, task := range p.Tasks {
		switch task.Category {
		case CategoryPrerequisite:
			prereq = append(prereq, task.ID)
		case CategoryCore:
			core = append(core, task.ID)
		case CategoryTesting:
			tests = append(tests, task.ID)
		}
	}
	require.Len(t, prereq, 1, "shared store participation demands a contract task")
	require.Len(t, core, 1)
	require.Len(t, tests, 1)

	// Phase ordering holds in the build order.
	orderedBefore(t, p.BuildOrder, prereq[0], core[0])
	orderedBefore(t, p.BuildOrder, core[0], tests[0])

	for _, task := range p.Tasks {
		assert.NotEmpty(t, task.AcceptanceCriteria, "task %s has no acceptance criteria", task.ID)
		assert.NotEmpty(t, task.FilePath)
		assert.Greater(t, task.EstimatedHours, 0.0)
	}
	assert.Greater(t, p.Effort.TotalHours, 0.0)
}

func TestGenerateNavigationTaskWhenUnrouted(t *testing.T) {
	feature := makeOrdersFeature()
	score := &scoring.CompletenessScore{Feature: "orders", Total: 90}
	graph := &featgraph.Analysis{
		DependsOn:    map[string][]string{"orders": nil},
		DependedOnBy: map[string][]string{},
	}

	g := NewGenerator("path: 'billing'")
	p, err := g.Generate(feature, score, nil, graph)
	require.NoError(t, err)

	found := false
	for _, task := range p.Tasks {
		if task.Category == CategoryUIRefactor {
			found = true
		}
	}
	assert.True(t, found, "unrouted feature gets a navigation task")
}

func TestGenerateNilFeatureFails(t *testing.T) {
	g := NewGenerator("")
	_, err := g.Generate(nil, nil, nil, nil)
	assert.Error(t, err)
}
