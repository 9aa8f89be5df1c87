package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
	"github.com/canopyapps/nextup/internal/verify"
)

// Generator builds the implementation plan for a selected feature.
type Generator struct {
	// RoutesContent is the application routing source, used to decide
	// whether the feature still needs navigation wiring.
	RoutesContent string
}

// NewGenerator creates a plan generator.
func NewGenerator(routesContent string) *Generator {
	return &Generator{RoutesContent: routesContent}
}

// categoryFor maps an improvement category to a plan phase.
var categoryFor = map[string]Category{
	"http-error-handling": CategoryCore,
	"ui-error-display":    CategoryCore,
	"loading-state":       CategoryCore,
	"empty-state":         CategoryCore,
	"form-validation":     CategoryCore,
	"confirmation-dialog": CategoryCore,
	"async-cleanup":       CategoryCore,
	"accessibility":       CategoryDesignSystem,
	"tests":               CategoryTesting,
}

// acceptance maps an improvement category to its WHEN/THEN criteria.
var acceptance = map[string][]string{
	"http-error-handling": {
		"WHEN a backend request fails THEN the failure is caught and surfaced to component state",
	},
	"ui-error-display": {
		"WHEN the component holds an error THEN the template renders a visible message",
		"WHEN the error message renders THEN it carries an alert role or error styling",
	},
	"loading-state": {
		"WHEN a request is in flight THEN the template shows a loading indicator",
	},
	"empty-state": {
		"WHEN the result set is empty THEN the template shows an explicit empty message instead of a blank region",
	},
	"form-validation": {
		"WHEN a required field is blank THEN submission is prevented and the field is marked invalid",
	},
	"confirmation-dialog": {
		"WHEN a destructive action is triggered THEN a confirmation prompt appears before it executes",
	},
	"async-cleanup": {
		"WHEN the component is destroyed THEN pending subscriptions and timers are released",
	},
	"accessibility": {
		"WHEN the template renders interactive elements THEN each has a label, role or tab stop",
		"WHEN navigating by keyboard THEN every action is reachable without a pointer",
	},
	"tests": {
		"WHEN the spec suite runs THEN each public behavior has at least one test with assertions",
	},
}

// Generate emits the task graph for the feature: prerequisite data contracts,
// then core implementation, then tests/docs, then optional design-system and
// navigation work, with dependency edges, acceptance criteria and effort.
func (g *Generator) Generate(
	feature *scan.FeatureScan,
	score *scoring.CompletenessScore,
	verifyResults []verify.Result,
	graph *featgraph.Analysis,
) (*Plan, error) {
	if feature == nil {
		return nil, fmt.Errorf("no feature selected for planning")
	}

	p := &Plan{Feature: feature.Name}
	next := 0
	newID := func() string {
		next++
		return fmt.Sprintf("%s-%02d", feature.Name, next)
	}

	var prereqID string
	if g.needsDataContract(feature, graph) {
		prereqID = newID()
		p.Tasks = append(p.Tasks, Task{
			ID:        prereqID,
			Title:     "Define shared data contracts",
			Category:  CategoryPrerequisite,
			FilePath:  filepath.Join(feature.Root, feature.Name+".model.ts"),
			Operation: contractOperation(feature),
			AcceptanceCriteria: []string{
				"WHEN dependent features import the contract THEN every referenced type resolves",
			},
		})
	}

	mainPath := g.mainUnitPath(feature)
	var coreIDs []string
	for _, result := range verifyResults {
		if !result.Needed {
			continue
		}
		category, ok := categoryFor[result.CategoryID]
		if !ok {
			category = CategoryCore
		}

		task := Task{
			ID:                 newID(),
			Title:              taskTitle(result),
			Category:           category,
			FilePath:           g.targetFor(feature, result, mainPath),
			Operation:          OpModify,
			AcceptanceCriteria: acceptance[result.CategoryID],
		}
		if category == CategoryTesting && len(feature.SpecFiles) == 0 {
			task.Operation = OpCreate
		}
		if prereqID != "" {
			task.DependsOn = append(task.DependsOn, Dependency{
				TaskID: prereqID,
				Reason: "data contracts must exist before implementation work consumes them",
			})
		}
		if category == CategoryCore {
			coreIDs = append(coreIDs, task.ID)
		}
		p.Tasks = append(p.Tasks, task)
	}

	// Tests and the optional phases run after core implementation so they
	// exercise final behavior.
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.Category == CategoryCore || t.Category == CategoryPrerequisite {
			continue
		}
		for _, coreID := range coreIDs {
			t.DependsOn = append(t.DependsOn, Dependency{
				TaskID: coreID,
				Reason: "covers behavior introduced by the core implementation",
			})
		}
	}

	if g.needsNavigation(feature) {
		task := Task{
			ID:        newID(),
			Title:     "Wire feature into application navigation",
			Category:  CategoryUIRefactor,
			FilePath:  "src/app.routes.ts",
			Operation: OpModify,
			AcceptanceCriteria: []string{
				"WHEN the application routes load THEN the feature is reachable from navigation",
			},
		}
		for _, coreID := range coreIDs {
			task.DependsOn = append(task.DependsOn, Dependency{
				TaskID: coreID,
				Reason: "navigation should not expose an incomplete feature",
			})
		}
		p.Tasks = append(p.Tasks, task)
	}

	if len(p.Tasks) == 0 {
		p.Tasks = append(p.Tasks, Task{
			ID:        newID(),
			Title:     "Final review pass",
			Category:  CategoryTesting,
			FilePath:  mainPath,
			Operation: OpModify,
			AcceptanceCriteria: []string{
				"WHEN the review completes THEN no open findings remain",
			},
		})
	}

	order, err := BuildOrder(p.Tasks)
	if err != nil {
		return nil, err
	}
	p.BuildOrder = order

	p.Effort = EstimateEffort(feature, score, graph)
	distributeHours(p)

	return p, nil
}

// needsDataContract reports whether the feature participates in shared state
// or has dangling feature references that a contract task must resolve.
func (g *Generator) needsDataContract(feature *scan.FeatureScan, graph *featgraph.Analysis) bool {
	if graph == nil {
		return false
	}
	for _, user := range graph.SharedStoreUsers {
		if user == feature.Name {
			return true
		}
	}
	for _, blocked := range graph.Blocked {
		if blocked.Feature == feature.Name {
			return true
		}
	}
	return false
}

func contractOperation(feature *scan.FeatureScan) Operation {
	for path := range feature.Content {
		if strings.Contains(filepath.Base(path), ".model.") {
			return OpModify
		}
	}
	return OpCreate
}

func (g *Generator) mainUnitPath(feature *scan.FeatureScan) string {
	if main, ok := feature.MainUnit(); ok {
		return filepath.Join(feature.Root, main.Path)
	}
	if len(feature.ComponentFiles) > 0 {
		return filepath.Join(feature.Root, feature.ComponentFiles[0].Path)
	}
	return filepath.Join(feature.Root, feature.Name+".component.ts")
}

// targetFor picks the file a verification gap points at: template-scoped
// gaps target the main template, test gaps the spec file, everything else
// the main unit.
func (g *Generator) targetFor(feature *scan.FeatureScan, result verify.Result, mainPath string) string {
	switch result.CategoryID {
	case "ui-error-display", "loading-state", "empty-state", "accessibility", "confirmation-dialog":
		if main, ok := feature.MainUnit(); ok && main.HasTemplate {
			return filepath.Join(feature.Root, main.TemplatePath)
		}
		if len(feature.TemplateFiles) > 0 {
			return filepath.Join(feature.Root, feature.TemplateFiles[0])
		}
		return mainPath
	case "tests":
		if main, ok := feature.MainUnit(); ok && main.HasSpec {
			return filepath.Join(feature.Root, main.SpecPath)
		}
		if len(feature.SpecFiles) > 0 {
			return filepath.Join(feature.Root, feature.SpecFiles[0])
		}
		return filepath.Join(feature.Root, feature.Name+".component.spec.ts")
	default:
		return mainPath
	}
}

func (g *Generator) needsNavigation(feature *scan.FeatureScan) bool {
	if g.RoutesContent == "" {
		return false
	}
	return !strings.Contains(g.RoutesContent, feature.Name)
}

func taskTitle(result verify.Result) string {
	name := strings.ReplaceAll(result.CategoryID, "-", " ")
	return "Add " + name
}

// categoryShare weights how feature-level effort is split across tasks.
var categoryShare = map[Category]float64{
	CategoryPrerequisite: 1.0,
	CategoryCore:         1.5,
	CategoryTesting:      1.0,
	CategoryDesignSystem: 0.75,
	CategoryUIRefactor:   0.75,
}

// distributeHours splits the feature estimate across tasks by category
// weight, keeping a floor so no task reads as free.
func distributeHours(p *Plan) {
	totalShare := 0.0
	for _, t := range p.Tasks {
		totalShare += categoryShare[t.Category]
	}
	if totalShare == 0 {
		return
	}
	for i := range p.Tasks {
		hours := p.Effort.TotalHours * categoryShare[p.Tasks[i].Category] / totalShare
		if hours < 0.5 {
			hours = 0.5
		}
		p.Tasks[i].EstimatedHours = roundTenth(hours)
	}
}

func roundTenth(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
