// Package plan generates a dependency-ordered implementation task graph for
// one selected feature, with per-feature effort estimation.
package plan

import "github.com/canopyapps/nextup/internal/scoring"

// Category partitions tasks into ordered phases of work.
type Category string

const (
	// CategoryPrerequisite covers data contracts and shared interfaces that
	// everything else consumes.
	CategoryPrerequisite Category = "PREREQUISITE"

	// CategoryCore is the main implementation work.
	CategoryCore Category = "CORE"

	// CategoryTesting covers tests and documentation.
	CategoryTesting Category = "TESTING"

	// CategoryDesignSystem covers optional design-system alignment.
	CategoryDesignSystem Category = "DESIGN_SYSTEM"

	// CategoryUIRefactor covers optional navigation/UI restructuring.
	CategoryUIRefactor Category = "UI_REFACTOR"
)

// categoryOrder fixes the phase ordering for ties in the build order.
var categoryOrder = map[Category]int{
	CategoryPrerequisite: 0,
	CategoryCore:         1,
	CategoryTesting:      2,
	CategoryDesignSystem: 3,
	CategoryUIRefactor:   4,
}

// Operation is what the task does to its target file.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpModify Operation = "MODIFY"
	OpDelete Operation = "DELETE"
)

// Dependency is one edge to another task, with the reason the edge exists.
type Dependency struct {
	TaskID string `json:"task_id"`
	Reason string `json:"reason"`
}

// Task is one unit of planned work.
type Task struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category Category `json:"category"`

	FilePath  string    `json:"file_path"`
	Operation Operation `json:"operation"`

	DependsOn []Dependency `json:"depends_on,omitempty"`

	// AcceptanceCriteria are WHEN/THEN statements describing done.
	AcceptanceCriteria []string `json:"acceptance_criteria"`

	EstimatedHours float64 `json:"estimated_hours"`
}

// Estimate is the feature-level effort figure.
type Estimate struct {
	BaseHours float64 `json:"base_hours"`

	// Multipliers maps each applied adjustment to its factor. Factors of
	// 1.0 are the default and are omitted.
	Multipliers map[string]float64 `json:"multipliers,omitempty"`

	TotalHours float64 `json:"total_hours"`

	Confidence scoring.Confidence `json:"confidence"`
}

// Plan is the generated task graph for one feature.
type Plan struct {
	Feature string `json:"feature"`

	Tasks []Task `json:"tasks"`

	// BuildOrder lists task IDs such that every dependency appears strictly
	// before its dependents. A valid execution order, not a
	// duration-weighted longest path.
	BuildOrder []string `json:"build_order"`

	Effort Estimate `json:"effort"`
}

// TaskByID returns the task with the given ID, if present.
func (p *Plan) TaskByID(id string) (Task, bool) {
	for _, t := range p.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
