package plan

import (
	"fmt"
	"sort"
	"strings"
)

// BuildOrder returns the task IDs in a dependency-first order: every
// dependency appears strictly before its dependents. Ties break by phase
// order then ID, so output is deterministic. A dependency cycle is a
// malformed plan and rejects the whole graph.
func BuildOrder(tasks []Task) ([]string, error) {
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	roots := make([]Task, len(tasks))
	copy(roots, tasks)
	sort.SliceStable(roots, func(i, j int) bool {
		if categoryOrder[roots[i].Category] != categoryOrder[roots[j].Category] {
			return categoryOrder[roots[i].Category] < categoryOrder[roots[j].Category]
		}
		return roots[i].ID < roots[j].ID
	})

	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	var order []string
	var path []string

	var visit func(id string) error
	visit = func(id string) error {
		if recStack[id] {
			cycle := append(append([]string{}, path...), id)
			return fmt.Errorf("circular task dependency: %s", strings.Join(cycle, " → "))
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		recStack[id] = true
		path = append(path, id)

		for _, dep := range byID[id].DependsOn {
			if _, known := byID[dep.TaskID]; !known {
				return fmt.Errorf("task %s depends on unknown task %s", id, dep.TaskID)
			}
			if err := visit(dep.TaskID); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		recStack[id] = false
		order = append(order, id)
		return nil
	}

	for _, t := range roots {
		if err := visit(t.ID); err != nil {
			return nil, err
		}
	}
	return order, nil
}
