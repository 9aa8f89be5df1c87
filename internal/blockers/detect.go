package blockers

import (
	"context"
	"math"
	"os"
	"path/filepath"
)

// Status is a blocker entry's lifecycle state.
type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Evidence records exactly what was and wasn't found for an entry.
type Evidence struct {
	FilesFound           []string `json:"files_found"`
	FilesMissing         []string `json:"files_missing"`
	PatternsMatched      []string `json:"patterns_matched"`
	PatternsMissing      []string `json:"patterns_missing"`
	CompletionPercentage int      `json:"completion_percentage"`
}

// Result is the detection outcome for one catalog entry.
type Result struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Status    Status   `json:"status"`
	BlocksAll bool     `json:"blocks_all"`
	Evidence  Evidence `json:"evidence"`
}

// completedThreshold is the minimum completion percentage for COMPLETED
// (with zero missing required files).
const completedThreshold = 80

// Detector evaluates the blocker catalog against the project tree.
type Detector struct {
	// Root is the project root directory.
	Root string

	// Catalog is the prerequisite catalog; defaults to DefaultCatalog.
	Catalog []Entry
}

// NewDetector creates a detector over the default catalog.
func NewDetector(root string) *Detector {
	return &Detector{Root: root, Catalog: DefaultCatalog()}
}

// Detect evaluates every catalog entry. Detection is total: missing or
// unreadable files are evidence, not errors.
func (d *Detector) Detect(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(d.Catalog))
	for _, entry := range d.Catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, d.detectEntry(entry))
	}
	return results, nil
}

func (d *Detector) detectEntry(entry Entry) Result {
	result := Result{
		ID:        entry.ID,
		Name:      entry.Name,
		BlocksAll: entry.BlocksAll,
	}

	var searchable string
	for _, rel := range entry.RequiredFiles {
		path := filepath.Join(d.Root, rel)
		data, err := os.ReadFile(path)
		if err != nil {
			result.Evidence.FilesMissing = append(result.Evidence.FilesMissing, rel)
			continue
		}
		result.Evidence.FilesFound = append(result.Evidence.FilesFound, rel)
		searchable += string(data) + "\n"
	}

	for _, p := range entry.RequiredPatterns {
		if p.Regex.MatchString(searchable) {
			result.Evidence.PatternsMatched = append(result.Evidence.PatternsMatched, p.Description)
		} else {
			result.Evidence.PatternsMissing = append(result.Evidence.PatternsMissing, p.Description)
		}
	}

	found := len(result.Evidence.FilesFound)
	matched := len(result.Evidence.PatternsMatched)
	required := len(entry.RequiredFiles) + len(entry.RequiredPatterns)
	if required > 0 {
		result.Evidence.CompletionPercentage = int(math.Round(
			100 * float64(found+matched) / float64(required)))
	}

	result.Status = statusFor(result.Evidence)
	return result
}

// statusFor applies the fixed thresholds: ≥80% complete with zero missing
// required files is COMPLETED; any evidence at all is IN_PROGRESS;
// otherwise NOT_STARTED.
func statusFor(e Evidence) Status {
	switch {
	case e.CompletionPercentage >= completedThreshold && len(e.FilesMissing) == 0:
		return StatusCompleted
	case len(e.FilesFound) > 0 || len(e.PatternsMatched) > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// UnresolvedBlocksAll returns the blocksAll entries that are not COMPLETED;
// any such entry vetoes every shipping recommendation downstream.
func UnresolvedBlocksAll(results []Result) []Result {
	var unresolved []Result
	for _, r := range results {
		if r.BlocksAll && r.Status != StatusCompleted {
			unresolved = append(unresolved, r)
		}
	}
	return unresolved
}
