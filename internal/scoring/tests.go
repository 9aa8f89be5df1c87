package scoring

import (
	"fmt"
	"regexp"

	"github.com/canopyapps/nextup/internal/scan"
)

var (
	testBlockRe = regexp.MustCompile(`\b(it|test)\s*\(`)
	assertRe    = regexp.MustCompile(`expect\s*\(|assert\.`)

	// Testable elements: public methods, event handlers, getters and
	// computed values declared in component source.
	methodRe   = regexp.MustCompile(`(?m)^\s{2,}(?:public\s+|async\s+)?([a-zA-Z_]\w*)\s*\([^)]*\)\s*(?::\s*[\w<>\[\] |]+)?\s*\{`)
	getterRe   = regexp.MustCompile(`(?m)\bget\s+\w+\s*\(`)
	computedRe = regexp.MustCompile(`computed\(|createSelector\(`)
)

// Lifecycle hooks don't warrant their own tests.
var lifecycleNames = map[string]bool{
	"constructor": true, "ngOnInit": true, "ngOnDestroy": true,
	"ngOnChanges": true, "ngAfterViewInit": true,
	"componentDidMount": true, "componentWillUnmount": true,
}

// scoreTestSignal rates test substance, not spec-file existence: it counts
// test blocks and assertions in spec content and compares against an
// estimate of the feature's testable elements.
func (s *Scorer) scoreTestSignal(feature *scan.FeatureScan) ScoreDetail {
	detail := ScoreDetail{
		Confidence: ConfidenceMeasured,
		Source:     "spec content analysis vs estimated testable elements",
	}

	if len(feature.SpecFiles) == 0 {
		detail.Score = 0
		detail.Details = append(detail.Details, "no spec files found")
		return detail
	}

	testBlocks, assertions := 0, 0
	for _, path := range feature.SpecFiles {
		content := feature.Content[path]
		testBlocks += len(testBlockRe.FindAllString(content, -1))
		assertions += len(assertRe.FindAllString(content, -1))
	}

	if testBlocks == 0 {
		detail.Score = 0
		detail.Details = append(detail.Details,
			fmt.Sprintf("%d spec files but zero test blocks", len(feature.SpecFiles)))
		return detail
	}

	testable := estimateTestableElements(feature)
	detail.Details = append(detail.Details,
		fmt.Sprintf("%d test blocks, %d assertions, ~%d testable elements", testBlocks, assertions, testable))

	score := 0

	// Coverage of testable surface: up to 15 points.
	if testable > 0 {
		ratio := float64(testBlocks) / float64(testable)
		if ratio > 1 {
			ratio = 1
		}
		score += int(ratio * 15)
		detail.Details = append(detail.Details,
			fmt.Sprintf("test-to-testable ratio %.2f", float64(testBlocks)/float64(testable)))
	} else {
		// Nothing obviously testable but tests exist anyway.
		score += 8
	}

	// Assertion density: up to 10 points.
	perTest := float64(assertions) / float64(testBlocks)
	switch {
	case perTest >= 2:
		score += 10
	case perTest >= 1:
		score += 6
	case assertions > 0:
		score += 3
	default:
		detail.Details = append(detail.Details, "test blocks contain no assertions")
	}

	detail.Score = clampDimension(score)
	return detail
}

// estimateTestableElements counts public methods (minus lifecycle hooks),
// handlers, getters and computed values across the feature's components.
func estimateTestableElements(feature *scan.FeatureScan) int {
	count := 0
	for _, cf := range feature.ComponentFiles {
		for _, m := range methodRe.FindAllStringSubmatch(cf.Content, -1) {
			if !lifecycleNames[m[1]] {
				count++
			}
		}
		count += len(getterRe.FindAllString(cf.Content, -1))
		count += len(computedRe.FindAllString(cf.Content, -1))
	}
	return count
}
