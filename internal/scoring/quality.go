package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/validators"
)

var branchRe = regexp.MustCompile(`\b(if|for|while|switch|case)\b|\?\s*[^:]+:`)

// scoreCodeQuality prefers real validator results (VALIDATED) and falls
// back to a regex-estimated complexity/size/TODO-density score (ESTIMATED).
func (s *Scorer) scoreCodeQuality(ctx context.Context, feature *scan.FeatureScan) ScoreDetail {
	if s.Validators != nil && s.Cache != nil {
		result := s.Validators.Validate(ctx, s.Cache, feature.Name, feature.Root)
		if result.Available {
			return s.validatedQuality(result)
		}
		// Validator configured but unusable: fall through to estimation
		// with the degradation recorded.
	}

	return s.estimatedQuality(feature)
}

func (s *Scorer) validatedQuality(result validators.Result) ScoreDetail {
	detail := ScoreDetail{
		Confidence: ConfidenceValidated,
		Source:     "external linter/type-checker run",
	}

	score := DimensionMax
	score -= result.LintErrors * 3
	score -= result.TypeErrors * 4
	score -= result.LintWarnings

	detail.Details = append(detail.Details, result.String())

	detail.Score = clampDimension(score)
	return detail
}

// estimatedQuality approximates quality from average file size, branch
// density and TODO density.
func (s *Scorer) estimatedQuality(feature *scan.FeatureScan) ScoreDetail {
	detail := ScoreDetail{
		Confidence: ConfidenceEstimated,
		Source:     "regex complexity/size/TODO estimation",
	}

	if len(feature.ComponentFiles) == 0 {
		detail.Score = 0
		detail.Details = append(detail.Details, "no source files to assess")
		return detail
	}

	totalLines, branches := 0, 0
	for _, cf := range feature.ComponentFiles {
		totalLines += strings.Count(cf.Content, "\n") + 1
		branches += len(branchRe.FindAllString(cf.Content, -1))
	}
	avgLines := totalLines / len(feature.ComponentFiles)

	// The project's own lint thresholds, when configured, replace the
	// built-in file-size cutoff.
	largeCutoff := 400
	for rule, value := range s.LintThresholds {
		if strings.Contains(rule, "max-lines") || strings.Contains(rule, "maxLines") {
			largeCutoff = value
			detail.Details = append(detail.Details,
				fmt.Sprintf("using lint threshold %s=%d", rule, value))
		}
	}

	score := DimensionMax

	switch {
	case avgLines > largeCutoff:
		score -= 8
		detail.Details = append(detail.Details, fmt.Sprintf("large files (avg %d lines)", avgLines))
	case avgLines > largeCutoff*5/8:
		score -= 4
		detail.Details = append(detail.Details, fmt.Sprintf("sizeable files (avg %d lines)", avgLines))
	default:
		detail.Details = append(detail.Details, fmt.Sprintf("file size ok (avg %d lines)", avgLines))
	}

	if totalLines > 0 {
		branchDensity := float64(branches) / float64(totalLines)
		if branchDensity > 0.25 {
			score -= 6
			detail.Details = append(detail.Details,
				fmt.Sprintf("high branch density (%.2f per line)", branchDensity))
		} else if branchDensity > 0.15 {
			score -= 3
			detail.Details = append(detail.Details,
				fmt.Sprintf("moderate branch density (%.2f per line)", branchDensity))
		}
	}

	if feature.Metrics.TodoCount > 0 {
		penalty := feature.Metrics.TodoCount * 2
		if penalty > 8 {
			penalty = 8
		}
		score -= penalty
		detail.Details = append(detail.Details,
			fmt.Sprintf("%d TODO/FIXME markers", feature.Metrics.TodoCount))
	}

	detail.Score = clampDimension(score)
	return detail
}
