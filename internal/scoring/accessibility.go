package scoring

import (
	"fmt"
	"regexp"

	"github.com/canopyapps/nextup/internal/scan"
)

var (
	a11yMarkerRe = regexp.MustCompile(`aria-[a-z]+=|role="|<label|for="|tabindex=|skip-nav|skip-link`)
	keyboardRe   = regexp.MustCompile(`\(keydown[^)]*\)=|\(keyup[^)]*\)=|onKeyDown=|onKeyUp=|@keydown|@keyup`)
)

// scoreAccessibility rates the ratio of templates exhibiting accessibility
// markers plus keyboard-handler presence. This is pattern detection, not a
// certified audit, and is tagged accordingly.
func (s *Scorer) scoreAccessibility(feature *scan.FeatureScan) ScoreDetail {
	detail := ScoreDetail{
		Confidence: ConfidencePatternBased,
		Source:     "template marker detection (not a certified audit)",
	}

	if len(feature.TemplateFiles) == 0 {
		detail.Score = 0
		detail.Details = append(detail.Details, "no templates to assess")
		return detail
	}

	withMarkers := 0
	keyboardHandlers := 0
	for _, path := range feature.TemplateFiles {
		content := feature.Content[path]
		if a11yMarkerRe.MatchString(content) {
			withMarkers++
		}
		keyboardHandlers += len(keyboardRe.FindAllString(content, -1))
	}

	ratio := float64(withMarkers) / float64(len(feature.TemplateFiles))
	score := int(ratio * 18)
	detail.Details = append(detail.Details,
		fmt.Sprintf("%d/%d templates carry accessibility markers", withMarkers, len(feature.TemplateFiles)))

	if keyboardHandlers > 0 {
		score += 7
		detail.Details = append(detail.Details,
			fmt.Sprintf("%d keyboard event handlers", keyboardHandlers))
	} else {
		detail.Details = append(detail.Details, "no keyboard event handlers detected")
	}

	detail.Score = clampDimension(score)
	return detail
}
