package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/canopyapps/nextup/internal/scan"
)

var selectorRe = regexp.MustCompile(`<(app-[a-z0-9-]+)`)

// scoreImplementation rates structural completeness: template/style pairing,
// main unit and docs presence, routing wiring, and whether referenced child
// selectors resolve to known components.
func (s *Scorer) scoreImplementation(feature *scan.FeatureScan) ScoreDetail {
	detail := ScoreDetail{
		Confidence: ConfidenceMeasured,
		Source:     "file inventory + routing + selector resolution",
	}

	if len(feature.ComponentFiles) == 0 {
		detail.Score = 0
		detail.Details = append(detail.Details, "no component files found")
		return detail
	}

	withTemplate, withStyle := 0, 0
	for _, cf := range feature.ComponentFiles {
		if cf.HasTemplate {
			withTemplate++
		}
		if cf.HasStyle {
			withStyle++
		}
	}
	total := len(feature.ComponentFiles)

	score := 0

	templateRatio := float64(withTemplate) / float64(total)
	score += int(templateRatio * 8)
	detail.Details = append(detail.Details,
		fmt.Sprintf("%d/%d components have templates", withTemplate, total))

	styleRatio := float64(withStyle) / float64(total)
	score += int(styleRatio * 4)
	detail.Details = append(detail.Details,
		fmt.Sprintf("%d/%d components have styles", withStyle, total))

	if _, ok := feature.MainUnit(); ok {
		score += 4
		detail.Details = append(detail.Details, "main unit present")
	} else {
		detail.Details = append(detail.Details, "no main unit named after the feature")
	}

	if len(feature.DocFiles) > 0 {
		score += 2
		detail.Details = append(detail.Details, "documentation present")
	}

	if s.RoutesContent != "" {
		if strings.Contains(s.RoutesContent, feature.Name) {
			score += 4
			detail.Details = append(detail.Details, "wired into routing")
		} else {
			detail.Details = append(detail.Details, "not referenced in routing")
		}
	}

	resolved, unresolved := s.resolveChildSelectors(feature)
	if unresolved == 0 && resolved > 0 {
		score += 3
		detail.Details = append(detail.Details,
			fmt.Sprintf("all %d child selectors resolve", resolved))
	} else if unresolved > 0 {
		detail.Details = append(detail.Details,
			fmt.Sprintf("%d child selectors do not resolve to known components", unresolved))
	}

	detail.Score = clampDimension(score)
	return detail
}

// resolveChildSelectors matches template selector references against the
// selectors declared by any known feature's components.
func (s *Scorer) resolveChildSelectors(feature *scan.FeatureScan) (resolved, unresolved int) {
	for _, path := range feature.TemplateFiles {
		for _, m := range selectorRe.FindAllStringSubmatch(feature.Content[path], -1) {
			if s.knownSelectors[m[1]] {
				resolved++
			} else {
				unresolved++
			}
		}
	}
	return resolved, unresolved
}

var selectorDeclRe = regexp.MustCompile(`selector:\s*['"]([a-z0-9-]+)['"]`)

// collectSelectors indexes component selector declarations across all
// discovered features.
func collectSelectors(features []*scan.FeatureScan) map[string]bool {
	selectors := make(map[string]bool)
	for _, f := range features {
		for _, cf := range f.ComponentFiles {
			for _, m := range selectorDeclRe.FindAllStringSubmatch(cf.Content, -1) {
				selectors[m[1]] = true
			}
		}
	}
	return selectors
}
