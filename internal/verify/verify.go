package verify

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/canopyapps/nextup/internal/scan"
)

// Result is the outcome of checking one (feature, category) pair.
type Result struct {
	CategoryID string `json:"category_id"`
	Feature    string `json:"feature"`

	// Needed is true when the capability is absent or partial: at least
	// one required pattern did not match in scope.
	Needed bool `json:"needed"`

	// Matched and Missing hold pattern descriptions for auditability.
	Matched []string `json:"matched"`
	Missing []string `json:"missing"`

	// ScopeUsed records exactly which content was searched.
	ScopeUsed string `json:"scope_used"`
}

// Verifier checks improvement categories against feature evidence.
type Verifier struct {
	catalog []Category

	// SharedStateContent maps shared state file paths (outside any single
	// feature) to their content, consulted for ScopeComponentsAndState.
	SharedStateContent map[string]string
}

// NewVerifier creates a verifier over the default category catalog.
func NewVerifier() *Verifier {
	return &Verifier{catalog: DefaultCatalog()}
}

// Categories lists the catalog's category IDs in order.
func (v *Verifier) Categories() []string {
	ids := make([]string, len(v.catalog))
	for i, c := range v.catalog {
		ids[i] = c.ID
	}
	return ids
}

var formRe = regexp.MustCompile(`<form|formGroup|useForm\(|<Form\b`)

// Check decides whether the capability for categoryID is already present in
// the feature. All of the category's patterns must match for Needed=false.
func (v *Verifier) Check(feature *scan.FeatureScan, categoryID string) (Result, error) {
	category, ok := v.findCategory(categoryID)
	if !ok {
		return Result{}, fmt.Errorf("unknown improvement category: %s", categoryID)
	}

	result := Result{
		CategoryID: categoryID,
		Feature:    feature.Name,
		ScopeUsed:  category.Scope.String(),
	}

	// Form validation can't misfire on non-form UI: zero detected form
	// elements means the capability is not needed at all.
	if categoryID == "form-validation" && !formRe.MatchString(feature.CombinedContent()) {
		result.Needed = false
		result.ScopeUsed = category.Scope.String() + " (no form elements detected)"
		return result, nil
	}

	content := v.assembleContent(category.Scope, feature)
	for _, p := range category.Patterns {
		if p.Regex.MatchString(content) {
			result.Matched = append(result.Matched, p.Description)
		} else {
			result.Missing = append(result.Missing, p.Description)
		}
	}

	result.Needed = len(result.Missing) > 0
	return result, nil
}

// CheckAll runs every catalog category against the feature.
func (v *Verifier) CheckAll(feature *scan.FeatureScan) ([]Result, error) {
	results := make([]Result, 0, len(v.catalog))
	for _, c := range v.catalog {
		r, err := v.Check(feature, c.ID)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// assembleContent is the scope → content mapping. Each arm is deliberately
// explicit so a category's search scope stays independently testable.
func (v *Verifier) assembleContent(scope Scope, feature *scan.FeatureScan) string {
	var sb strings.Builder

	switch scope {
	case ScopeTemplatesAndComponents:
		for _, path := range feature.TemplateFiles {
			sb.WriteString(feature.Content[path])
			sb.WriteByte('\n')
		}
		for _, cf := range feature.ComponentFiles {
			sb.WriteString(cf.Content)
			sb.WriteByte('\n')
		}

	case ScopeSpecs:
		for _, path := range feature.SpecFiles {
			sb.WriteString(feature.Content[path])
			sb.WriteByte('\n')
		}

	case ScopeComponentsAndState:
		for _, cf := range feature.ComponentFiles {
			sb.WriteString(cf.Content)
			sb.WriteByte('\n')
		}
		for path, content := range feature.Content {
			if isStateLike(path) {
				sb.WriteString(content)
				sb.WriteByte('\n')
			}
		}
		for path, content := range v.SharedStateContent {
			if v.featureImports(feature, path) {
				sb.WriteString(content)
				sb.WriteByte('\n')
			}
		}

	case ScopeAll:
		sb.WriteString(feature.CombinedContent())
	}

	return sb.String()
}

var importRe = regexp.MustCompile(`(?m)import\s+[^;]*?from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`)

// featureImports reports whether any component in the feature imports the
// given shared state file (matched by its base name without extension).
func (v *Verifier) featureImports(feature *scan.FeatureScan, statePath string) bool {
	stem := strings.TrimSuffix(filepath.Base(statePath), filepath.Ext(statePath))
	for _, cf := range feature.ComponentFiles {
		for _, m := range importRe.FindAllStringSubmatch(cf.Content, -1) {
			spec := m[1]
			if spec == "" {
				spec = m[2]
			}
			if strings.HasSuffix(spec, stem) {
				return true
			}
		}
	}
	return false
}

func isStateLike(path string) bool {
	base := filepath.Base(path)
	return strings.Contains(base, ".service.") ||
		strings.Contains(base, ".store.") ||
		strings.Contains(base, ".state.")
}

func (v *Verifier) findCategory(id string) (Category, bool) {
	for _, c := range v.catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}
