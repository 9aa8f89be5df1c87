// Package verify decides, per feature and improvement category, whether a
// capability already exists before any improvement is recommended. Matches
// are heuristic evidence, not proof; every result records the exact search
// scope used.
package verify

import "regexp"

// Scope selects which of a feature's files are searched for a category.
// Restricting scope per category is a deliberate precision control: tests
// are only looked for inside spec files so non-test code that happens to
// mention "expect" cannot mask a missing suite.
type Scope int

const (
	// ScopeTemplatesAndComponents searches template and component content.
	ScopeTemplatesAndComponents Scope = iota

	// ScopeSpecs searches spec file content only.
	ScopeSpecs

	// ScopeComponentsAndState searches component/service/store-like files
	// plus shared state reachable via import references.
	ScopeComponentsAndState

	// ScopeAll searches every cached file.
	ScopeAll
)

// String names the scope for auditability in results.
func (s Scope) String() string {
	switch s {
	case ScopeTemplatesAndComponents:
		return "templates+components"
	case ScopeSpecs:
		return "specs"
	case ScopeComponentsAndState:
		return "components+state"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// Pattern is one required capability signal with a human-readable
// description used in matched/missing reporting.
type Pattern struct {
	Regex       *regexp.Regexp
	Description string
}

// Category defines an improvement category: its search scope and the
// ordered list of patterns that must all match for the capability to be
// considered present.
type Category struct {
	ID       string
	Name     string
	Scope    Scope
	Patterns []Pattern
}

// DefaultCatalog returns the built-in improvement categories. The catalog
// is pure data so each category is independently testable.
func DefaultCatalog() []Category {
	return []Category{
		{
			ID:    "http-error-handling",
			Name:  "Transport-level error handling",
			Scope: ScopeComponentsAndState,
			Patterns: []Pattern{
				{regexp.MustCompile(`catchError\(|\.catch\(|try\s*\{`), "error interception on async calls"},
				{regexp.MustCompile(`(?i)(handleError|onError|error\s*=>)`), "error handler routine"},
			},
		},
		{
			ID:    "ui-error-display",
			Name:  "UI-level error display",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`\*ngIf="[^"]*error|v-if="[^"]*error|\{error|\{\{\s*error`), "conditional error markup"},
				{regexp.MustCompile(`class="[^"]*error|role="alert"`), "error message styling or alert role"},
			},
		},
		{
			ID:    "loading-state",
			Name:  "Loading state",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`(?i)\b(loading|isLoading|pending)\b`), "loading flag"},
				{regexp.MustCompile(`(?i)(spinner|skeleton|progress)`), "loading indicator"},
			},
		},
		{
			ID:    "empty-state",
			Name:  "Empty state",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`(?i)(no results|no items|empty-state|emptyState|length\s*===?\s*0)`), "empty collection handling"},
			},
		},
		{
			ID:    "accessibility",
			Name:  "Accessibility markers",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`aria-[a-z]+=|role="`), "ARIA labeling or semantic roles"},
				{regexp.MustCompile(`tabindex=|<label`), "keyboard ordering or labeling"},
			},
		},
		{
			ID:    "tests",
			Name:  "Test coverage",
			Scope: ScopeSpecs,
			Patterns: []Pattern{
				{regexp.MustCompile(`\b(it|test)\s*\(`), "test blocks"},
				{regexp.MustCompile(`expect\s*\(|assert`), "assertions"},
			},
		},
		{
			ID:    "async-cleanup",
			Name:  "Async teardown",
			Scope: ScopeComponentsAndState,
			Patterns: []Pattern{
				{regexp.MustCompile(`unsubscribe\(|takeUntil\(|clearTimeout\(|clearInterval\(|AbortController`), "subscription or timer teardown"},
			},
		},
		{
			ID:    "form-validation",
			Name:  "Form validation",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`Validators\.|required|pattern=|minlength=`), "validation rules"},
				{regexp.MustCompile(`(?i)(invalid|errors\?\.|validationMessage)`), "validation feedback"},
			},
		},
		{
			ID:    "confirmation-dialog",
			Name:  "Destructive-action confirmation",
			Scope: ScopeTemplatesAndComponents,
			Patterns: []Pattern{
				{regexp.MustCompile(`(?i)(confirm|are you sure|dialog.*confirm|confirmation)`), "confirmation prompt"},
			},
		},
	}
}
