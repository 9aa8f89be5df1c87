// Package blockers detects project-wide prerequisite capabilities whose
// incompleteness vetoes shipping recommendations for every feature.
package blockers

import "regexp"

// RequiredPattern is one content pattern a blocker entry must exhibit.
type RequiredPattern struct {
	Regex       *regexp.Regexp
	Description string
}

// Entry is one prerequisite capability in the fixed catalog.
type Entry struct {
	ID   string
	Name string

	// BlocksAll vetoes every feature-shipping recommendation while this
	// entry is not COMPLETED.
	BlocksAll bool

	// RequiredFiles are project-root-relative paths that must exist.
	RequiredFiles []string

	// RequiredPatterns must match somewhere under the entry's files or,
	// when those are missing, anywhere in the project content roots.
	RequiredPatterns []RequiredPattern
}

// DefaultCatalog returns the built-in prerequisite catalog.
func DefaultCatalog() []Entry {
	return []Entry{
		{
			ID:        "auth-subsystem",
			Name:      "Authentication subsystem",
			BlocksAll: true,
			RequiredFiles: []string{
				"src/auth/auth.service.ts",
				"src/auth/auth.guard.ts",
			},
			RequiredPatterns: []RequiredPattern{
				{regexp.MustCompile(`(?i)\b(login|authenticate)\b`), "login flow"},
				{regexp.MustCompile(`(?i)\b(token|session)\b`), "session/token handling"},
			},
		},
		{
			ID:        "core-data-schema",
			Name:      "Core data schema",
			BlocksAll: true,
			RequiredFiles: []string{
				"src/models/schema.ts",
			},
			RequiredPatterns: []RequiredPattern{
				{regexp.MustCompile(`interface\s+\w+|type\s+\w+\s*=`), "typed data contracts"},
			},
		},
		{
			ID:        "permission-layer",
			Name:      "Permission layer",
			BlocksAll: false,
			RequiredFiles: []string{
				"src/auth/permissions.ts",
			},
			RequiredPatterns: []RequiredPattern{
				{regexp.MustCompile(`(?i)\b(role|permission|can[A-Z])`), "role/permission checks"},
			},
		},
	}
}
