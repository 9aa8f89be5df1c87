// Package scan discovers feature units in a project tree and turns raw file
// content into structured per-feature evidence. Everything here is computed
// fresh from the filesystem on each run and discarded afterwards.
package scan

import "time"

// FeatureScan is the evidence bundle for one feature folder.
type FeatureScan struct {
	// Name is the feature folder name.
	Name string

	// Root is the absolute path of the feature folder.
	Root string

	// ComponentFiles are the feature's source units with their sibling
	// template/style/spec files resolved.
	ComponentFiles []ComponentFile

	// SpecFiles, TemplateFiles, StyleFiles and DocFiles are relative paths
	// within the feature folder.
	SpecFiles     []string
	TemplateFiles []string
	StyleFiles    []string
	DocFiles      []string

	// Content caches every scanned file's text keyed by relative path.
	// Unreadable files are present with empty content.
	Content map[string]string

	// Metrics are cheap regex-derived counts over the feature's files.
	Metrics FeatureMetrics

	// RiskDomains lists the risk catalog domains whose patterns matched
	// anywhere in the feature's combined content.
	RiskDomains []string
}

// ComponentFile is one source unit plus its conventional siblings.
// Content for a missing sibling is the empty string, never an error.
type ComponentFile struct {
	Path         string
	TemplatePath string
	StylePath    string
	SpecPath     string

	HasTemplate bool
	HasStyle    bool
	HasSpec     bool

	Content string
}

// FeatureMetrics are regex-counted signals over a feature's files.
type FeatureMetrics struct {
	TotalLines   int
	TodoCount    int
	HandlerCount int
	FileCount    int
}

// CombinedContent concatenates all cached file content for whole-feature
// pattern matching.
func (f *FeatureScan) CombinedContent() string {
	var size int
	for _, c := range f.Content {
		size += len(c) + 1
	}
	buf := make([]byte, 0, size)
	for _, path := range f.sortedContentKeys() {
		buf = append(buf, f.Content[path]...)
		buf = append(buf, '\n')
	}
	return string(buf)
}

// MainUnit reports whether the feature has a main unit named after the
// folder (e.g. orders/orders.component.ts).
func (f *FeatureScan) MainUnit() (ComponentFile, bool) {
	for _, cf := range f.ComponentFiles {
		if hasStemPrefix(cf.Path, f.Name) {
			return cf, true
		}
	}
	return ComponentFile{}, false
}

// HistoryResult is the outcome of the optional version-control pass.
// When extraction fails, Available is false and Commits is empty; the
// failure never propagates as an error.
type HistoryResult struct {
	Available bool
	Commits   []Commit
}

// Commit is one history entry tagged with the features it touched.
type Commit struct {
	Hash     string
	Author   string
	Subject  string
	When     time.Time
	Features []string
}
