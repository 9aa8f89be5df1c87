package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Scanner walks a features root directory and builds per-feature evidence.
// The scan is total: unreadable or missing files degrade to empty content
// rather than aborting.
type Scanner struct {
	// Root is the features root directory (one subfolder per feature).
	Root string

	// ExcludeDirs are directory names skipped during the walk.
	ExcludeDirs []string
}

// New creates a scanner with default excludes for build, dependency and
// version-control directories.
func New(root string) (*Scanner, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid features root %q: %w", root, err)
	}

	return &Scanner{
		Root: absRoot,
		ExcludeDirs: []string{
			"node_modules",
			".git",
			"dist",
			"build",
			"coverage",
			"vendor",
			".cache",
		},
	}, nil
}

var (
	todoRe    = regexp.MustCompile(`(?i)\b(TODO|FIXME|HACK)\b`)
	handlerRe = regexp.MustCompile(`\(click\)=|\(submit\)=|\(change\)=|\(keyup[^)]*\)=|onClick=|onSubmit=|onChange=|@click|addEventListener\(`)
)

// ScanFeatures enumerates feature subfolders under Root and builds a
// FeatureScan for each. A nonexistent root yields an empty slice.
func (s *Scanner) ScanFeatures(ctx context.Context) ([]*FeatureScan, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading features root: %w", err)
	}

	var features []*FeatureScan
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() || s.excluded(entry.Name()) || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		feature := s.scanFeature(entry.Name())
		features = append(features, feature)
	}

	sort.Slice(features, func(i, j int) bool { return features[i].Name < features[j].Name })
	return features, nil
}

// scanFeature collects inventories, content and metrics for one folder.
func (s *Scanner) scanFeature(name string) *FeatureScan {
	root := filepath.Join(s.Root, name)
	feature := &FeatureScan{
		Name:    name,
		Root:    root,
		Content: make(map[string]string),
	}

	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtree: skip, never abort.
			return nil
		}
		if info.IsDir() {
			if s.excluded(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		content := readFileSoft(path)
		feature.Content[rel] = content

		switch classifyFile(rel) {
		case kindSpec:
			feature.SpecFiles = append(feature.SpecFiles, rel)
		case kindTemplate:
			feature.TemplateFiles = append(feature.TemplateFiles, rel)
		case kindStyle:
			feature.StyleFiles = append(feature.StyleFiles, rel)
		case kindDoc:
			feature.DocFiles = append(feature.DocFiles, rel)
		case kindComponent:
			feature.ComponentFiles = append(feature.ComponentFiles, s.componentFile(root, rel, content))
		}
		return nil
	})

	feature.Metrics = computeMetrics(feature)
	feature.RiskDomains = ClassifyRiskDomains(feature.CombinedContent())
	return feature
}

// componentFile resolves the conventional sibling template/style/spec paths
// for a source unit. Siblings share the stem: orders.component.ts pairs with
// orders.component.html, orders.component.css and orders.component.spec.ts.
func (s *Scanner) componentFile(featureRoot, rel, content string) ComponentFile {
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	ext := filepath.Ext(rel)

	cf := ComponentFile{
		Path:         rel,
		TemplatePath: stem + ".html",
		StylePath:    stem + ".css",
		SpecPath:     stem + ".spec" + ext,
		Content:      content,
	}

	cf.HasTemplate = fileExists(filepath.Join(featureRoot, cf.TemplatePath))
	cf.HasStyle = fileExists(filepath.Join(featureRoot, cf.StylePath))
	if !cf.HasStyle {
		scss := stem + ".scss"
		if fileExists(filepath.Join(featureRoot, scss)) {
			cf.StylePath = scss
			cf.HasStyle = true
		}
	}
	cf.HasSpec = fileExists(filepath.Join(featureRoot, cf.SpecPath))

	return cf
}

type fileKind int

const (
	kindOther fileKind = iota
	kindComponent
	kindTemplate
	kindStyle
	kindSpec
	kindDoc
)

// classifyFile buckets a file by the <name>.<kind>.<ext> convention.
func classifyFile(rel string) fileKind {
	base := filepath.Base(rel)
	switch {
	case strings.Contains(base, ".spec.") || strings.Contains(base, ".test."):
		return kindSpec
	case strings.HasSuffix(base, ".html"):
		return kindTemplate
	case strings.HasSuffix(base, ".css") || strings.HasSuffix(base, ".scss"):
		return kindStyle
	case strings.HasSuffix(base, ".md"):
		return kindDoc
	case strings.HasSuffix(base, ".ts") || strings.HasSuffix(base, ".js") ||
		strings.HasSuffix(base, ".tsx") || strings.HasSuffix(base, ".jsx"):
		return kindComponent
	default:
		return kindOther
	}
}

// computeMetrics derives cheap regex-counted signals for a feature.
func computeMetrics(f *FeatureScan) FeatureMetrics {
	m := FeatureMetrics{FileCount: len(f.Content)}
	for _, content := range f.Content {
		if content == "" {
			continue
		}
		m.TotalLines += strings.Count(content, "\n") + 1
		m.TodoCount += len(todoRe.FindAllString(content, -1))
		m.HandlerCount += len(handlerRe.FindAllString(content, -1))
	}
	return m
}

// SharedState collects state-like files (services, stores, state
// containers) living outside the features tree, keyed by path relative to
// the features root's parent. Behavior in these files belongs to no single
// feature but is reachable from any of them through imports.
func (s *Scanner) SharedState() map[string]string {
	srcRoot := filepath.Dir(s.Root)
	shared := make(map[string]string)

	_ = filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path == s.Root || s.excluded(d.Name()) ||
				(path != srcRoot && strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !stateLike(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(srcRoot, path)
		if relErr != nil {
			return nil
		}
		shared[filepath.ToSlash(rel)] = readFileSoft(path)
		return nil
	})

	return shared
}

func stateLike(base string) bool {
	return strings.Contains(base, ".service.") ||
		strings.Contains(base, ".store.") ||
		strings.Contains(base, ".state.")
}

func (s *Scanner) excluded(name string) bool {
	for _, d := range s.ExcludeDirs {
		if name == d {
			return true
		}
	}
	return false
}

// readFileSoft returns the file's content, degrading to empty on any error.
func readFileSoft(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func hasStemPrefix(rel, name string) bool {
	return strings.HasPrefix(filepath.Base(rel), name+".")
}

func (f *FeatureScan) sortedContentKeys() []string {
	keys := make([]string, 0, len(f.Content))
	for k := range f.Content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
