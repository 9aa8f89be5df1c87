// Package manifest reads a project's dependency manifest for unused- and
// missing-package heuristics. Both package.json and go.mod manifests are
// understood; the results are heuristic evidence, not a resolver.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

// Dependency is one declared package.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Dev     bool   `json:"dev,omitempty"`
}

// Manifest is the parsed dependency declaration of the analyzed project.
type Manifest struct {
	// Source is the manifest file the dependencies came from.
	Source       string       `json:"source"`
	Dependencies []Dependency `json:"dependencies"`
}

// Load finds and parses the project's dependency manifest. package.json is
// preferred; go.mod is the fallback. No manifest at all returns nil without
// error; the dependency heuristics simply have no evidence.
func Load(projectRoot string) (*Manifest, error) {
	pkgPath := filepath.Join(projectRoot, "package.json")
	if _, err := os.Stat(pkgPath); err == nil {
		return loadPackageJSON(pkgPath)
	}

	modPath := filepath.Join(projectRoot, "go.mod")
	if _, err := os.Stat(modPath); err == nil {
		return loadGoMod(modPath)
	}

	return nil, nil
}

func loadPackageJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	var pkg struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("parsing package.json: %w", err)
	}

	m := &Manifest{Source: "package.json"}
	for name, version := range pkg.Dependencies {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: version})
	}
	for name, version := range pkg.DevDependencies {
		m.Dependencies = append(m.Dependencies, Dependency{Name: name, Version: version, Dev: true})
	}
	sort.Slice(m.Dependencies, func(i, j int) bool { return m.Dependencies[i].Name < m.Dependencies[j].Name })
	return m, nil
}

func loadGoMod(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading go.mod: %w", err)
	}

	modFile, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing go.mod: %w", err)
	}

	m := &Manifest{Source: "go.mod"}
	for _, req := range modFile.Require {
		if req.Indirect {
			continue
		}
		m.Dependencies = append(m.Dependencies, Dependency{
			Name:    req.Mod.Path,
			Version: req.Mod.Version,
		})
	}
	return m, nil
}

var moduleImportRe = regexp.MustCompile(`(?m)from\s+['"]([^'"./][^'"]*)['"]|require\(['"]([^'"./][^'"]*)['"]\)`)

// UnusedPackages returns declared runtime dependencies never mentioned in
// the scanned content corpus.
func (m *Manifest) UnusedPackages(corpus string) []string {
	var unused []string
	for _, dep := range m.Dependencies {
		if dep.Dev {
			continue
		}
		if !strings.Contains(corpus, dep.Name) {
			unused = append(unused, dep.Name)
		}
	}
	sort.Strings(unused)
	return unused
}

// MissingPackages returns bare module specifiers imported in the corpus but
// not declared in the manifest. Scoped packages match on their first two
// path segments, others on the first.
func (m *Manifest) MissingPackages(corpus string) []string {
	declared := make(map[string]bool, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		declared[dep.Name] = true
	}

	seen := make(map[string]bool)
	var missing []string
	for _, match := range moduleImportRe.FindAllStringSubmatch(corpus, -1) {
		spec := match[1]
		if spec == "" {
			spec = match[2]
		}
		name := packageName(spec)
		if name == "" || declared[name] || seen[name] {
			continue
		}
		seen[name] = true
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

func packageName(spec string) string {
	parts := strings.Split(spec, "/")
	if strings.HasPrefix(spec, "@") && len(parts) >= 2 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}
