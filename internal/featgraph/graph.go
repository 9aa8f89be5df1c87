// Package featgraph builds the internal feature-dependency graph from
// import-style references in non-test source.
package featgraph

import (
	"log"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/canopyapps/nextup/internal/scan"
)

// BlockedRef is a reference to a feature-shaped path whose target is not in
// the discovered feature set.
type BlockedRef struct {
	Feature string `json:"feature"`
	Import  string `json:"import"`
	Target  string `json:"target"`
}

// Chain is a sampled multi-hop dependency path (depth-limited).
type Chain struct {
	Nodes []string `json:"nodes"`
}

// Analysis is the directed feature-dependency graph plus derived views.
type Analysis struct {
	// DependsOn maps feature → features it imports from.
	DependsOn map[string][]string `json:"depends_on"`

	// DependedOnBy is the reverse edge map.
	DependedOnBy map[string][]string `json:"depended_on_by"`

	// Blocked lists dangling references to non-existent features.
	Blocked []BlockedRef `json:"blocked"`

	// Chains samples multi-hop paths, depth ≤ 2 and at most 5 entries.
	Chains []Chain `json:"chains"`

	// SharedStoreUsers are features using a cross-feature state container;
	// more than one user makes the store a high-priority blocking
	// relationship.
	SharedStoreUsers []string `json:"shared_store_users"`
}

const (
	maxChainDepth = 2
	maxChains     = 5
)

// Builder constructs the dependency analysis from scanned features.
type Builder struct {
	features map[string]*scan.FeatureScan
}

// NewBuilder creates a builder over the discovered feature set.
func NewBuilder(features []*scan.FeatureScan) *Builder {
	byName := make(map[string]*scan.FeatureScan, len(features))
	for _, f := range features {
		byName[f.Name] = f
	}
	return &Builder{features: byName}
}

var (
	importRe       = regexp.MustCompile(`(?m)import\s+[^;]*?from\s+['"]([^'"]+)['"]|require\(['"]([^'"]+)['"]\)`)
	featureShapeRe = regexp.MustCompile(`features/([\w-]+)`)
	// Second, independent pass for store usage: injection/hook style rather
	// than import paths. Disagreement between passes is a consistency
	// warning, logged for operator visibility only.
	storeUsageRe = regexp.MustCompile(`useStore\(|inject\(\s*\w*Store\s*\)|\w+Store\b`)
	storePathRe  = regexp.MustCompile(`['"][^'"]*(store|state)/[^'"]*['"]|\.store['"]`)
)

// Analyze scans each feature's non-test source for import references and
// builds the directed graph, reverse edges, blocked list and sampled
// chains.
func (b *Builder) Analyze() *Analysis {
	analysis := &Analysis{
		DependsOn:    make(map[string][]string),
		DependedOnBy: make(map[string][]string),
	}

	storeByImport := make(map[string]bool)
	storeByUsage := make(map[string]bool)

	for name, feature := range b.features {
		edges := make(map[string]bool)

		for _, cf := range feature.ComponentFiles {
			if strings.Contains(filepath.Base(cf.Path), ".spec.") {
				continue
			}
			for _, m := range importRe.FindAllStringSubmatch(cf.Content, -1) {
				spec := m[1]
				if spec == "" {
					spec = m[2]
				}
				b.classifyImport(name, spec, edges, analysis)
			}
			if storePathRe.MatchString(cf.Content) {
				storeByImport[name] = true
			}
			if storeUsageRe.MatchString(cf.Content) {
				storeByUsage[name] = true
			}
		}

		targets := make([]string, 0, len(edges))
		for t := range edges {
			targets = append(targets, t)
		}
		sort.Strings(targets)
		analysis.DependsOn[name] = targets
		for _, t := range targets {
			analysis.DependedOnBy[t] = append(analysis.DependedOnBy[t], name)
		}
	}

	for _, deps := range analysis.DependedOnBy {
		sort.Strings(deps)
	}

	analysis.SharedStoreUsers = reconcileStoreUsers(storeByImport, storeByUsage)
	analysis.Chains = b.sampleChains(analysis.DependsOn)
	sort.Slice(analysis.Blocked, func(i, j int) bool {
		if analysis.Blocked[i].Feature != analysis.Blocked[j].Feature {
			return analysis.Blocked[i].Feature < analysis.Blocked[j].Feature
		}
		return analysis.Blocked[i].Target < analysis.Blocked[j].Target
	})

	return analysis
}

// classifyImport turns an import specifier into a graph edge, a blocked
// reference, or nothing.
func (b *Builder) classifyImport(from, spec string, edges map[string]bool, analysis *Analysis) {
	// Feature-shaped path: features/<name>/...
	if m := featureShapeRe.FindStringSubmatch(spec); m != nil {
		target := m[1]
		if target == from {
			return
		}
		if _, known := b.features[target]; known {
			edges[target] = true
		} else {
			analysis.Blocked = append(analysis.Blocked, BlockedRef{
				Feature: from, Import: spec, Target: target,
			})
		}
		return
	}

	// Relative sibling reference: ../<name>/...
	if strings.HasPrefix(spec, "../") {
		parts := strings.Split(strings.TrimPrefix(spec, "../"), "/")
		if len(parts) == 0 || parts[0] == from {
			return
		}
		if _, known := b.features[parts[0]]; known {
			edges[parts[0]] = true
		}
	}
}

// reconcileStoreUsers merges the two store-detection passes, logging a
// consistency warning when they disagree about a feature.
func reconcileStoreUsers(byImport, byUsage map[string]bool) []string {
	users := make(map[string]bool)
	for name := range byImport {
		users[name] = true
		if !byUsage[name] {
			log.Printf("Warning: store detection disagreement for %q: import pass matched, usage pass did not", name)
		}
	}
	for name := range byUsage {
		if byImport[name] {
			continue
		}
		// Usage tokens without a store import path are a weaker signal;
		// surfaced but not counted as a user.
		log.Printf("Warning: store detection disagreement for %q: usage pass matched, import pass did not", name)
	}

	sorted := make([]string, 0, len(users))
	for name := range users {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return sorted
}

// sampleChains collects up to maxChains dependency paths of depth at most
// maxChainDepth for reporting.
func (b *Builder) sampleChains(dependsOn map[string][]string) []Chain {
	names := make([]string, 0, len(dependsOn))
	for name := range dependsOn {
		names = append(names, name)
	}
	sort.Strings(names)

	var chains []Chain
	for _, a := range names {
		for _, bTarget := range dependsOn[a] {
			if len(chains) >= maxChains {
				return chains
			}
			extended := false
			for _, c := range dependsOn[bTarget] {
				if c == a {
					continue
				}
				chains = append(chains, Chain{Nodes: []string{a, bTarget, c}})
				extended = true
				break
			}
			if !extended {
				chains = append(chains, Chain{Nodes: []string{a, bTarget}})
			}
		}
	}
	return chains
}

// SharedStoreBlocking reports whether shared store usage constitutes a
// blocking relationship (more than one feature on one container).
func (a *Analysis) SharedStoreBlocking() bool {
	return len(a.SharedStoreUsers) > 1
}

// UnblockCount returns how many features depend on the given feature.
func (a *Analysis) UnblockCount(feature string) int {
	return len(a.DependedOnBy[feature])
}
