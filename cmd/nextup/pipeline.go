package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/canopyapps/nextup/internal/bizdata"
	"github.com/canopyapps/nextup/internal/blockers"
	"github.com/canopyapps/nextup/internal/config"
	"github.com/canopyapps/nextup/internal/featgraph"
	"github.com/canopyapps/nextup/internal/scan"
	"github.com/canopyapps/nextup/internal/scoring"
	"github.com/canopyapps/nextup/internal/storage"
	"github.com/canopyapps/nextup/internal/validators"
	"github.com/canopyapps/nextup/internal/verify"
)

// pipeline bundles the configuration and project root every stage command
// starts from. State never survives a command: each stage re-reads the
// filesystem.
type pipeline struct {
	cfg  *config.Config
	root string
}

func newPipeline() (*pipeline, error) {
	cfg, err := config.Load(filepath.Join(projectRoot, cfgPath))
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return &pipeline{cfg: cfg, root: projectRoot}, nil
}

func (p *pipeline) featuresRoot() string {
	return filepath.Join(p.root, p.cfg.FeaturesDir)
}

func (p *pipeline) scanFeatures(ctx context.Context) ([]*scan.FeatureScan, error) {
	scanner, err := scan.New(p.featuresRoot())
	if err != nil {
		return nil, err
	}
	return scanner.ScanFeatures(ctx)
}

// routesContent reads the routing definition; a missing file is empty
// evidence, not an error.
func (p *pipeline) routesContent() string {
	if p.cfg.RoutesFile == "" {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(p.root, p.cfg.RoutesFile))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: routes file unreadable: %v", err)
		}
		return ""
	}
	return string(data)
}

// scorer wires the completeness scorer, attaching the external validator
// bridge with a fresh run-scoped cache when enabled.
func (p *pipeline) scorer(features []*scan.FeatureScan) *scoring.Scorer {
	scorer := scoring.NewScorer(features, p.routesContent())
	if p.cfg.Validators.LintConfigFile != "" {
		scorer.LintThresholds = validators.LintThresholds(p.resolve(p.cfg.Validators.LintConfigFile))
	}
	if p.cfg.Validators.Enabled {
		scorer.Validators = validators.NewRunner(
			p.cfg.Validators.LintCmd,
			p.cfg.Validators.TypecheckCmd,
			time.Duration(p.cfg.Validators.TimeoutSeconds)*time.Second,
			p.cfg.Validators.SpawnsPerSecond,
		)
		scorer.Cache = validators.NewCache()
	}
	return scorer
}

// verifier builds the pattern verifier with shared state collected from
// outside the features tree, so scopes that include state see handling
// that lives in a shared store or service rather than in the feature
// folder itself.
func (p *pipeline) verifier() (*verify.Verifier, error) {
	scanner, err := scan.New(p.featuresRoot())
	if err != nil {
		return nil, err
	}
	v := verify.NewVerifier()
	v.SharedStateContent = scanner.SharedState()
	return v, nil
}

func (p *pipeline) graph(features []*scan.FeatureScan) *featgraph.Analysis {
	return featgraph.NewBuilder(features).Analyze()
}

func (p *pipeline) openStore() (*storage.Store, error) {
	return storage.Open(filepath.Join(p.root, p.cfg.StorePath))
}

func (p *pipeline) business() *bizdata.Set {
	b := p.cfg.Business
	return bizdata.LoadSet(
		p.resolve(b.PriorityFile),
		p.resolve(b.RoadmapFile),
		p.resolve(b.RequestsFile),
		p.resolve(b.RevenueFile),
	)
}

func (p *pipeline) resolve(rel string) string {
	if rel == "" {
		return ""
	}
	return filepath.Join(p.root, rel)
}

// rankingContext carries the intermediate stage outputs alongside the
// decision matrix so downstream commands (plan, report) can reuse them
// without re-scanning.
type rankingContext struct {
	features       []*scan.FeatureScan
	scores         map[string]*scoring.CompletenessScore
	graph          *featgraph.Analysis
	blockerResults []blockers.Result
}

func filterFeature(features []*scan.FeatureScan, name string) []*scan.FeatureScan {
	for _, f := range features {
		if f.Name == name {
			return []*scan.FeatureScan{f}
		}
	}
	return nil
}

func emitJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
