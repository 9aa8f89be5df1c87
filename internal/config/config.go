// Package config loads engine configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all engine settings. Every field has a usable default so a
// missing config file is never an error.
type Config struct {
	// FeaturesDir is the directory containing one subfolder per feature,
	// relative to the project root.
	FeaturesDir string `yaml:"features_dir"`

	// RoutesFile is the routing definition checked for feature wiring.
	RoutesFile string `yaml:"routes_file,omitempty"`

	// StorePath is the SQLite database holding blocker-check records and
	// run history.
	StorePath string `yaml:"store_path"`

	// FreshnessMinutes bounds how old a persisted blocker check may be
	// before the ranking step refuses to use it.
	FreshnessMinutes int `yaml:"freshness_minutes"`

	// HistoryCommits is how many recent commits the scanner inspects.
	HistoryCommits int `yaml:"history_commits"`

	Weights    WeightsConfig    `yaml:"weights"`
	Validators ValidatorsConfig `yaml:"validators"`
	Business   BusinessConfig   `yaml:"business"`
}

// WeightsConfig configures the decision-matrix factor weights.
// Values are normalized to sum to 1 before use.
type WeightsConfig struct {
	Business   float64 `yaml:"business"`
	Technical  float64 `yaml:"technical"`
	Dependency float64 `yaml:"dependency"`
}

// ValidatorsConfig configures the optional external validator bridge.
type ValidatorsConfig struct {
	// Enabled turns on real linter/type-checker subprocess calls. When
	// false the code-quality dimension falls back to regex estimation.
	Enabled bool `yaml:"enabled"`

	// LintCmd and TypecheckCmd are argv-style command lines. The feature
	// path is appended as the final argument.
	LintCmd      []string `yaml:"lint_cmd,omitempty"`
	TypecheckCmd []string `yaml:"typecheck_cmd,omitempty"`

	// LintConfigFile is scanned for numeric thresholds only.
	LintConfigFile string `yaml:"lint_config_file,omitempty"`

	// TimeoutSeconds bounds each subprocess invocation.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// SpawnsPerSecond paces subprocess launches across many features.
	SpawnsPerSecond float64 `yaml:"spawns_per_second"`
}

// BusinessConfig points at the optional, loosely-shaped JSON inputs.
// Any missing file degrades that dimension to UNKNOWN.
type BusinessConfig struct {
	PriorityFile string `yaml:"priority_file,omitempty"`
	RoadmapFile  string `yaml:"roadmap_file,omitempty"`
	RequestsFile string `yaml:"requests_file,omitempty"`
	RevenueFile  string `yaml:"revenue_file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		FeaturesDir:      "src/features",
		RoutesFile:       "src/app.routes.ts",
		StorePath:        ".nextup/nextup.db",
		FreshnessMinutes: 30,
		HistoryCommits:   30,
		Weights: WeightsConfig{
			Business:   0.40,
			Technical:  0.35,
			Dependency: 0.25,
		},
		Validators: ValidatorsConfig{
			Enabled:         false,
			TimeoutSeconds:  60,
			SpawnsPerSecond: 2,
		},
	}
}

// Load reads configuration from path, falling back to defaults for a
// missing file. A file that exists but cannot be parsed is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to path.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// FreshnessWindow returns the freshness bound as a duration.
func (c *Config) FreshnessWindow() time.Duration {
	if c.FreshnessMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.FreshnessMinutes) * time.Minute
}
