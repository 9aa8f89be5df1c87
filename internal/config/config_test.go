package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nextup.yml")
	content := `features_dir: app/modules
freshness_minutes: 10
weights:
  business: 0.5
  technical: 0.3
  dependency: 0.2
validators:
  enabled: true
  lint_cmd: ["eslint", "--format", "compact"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "app/modules", cfg.FeaturesDir)
	assert.Equal(t, 10*time.Minute, cfg.FreshnessWindow())
	assert.Equal(t, 0.5, cfg.Weights.Business)
	assert.True(t, cfg.Validators.Enabled)
	assert.Equal(t, []string{"eslint", "--format", "compact"}, cfg.Validators.LintCmd)

	// Untouched fields keep their defaults.
	assert.Equal(t, Default().StorePath, cfg.StorePath)
	assert.Equal(t, Default().Validators.TimeoutSeconds, cfg.Validators.TimeoutSeconds)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("features_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nextup.yml")

	cfg := Default()
	cfg.FeaturesDir = "custom/features"
	cfg.Weights.Dependency = 0.5
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestFreshnessWindowFloor(t *testing.T) {
	cfg := &Config{FreshnessMinutes: 0}
	assert.Equal(t, 30*time.Minute, cfg.FreshnessWindow())
}
