package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.3, cfg.Router.RejectThreshold)
	assert.Equal(t, 0.6, cfg.Router.ClarificationThreshold)
	assert.Equal(t, 8, cfg.Sampler.Chains)
	assert.Equal(t, 1.0, cfg.Sampler.KT)
	assert.True(t, cfg.Detection.EnableFuzzy)
	assert.Contains(t, cfg.Pricing, "gpt-4o-mini")
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nlcmd.yaml")
	body := `
server:
  addr: ":9090"
router:
  reject_threshold: 0.2
  clarification_threshold: 0.5
sampler:
  chains: 4
  kt: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 0.2, cfg.Router.RejectThreshold)
	assert.Equal(t, 4, cfg.Sampler.Chains)
	assert.Equal(t, 0.5, cfg.Sampler.KT)
	// Untouched sections keep their defaults.
	assert.Equal(t, 0.7, cfg.Hybrid.ConfidenceThreshold)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("NLCMD_ADDR", ":7070")
	t.Setenv("NLCMD_SAMPLER_CHAINS", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 2, cfg.Sampler.Chains)
}

func TestLoadRejectsInvalidThresholds(t *testing.T) {
	t.Setenv("NLCMD_REJECT_THRESHOLD", "0.9")
	t.Setenv("NLCMD_CLARIFICATION_THRESHOLD", "0.5")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reject threshold")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/nlcmd.yaml")
	assert.Error(t, err)
}
