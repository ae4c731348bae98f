package license

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "alqcore/internal/errors"
)

func TestDefaultCatalog_Plans(t *testing.T) {
	c := DefaultCatalog()

	for _, id := range []string{"trial", "starter", "professional", "enterprise"} {
		p, err := c.Plan(id)
		require.NoError(t, err, "plan %q", id)
		assert.Equal(t, id, p.ID)
		assert.Greater(t, p.MaxActivations, 0)
	}

	trial, err := c.Plan("trial")
	require.NoError(t, err)
	assert.Equal(t, TypeTrial, trial.Type)
	assert.Equal(t, 14, trial.TrialDays)
	assert.Equal(t, 1, trial.MaxActivations)
	assert.Equal(t, int64(1), trial.Limits[LimitRobots])

	enterprise, err := c.Plan("enterprise")
	require.NoError(t, err)
	assert.Equal(t, Unlimited, enterprise.Limits[LimitAgents])
}

func TestCatalog_UnknownPlan(t *testing.T) {
	_, err := DefaultCatalog().Plan("platinum")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlan)
}

func TestPlan_Includes(t *testing.T) {
	c := DefaultCatalog()
	starter, err := c.Plan("starter")
	require.NoError(t, err)

	assert.True(t, starter.Includes("web-scraper"))
	assert.True(t, starter.Includes("db-connector"))
	assert.False(t, starter.Includes("erp-bridge"))
	assert.False(t, starter.Includes("ai-copilot"))
}

func TestCatalog_Agents(t *testing.T) {
	c := DefaultCatalog()

	a, ok := c.Agent("ai-copilot")
	require.True(t, ok)
	assert.True(t, a.Premium)

	a, ok = c.Agent("web-scraper")
	require.True(t, ok)
	assert.False(t, a.Premium)

	_, ok = c.Agent("nonexistent")
	assert.False(t, ok)
}

func TestLoadCatalog_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
plans:
  - id: solo
    name: Solo
    tier: 1
    type: subscription
    amount: 900
    currency: USD
    interval: month
    max_activations: 1
    limits:
      executionsPerMonth: 500
      robots: 1
    features: [editor]
    agents: [web-scraper]
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)

	p, err := c.Plan("solo")
	require.NoError(t, err)
	assert.Equal(t, int64(500), p.Limits[LimitExecutionsPerMonth])

	// Plans were replaced wholesale; agents fell back to the defaults.
	_, err = c.Plan("starter")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlan)
	_, ok := c.Agent("web-scraper")
	assert.True(t, ok)
}

func TestLoadCatalog_RejectsInvalidPlans(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
	}{
		{"empty id", "plans:\n  - name: NoID\n    max_activations: 1\n"},
		{"zero activations", "plans:\n  - id: bad\n    max_activations: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))
			_, err := LoadCatalog(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
