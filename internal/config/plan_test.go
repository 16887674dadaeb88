package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlan(t *testing.T) {
	path := writePlan(t, `
keywords:
  - golang
  - platform engineer
locations:
  - Berlin
max_profiles: 10
test_mode: false
`)

	plan, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "platform engineer"}, plan.Keywords)
	assert.Equal(t, []string{"Berlin"}, plan.Locations)
	assert.Equal(t, 10, plan.MaxProfiles)
	require.NotNil(t, plan.TestMode)
	assert.False(t, *plan.TestMode)
}

func TestLoadPlan_NoKeywords(t *testing.T) {
	path := writePlan(t, "locations: [Berlin]\n")
	_, err := LoadPlan(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keywords")
}

func TestLoadPlan_Missing(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyPlan_OverlaysOnlySetFields(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Locations = []string{"Remote"}
	cfg.Search.SeniorityKeywords = []string{"cto"}
	cfg.Run.TestMode = true

	cfg.ApplyPlan(&Plan{Keywords: []string{"sre"}})

	assert.Equal(t, []string{"sre"}, cfg.Search.Keywords)
	assert.Equal(t, []string{"Remote"}, cfg.Search.Locations, "unset plan fields keep config values")
	assert.Equal(t, []string{"cto"}, cfg.Search.SeniorityKeywords)
	assert.Equal(t, 25, cfg.Search.MaxProfiles)
	assert.True(t, cfg.Run.TestMode)
}
