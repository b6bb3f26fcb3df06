package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.congress.gov/v3", cfg.Congress.BaseURL)
	assert.Equal(t, 250, cfg.Congress.PageSize)
	assert.Equal(t, 2.0, cfg.Congress.RateLimit)
	assert.Equal(t, 500, cfg.YouTube.MaxPerChan)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Equal(t, int64(1024), cfg.Anthropic.MaxTokens)

	assert.Equal(t, 0.40, cfg.Matcher.DateWeight)
	assert.Equal(t, 0.45, cfg.Matcher.TitleWeight)
	assert.Equal(t, 0.15, cfg.Matcher.KeywordWeight)
	assert.Equal(t, 0.4, cfg.Matcher.LowThreshold)
	assert.Equal(t, 0.6, cfg.Matcher.HighThreshold)
	assert.Equal(t, 3, cfg.Matcher.WindowDaysBefore)
	assert.Equal(t, 1, cfg.Matcher.WindowDaysAfter)
	assert.Equal(t, 10, cfg.Matcher.MaxAdjudicationCandidates)
	assert.Equal(t, 7, cfg.Matcher.AdjudicationDateTolerance)

	assert.Equal(t, "hearings.db", cfg.Store.Path)
	assert.Equal(t, "report", cfg.Report.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HEARINGS_CONGRESS_KEY", "test-key")
	t.Setenv("HEARINGS_MATCHER_HIGH_THRESHOLD", "0.7")
	t.Setenv("HEARINGS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Congress.Key)
	assert.Equal(t, 0.7, cfg.Matcher.HighThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte("store:\n  path: /tmp/custom.db\nmatcher:\n  low_threshold: 0.3\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Store.Path)
	assert.Equal(t, 0.3, cfg.Matcher.LowThreshold)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.6, cfg.Matcher.HighThreshold)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
