package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("DATA_OUTPUT_DIR", "")
	t.Setenv("QUALITY_HISTORY_DIR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "./data/outputs/macro_analysis", cfg.DataDir)
	assert.Equal(t, "./data/quality", cfg.HistoryDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DATA_OUTPUT_DIR", "/srv/pipeline/outputs")
	t.Setenv("QUALITY_HISTORY_DIR", "/srv/pipeline/quality")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/srv/pipeline/outputs", cfg.DataDir)
	assert.Equal(t, "/srv/pipeline/quality", cfg.HistoryDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "local")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv("TEST_PRESENT", "value")

	assert.Equal(t, "value", getEnv("TEST_PRESENT", "fallback"))
	assert.Equal(t, "fallback", getEnv("TEST_MISSING", "fallback"))
}
