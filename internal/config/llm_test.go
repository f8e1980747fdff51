package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-prep/internal/llm"
)

func TestNewLLMConfig_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "")
	t.Setenv("GEMINI_TEMPERATURE", "")

	cfg, err := NewLLMConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, llm.DefaultModel, cfg.Model)
	assert.Equal(t, llm.DefaultMaxOutputTokens, cfg.MaxOutputTokens)
	assert.Equal(t, llm.DefaultTemperature, cfg.Temperature)
}

func TestNewLLMConfig_FromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "1024")
	t.Setenv("GEMINI_TEMPERATURE", "0.4")

	cfg, err := NewLLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "gemini-1.5-pro", cfg.Model)
	assert.Equal(t, int32(1024), cfg.MaxOutputTokens)
	assert.InDelta(t, 0.4, cfg.Temperature, 1e-6)
}

func TestNewLLMConfig_InvalidValues(t *testing.T) {
	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "lots")
	_, err := NewLLMConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_MAX_OUTPUT_TOKENS")

	t.Setenv("GEMINI_MAX_OUTPUT_TOKENS", "")
	t.Setenv("GEMINI_TEMPERATURE", "5")
	_, err = NewLLMConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_TEMPERATURE")
}

func TestApplyLLMOverrides(t *testing.T) {
	cfg := llm.DefaultConfig()
	(&Config{APIKey: "flag-key", Temperature: 0.1}).ApplyLLMOverrides(cfg)

	assert.Equal(t, "flag-key", cfg.APIKey)
	assert.Equal(t, llm.DefaultModel, cfg.Model)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-6)
}
