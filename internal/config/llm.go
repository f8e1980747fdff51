package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/interview-prep/internal/llm"
)

// NewLLMConfig builds the model client configuration from environment variables.
// It reads GEMINI_API_KEY, GEMINI_MODEL, GEMINI_MAX_OUTPUT_TOKENS and
// GEMINI_TEMPERATURE. A missing key is not an error here; the client
// reports it when constructed.
func NewLLMConfig() (*llm.Config, error) {
	cfg := llm.DefaultConfig()
	cfg.APIKey = os.Getenv("GEMINI_API_KEY")

	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}

	if v := os.Getenv("GEMINI_MAX_OUTPUT_TOKENS"); v != "" {
		tokens, err := strconv.ParseInt(v, 10, 32)
		if err != nil || tokens < 1 {
			return nil, fmt.Errorf("invalid GEMINI_MAX_OUTPUT_TOKENS: %q", v)
		}
		cfg.MaxOutputTokens = int32(tokens)
	}

	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		temp, err := strconv.ParseFloat(v, 32)
		if err != nil || temp < 0 || temp > 2 {
			return nil, fmt.Errorf("invalid GEMINI_TEMPERATURE: %q", v)
		}
		cfg.Temperature = float32(temp)
	}

	return cfg, nil
}

// ApplyLLMOverrides copies non-zero CLI config values onto an llm.Config.
func (c *Config) ApplyLLMOverrides(cfg *llm.Config) {
	if c.APIKey != "" {
		cfg.APIKey = c.APIKey
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	if c.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(c.MaxOutputTokens)
	}
	if c.Temperature > 0 {
		cfg.Temperature = float32(c.Temperature)
	}
}
