package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/fetch"
	"github.com/jonathan/interview-prep/internal/llm"
)

// loadFileConfig reads --config when given and validates it. Without the
// flag an empty config is returned.
func loadFileConfig() (*config.Config, error) {
	if configFile == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isVerbose(cfg *config.Config) bool {
	return verbose || cfg.Verbose
}

// setupLogging silences component logs unless --verbose is set.
func setupLogging(cfg *config.Config) {
	if isVerbose(cfg) {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

// readJobText returns the description from a file or, failing that, from
// a job posting URL.
func readJobText(ctx context.Context, cfg *config.Config) (string, error) {
	if cfg.Job != "" && cfg.JobURL != "" {
		return "", fmt.Errorf("cannot use --in with --url")
	}
	switch {
	case cfg.Job != "":
		content, err := os.ReadFile(cfg.Job)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(content), nil
	case cfg.JobURL != "":
		if err := fetch.ValidateURL(cfg.JobURL); err != nil {
			return "", err
		}
		text, err := fetch.NewJobFetcher(cfg.UseBrowser).JobText(ctx, cfg.JobURL)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job description: %w", err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("must provide either --in or --url")
	}
}

// newService builds the analysis service from the environment and cfg. The
// returned close func releases the model client.
func newService(ctx context.Context, cfg *config.Config) (*analysis.Service, func(), error) {
	llmCfg, err := config.NewLLMConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyLLMOverrides(llmCfg)

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, nil, err
	}
	return analysis.NewService(client), func() { _ = client.Close() }, nil
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// failureError renders an analysis failure for the terminal.
func failureError(err error, fallback string) error {
	failure := analysis.Classify(err, fallback)
	if failure == nil {
		return nil
	}
	return fmt.Errorf("%s (%s)", strings.TrimSpace(failure.Message), failure.Kind)
}
