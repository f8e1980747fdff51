package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/client"
	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/observability"
	"github.com/jonathan/interview-prep/internal/types"
)

var (
	inputFile string
	inputURL  string

	analyzeMock   bool
	analyzeServer string
	analyzeToken  string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured requirements from a job description",
	RunE:  runExtract,
}

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Suggest evidence for extracted requirements",
	Long:  `Read {"requirements":[{id,category,text}]} JSON and print evidence suggestions per requirement.`,
	RunE:  runEvidence,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run extraction and evidence matching and print the final state",
	Long: "Run the full analysis (extract requirements, then suggest evidence) and print the final state as JSON. " +
		"With --server the stages run against a running API server; with --mock the requirements matrix is " +
		"generated locally without a model.",
	RunE: runAnalyze,
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Generate a requirements matrix without calling the model",
	RunE:  runMock,
}

func init() {
	for _, cmd := range []*cobra.Command{extractCmd, analyzeCmd, mockCmd} {
		cmd.Flags().StringVarP(&inputFile, "in", "i", "", "Path to job description text file")
		cmd.Flags().StringVar(&inputURL, "url", "", "URL of a job posting to fetch instead of --in")
	}
	evidenceCmd.Flags().StringVarP(&inputFile, "in", "i", "", "Path to requirements JSON file")

	analyzeCmd.Flags().BoolVar(&analyzeMock, "mock", false, "Use the mock generator instead of the model")
	analyzeCmd.Flags().StringVar(&analyzeServer, "server", "", "Base URL of a running server")
	analyzeCmd.Flags().StringVar(&analyzeToken, "token", "", "Bearer token for --server (overrides INTERVIEW_PREP_TOKEN)")

	rootCmd.AddCommand(extractCmd, evidenceCmd, analyzeCmd, mockCmd)
}

// inputConfig merges flags over the config file.
func inputConfig() (*config.Config, error) {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return nil, err
	}
	flags := config.Config{
		Job:       inputFile,
		JobURL:    inputURL,
		ServerURL: analyzeServer,
		Token:     analyzeToken,
	}
	merged := flags.MergeWithDefaults(*fileCfg)
	if merged.Token == "" {
		merged.Token = os.Getenv("INTERVIEW_PREP_TOKEN")
	}
	merged.UseBrowser = fileCfg.UseBrowser
	merged.Verbose = fileCfg.Verbose
	setupLogging(&merged)
	return &merged, nil
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := inputConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	jdText, err := readJobText(ctx, cfg)
	if err != nil {
		return err
	}

	svc, closeFn, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	reqs, err := svc.ExtractRequirements(ctx, jdText)
	if err != nil {
		return failureError(err, analysis.MsgExtractFailed)
	}
	if isVerbose(cfg) {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintRequirements(reqs)
	}
	return writeJSON(cmd.OutOrStdout(), types.ExtractRequirementsResponse{Requirements: reqs})
}

func runEvidence(cmd *cobra.Command, _ []string) error {
	cfg, err := inputConfig()
	if err != nil {
		return err
	}
	if cfg.Job == "" {
		return fmt.Errorf("--in is required")
	}
	content, err := os.ReadFile(cfg.Job)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var req types.EvidenceRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return fmt.Errorf("failed to parse requirements JSON: %w", err)
	}

	ctx := cmd.Context()
	svc, closeFn, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	matrix, err := svc.SuggestEvidence(ctx, req.Requirements)
	if err != nil {
		return failureError(err, analysis.MsgEvidenceFailed)
	}
	return writeJSON(cmd.OutOrStdout(), types.EvidenceResponse{Matrix: matrix})
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := inputConfig()
	if err != nil {
		return err
	}
	if analyzeMock && cfg.ServerURL != "" {
		return fmt.Errorf("cannot use --mock with --server")
	}
	ctx := cmd.Context()
	jdText, err := readJobText(ctx, cfg)
	if err != nil {
		return err
	}

	if analyzeMock {
		if err := analysis.ValidateDescription(jdText); err != nil {
			return failureError(err, "")
		}
		return writeMatrix(cmd, cfg, analysis.GenerateMockRequirements(jdText))
	}

	stages, closeFn, err := analysisStages(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	orchestrator := analysis.NewOrchestrator(stages)
	if isVerbose(cfg) {
		orchestrator.OnTransition = func(from, to analysis.Status, _ *analysis.State) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s\n", from, to)
		}
	}
	state := orchestrator.Run(ctx, jdText)
	if isVerbose(cfg) {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintState(state)
	}
	if err := writeJSON(cmd.OutOrStdout(), state); err != nil {
		return err
	}
	if state.Status == analysis.StatusError {
		return fmt.Errorf("analysis failed: %s", state.Error)
	}
	return nil
}

// analysisStages picks the remote server when one is configured and the
// local model otherwise.
func analysisStages(ctx context.Context, cfg *config.Config) (analysis.Stages, func(), error) {
	if cfg.ServerURL != "" {
		return client.New(cfg.ServerURL, client.WithToken(cfg.Token)).Stages(), func() {}, nil
	}
	svc, closeFn, err := newService(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return svc, closeFn, nil
}

func runMock(cmd *cobra.Command, _ []string) error {
	cfg, err := inputConfig()
	if err != nil {
		return err
	}
	jdText, err := readJobText(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	if strings.TrimSpace(jdText) == "" {
		return fmt.Errorf("job description is empty")
	}
	return writeMatrix(cmd, cfg, analysis.GenerateMockRequirements(jdText))
}

func writeMatrix(cmd *cobra.Command, cfg *config.Config, matrix *types.RequirementsMatrix) error {
	if isVerbose(cfg) {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatrix(matrix)
	}
	return writeJSON(cmd.OutOrStdout(), matrix)
}
