// Package analysis extracts requirements from job descriptions and suggests
// the evidence that would satisfy them.
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/schemas"
	"github.com/jonathan/interview-prep/internal/types"
)

// Requirement count bounds for one extraction.
const (
	MinRequirements = 3
	MaxRequirements = 8
)

const (
	extractMaxTokens    = int32(2048)
	extractTemperature  = float32(0.3)
	evidenceMaxTokens   = int32(2048)
	evidenceTemperature = float32(0.5)
)

// Service runs the model-backed analysis stages.
type Service struct {
	client llm.Client
	policy llm.RetryPolicy
}

// NewService creates a Service on top of client.
func NewService(client llm.Client) *Service {
	return &Service{client: client, policy: llm.DefaultRetryPolicy()}
}

// Configured reports whether the underlying client can reach a provider.
func (s *Service) Configured() bool {
	return llm.IsConfigured(s.client)
}

// ExtractRequirements asks the model for 3 to 8 requirements found in jdText.
func (s *Service) ExtractRequirements(ctx context.Context, jdText string) ([]types.Requirement, error) {
	if err := ValidateDescription(jdText); err != nil {
		return nil, err
	}

	var resp types.ExtractRequirementsResponse
	err := s.generate(ctx, schemas.Requirements, BuildExtractRequirementsPrompt(jdText), llm.Options{
		MaxOutputTokens: extractMaxTokens,
		Temperature:     llm.Temperature(extractTemperature),
	}, &resp)
	if err != nil {
		return nil, err
	}

	return normalizeRequirements(resp.Requirements)
}

// SuggestEvidence asks the model what evidence would demonstrate each requirement.
// Suggestions for ids that were not supplied are dropped.
func (s *Service) SuggestEvidence(ctx context.Context, reqs []types.RequirementStub) ([]types.EvidenceSuggestion, error) {
	if err := ValidateEvidenceRequest(types.EvidenceRequest{Requirements: reqs}); err != nil {
		return nil, err
	}

	var resp types.EvidenceResponse
	err := s.generate(ctx, schemas.Evidence, BuildEvidenceStubPrompt(reqs), llm.Options{
		MaxOutputTokens: evidenceMaxTokens,
		Temperature:     llm.Temperature(evidenceTemperature),
	}, &resp)
	if err != nil {
		return nil, err
	}

	return normalizeEvidence(reqs, resp.Matrix), nil
}

// InterviewQA generates one likely interview question with a STAR outline.
func (s *Service) InterviewQA(ctx context.Context, req types.InterviewQARequest) (*types.InterviewQA, error) {
	if err := ValidateInterviewQARequest(req); err != nil {
		return nil, err
	}

	var qa types.InterviewQA
	if err := s.generate(ctx, schemas.InterviewQA, BuildInterviewQAPrompt(req), llm.Options{}, &qa); err != nil {
		return nil, err
	}
	if qa.Tips == nil {
		qa.Tips = []string{}
	}
	if qa.Category == "" {
		qa.Category = req.Requirement.Category
	}
	return &qa, nil
}

// ReverseQuestions generates questions for the candidate to ask the interviewer.
func (s *Service) ReverseQuestions(ctx context.Context, req types.ReverseQuestionsRequest) ([]types.ReverseQuestion, error) {
	if err := ValidateReverseQuestionsRequest(req); err != nil {
		return nil, err
	}

	var resp types.ReverseQuestionsResponse
	if err := s.generate(ctx, schemas.ReverseQuestions, BuildReverseQuestionsPrompt(req), llm.Options{}, &resp); err != nil {
		return nil, err
	}
	return resp.Questions, nil
}

// generate decodes the model reply into out after checking it against the
// named schema. Shape violations are not retried.
func (s *Service) generate(ctx context.Context, schema, prompt string, opts llm.Options, out any) error {
	raw, err := llm.GenerateJSONWithPolicy[json.RawMessage](ctx, s.client, prompt, opts, s.policy)
	if err != nil {
		return err
	}

	if err := schemas.ValidateDocument(schema, raw); err != nil {
		return &InvalidOutputError{Stage: schema, Reason: "response does not match schema", Cause: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &InvalidOutputError{Stage: schema, Reason: "response could not be decoded", Cause: err}
	}
	return nil
}

func normalizeRequirements(reqs []types.Requirement) ([]types.Requirement, error) {
	seen := make(map[string]bool, len(reqs))
	out := make([]types.Requirement, 0, len(reqs))

	for i, r := range reqs {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, &InvalidOutputError{Stage: schemas.Requirements, Reason: fmt.Sprintf("requirement %d has an empty id", i)}
		}
		if seen[r.ID] {
			return nil, &InvalidOutputError{Stage: schemas.Requirements, Reason: fmt.Sprintf("duplicate requirement id %q", r.ID)}
		}
		seen[r.ID] = true

		if !r.Category.Valid() {
			log.Printf("[analysis] requirement %s has unknown category %q, using %q", r.ID, r.Category, types.CategoryOther)
			r.Category = types.CategoryOther
		}
		if r.Signals == nil {
			r.Signals = []string{}
		}
		out = append(out, r)
	}

	if len(out) < MinRequirements {
		return nil, &InvalidOutputError{
			Stage:  schemas.Requirements,
			Reason: fmt.Sprintf("got %d requirements, want at least %d", len(out), MinRequirements),
		}
	}
	if len(out) > MaxRequirements {
		log.Printf("[analysis] model returned %d requirements, keeping the first %d", len(out), MaxRequirements)
		out = out[:MaxRequirements]
	}
	return out, nil
}

func normalizeEvidence(reqs []types.RequirementStub, matrix []types.EvidenceSuggestion) []types.EvidenceSuggestion {
	known := make(map[string]bool, len(reqs))
	for _, r := range reqs {
		known[r.ID] = true
	}

	seen := make(map[string]bool, len(matrix))
	out := make([]types.EvidenceSuggestion, 0, len(matrix))
	for _, e := range matrix {
		if !known[e.RequirementID] {
			log.Printf("[analysis] dropping evidence for unknown requirement id %q", e.RequirementID)
			continue
		}
		if seen[e.RequirementID] {
			log.Printf("[analysis] dropping duplicate evidence for requirement id %q", e.RequirementID)
			continue
		}
		seen[e.RequirementID] = true

		e.Confidence = clamp01(e.Confidence)
		if e.SuggestedSources == nil {
			e.SuggestedSources = []string{}
		}
		out = append(out, e)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
