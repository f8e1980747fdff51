// Package client is a typed HTTP client for the analysis endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/types"
)

const (
	defaultTimeout = 90 * time.Second
	maxErrorBody   = 200
)

// Result is either a decoded value or the failure envelope the server
// answered with. Transport problems are returned as plain errors instead.
type Result[T any] struct {
	Value T
	Err   *analysis.Failure
}

// OK reports whether the server answered with a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Unwrap returns the value, or the failure as an error.
func (r Result[T]) Unwrap() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

// Client calls a running server.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExtractRequirements calls POST /api/analysis/extract-requirements.
func (c *Client) ExtractRequirements(ctx context.Context, jdText string) (Result[[]types.Requirement], error) {
	res, err := call[types.ExtractRequirementsResponse](ctx, c, "/api/analysis/extract-requirements",
		types.ExtractRequirementsRequest{JDText: jdText})
	return Result[[]types.Requirement]{Value: res.Value.Requirements, Err: res.Err}, err
}

// SuggestEvidence calls POST /api/analysis/evidence-stub.
func (c *Client) SuggestEvidence(ctx context.Context, reqs []types.RequirementStub) (Result[[]types.EvidenceSuggestion], error) {
	res, err := call[types.EvidenceResponse](ctx, c, "/api/analysis/evidence-stub",
		types.EvidenceRequest{Requirements: reqs})
	return Result[[]types.EvidenceSuggestion]{Value: res.Value.Matrix, Err: res.Err}, err
}

// InterviewQA calls POST /api/analysis/interview-qa.
func (c *Client) InterviewQA(ctx context.Context, req types.InterviewQARequest) (Result[types.InterviewQA], error) {
	return call[types.InterviewQA](ctx, c, "/api/analysis/interview-qa", req)
}

// ReverseQuestions calls POST /api/analysis/reverse-questions.
func (c *Client) ReverseQuestions(ctx context.Context, req types.ReverseQuestionsRequest) (Result[[]types.ReverseQuestion], error) {
	res, err := call[types.ReverseQuestionsResponse](ctx, c, "/api/analysis/reverse-questions", req)
	return Result[[]types.ReverseQuestion]{Value: res.Value.Questions, Err: res.Err}, err
}

// MockAnalysis calls POST /api/analysis/mock.
func (c *Client) MockAnalysis(ctx context.Context, jdText string) (Result[types.RequirementsMatrix], error) {
	return call[types.RequirementsMatrix](ctx, c, "/api/analysis/mock",
		types.ExtractRequirementsRequest{JDText: jdText})
}

// Stages adapts the client to the orchestrator so a run can be driven
// against a remote server. Server failures surface as *analysis.Failure.
func (c *Client) Stages() analysis.Stages {
	return remoteStages{client: c}
}

type remoteStages struct {
	client *Client
}

func (s remoteStages) ExtractRequirements(ctx context.Context, jdText string) ([]types.Requirement, error) {
	res, err := s.client.ExtractRequirements(ctx, jdText)
	if err != nil {
		return nil, err
	}
	return res.Unwrap()
}

func (s remoteStages) SuggestEvidence(ctx context.Context, reqs []types.RequirementStub) ([]types.EvidenceSuggestion, error) {
	res, err := s.client.SuggestEvidence(ctx, reqs)
	if err != nil {
		return nil, err
	}
	return res.Unwrap()
}

func call[T any](ctx context.Context, c *Client, path string, body any) (Result[T], error) {
	var result Result[T]

	payload, err := json.Marshal(body)
	if err != nil {
		return result, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Err = decodeFailure(resp.StatusCode, raw)
		return result, nil
	}

	if err := json.Unmarshal(raw, &result.Value); err != nil {
		return result, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return result, nil
}

// decodeFailure reads the {error, kind} envelope. Bodies that are not an
// envelope become an internal failure naming the status.
func decodeFailure(status int, raw []byte) *analysis.Failure {
	var failure analysis.Failure
	if err := json.Unmarshal(raw, &failure); err == nil && failure.Message != "" {
		if failure.Kind == "" {
			failure.Kind = kindForStatus(status)
		}
		return &failure
	}

	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	msg := fmt.Sprintf("unexpected status %d", status)
	if text != "" {
		msg += ": " + text
	}
	return &analysis.Failure{Kind: kindForStatus(status), Message: msg}
}

func kindForStatus(status int) analysis.Kind {
	switch {
	case status == http.StatusServiceUnavailable:
		return analysis.KindUnavailable
	case status >= 400 && status < 500:
		return analysis.KindValidation
	default:
		return analysis.KindInternal
	}
}
