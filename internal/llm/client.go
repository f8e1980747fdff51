package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client is an abstraction over text-completion providers
type Client interface {
	// Generate sends one prompt and returns the raw text reply. It makes
	// exactly one upstream call and never retries.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config)
	default:
		return nil, &ConfigurationError{Message: fmt.Sprintf("unsupported provider %q", config.Provider)}
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config) (*GeminiClient, error) {
	if config == nil || config.APIKey == "" {
		return nil, &ConfigurationError{
			Message: "GEMINI_API_KEY is not set. Please set it in your environment variables.",
		}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate generates text content for the prompt
func (c *GeminiClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	opts = c.config.Resolve(opts)

	model := c.client.GenerativeModel(opts.Model)
	model.SetTemperature(*opts.Temperature)
	model.SetMaxOutputTokens(opts.MaxOutputTokens)
	if opts.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return responseText(resp, opts.Model)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// responseText returns the reply text, or an EmptyResponseError when the
// response carries nothing but whitespace.
func responseText(resp *genai.GenerateContentResponse, model string) (string, error) {
	text := extractTextFromResponse(resp)
	if strings.TrimSpace(text) == "" {
		return "", &EmptyResponseError{Model: model}
	}
	return text, nil
}

// extractTextFromResponse joins the text parts of the first candidate.
func extractTextFromResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}

// Unconfigured returns a Client whose every call fails with cause. The server
// uses it when no credential is present so analysis endpoints can still
// answer with a distinct "not configured" signal.
func Unconfigured(cause *ConfigurationError) Client {
	if cause == nil {
		cause = &ConfigurationError{Message: "no provider configured"}
	}
	return unconfiguredClient{cause: cause}
}

type unconfiguredClient struct {
	cause *ConfigurationError
}

func (u unconfiguredClient) Generate(context.Context, string, Options) (string, error) {
	return "", u.cause
}

func (u unconfiguredClient) Close() error { return nil }

// IsConfigured reports whether c can reach a real provider.
func IsConfigured(c Client) bool {
	if c == nil {
		return false
	}
	_, unconfigured := c.(unconfiguredClient)
	return !unconfigured
}
