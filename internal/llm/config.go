// Package llm provides the generative model client and JSON-mode decoding used by the analysis pipeline.
package llm

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Defaults applied when a call leaves an option unset.
const (
	DefaultModel           = "gemini-1.5-flash"
	DefaultMaxOutputTokens = int32(4096)
	DefaultTemperature     = float32(0.7)

	// JSONTemperature is used by GenerateJSON when the caller does not pick one.
	JSONTemperature = float32(0.3)
)

// Config holds the model configuration. It is injected into the client at
// construction so tests can substitute it without touching the environment.
type Config struct {
	Provider        Provider
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Temperature     float32
}

// DefaultConfig returns the default Gemini configuration without a credential.
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderGemini,
		Model:           DefaultModel,
		MaxOutputTokens: DefaultMaxOutputTokens,
		Temperature:     DefaultTemperature,
	}
}

// WithAPIKey returns a copy of the config carrying the given credential.
func (c *Config) WithAPIKey(apiKey string) *Config {
	next := *c
	next.APIKey = apiKey
	return &next
}

// Options are per-call overrides. Zero values fall back to the Config.
type Options struct {
	Model           string
	MaxOutputTokens int32
	// Temperature is a pointer because 0 is a meaningful setting.
	Temperature *float32
	// JSON asks the provider for an application/json response.
	JSON bool
}

// Temperature returns a pointer suitable for Options.Temperature.
func Temperature(t float32) *float32 {
	return &t
}

// Resolve fills unset option fields from the configuration.
func (c *Config) Resolve(opts Options) Options {
	if opts.Model == "" {
		opts.Model = c.Model
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = c.MaxOutputTokens
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if opts.Temperature == nil {
		opts.Temperature = Temperature(c.Temperature)
	}
	return opts
}
