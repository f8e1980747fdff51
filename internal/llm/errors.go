package llm

import "fmt"

// ConfigurationError indicates the model endpoint cannot be used because the
// deployment is missing a credential or provider setting.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("LLM not configured: %s", e.Message)
}

// EmptyResponseError indicates the upstream call succeeded but returned no text.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("%s returned empty response", e.Model)
}

// DecodeError indicates the model output could not be parsed as JSON after
// the retry policy was exhausted. Snippet holds the head of the offending text.
type DecodeError struct {
	Snippet  string
	Attempts int
	Cause    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse model response as JSON after %d attempt(s): %s...", e.Attempts, e.Snippet)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
