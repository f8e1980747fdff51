package llm

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// retryDirective is appended to the original prompt for the corrective attempt.
const retryDirective = "\n\nIMPORTANT: Your previous response was not valid JSON. Please respond with ONLY valid JSON, no markdown formatting, no explanation, just the JSON object."

// snippetLength bounds the diagnostic text carried by DecodeError.
const snippetLength = 200

// RetryPolicy controls how many times a JSON decode failure is re-asked.
// Transport and configuration errors are never retried.
type RetryPolicy struct {
	// MaxAttempts counts the first call. 2 means one corrective retry.
	MaxAttempts int
	// Backoff returns the wait before attempt n (1-based retry index). Nil means no wait.
	Backoff func(retry int) time.Duration
}

// DefaultRetryPolicy is a single corrective retry with no backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 2}
}

// GenerateJSON calls the client and decodes the reply into T using the default retry policy.
func GenerateJSON[T any](ctx context.Context, client Client, prompt string, opts Options) (T, error) {
	return GenerateJSONWithPolicy[T](ctx, client, prompt, opts, DefaultRetryPolicy())
}

// GenerateJSONWithPolicy calls the client, strips code fences and decodes the
// reply into T. When parsing fails the prompt is re-sent with a JSON-only
// directive, up to policy.MaxAttempts calls in total. Every attempt uses the
// same options.
func GenerateJSONWithPolicy[T any](ctx context.Context, client Client, prompt string, opts Options, policy RetryPolicy) (T, error) {
	var zero T

	if opts.Temperature == nil {
		opts.Temperature = Temperature(JSONTemperature)
	}
	opts.JSON = true

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastText string
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		current := prompt
		if attempt > 0 {
			if err := wait(ctx, policy, attempt); err != nil {
				return zero, err
			}
			current = prompt + retryDirective
		}

		raw, err := client.Generate(ctx, current, opts)
		if err != nil {
			return zero, err
		}

		text := CleanJSONBlock(raw)
		var out T
		if err := json.Unmarshal([]byte(text), &out); err != nil {
			lastText, lastErr = text, err
			log.Printf("[llm] JSON parse failed (attempt %d/%d): %v", attempt+1, attempts, err)
			continue
		}
		return out, nil
	}

	return zero, &DecodeError{
		Snippet:  truncate(lastText, snippetLength),
		Attempts: attempts,
		Cause:    lastErr,
	}
}

func wait(ctx context.Context, policy RetryPolicy, retry int) error {
	if policy.Backoff == nil {
		return nil
	}
	d := policy.Backoff(retry)
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
