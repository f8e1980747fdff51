package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/llm/llmtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Items []string `json:"items"`
}

func TestGenerateJSON_FirstAttemptSucceeds(t *testing.T) {
	fake := llmtest.New("```json\n{\"items\": [\"a\", \"b\"]}\n```")

	out, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, out.Items)
	assert.Equal(t, 1, fake.CallCount())

	call := fake.Calls()[0]
	assert.Equal(t, "prompt", call.Prompt)
	assert.True(t, call.Options.JSON)
	require.NotNil(t, call.Options.Temperature)
	assert.InDelta(t, 0.3, *call.Options.Temperature, 1e-6, "JSON mode defaults to a low temperature")
}

func TestGenerateJSON_RetrySucceedsReturnsRetryValue(t *testing.T) {
	fake := llmtest.New(
		"Sure! Here is the JSON you asked for: {\"items\": [\"first\"]",
		"```\n{\"items\": [\"second\"]}\n```",
	)

	out, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{MaxOutputTokens: 2048})
	require.NoError(t, err)

	assert.Equal(t, []string{"second"}, out.Items)
	require.Equal(t, 2, fake.CallCount())

	calls := fake.Calls()
	assert.Equal(t, "prompt", calls[0].Prompt)
	assert.True(t, strings.HasPrefix(calls[1].Prompt, "prompt\n\nIMPORTANT:"))
	assert.Contains(t, calls[1].Prompt, "ONLY valid JSON")
	assert.Equal(t, calls[0].Options, calls[1].Options, "retry reuses the same options")
}

func TestGenerateJSON_RetryFailsWithDecodeError(t *testing.T) {
	bad := strings.Repeat("x", 300)
	fake := llmtest.New("not json", bad)

	_, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{})
	require.Error(t, err)

	assert.Equal(t, 2, fake.CallCount(), "exactly one additional model call")

	var decodeErr *llm.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, strings.Repeat("x", 200), decodeErr.Snippet)
	assert.Equal(t, 2, decodeErr.Attempts)
}

func TestGenerateJSON_TransportErrorIsNotRetried(t *testing.T) {
	boom := errors.New("connection reset")
	fake := llmtest.WithReplies(llmtest.Reply{Err: boom})

	_, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, fake.CallCount())
}

func TestGenerateJSON_RetryTransportError(t *testing.T) {
	boom := errors.New("timeout")
	fake := llmtest.WithReplies(llmtest.Reply{Text: "oops"}, llmtest.Reply{Err: boom})

	_, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, fake.CallCount())
}

func TestGenerateJSON_EmptyResponsePropagates(t *testing.T) {
	fake := llmtest.WithReplies(llmtest.Reply{Err: &llm.EmptyResponseError{Model: "gemini-1.5-flash"}})

	_, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{})

	var emptyErr *llm.EmptyResponseError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestGenerateJSON_KeepsCallerTemperature(t *testing.T) {
	fake := llmtest.New(`{"items": []}`)

	_, err := llm.GenerateJSON[payload](t.Context(), fake, "prompt", llm.Options{Temperature: llm.Temperature(0.5)})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, *fake.Calls()[0].Options.Temperature, 1e-6)
}

func TestGenerateJSONWithPolicy_SingleAttempt(t *testing.T) {
	fake := llmtest.New("nope", `{"items": []}`)

	_, err := llm.GenerateJSONWithPolicy[payload](t.Context(), fake, "prompt", llm.Options{}, llm.RetryPolicy{MaxAttempts: 1})

	var decodeErr *llm.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 1, fake.CallCount())
}

func TestGenerateJSONWithPolicy_BackoffRespectsContext(t *testing.T) {
	fake := llmtest.New("nope", `{"items": []}`)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	policy := llm.RetryPolicy{
		MaxAttempts: 2,
		Backoff:     func(int) time.Duration { return time.Minute },
	}
	_, err := llm.GenerateJSONWithPolicy[payload](ctx, fake, "prompt", llm.Options{}, policy)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fake.CallCount())
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := llm.DefaultRetryPolicy()
	assert.Equal(t, 2, policy.MaxAttempts)
	assert.Nil(t, policy.Backoff)
}
