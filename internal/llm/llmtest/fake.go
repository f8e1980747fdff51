// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonathan/interview-prep/internal/llm"
)

// Reply is one scripted response. Err takes precedence over Text.
type Reply struct {
	Text string
	Err  error
}

// Call records one Generate invocation.
type Call struct {
	Prompt  string
	Options llm.Options
}

// Client returns its replies in order and records every call.
type Client struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call
}

// New creates a fake client that answers with the given texts in order.
func New(texts ...string) *Client {
	c := &Client{}
	for _, t := range texts {
		c.replies = append(c.replies, Reply{Text: t})
	}
	return c
}

// WithReplies creates a fake client from explicit replies.
func WithReplies(replies ...Reply) *Client {
	return &Client{replies: replies}
}

// Generate implements llm.Client.
func (c *Client) Generate(_ context.Context, prompt string, opts llm.Options) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := len(c.calls)
	c.calls = append(c.calls, Call{Prompt: prompt, Options: opts})
	if idx >= len(c.replies) {
		return "", fmt.Errorf("llmtest: unexpected call %d", idx+1)
	}
	r := c.replies[idx]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Close implements llm.Client.
func (c *Client) Close() error { return nil }

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallCount returns how many times Generate was invoked.
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}
