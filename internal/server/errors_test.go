package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/llm"
	"github.com/jonathan/interview-prep/internal/server/middleware"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &analysis.ValidationError{Message: "bad"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("ctx: %w", &analysis.ValidationError{Message: "bad"}), http.StatusBadRequest},
		{"not configured", &llm.ConfigurationError{Message: "no key"}, http.StatusServiceUnavailable},
		{"storage unavailable", &ErrUnavailable{Message: msgStorageNotConfigured}, http.StatusServiceUnavailable},
		{"invalid model output", &analysis.InvalidOutputError{Stage: "requirements", Reason: "too few"}, http.StatusInternalServerError},
		{"decode", &llm.DecodeError{Snippet: "oops"}, http.StatusInternalServerError},
		{"not found", &ErrNotFound{Resource: "Application"}, http.StatusNotFound},
		{"no user", middleware.ErrNoUser, http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestToFailure_Messages(t *testing.T) {
	f := toFailure(&ErrNotFound{Resource: "Job posting"}, "")
	assert.Equal(t, KindNotFound, f.Kind)
	assert.Equal(t, "Job posting not found", f.Message)

	f = toFailure(errors.New("connection reset"), analysis.MsgExtractFailed)
	assert.Equal(t, analysis.KindInternal, f.Kind)
	assert.Equal(t, analysis.MsgExtractFailed, f.Message)

	f = toFailure(errors.New("connection reset"), "")
	assert.Equal(t, "Internal server error", f.Message)

	f = toFailure(&llm.ConfigurationError{Message: "GEMINI_API_KEY is not set"}, analysis.MsgExtractFailed)
	assert.Equal(t, analysis.MsgNotConfigured, f.Message)
}
