package analysis

import (
	"errors"
	"fmt"

	"github.com/jonathan/interview-prep/internal/llm"
)

// User-facing messages. Diagnostic detail stays in the logs.
const (
	MsgNotConfigured      = "Gemini API is not configured"
	MsgExtractFailed      = "Failed to extract requirements"
	MsgEvidenceFailed     = "Failed to generate evidence suggestions"
	MsgInterviewQAFailed  = "Failed to generate interview questions"
	MsgReverseFailed      = "Failed to generate reverse questions"
	MsgInvalidModelOutput = "Invalid response from Gemini API"
)

// Kind classifies a failure for callers that need to choose a response.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// ValidationError reports bad caller input. It is raised before any model call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidOutputError reports model output that parsed as JSON but breaks the
// output contract of a stage.
type InvalidOutputError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *InvalidOutputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid %s output: %s: %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("invalid %s output: %s", e.Stage, e.Reason)
}

func (e *InvalidOutputError) Unwrap() error {
	return e.Cause
}

// Failure is the explicit error half of a stage result. It is what the HTTP
// surface writes and what the typed client decodes.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
}

func (f *Failure) Error() string {
	return f.Message
}

// KindOf classifies err. Anything unrecognised is internal.
func KindOf(err error) Kind {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	var configErr *llm.ConfigurationError
	if errors.As(err, &configErr) {
		return KindUnavailable
	}
	return KindInternal
}

// Classify converts err into a Failure safe to show to users. Validation
// messages pass through; internal failures collapse to fallback.
func Classify(err error, fallback string) *Failure {
	if err == nil {
		return nil
	}

	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}

	switch KindOf(err) {
	case KindValidation:
		return &Failure{Kind: KindValidation, Message: err.Error()}
	case KindUnavailable:
		return &Failure{Kind: KindUnavailable, Message: MsgNotConfigured}
	}

	var invalid *InvalidOutputError
	if errors.As(err, &invalid) {
		return &Failure{Kind: KindInternal, Message: MsgInvalidModelOutput}
	}
	return &Failure{Kind: KindInternal, Message: fallback}
}
