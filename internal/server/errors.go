package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/server/middleware"
)

// Failure kinds that only exist at the HTTP boundary.
const (
	KindNotFound        analysis.Kind = "not_found"
	KindUnauthenticated analysis.Kind = "unauthenticated"
	KindRateLimited     analysis.Kind = "rate_limited"
)

// Messages for collaborators that are not configured.
const (
	msgStorageNotConfigured = "Document storage is not configured"
)

// ErrNotFound indicates a record is missing or owned by another user
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// ErrUnavailable indicates an optional collaborator is not configured
type ErrUnavailable struct {
	Message string
}

func (e *ErrUnavailable) Error() string {
	return e.Message
}

// toFailure converts err into the envelope written to clients.
func toFailure(err error, fallback string) *analysis.Failure {
	var notFound *ErrNotFound
	if errors.As(err, &notFound) {
		return &analysis.Failure{Kind: KindNotFound, Message: notFound.Error()}
	}
	var unavailable *ErrUnavailable
	if errors.As(err, &unavailable) {
		return &analysis.Failure{Kind: analysis.KindUnavailable, Message: unavailable.Message}
	}
	if errors.Is(err, middleware.ErrNoUser) {
		return &analysis.Failure{Kind: KindUnauthenticated, Message: "Unauthorized"}
	}
	if fallback == "" {
		fallback = "Internal server error"
	}
	return analysis.Classify(err, fallback)
}

// StatusForKind returns the HTTP status code for a failure kind.
func StatusForKind(kind analysis.Kind) int {
	switch kind {
	case analysis.KindValidation:
		return http.StatusBadRequest
	case analysis.KindUnavailable:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	return StatusForKind(toFailure(err, "").Kind)
}

// writeError logs err and writes the {error, kind} envelope. Internal
// failures are reported to the client as fallback.
func (s *Server) writeError(w http.ResponseWriter, err error, fallback string) {
	if err == nil {
		err = errors.New("unknown error")
	}
	failure := toFailure(err, fallback)
	if failure.Kind == analysis.KindInternal {
		log.Printf("[server] %s: %v", failure.Message, err)
	}
	s.failureResponse(w, failure)
}

func (s *Server) failureResponse(w http.ResponseWriter, failure *analysis.Failure) {
	s.jsonResponse(w, StatusForKind(failure.Kind), failure)
}
