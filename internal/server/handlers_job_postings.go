package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/db"
)

// CreateJobPostingRequest is the body of POST /api/job-postings. When jdText
// is omitted the description is fetched from sourceUrl.
type CreateJobPostingRequest struct {
	JobTitle    string `json:"jobTitle" validate:"required,max=200"`
	CompanyName string `json:"companyName" validate:"required,max=200"`
	JDText      string `json:"jdText"`
	Description string `json:"description"`
	SourceURL   string `json:"sourceUrl" validate:"omitempty,http_url"`
}

// ListJobPostingsResponse represents the response for listing job postings
type ListJobPostingsResponse struct {
	Postings []db.JobPostingSummary `json:"postings"`
	Count    int                    `json:"count"`
}

// handleListJobPostings lists the user's job postings, newest first
func (s *Server) handleListJobPostings(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	postings, err := s.repo.ListJobPostings(r.Context(), userID)
	if err != nil {
		s.writeError(w, err, "Failed to list job postings")
		return
	}

	s.jsonResponse(w, http.StatusOK, ListJobPostingsResponse{
		Postings: postings,
		Count:    len(postings),
	})
}

// handleCreateJobPosting saves a job posting, fetching its text if needed
func (s *Server) handleCreateJobPosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req CreateJobPostingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if err := analysis.ValidateStruct(req); err != nil {
		s.writeError(w, err, "")
		return
	}

	rawText := strings.TrimSpace(req.JDText)
	if rawText == "" {
		if req.SourceURL == "" {
			s.writeError(w, &analysis.ValidationError{Field: "jdText", Message: "jdText or sourceUrl is required"}, "")
			return
		}
		if s.jobs == nil {
			s.writeError(w, &ErrUnavailable{Message: "Fetching job postings is not configured"}, "")
			return
		}
		text, err := s.jobs.JobText(r.Context(), req.SourceURL)
		if err != nil {
			log.Printf("[fetch] failed to fetch %s: %v", req.SourceURL, err)
			s.writeError(w, &analysis.ValidationError{
				Field:   "sourceUrl",
				Message: "Could not fetch the job description from sourceUrl",
			}, "")
			return
		}
		rawText = text
	}

	input := &db.JobPostingCreateInput{
		CompanyName: req.CompanyName,
		JobTitle:    req.JobTitle,
		RawText:     &rawText,
	}
	if req.Description != "" {
		input.Description = &req.Description
	}
	if req.SourceURL != "" {
		input.SourceURL = &req.SourceURL
	}

	posting, err := s.repo.CreateJobPosting(r.Context(), userID, input)
	if err != nil {
		s.writeError(w, err, "Failed to create job posting")
		return
	}
	s.jsonResponse(w, http.StatusCreated, posting)
}

// handleGetJobPosting retrieves one of the user's job postings
func (s *Server) handleGetJobPosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "job posting")
	if !ok {
		return
	}

	posting, err := s.repo.GetJobPosting(r.Context(), userID, postingID)
	if err != nil {
		s.writeError(w, err, "Failed to get job posting")
		return
	}
	if posting == nil {
		s.writeError(w, &ErrNotFound{Resource: "Job posting"}, "")
		return
	}

	s.jsonResponse(w, http.StatusOK, posting)
}

// handleDeleteJobPosting deletes a job posting and, by cascade, its applications
func (s *Server) handleDeleteJobPosting(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "job posting")
	if !ok {
		return
	}

	deleted, err := s.repo.DeleteJobPosting(r.Context(), userID, postingID)
	if err != nil {
		s.writeError(w, err, "Failed to delete job posting")
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "Job posting"}, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
