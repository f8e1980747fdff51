package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-prep/internal/types"
)

// ApplicationStatus values
const (
	ApplicationDraft     = "draft"
	ApplicationAnalyzing = "analyzing"
	ApplicationCompleted = "completed"
	ApplicationArchived  = "archived"
)

// Document file types
const (
	FileTypeResume    = "resume"
	FileTypeCV        = "cv"
	FileTypeNarrative = "narrative"
	FileTypeOther     = "other"
)

// AnalysisRun status values
const (
	RunPending   = "pending"
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ValidFileType reports whether t is an accepted document type.
func ValidFileType(t string) bool {
	switch t {
	case FileTypeResume, FileTypeCV, FileTypeNarrative, FileTypeOther:
		return true
	}
	return false
}

// JobPosting is a job description saved by a user
type JobPosting struct {
	ID           uuid.UUID `json:"id"`
	UserID       string    `json:"user_id"`
	CompanyName  string    `json:"company_name"`
	JobTitle     string    `json:"job_title"`
	Description  *string   `json:"description,omitempty"`
	Requirements *string   `json:"requirements,omitempty"`
	RawText      *string   `json:"raw_text,omitempty"`
	SourceURL    *string   `json:"source_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Text returns the description used for analysis.
func (p *JobPosting) Text() string {
	if p.RawText != nil && *p.RawText != "" {
		return *p.RawText
	}
	if p.Description != nil {
		return *p.Description
	}
	return ""
}

// JobPostingSummary is the list view of a job posting
type JobPostingSummary struct {
	ID          uuid.UUID `json:"id"`
	JobTitle    string    `json:"job_title"`
	CompanyName string    `json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobPostingCreateInput contains the fields for a new job posting
type JobPostingCreateInput struct {
	CompanyName string
	JobTitle    string
	Description *string
	RawText     *string
	SourceURL   *string
}

// Application tracks a user's application to one job posting
type Application struct {
	ID           uuid.UUID   `json:"id"`
	UserID       string      `json:"user_id"`
	JobPostingID uuid.UUID   `json:"job_posting_id"`
	Status       string      `json:"status"`
	Notes        *string     `json:"notes,omitempty"`
	JobPosting   *JobPosting `json:"job_posting,omitempty"` // joined
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Document is an uploaded supporting file. FilePath is the blob key.
type Document struct {
	ID            uuid.UUID `json:"id"`
	UserID        string    `json:"user_id"`
	FileName      string    `json:"file_name"`
	OriginalName  string    `json:"original_name"`
	FilePath      string    `json:"file_path"`
	FileSize      *int64    `json:"file_size,omitempty"`
	FileType      string    `json:"file_type"`
	ExtractedText *string   `json:"extracted_text,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DocumentCreateInput contains the fields for a new document linked to an application
type DocumentCreateInput struct {
	UserID        string
	ApplicationID uuid.UUID
	FileName      string
	OriginalName  string
	FilePath      string
	FileSize      int64
	FileType      string
}

// AnalysisRun is one persisted analysis of an application
type AnalysisRun struct {
	ID                 uuid.UUID                 `json:"id"`
	UserID             string                    `json:"user_id"`
	ApplicationID      uuid.UUID                 `json:"application_id"`
	Status             string                    `json:"status"`
	RequirementsMatrix *types.RequirementsMatrix `json:"requirements_matrix,omitempty"`
	InterviewQA        []types.InterviewQA       `json:"interview_qa,omitempty"`
	ReverseQuestions   []types.ReverseQuestion   `json:"reverse_questions,omitempty"`
	ErrorMessage       *string                   `json:"error_message,omitempty"`
	StartedAt          *time.Time                `json:"started_at,omitempty"`
	CompletedAt        *time.Time                `json:"completed_at,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

// AnalysisResult is what a completed run stores
type AnalysisResult struct {
	RequirementsMatrix *types.RequirementsMatrix
	InterviewQA        []types.InterviewQA
	ReverseQuestions   []types.ReverseQuestion
}
