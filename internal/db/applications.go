package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Application Methods
// -----------------------------------------------------------------------------

// CreateApplication starts a draft application for one of the user's job postings.
// Returns nil if the job posting does not exist for this user.
func (db *DB) CreateApplication(ctx context.Context, userID string, jobPostingID uuid.UUID) (*Application, error) {
	var a Application
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_posting_id, status)
		 SELECT $1, id, $3 FROM job_postings WHERE id = $2 AND user_id = $1
		 RETURNING id, user_id, job_posting_id, status, notes, created_at, updated_at`,
		userID, jobPostingID, ApplicationDraft,
	).Scan(&a.ID, &a.UserID, &a.JobPostingID, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &a, nil
}

// GetApplication retrieves one of the user's applications with its job posting.
// Returns nil if not found.
func (db *DB) GetApplication(ctx context.Context, userID string, id uuid.UUID) (*Application, error) {
	var a Application
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT a.id, a.user_id, a.job_posting_id, a.status, a.notes, a.created_at, a.updated_at,
		        p.id, p.user_id, p.company_name, p.job_title, p.description, p.requirements,
		        p.raw_text, p.source_url, p.created_at, p.updated_at
		 FROM applications a
		 JOIN job_postings p ON p.id = a.job_posting_id
		 WHERE a.id = $1 AND a.user_id = $2`,
		id, userID,
	).Scan(&a.ID, &a.UserID, &a.JobPostingID, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&p.ID, &p.UserID, &p.CompanyName, &p.JobTitle, &p.Description, &p.Requirements,
		&p.RawText, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	a.JobPosting = &p
	return &a, nil
}

// UpdateApplicationStatus sets the status of one of the user's applications
func (db *DB) UpdateApplicationStatus(ctx context.Context, userID string, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`,
		status, id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return nil
}
