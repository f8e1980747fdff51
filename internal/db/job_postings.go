package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const jobPostingColumns = `id, user_id, company_name, job_title, description, requirements,
		        raw_text, source_url, created_at, updated_at`

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

// CreateJobPosting inserts a job posting owned by userID
func (db *DB) CreateJobPosting(ctx context.Context, userID string, input *JobPostingCreateInput) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (user_id, company_name, job_title, description, raw_text, source_url)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+jobPostingColumns,
		userID, input.CompanyName, input.JobTitle, input.Description, input.RawText, input.SourceURL,
	).Scan(&p.ID, &p.UserID, &p.CompanyName, &p.JobTitle, &p.Description, &p.Requirements,
		&p.RawText, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return &p, nil
}

// ListJobPostings returns the user's job postings, newest first
func (db *DB) ListJobPostings(ctx context.Context, userID string) ([]JobPostingSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, company_name, created_at
		 FROM job_postings
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	postings := []JobPostingSummary{}
	for rows.Next() {
		var p JobPostingSummary
		if err := rows.Scan(&p.ID, &p.JobTitle, &p.CompanyName, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job postings: %w", err)
	}
	return postings, nil
}

// GetJobPosting retrieves one of the user's job postings. Returns nil if not found.
func (db *DB) GetJobPosting(ctx context.Context, userID string, id uuid.UUID) (*JobPosting, error) {
	var p JobPosting
	err := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+`
		 FROM job_postings WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&p.ID, &p.UserID, &p.CompanyName, &p.JobTitle, &p.Description, &p.Requirements,
		&p.RawText, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return &p, nil
}

// DeleteJobPosting removes one of the user's job postings. Reports whether a row was deleted.
func (db *DB) DeleteJobPosting(ctx context.Context, userID string, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete job posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
