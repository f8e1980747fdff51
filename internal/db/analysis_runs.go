package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Analysis Run Methods
// -----------------------------------------------------------------------------

// CreateAnalysisRun records a running analysis for an application
func (db *DB) CreateAnalysisRun(ctx context.Context, userID string, applicationID uuid.UUID) (*AnalysisRun, error) {
	var r AnalysisRun
	err := db.pool.QueryRow(ctx,
		`INSERT INTO analysis_runs (user_id, application_id, status, started_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, user_id, application_id, status, started_at, created_at, updated_at`,
		userID, applicationID, RunRunning,
	).Scan(&r.ID, &r.UserID, &r.ApplicationID, &r.Status, &r.StartedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis run: %w", err)
	}
	return &r, nil
}

// CompleteAnalysisRun stores the result and marks the run completed
func (db *DB) CompleteAnalysisRun(ctx context.Context, runID uuid.UUID, result *AnalysisResult) error {
	matrixJSON, err := marshalNullable(result.RequirementsMatrix)
	if err != nil {
		return fmt.Errorf("failed to marshal requirements matrix: %w", err)
	}
	qaJSON, err := marshalNullable(result.InterviewQA)
	if err != nil {
		return fmt.Errorf("failed to marshal interview QA: %w", err)
	}
	questionsJSON, err := marshalNullable(result.ReverseQuestions)
	if err != nil {
		return fmt.Errorf("failed to marshal reverse questions: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $1, requirements_matrix = $2, interview_qa = $3, reverse_questions = $4,
		     error_message = NULL, completed_at = NOW(), updated_at = NOW()
		 WHERE id = $5`,
		RunCompleted, matrixJSON, qaJSON, questionsJSON, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete analysis run: %w", err)
	}
	return nil
}

// FailAnalysisRun marks the run failed with a message
func (db *DB) FailAnalysisRun(ctx context.Context, runID uuid.UUID, message string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $1, error_message = $2, completed_at = NOW(), updated_at = NOW()
		 WHERE id = $3`,
		RunFailed, message, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to fail analysis run: %w", err)
	}
	return nil
}

// GetLatestAnalysisRun returns the newest run for one of the user's applications.
// Returns nil if none exist.
func (db *DB) GetLatestAnalysisRun(ctx context.Context, userID string, applicationID uuid.UUID) (*AnalysisRun, error) {
	var r AnalysisRun
	var matrixJSON, qaJSON, questionsJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, application_id, status, requirements_matrix, interview_qa,
		        reverse_questions, error_message, started_at, completed_at, created_at, updated_at
		 FROM analysis_runs
		 WHERE application_id = $1 AND user_id = $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		applicationID, userID,
	).Scan(&r.ID, &r.UserID, &r.ApplicationID, &r.Status, &matrixJSON, &qaJSON,
		&questionsJSON, &r.ErrorMessage, &r.StartedAt, &r.CompletedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	// Parse JSONB fields
	if matrixJSON != nil {
		_ = json.Unmarshal(matrixJSON, &r.RequirementsMatrix)
	}
	if qaJSON != nil {
		_ = json.Unmarshal(qaJSON, &r.InterviewQA)
	}
	if questionsJSON != nil {
		_ = json.Unmarshal(questionsJSON, &r.ReverseQuestions)
	}
	return &r, nil
}

// marshalNullable encodes v for a JSONB column, mapping nil to SQL NULL.
func marshalNullable[T any](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
