package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

const documentColumns = `d.id, d.user_id, d.file_name, d.original_name, d.file_path, d.file_size,
		        d.file_type, d.extracted_text, d.created_at, d.updated_at`

// -----------------------------------------------------------------------------
// Document Methods
// -----------------------------------------------------------------------------

// CreateDocument inserts a document and links it to an application in one transaction
func (db *DB) CreateDocument(ctx context.Context, input *DocumentCreateInput) (*Document, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var d Document
	err = tx.QueryRow(ctx,
		`INSERT INTO documents (user_id, file_name, original_name, file_path, file_size, file_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, file_name, original_name, file_path, file_size,
		           file_type, extracted_text, created_at, updated_at`,
		input.UserID, input.FileName, input.OriginalName, input.FilePath, input.FileSize, input.FileType,
	).Scan(&d.ID, &d.UserID, &d.FileName, &d.OriginalName, &d.FilePath, &d.FileSize,
		&d.FileType, &d.ExtractedText, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO application_documents (application_id, document_id) VALUES ($1, $2)`,
		input.ApplicationID, d.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to link document to application: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit document: %w", err)
	}
	return &d, nil
}

// ListApplicationDocuments returns the documents linked to an application, newest first
func (db *DB) ListApplicationDocuments(ctx context.Context, userID string, applicationID uuid.UUID) ([]Document, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+documentColumns+`
		 FROM documents d
		 JOIN application_documents ad ON ad.document_id = d.id
		 WHERE ad.application_id = $1 AND d.user_id = $2
		 ORDER BY d.created_at DESC`,
		applicationID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.UserID, &d.FileName, &d.OriginalName, &d.FilePath, &d.FileSize,
			&d.FileType, &d.ExtractedText, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// GetApplicationDocument retrieves a document linked to one of the user's applications.
// Returns nil if not found.
func (db *DB) GetApplicationDocument(ctx context.Context, userID string, applicationID, documentID uuid.UUID) (*Document, error) {
	var d Document
	err := db.pool.QueryRow(ctx,
		`SELECT `+documentColumns+`
		 FROM documents d
		 JOIN application_documents ad ON ad.document_id = d.id
		 WHERE ad.application_id = $1 AND d.id = $2 AND d.user_id = $3`,
		applicationID, documentID, userID,
	).Scan(&d.ID, &d.UserID, &d.FileName, &d.OriginalName, &d.FilePath, &d.FileSize,
		&d.FileType, &d.ExtractedText, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// DeleteDocument removes a document row. The application link cascades.
func (db *DB) DeleteDocument(ctx context.Context, userID string, documentID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM documents WHERE id = $1 AND user_id = $2`,
		documentID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}
