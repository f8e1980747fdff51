package server

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/storage"
)

const (
	maxUploadBytes      = 10 << 20
	signedURLWorkers    = 8
	msgUploadIncomplete = "File and file type are required"
	msgOnlyPDF          = "Only PDF files are allowed"
)

// DocumentResponse is a document with a temporary download URL.
type DocumentResponse struct {
	db.Document
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadResponse is the body of the download URL endpoint.
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// requireBlobs writes 503 when no blob store is configured.
func (s *Server) requireBlobs(w http.ResponseWriter) bool {
	if s.blobs == nil {
		s.writeError(w, &ErrUnavailable{Message: msgStorageNotConfigured}, "")
		return false
	}
	return true
}

// handleListDocuments lists an application's documents with signed URLs
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.requireBlobs(w) {
		return
	}
	app, ok := s.loadApplication(w, r, userID)
	if !ok {
		return
	}

	docs, err := s.repo.ListApplicationDocuments(r.Context(), userID, app.ID)
	if err != nil {
		s.writeError(w, err, "Failed to list documents")
		return
	}

	expiresAt := s.now().Add(storage.SignedURLExpiry)
	out := make([]DocumentResponse, len(docs))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(signedURLWorkers)
	for i, doc := range docs {
		g.Go(func() error {
			url, err := s.blobs.SignedURL(ctx, doc.FilePath, storage.SignedURLExpiry)
			if err != nil {
				return err
			}
			out[i] = DocumentResponse{Document: doc, URL: url, ExpiresAt: expiresAt}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.writeError(w, err, "Failed to create download URLs")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"documents": out,
		"count":     len(out),
	})
}

// handleUploadDocument stores a PDF in the blob store and records it. The
// blob is removed again when the record cannot be written.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.requireBlobs(w) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, &analysis.ValidationError{Field: "file", Message: "File is too large"}, "")
			return
		}
		s.writeError(w, &analysis.ValidationError{Field: "file", Message: msgUploadIncomplete}, "")
		return
	}

	file, header, err := r.FormFile("file")
	fileType := r.FormValue("fileType")
	if err != nil || fileType == "" {
		s.writeError(w, &analysis.ValidationError{Field: "file", Message: msgUploadIncomplete}, "")
		return
	}
	defer file.Close()

	if !db.ValidFileType(fileType) {
		s.writeError(w, &analysis.ValidationError{Field: "fileType", Message: "Invalid file type"}, "")
		return
	}
	if !isPDF(header.Header.Get("Content-Type"), header.Filename) {
		s.writeError(w, &analysis.ValidationError{Field: "file", Message: msgOnlyPDF}, "")
		return
	}

	app, ok := s.loadApplication(w, r, userID)
	if !ok {
		return
	}

	ctx := r.Context()
	fileName := storage.StoredFileName(header.Filename, s.now())
	key := storage.ObjectKey(userID, app.ID.String(), fileName)

	if err := s.blobs.Upload(ctx, key, file, header.Size, "application/pdf"); err != nil {
		s.writeError(w, err, "Failed to upload document")
		return
	}

	doc, err := s.repo.CreateDocument(ctx, &db.DocumentCreateInput{
		UserID:        userID,
		ApplicationID: app.ID,
		FileName:      fileName,
		OriginalName:  header.Filename,
		FilePath:      key,
		FileSize:      header.Size,
		FileType:      fileType,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			log.Printf("[storage] failed to clean up %s: %v", key, delErr)
		}
		s.writeError(w, err, "Failed to save document")
		return
	}

	url, err := s.blobs.SignedURL(ctx, key, storage.SignedURLExpiry)
	if err != nil {
		log.Printf("[storage] failed to sign %s: %v", key, err)
	}
	s.jsonResponse(w, http.StatusCreated, DocumentResponse{
		Document:  *doc,
		URL:       url,
		ExpiresAt: s.now().Add(storage.SignedURLExpiry),
	})
}

// handleDocumentDownload issues a fresh signed URL for one document
func (s *Server) handleDocumentDownload(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.requireBlobs(w) {
		return
	}
	doc, ok := s.loadDocument(w, r, userID)
	if !ok {
		return
	}

	url, err := s.blobs.SignedURL(r.Context(), doc.FilePath, storage.SignedURLExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, &ErrNotFound{Resource: "Document file"}, "")
			return
		}
		s.writeError(w, err, "Failed to create download URL")
		return
	}
	s.jsonResponse(w, http.StatusOK, DownloadResponse{
		URL:       url,
		ExpiresAt: s.now().Add(storage.SignedURLExpiry),
	})
}

// handleDeleteDocument removes the blob and the document record. A blob
// that cannot be removed is logged and the record is deleted anyway.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok || !s.requireBlobs(w) {
		return
	}
	doc, ok := s.loadDocument(w, r, userID)
	if !ok {
		return
	}

	if err := s.blobs.Delete(r.Context(), doc.FilePath); err != nil {
		log.Printf("[storage] failed to delete %s: %v", doc.FilePath, err)
	}
	if err := s.repo.DeleteDocument(r.Context(), userID, doc.ID); err != nil {
		s.writeError(w, err, "Failed to delete document")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadDocument resolves {id} and {document_id} to a document linked to one
// of the user's applications.
func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request, userID string) (*db.Document, bool) {
	app, ok := s.loadApplication(w, r, userID)
	if !ok {
		return nil, false
	}
	docID, ok := s.pathUUID(w, r, "document_id", "document")
	if !ok {
		return nil, false
	}

	doc, err := s.repo.GetApplicationDocument(r.Context(), userID, app.ID, docID)
	if err != nil {
		s.writeError(w, err, "Failed to get document")
		return nil, false
	}
	if doc == nil {
		s.writeError(w, &ErrNotFound{Resource: "Document"}, "")
		return nil, false
	}
	return doc, true
}

func isPDF(contentType, fileName string) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return contentType == "" && strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
