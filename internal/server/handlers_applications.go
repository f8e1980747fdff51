package server

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/db"
	"github.com/jonathan/interview-prep/internal/types"
)

// maxInterviewQuestions caps the interview Q&A generated for one run.
const maxInterviewQuestions = 3

// RunAnalysisRequest is the optional body of POST /api/applications/{id}/analysis.
type RunAnalysisRequest struct {
	InterviewQA      bool `json:"interviewQA"`
	ReverseQuestions bool `json:"reverseQuestions"`
}

// handleCreateApplication starts a draft application for a job posting
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	postingID, ok := s.pathUUID(w, r, "id", "job posting")
	if !ok {
		return
	}

	app, err := s.repo.CreateApplication(r.Context(), userID, postingID)
	if err != nil {
		s.writeError(w, err, "Failed to create application")
		return
	}
	if app == nil {
		s.writeError(w, &ErrNotFound{Resource: "Job posting"}, "")
		return
	}
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleGetApplication returns an application with its job posting
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	app, ok := s.loadApplication(w, r, userID)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// loadApplication resolves the {id} path value to one of the user's
// applications, writing 400 or 404 when it cannot.
func (s *Server) loadApplication(w http.ResponseWriter, r *http.Request, userID string) (*db.Application, bool) {
	appID, ok := s.pathUUID(w, r, "id", "application")
	if !ok {
		return nil, false
	}

	app, err := s.repo.GetApplication(r.Context(), userID, appID)
	if err != nil {
		s.writeError(w, err, "Failed to get application")
		return nil, false
	}
	if app == nil {
		s.writeError(w, &ErrNotFound{Resource: "Application"}, "")
		return nil, false
	}
	return app, true
}

// handleGetApplicationAnalysis returns the latest analysis run of an application
func (s *Server) handleGetApplicationAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	appID, ok := s.pathUUID(w, r, "id", "application")
	if !ok {
		return
	}

	run, err := s.repo.GetLatestAnalysisRun(r.Context(), userID, appID)
	if err != nil {
		s.writeError(w, err, "Failed to get analysis")
		return
	}
	if run == nil {
		s.writeError(w, &ErrNotFound{Resource: "Analysis"}, "")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleRunApplicationAnalysis analyses the application's job posting and
// stores the result as a new analysis run. Without a model credential the
// mock generator produces the matrix.
func (s *Server) handleRunApplicationAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req RunAnalysisRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}

	app, ok := s.loadApplication(w, r, userID)
	if !ok {
		return
	}

	ctx := r.Context()
	jdText := app.JobPosting.Text()
	if err := analysis.ValidateDescription(jdText); err != nil {
		s.writeError(w, err, "")
		return
	}

	run, err := s.repo.CreateAnalysisRun(ctx, userID, app.ID)
	if err != nil {
		s.writeError(w, err, "Failed to start analysis")
		return
	}

	// Run and status bookkeeping must land even if the client goes away.
	persistCtx := context.WithoutCancel(ctx)
	s.setApplicationStatus(persistCtx, userID, app.ID, db.ApplicationAnalyzing)

	result, failure := s.analyzeApplication(ctx, app, req)
	if failure != nil {
		s.abandonRun(persistCtx, userID, app.ID, run.ID, failure.Message)
		s.failureResponse(w, failure)
		return
	}

	if err := s.repo.CompleteAnalysisRun(persistCtx, run.ID, result); err != nil {
		s.abandonRun(persistCtx, userID, app.ID, run.ID, "Failed to save analysis")
		s.writeError(w, err, "Failed to save analysis")
		return
	}
	s.setApplicationStatus(persistCtx, userID, app.ID, db.ApplicationCompleted)

	saved, err := s.repo.GetLatestAnalysisRun(ctx, userID, app.ID)
	if err != nil {
		s.writeError(w, err, "Failed to load analysis")
		return
	}
	if saved == nil {
		s.writeError(w, &ErrNotFound{Resource: "Analysis"}, "")
		return
	}
	s.jsonResponse(w, http.StatusCreated, saved)
}

// analyzeApplication produces the stored result for one run.
func (s *Server) analyzeApplication(ctx context.Context, app *db.Application, req RunAnalysisRequest) (*db.AnalysisResult, *analysis.Failure) {
	jdText := app.JobPosting.Text()

	if !s.analysis.Configured() {
		log.Printf("[analysis] model not configured, using mock generator for application %s", app.ID)
		return &db.AnalysisResult{RequirementsMatrix: analysis.GenerateMockRequirements(jdText)}, nil
	}

	state := analysis.NewOrchestrator(s.analysis).Run(ctx, jdText)
	if state.Status == analysis.StatusError {
		return nil, &analysis.Failure{Kind: state.ErrorKind, Message: state.Error}
	}

	result := &db.AnalysisResult{
		RequirementsMatrix: analysis.MatrixFromAnalysis(state.Requirements, state.Evidence),
	}
	if req.InterviewQA {
		result.InterviewQA = s.interviewQuestions(ctx, state)
	}
	if req.ReverseQuestions {
		questions, err := s.analysis.ReverseQuestions(ctx, types.ReverseQuestionsRequest{
			JDText:      jdText,
			CompanyName: app.JobPosting.CompanyName,
		})
		if err != nil {
			log.Printf("[analysis] reverse questions skipped: %v", err)
		} else {
			result.ReverseQuestions = questions
		}
	}
	return result, nil
}

// interviewQuestions generates Q&A for the first requirements that have
// evidence. Individual failures are logged and skipped.
func (s *Server) interviewQuestions(ctx context.Context, state *analysis.State) []types.InterviewQA {
	out := []types.InterviewQA{}
	for _, req := range state.Requirements {
		if len(out) == maxInterviewQuestions {
			break
		}
		evidence, ok := state.EvidenceFor(req.ID)
		if !ok {
			continue
		}
		qa, err := s.analysis.InterviewQA(ctx, types.InterviewQARequest{
			Requirement:  types.RequirementBrief{Text: req.Text, Category: string(req.Category)},
			EvidenceText: evidence.EvidenceSummary,
		})
		if err != nil {
			log.Printf("[analysis] interview question for %s skipped: %v", req.ID, err)
			continue
		}
		out = append(out, *qa)
	}
	return out
}

// abandonRun marks the run failed and returns the application to draft.
func (s *Server) abandonRun(ctx context.Context, userID string, appID, runID uuid.UUID, message string) {
	if err := s.repo.FailAnalysisRun(ctx, runID, message); err != nil {
		log.Printf("[analysis] failed to record failed run %s: %v", runID, err)
	}
	s.setApplicationStatus(ctx, userID, appID, db.ApplicationDraft)
}

func (s *Server) setApplicationStatus(ctx context.Context, userID string, appID uuid.UUID, status string) {
	if err := s.repo.UpdateApplicationStatus(ctx, userID, appID, status); err != nil {
		log.Printf("[analysis] failed to set application %s to %s: %v", appID, status, err)
	}
}
