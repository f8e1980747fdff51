package server

import (
	"log"
	"net/http"
	"strings"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/types"
)

// StatusEvent is streamed on every orchestrator transition.
type StatusEvent struct {
	From analysis.Status `json:"from"`
	To   analysis.Status `json:"to"`
}

// MockAnalysisRequest is the mock endpoint input.
type MockAnalysisRequest struct {
	JDText string `json:"jdText"`
}

func (s *Server) handleExtractRequirements(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequirementsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}

	reqs, err := s.analysis.ExtractRequirements(r.Context(), req.JDText)
	if err != nil {
		s.writeError(w, err, analysis.MsgExtractFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ExtractRequirementsResponse{Requirements: reqs})
}

func (s *Server) handleEvidenceStub(w http.ResponseWriter, r *http.Request) {
	var req types.EvidenceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}

	matrix, err := s.analysis.SuggestEvidence(r.Context(), req.Requirements)
	if err != nil {
		s.writeError(w, err, analysis.MsgEvidenceFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.EvidenceResponse{Matrix: matrix})
}

func (s *Server) handleInterviewQA(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewQARequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}

	qa, err := s.analysis.InterviewQA(r.Context(), req)
	if err != nil {
		s.writeError(w, err, analysis.MsgInterviewQAFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, qa)
}

func (s *Server) handleReverseQuestions(w http.ResponseWriter, r *http.Request) {
	var req types.ReverseQuestionsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}

	questions, err := s.analysis.ReverseQuestions(r.Context(), req)
	if err != nil {
		s.writeError(w, err, analysis.MsgReverseFailed)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.ReverseQuestionsResponse{Questions: questions})
}

// handleMockAnalysis builds a placeholder matrix without calling the model.
func (s *Server) handleMockAnalysis(w http.ResponseWriter, r *http.Request) {
	var req MockAnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}
	if strings.TrimSpace(req.JDText) == "" {
		s.writeError(w, &analysis.ValidationError{Field: "jdText", Message: "jdText is required"}, "")
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis.GenerateMockRequirements(req.JDText))
}

// handleAnalysisStream runs both stages and streams each status change,
// ending with a "complete" event that carries the final state.
func (s *Server) handleAnalysisStream(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequirementsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err, "")
		return
	}
	if err := analysis.ValidateDescription(req.JDText); err != nil {
		s.writeError(w, err, "")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.writeError(w, err, "")
		return
	}

	orch := analysis.NewOrchestrator(s.analysis)
	orch.OnTransition = func(from, to analysis.Status, _ *analysis.State) {
		if err := sse.WriteEvent("status", StatusEvent{From: from, To: to}); err != nil {
			log.Printf("[analysis] failed to write status event: %v", err)
		}
	}

	state := orch.Run(r.Context(), req.JDText)
	if err := sse.WriteEvent("complete", state); err != nil {
		log.Printf("[analysis] failed to write complete event: %v", err)
	}
}
