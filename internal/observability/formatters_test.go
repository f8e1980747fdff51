package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/interview-prep/internal/analysis"
	"github.com/jonathan/interview-prep/internal/types"
)

func TestPrintRequirements(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRequirements([]types.Requirement{
		{ID: "req_1", Category: types.CategoryTechnicalSkills, Text: "5 years with Go", Signals: []string{"Go", "gRPC"}},
		{ID: "req_2", Category: types.CategorySoftSkills, Text: "Mentoring"},
	})
	output := buf.String()

	assert.Contains(t, output, "REQUIREMENTS")
	assert.Contains(t, output, "Extracted 2 requirements")
	assert.Contains(t, output, "req_1  [technical_skills]")
	assert.Contains(t, output, "Go, gRPC")
	assert.NotContains(t, output, "more requirements")
}

func TestPrintRequirements_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRequirements(nil)
	assert.Empty(t, buf.String())
}

func TestPrintRequirements_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	reqs := make([]types.Requirement, 8)
	for i := range reqs {
		reqs[i] = types.Requirement{ID: "req", Category: types.CategoryOther, Text: "requirement"}
	}
	p.PrintRequirements(reqs)

	assert.Contains(t, buf.String(), "... and 3 more requirements")
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintState(&analysis.State{
		Status: analysis.StatusDone,
		Requirements: []types.Requirement{
			{ID: "req_1", Text: "React"},
			{ID: "req_2", Text: "Communication"},
		},
		Evidence: []types.EvidenceSuggestion{
			{RequirementID: "req_1", EvidenceSummary: "Checkout rewrite", Confidence: 0.85, SuggestedSources: []string{"resume"}},
		},
	})
	output := buf.String()

	assert.Contains(t, output, "EVIDENCE MATRIX")
	assert.Contains(t, output, "Confidence: 0.85")
	assert.Contains(t, output, "Checkout rewrite")
	assert.Contains(t, output, "(no evidence suggested)")
}

func TestPrintState_Error(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintState(&analysis.State{
		Status:    analysis.StatusError,
		Error:     analysis.MsgExtractFailed,
		ErrorKind: analysis.KindInternal,
	})
	output := buf.String()

	assert.Contains(t, output, "ANALYSIS FAILED")
	assert.Contains(t, output, analysis.MsgExtractFailed)
	assert.NotContains(t, output, "EVIDENCE MATRIX")
}

func TestPrintMatrix(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatrix(&types.RequirementsMatrix{Requirements: []types.RequirementItem{
		{Requirement: "Kubernetes operations", Priority: types.PriorityMust, MatchScore: 0.75},
		{Requirement: "Terraform", Priority: types.PriorityNiceToHave},
	}})
	output := buf.String()

	assert.Contains(t, output, "REQUIREMENTS MATRIX")
	assert.Contains(t, output, "Must Have")
	assert.Contains(t, output, "Match: 75%")
	assert.Contains(t, output, "Nice to Have")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth+2, line)
	}
	assert.Contains(t, buf.String(), "...")
}
