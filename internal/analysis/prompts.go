package analysis

import (
	"fmt"
	"strings"

	"github.com/jonathan/interview-prep/internal/prompts"
	"github.com/jonathan/interview-prep/internal/types"
)

const promptFile = "analysis.json"

// BuildExtractRequirementsPrompt renders the extraction prompt for a job description.
func BuildExtractRequirementsPrompt(jdText string) string {
	return prompts.Format(prompts.MustGet(promptFile, "extract-requirements"), map[string]string{
		"JDText": jdText,
	})
}

// BuildEvidenceStubPrompt renders the evidence prompt, one line per requirement.
func BuildEvidenceStubPrompt(reqs []types.RequirementStub) string {
	return prompts.Format(prompts.MustGet(promptFile, "evidence-stub"), map[string]string{
		"Requirements": FormatRequirementList(reqs),
	})
}

// FormatRequirementList renders requirements as "- <id>: [<category>] <text>" lines.
func FormatRequirementList(reqs []types.RequirementStub) string {
	lines := make([]string, 0, len(reqs))
	for _, r := range reqs {
		lines = append(lines, fmt.Sprintf("- %s: [%s] %s", r.ID, r.Category, r.Text))
	}
	return strings.Join(lines, "\n")
}

// BuildInterviewQAPrompt renders the STAR interview question prompt.
func BuildInterviewQAPrompt(req types.InterviewQARequest) string {
	return prompts.Format(prompts.MustGet(promptFile, "interview-qa"), map[string]string{
		"RequirementText":     req.Requirement.Text,
		"RequirementCategory": req.Requirement.Category,
		"EvidenceText":        req.EvidenceText,
	})
}

// BuildReverseQuestionsPrompt renders the prompt for questions to ask the interviewer.
func BuildReverseQuestionsPrompt(req types.ReverseQuestionsRequest) string {
	return prompts.Format(prompts.MustGet(promptFile, "reverse-questions"), map[string]string{
		"CompanyName": req.CompanyName,
		"JDText":      req.JDText,
	})
}
