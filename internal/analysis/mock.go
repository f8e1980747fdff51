package analysis

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-prep/internal/types"
)

const (
	mockMaxItems      = 5
	mockMinItems      = 3
	mockMinLineLength = 10
	mockMaxLineLength = 100

	pendingSource  = "Resume/CV analysis pending"
	pendingExcerpt = "Evidence will be extracted from uploaded documents"
)

var newlineRuns = regexp.MustCompile(`\n+`)

// mockPriorities assigns priority by position. Positions past the end are nice-to-have.
var mockPriorities = []types.Priority{
	types.PriorityMust,
	types.PriorityPreferred,
	types.PriorityPreferred,
	types.PriorityNiceToHave,
	types.PriorityNiceToHave,
}

var mockPlaceholders = []string{
	"Technical skills and experience",
	"Communication and collaboration",
	"Problem-solving ability",
}

func priorityAt(i int) types.Priority {
	if i < len(mockPriorities) {
		return mockPriorities[i]
	}
	return types.PriorityNiceToHave
}

// GenerateMockRequirements derives a placeholder requirements matrix from raw
// text without calling a model. Lines of more than 10 characters become
// requirements, up to 5, and short inputs are padded to 3 with fixed placeholders.
func GenerateMockRequirements(jdText string) *types.RequirementsMatrix {
	items := make([]types.RequirementItem, 0, mockMaxItems)

	for _, line := range newlineRuns.Split(jdText, -1) {
		if len(items) == mockMaxItems {
			break
		}
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= mockMinLineLength {
			continue
		}
		items = append(items, pendingItem(truncateLine(line), priorityAt(len(items))))
	}

	for i := len(items); i < mockMinItems && i < len(mockPlaceholders); i++ {
		items = append(items, pendingItem(mockPlaceholders[i], priorityAt(i)))
	}

	return &types.RequirementsMatrix{Requirements: items}
}

func truncateLine(line string) string {
	if utf8.RuneCountInString(line) <= mockMaxLineLength {
		return line
	}
	return string([]rune(line)[:mockMaxLineLength]) + "..."
}

func pendingItem(requirement string, priority types.Priority) types.RequirementItem {
	return types.RequirementItem{
		Requirement: requirement,
		Priority:    priority,
		Evidence: []types.EvidenceItem{
			{Source: pendingSource, Excerpt: pendingExcerpt, Relevance: 0},
		},
		MatchScore: 0,
	}
}

// FormatPriority returns the display label for a priority.
func FormatPriority(p types.Priority) string {
	switch p {
	case types.PriorityMust:
		return "Must Have (必須)"
	case types.PriorityPreferred:
		return "Preferred (優遇)"
	case types.PriorityNiceToHave:
		return "Nice to Have (あれば尚可)"
	default:
		return string(p)
	}
}

// MatrixFromAnalysis maps a model-backed analysis onto the matrix shape.
// Priority follows requirement order. A requirement with a suggestion gets one
// evidence item built from it and a match score equal to its confidence;
// otherwise it carries the pending placeholder with a score of 0.
func MatrixFromAnalysis(reqs []types.Requirement, evidence []types.EvidenceSuggestion) *types.RequirementsMatrix {
	items := make([]types.RequirementItem, 0, len(reqs))
	for i, r := range reqs {
		e, ok := types.FindEvidence(evidence, r.ID)
		if !ok {
			items = append(items, pendingItem(r.Text, priorityAt(i)))
			continue
		}

		score := clamp01(e.Confidence)
		items = append(items, types.RequirementItem{
			Requirement: r.Text,
			Priority:    priorityAt(i),
			Evidence: []types.EvidenceItem{
				{
					Source:    strings.Join(e.SuggestedSources, ", "),
					Excerpt:   e.EvidenceSummary,
					Relevance: score,
				},
			},
			MatchScore: score,
		})
	}
	return &types.RequirementsMatrix{Requirements: items}
}
