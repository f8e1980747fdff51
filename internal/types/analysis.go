// Package types provides type definitions for structured data used throughout the interview-prep system.
package types

// Category classifies an extracted requirement.
type Category string

// Requirement categories recognised by the extraction stage.
const (
	CategoryTechnicalSkills Category = "technical_skills"
	CategorySoftSkills      Category = "soft_skills"
	CategoryExperience      Category = "experience"
	CategoryEducation       Category = "education"
	CategoryCertifications  Category = "certifications"
	CategoryLanguage        Category = "language"
	CategoryOther           Category = "other"
)

var categoryLabels = map[Category]string{
	CategoryTechnicalSkills: "Technical Skills",
	CategorySoftSkills:      "Soft Skills",
	CategoryExperience:      "Experience",
	CategoryEducation:       "Education",
	CategoryCertifications:  "Certifications",
	CategoryLanguage:        "Language",
	CategoryOther:           "Other",
}

// Categories returns every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryTechnicalSkills,
		CategorySoftSkills,
		CategoryExperience,
		CategoryEducation,
		CategoryCertifications,
		CategoryLanguage,
		CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable name, or the raw value for unknown categories.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// Requirement is a single expectation extracted from a job description.
type Requirement struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Text     string   `json:"text"`
	Signals  []string `json:"signals"`
}

// Stub returns the subset of the requirement forwarded to the evidence stage.
func (r Requirement) Stub() RequirementStub {
	return RequirementStub{
		ID:       r.ID,
		Category: string(r.Category),
		Text:     r.Text,
	}
}

// RequirementStub is the evidence stage input for one requirement.
type RequirementStub struct {
	ID       string `json:"id" validate:"required"`
	Category string `json:"category" validate:"required"`
	Text     string `json:"text" validate:"required"`
}

// Stubs converts requirements into evidence stage input, preserving order.
func Stubs(reqs []Requirement) []RequirementStub {
	out := make([]RequirementStub, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Stub())
	}
	return out
}

// EvidenceSuggestion describes what evidence would substantiate a requirement.
// It is joined to its Requirement by RequirementID at presentation time.
type EvidenceSuggestion struct {
	RequirementID    string   `json:"requirementId"`
	EvidenceSummary  string   `json:"evidenceSummary"`
	Confidence       float64  `json:"confidence"`
	SuggestedSources []string `json:"suggestedSources"`
}

// ExtractRequirementsRequest is the extraction endpoint input.
type ExtractRequirementsRequest struct {
	JDText string `json:"jdText" validate:"required"`
}

// ExtractRequirementsResponse is the extraction endpoint output and the
// shape the model is asked to produce.
type ExtractRequirementsResponse struct {
	Requirements []Requirement `json:"requirements"`
}

// EvidenceRequest is the evidence endpoint input.
type EvidenceRequest struct {
	Requirements []RequirementStub `json:"requirements" validate:"required,min=1,dive"`
}

// EvidenceResponse is the evidence endpoint output and the shape the model
// is asked to produce.
type EvidenceResponse struct {
	Matrix []EvidenceSuggestion `json:"matrix"`
}

// FindEvidence returns the suggestion for a requirement id, if any.
func FindEvidence(evidence []EvidenceSuggestion, requirementID string) (EvidenceSuggestion, bool) {
	for _, e := range evidence {
		if e.RequirementID == requirementID {
			return e, true
		}
	}
	return EvidenceSuggestion{}, false
}
