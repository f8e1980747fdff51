package types

// Priority ranks a requirement in the requirements matrix.
type Priority string

// Matrix priorities.
const (
	PriorityMust       Priority = "must"
	PriorityPreferred  Priority = "preferred"
	PriorityNiceToHave Priority = "nice-to-have"
)

// EvidenceItem points at material that may substantiate a requirement.
type EvidenceItem struct {
	Source    string  `json:"source"`
	Excerpt   string  `json:"excerpt"`
	Relevance float64 `json:"relevance"`
}

// RequirementItem is one row of the requirements matrix.
type RequirementItem struct {
	Requirement string         `json:"requirement"`
	Priority    Priority       `json:"priority"`
	Evidence    []EvidenceItem `json:"evidence"`
	MatchScore  float64        `json:"matchScore"`
}

// RequirementsMatrix is the persisted requirements x evidence table.
type RequirementsMatrix struct {
	Requirements []RequirementItem `json:"requirements"`
}
