package types

// STAR is a situation/task/action/result answer outline.
type STAR struct {
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
}

// InterviewQA is a likely interview question with a STAR answer outline.
type InterviewQA struct {
	Question string   `json:"question"`
	Category string   `json:"category,omitempty"`
	Star     STAR     `json:"star"`
	Tips     []string `json:"tips"`
}

// RequirementBrief identifies the requirement an interview question targets.
type RequirementBrief struct {
	Text     string `json:"text" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// InterviewQARequest is the interview Q&A endpoint input.
type InterviewQARequest struct {
	Requirement  RequirementBrief `json:"requirement"`
	EvidenceText string           `json:"evidenceText" validate:"required"`
}

// ReverseQuestionCategory groups questions a candidate asks the interviewer.
type ReverseQuestionCategory string

// Reverse question categories.
const (
	ReverseTeam           ReverseQuestionCategory = "team"
	ReverseGrowth         ReverseQuestionCategory = "growth"
	ReverseChallenges     ReverseQuestionCategory = "challenges"
	ReverseCulture        ReverseQuestionCategory = "culture"
	ReverseSuccessMetrics ReverseQuestionCategory = "success_metrics"
)

// ReverseQuestion is a question for the candidate to ask the interviewer.
type ReverseQuestion struct {
	Question string                  `json:"question"`
	Purpose  string                  `json:"purpose"`
	Category ReverseQuestionCategory `json:"category"`
}

// ReverseQuestionsRequest is the reverse questions endpoint input.
type ReverseQuestionsRequest struct {
	JDText      string `json:"jdText" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`
}

// ReverseQuestionsResponse is the reverse questions endpoint output.
type ReverseQuestionsResponse struct {
	Questions []ReverseQuestion `json:"questions"`
}
