package analysis

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/interview-prep/internal/types"
)

// Status is the position of one analysis run in its state machine.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusExtracting Status = "extracting"
	StatusMatching   Status = "matching"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions can happen in this run.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusError
}

const (
	msgDescriptionTooShort = "Job description is too short for analysis"
	msgEvidenceStageFailed = "Failed to get evidence suggestions"
)

// State is the result of one analysis run. Requirements and evidence are
// joined by requirement id by the caller.
type State struct {
	Status       Status                     `json:"status"`
	Requirements []types.Requirement        `json:"requirements"`
	Evidence     []types.EvidenceSuggestion `json:"evidence"`
	Error        string                     `json:"error,omitempty"`
	ErrorKind    Kind                       `json:"errorKind,omitempty"`
}

func newState() *State {
	return &State{
		Status:       StatusIdle,
		Requirements: []types.Requirement{},
		Evidence:     []types.EvidenceSuggestion{},
	}
}

// EvidenceFor returns the suggestion joined to requirementID, if any.
func (s *State) EvidenceFor(requirementID string) (types.EvidenceSuggestion, bool) {
	return types.FindEvidence(s.Evidence, requirementID)
}

// Stages are the two dependent analysis calls. Service implements them
// in-process and the HTTP client implements them over the API.
type Stages interface {
	ExtractRequirements(ctx context.Context, jdText string) ([]types.Requirement, error)
	SuggestEvidence(ctx context.Context, reqs []types.RequirementStub) ([]types.EvidenceSuggestion, error)
}

// TransitionFunc observes a status change. The state must not be modified.
type TransitionFunc func(from, to Status, state *State)

// Orchestrator sequences extraction and evidence matching.
type Orchestrator struct {
	stages       Stages
	OnTransition TransitionFunc
}

// NewOrchestrator creates an Orchestrator over stages.
func NewOrchestrator(stages Stages) *Orchestrator {
	return &Orchestrator{stages: stages}
}

// Run analyses jdText. Every call starts from a fresh idle state and always
// returns a state in done or error.
func (o *Orchestrator) Run(ctx context.Context, jdText string) *State {
	state := newState()

	if utf8.RuneCountInString(strings.TrimSpace(jdText)) < MinDescriptionLength {
		o.fail(state, &ValidationError{Field: "jdText", Message: msgDescriptionTooShort}, msgDescriptionTooShort)
		return state
	}

	o.transition(state, StatusExtracting)
	requirements, err := o.stages.ExtractRequirements(ctx, jdText)
	if err != nil {
		log.Printf("[analysis] extraction failed: %v", err)
		o.fail(state, err, MsgExtractFailed)
		return state
	}
	state.Requirements = requirements

	o.transition(state, StatusMatching)
	evidence, err := o.stages.SuggestEvidence(ctx, types.Stubs(requirements))
	if err != nil {
		log.Printf("[analysis] evidence matching failed: %v", err)
		o.fail(state, err, msgEvidenceStageFailed)
		return state
	}
	if evidence != nil {
		state.Evidence = evidence
	}

	o.transition(state, StatusDone)
	return state
}

func (o *Orchestrator) fail(state *State, err error, fallback string) {
	failure := Classify(err, fallback)
	state.Error = failure.Message
	state.ErrorKind = failure.Kind
	o.transition(state, StatusError)
}

func (o *Orchestrator) transition(state *State, to Status) {
	from := state.Status
	state.Status = to
	if o.OnTransition != nil {
		o.OnTransition(from, to, state)
	}
}
