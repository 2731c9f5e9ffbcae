// Package types provides type definitions for structured data used throughout the redline backend.
//
//nolint:revive // types is a standard Go package name pattern
package types

// RiskKind classifies a weakness an interviewer could attack in a resume
type RiskKind string

// Risk kinds. After normalization every RiskFinding carries one of these.
const (
	RiskWeakCausality RiskKind = "weak_causality"
	RiskVagueClaim    RiskKind = "vague_claim"
	RiskExaggeration  RiskKind = "exaggeration"
	RiskInconsistency RiskKind = "inconsistency"
	RiskRoleMismatch  RiskKind = "role_mismatch"
)

// AllRiskKinds lists the closed set of risk kinds in their canonical order
var AllRiskKinds = []RiskKind{
	RiskWeakCausality,
	RiskVagueClaim,
	RiskExaggeration,
	RiskInconsistency,
	RiskRoleMismatch,
}

// Valid reports whether k is one of the known risk kinds
func (k RiskKind) Valid() bool {
	for _, known := range AllRiskKinds {
		if k == known {
			return true
		}
	}
	return false
}

// RiskFinding is a single risky passage found in a resume
type RiskFinding struct {
	Kind              RiskKind `json:"type"`
	Quote             string   `json:"quote"`
	Analysis          string   `json:"analysis"`
	InterviewerIntent string   `json:"interviewer_intent"`
}

// PressureQuestion is a follow-up question an interviewer would ask under pressure
type PressureQuestion struct {
	Question string `json:"question"`
	Goal     string `json:"goal"`
}

// ResumeAnalysis is the normalized result of analyzing a resume against a job description.
// It is request-scoped and never persisted.
type ResumeAnalysis struct {
	Risks     []RiskFinding      `json:"key_risks"`
	Questions []PressureQuestion `json:"pressure_questions"`
}

// FollowUpSet holds exactly three follow-up questions
type FollowUpSet struct {
	TradeOff             string `json:"trade_off"`
	Metrics              string `json:"metrics"`
	PersonalContribution string `json:"personal_contribution"`
}

// FollowUpSlots is the number of follow-up questions in a FollowUpSet
const FollowUpSlots = 3

// NewFollowUpSet builds a FollowUpSet from up to three positional values,
// padding missing slots with "" and ignoring extras.
func NewFollowUpSet(values ...string) FollowUpSet {
	padded := make([]string, FollowUpSlots)
	copy(padded, values)
	return FollowUpSet{
		TradeOff:             padded[0],
		Metrics:              padded[1],
		PersonalContribution: padded[2],
	}
}

// Slice returns the follow-ups in slot order
func (f FollowUpSet) Slice() []string {
	return []string{f.TradeOff, f.Metrics, f.PersonalContribution}
}

// IsEmpty reports whether every slot is empty
func (f FollowUpSet) IsEmpty() bool {
	return f.TradeOff == "" && f.Metrics == "" && f.PersonalContribution == ""
}

// QuestionImprovement is the normalized result of reviewing an interview question.
// When IsGeneric is false, ImprovedQuestion and every follow-up are empty.
type QuestionImprovement struct {
	IsGeneric        bool        `json:"is_generic"`
	Issues           []string    `json:"issues"`
	ImprovedQuestion string      `json:"improved_question"`
	FollowUps        FollowUpSet `json:"follow_ups"`
}
