package normalize

import (
	"github.com/jonathan/redline/internal/schemas"
	"github.com/jonathan/redline/internal/types"
	rootschemas "github.com/jonathan/redline/schemas"
)

// MapAnalysis maps a decoded tree onto a ResumeAnalysis.
// Items that are not objects are dropped; missing fields become "".
func MapAnalysis(tree any) (*types.ResumeAnalysis, error) {
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, &SchemaValidationError{Message: "top-level value is not a JSON object"}
	}

	risks := make([]types.RiskFinding, 0)
	for _, item := range objects(field(obj, "key_risks", "risks")) {
		risks = append(risks, types.RiskFinding{
			Kind:              RiskKind(asString(field(item, "type", "kind"))),
			Quote:             asString(field(item, "quote")),
			Analysis:          asString(field(item, "analysis")),
			InterviewerIntent: asString(field(item, "interviewer_intent", "intent")),
		})
	}

	questions := make([]types.PressureQuestion, 0)
	for _, item := range objects(field(obj, "pressure_questions", "questions")) {
		questions = append(questions, types.PressureQuestion{
			Question: asString(field(item, "question")),
			Goal:     asString(field(item, "goal")),
		})
	}

	analysis := &types.ResumeAnalysis{
		Risks:     risks,
		Questions: questions,
	}

	if err := schemas.Validate(rootschemas.ResumeAnalysis, analysis); err != nil {
		return nil, &SchemaValidationError{Message: "resume analysis does not match schema", Cause: err}
	}
	return analysis, nil
}
