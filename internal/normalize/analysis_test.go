package normalize

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/redline/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis_OverstatedScenario(t *testing.T) {
	raw := `{"key_risks":[{"type":"overstated","quote":"X","analysis":"Y"}], "pressure_questions":[]}`

	analysis, err := Parse(raw, MapAnalysis)
	require.NoError(t, err)

	require.Len(t, analysis.Risks, 1)
	assert.Equal(t, types.RiskFinding{
		Kind:              types.RiskExaggeration,
		Quote:             "X",
		Analysis:          "Y",
		InterviewerIntent: "",
	}, analysis.Risks[0])
	assert.Empty(t, analysis.Questions)
	assert.NotNil(t, analysis.Questions)
}

func TestMapAnalysis(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		wantRisks     []types.RiskFinding
		wantQuestions []types.PressureQuestion
	}{
		{
			name:          "empty object",
			raw:           `{}`,
			wantRisks:     []types.RiskFinding{},
			wantQuestions: []types.PressureQuestion{},
		},
		{
			name:          "wrong-typed lists default to empty",
			raw:           `{"key_risks": "none", "pressure_questions": {"question": "q"}}`,
			wantRisks:     []types.RiskFinding{},
			wantQuestions: []types.PressureQuestion{},
		},
		{
			name: "alternate keys",
			raw:  `{"risks": [{"kind": "vague", "quote": "q", "analysis": "a", "intent": "i"}], "questions": [{"question": "Why?", "goal": "g"}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskVagueClaim, Quote: "q", Analysis: "a", InterviewerIntent: "i"},
			},
			wantQuestions: []types.PressureQuestion{{Question: "Why?", Goal: "g"}},
		},
		{
			name: "interviewer_intent wins over intent",
			raw:  `{"key_risks": [{"type": "inconsistency", "interviewer_intent": "primary", "intent": "secondary"}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskInconsistency, InterviewerIntent: "primary"},
			},
			wantQuestions: []types.PressureQuestion{},
		},
		{
			name: "null interviewer_intent falls back to intent",
			raw:  `{"key_risks": [{"type": "inconsistency", "interviewer_intent": null, "intent": "secondary"}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskInconsistency, InterviewerIntent: "secondary"},
			},
			wantQuestions: []types.PressureQuestion{},
		},
		{
			name: "non-object items are dropped",
			raw:  `{"key_risks": ["plain string", 3, null, {"type": "role_mismatch", "quote": "q"}], "pressure_questions": ["Why?", {"question": "How?"}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskRoleMismatch, Quote: "q"},
			},
			wantQuestions: []types.PressureQuestion{{Question: "How?"}},
		},
		{
			name: "scalars are converted to strings",
			raw:  `{"key_risks": [{"type": "exaggeration", "quote": 300, "analysis": true, "interviewer_intent": {"probe": "scope"}}], "pressure_questions": [{"question": 1.5, "goal": null}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskExaggeration, Quote: "300", Analysis: "true", InterviewerIntent: `{"probe":"scope"}`},
			},
			wantQuestions: []types.PressureQuestion{{Question: "1.5", Goal: ""}},
		},
		{
			name: "missing type defaults to vague_claim",
			raw:  `{"key_risks": [{"quote": "q"}]}`,
			wantRisks: []types.RiskFinding{
				{Kind: types.RiskVagueClaim, Quote: "q"},
			},
			wantQuestions: []types.PressureQuestion{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis, err := Parse(tt.raw, MapAnalysis)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRisks, analysis.Risks)
			assert.Equal(t, tt.wantQuestions, analysis.Questions)
		})
	}
}

func TestMapAnalysis_TopLevelNotObject(t *testing.T) {
	for _, raw := range []string{`[]`, `"text"`, `42`, `null`} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parse(raw, MapAnalysis)
			var schemaErr *SchemaValidationError
			require.True(t, errors.As(err, &schemaErr), "got %v", err)
		})
	}
}

func TestParse_DecodeFailure(t *testing.T) {
	_, err := Parse("not json", MapAnalysis)
	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestMapAnalysis_Idempotent(t *testing.T) {
	raw := `{"key_risks":[{"type":"weak_causality","quote":"Grew revenue 30%","analysis":"team effort","interviewer_intent":"isolate contribution"}],"pressure_questions":[{"question":"What did you change?","goal":"ownership"}]}`

	first, err := Parse(raw, MapAnalysis)
	require.NoError(t, err)
	second, err := Parse(raw, MapAnalysis)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)

	assert.Equal(t, firstJSON, secondJSON)
	assert.JSONEq(t, raw, string(firstJSON))
}
