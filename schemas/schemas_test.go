package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/jonathan/redline/internal/schemas"
	rootschemas "github.com/jonathan/redline/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validateJSON decodes doc and checks it against the named embedded schema
func validateJSON(t *testing.T, name, doc string) error {
	t.Helper()
	var value any
	require.NoError(t, json.Unmarshal([]byte(doc), &value))
	return schemas.Validate(name, value)
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	files, err := fs.Glob(rootschemas.Files, "*.schema.json")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{rootschemas.ResumeAnalysis, rootschemas.QuestionImprovement}, files)

	for _, schemaFile := range files {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := rootschemas.Files.ReadFile(schemaFile)
			require.NoError(t, err)

			var schema map[string]any
			require.NoError(t, json.Unmarshal(data, &schema), "schema should be valid JSON")
			assert.Equal(t, "object", schema["type"])
			assert.Equal(t, schemaFile, schema["$id"])
		})
	}
}

func TestResumeAnalysisSchema_Examples(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{
			name:      "empty lists",
			doc:       `{"key_risks": [], "pressure_questions": []}`,
			wantError: false,
		},
		{
			name: "full document",
			doc: `{
				"key_risks": [{"type": "exaggeration", "quote": "q", "analysis": "a", "interviewer_intent": ""}],
				"pressure_questions": [{"question": "q", "goal": "g"}]
			}`,
			wantError: false,
		},
		{
			name:      "unknown risk type",
			doc:       `{"key_risks": [{"type": "overstated", "quote": "q", "analysis": "a", "interviewer_intent": ""}], "pressure_questions": []}`,
			wantError: true,
		},
		{
			name:      "missing list",
			doc:       `{"key_risks": []}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJSON(t, rootschemas.ResumeAnalysis, tt.doc)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestionImprovementSchema_Examples(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantError bool
	}{
		{
			name:      "not generic with empty follow-ups",
			doc:       `{"is_generic": false, "issues": [], "improved_question": "", "follow_ups": {"trade_off": "", "metrics": "", "personal_contribution": ""}}`,
			wantError: false,
		},
		{
			name:      "generic with follow-ups",
			doc:       `{"is_generic": true, "issues": ["broad"], "improved_question": "x", "follow_ups": {"trade_off": "a", "metrics": "b", "personal_contribution": "c"}}`,
			wantError: false,
		},
		{
			name:      "not generic but improved question set",
			doc:       `{"is_generic": false, "issues": [], "improved_question": "x", "follow_ups": {"trade_off": "", "metrics": "", "personal_contribution": ""}}`,
			wantError: true,
		},
		{
			name:      "not generic but follow-up set",
			doc:       `{"is_generic": false, "issues": [], "improved_question": "", "follow_ups": {"trade_off": "a", "metrics": "", "personal_contribution": ""}}`,
			wantError: true,
		},
		{
			name:      "issues must be strings",
			doc:       `{"is_generic": true, "issues": [1], "improved_question": "x", "follow_ups": {"trade_off": "a", "metrics": "b", "personal_contribution": "c"}}`,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJSON(t, rootschemas.QuestionImprovement, tt.doc)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
