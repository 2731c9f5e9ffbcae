package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "no fences",
			input: `{"a": 1}`,
			want:  `{"a": 1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "\n  {\"a\": 1}  \n",
			want:  `{"a": 1}`,
		},
		{
			name:  "json tag",
			input: "```json\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "no tag",
			input: "```\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "other tag",
			input: "```JSON5\n{\"a\": 1}\n```",
			want:  `{"a": 1}`,
		},
		{
			name:  "missing closing fence",
			input: "```json\n{\"a\": 1}",
			want:  `{"a": 1}`,
		},
		{
			name:  "single line",
			input: "```json{\"a\": 1}```",
			want:  `{"a": 1}`,
		},
		{
			name:  "multi-line body",
			input: "```json\n{\n  \"a\": [1, 2]\n}\n```\n",
			want:  "{\n  \"a\": [1, 2]\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestStripFences_SameParseResult(t *testing.T) {
	bodies := []string{
		`{"is_generic": true, "issues": ["broad"], "followups": ["a", "b"]}`,
		`{"key_risks": [{"type": "vague_claim", "quote": "q"}], "pressure_questions": []}`,
		`[1, 2, 3]`,
	}
	wrappers := []func(string) string{
		func(s string) string { return "```json\n" + s + "\n```" },
		func(s string) string { return "```\n" + s + "\n```" },
		func(s string) string { return "  ```json\n" + s + "\n```  \n" },
	}

	for _, body := range bodies {
		want, err := Decode(StripFences(body))
		require.NoError(t, err)

		for _, wrap := range wrappers {
			got, err := Decode(StripFences(wrap(body)))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "object", input: `{"a": 1}`},
		{name: "array", input: `[1]`},
		{name: "scalar", input: `"x"`},
		{name: "empty", input: ``, wantErr: true},
		{name: "prose", input: `Here is your JSON: {"a": 1}`, wantErr: true},
		{name: "trailing text", input: `{"a": 1} hope this helps`, wantErr: true},
		{name: "two values", input: `{"a": 1}{"b": 2}`, wantErr: true},
		{name: "truncated", input: `{"a": [1, 2`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode_KeepsNumberLiterals(t *testing.T) {
	tree, err := Decode(`{"n": 12.50}`)
	require.NoError(t, err)

	n := tree.(map[string]any)["n"]
	assert.Equal(t, json.Number("12.50"), n)
}
