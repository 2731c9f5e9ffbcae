// Package normalize turns raw model completions into validated analysis and question-review results.
//
// Output goes through fence stripping, a generic JSON decode, at most one retry with a
// stricter instruction, and a pure mapping from the decoded tree into the typed result.
package normalize

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

const fence = "```"

// StripFences removes a surrounding fenced code block from model output.
// If the trimmed text starts with a fence, its first line (``` or ```json or any
// other language tag) and a trailing ``` are dropped. Other text is only trimmed.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}

	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		// Single line: ```json{...}```
		text = strings.TrimPrefix(text, fence)
		text = strings.TrimPrefix(text, "json")
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// Decode reads text as exactly one JSON value into a generic tree.
// Numbers are kept as json.Number so their literal form survives coercion.
func Decode(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty output")
		}
		return nil, err
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}
	return tree, nil
}
