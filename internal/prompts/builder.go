package prompts

import (
	"strings"
)

// Truncation limits, in characters (runes)
const (
	MaxJobDescriptionChars = 6000
	MaxResumeChars         = 12000
	MaxRoleChars           = 5000
	MaxQuestionChars       = 3000
)

const (
	analyzeFile = "analyze.json"
	improveFile = "improve.json"

	keySystem = "system"
	keyUser   = "user"
)

// Pair is a rendered system and user prompt
type Pair struct {
	System string
	User   string
}

// Truncate returns the first limit characters of s
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// OutputLanguage maps a language tag to the language name used in prompts
func OutputLanguage(tag string) string {
	if tag == "ko" {
		return "Korean"
	}
	return "English"
}

// BuildAnalyzePrompts renders the resume-analysis prompts
func BuildAnalyzePrompts(jobDescription, resumeText, language string) (Pair, error) {
	return render(analyzeFile, map[string]string{
		"JobDescription": Truncate(jobDescription, MaxJobDescriptionChars),
		"ResumeText":     Truncate(resumeText, MaxResumeChars),
		"OutputLanguage": OutputLanguage(language),
	})
}

// BuildImprovePrompts renders the question-review prompts.
// A blank role is rendered as "N/A".
func BuildImprovePrompts(role, question string) (Pair, error) {
	if strings.TrimSpace(role) == "" {
		role = "N/A"
	}
	return render(improveFile, map[string]string{
		"Role":     Truncate(role, MaxRoleChars),
		"Question": Truncate(question, MaxQuestionChars),
	})
}

func render(filename string, data map[string]string) (Pair, error) {
	system, err := Get(filename, keySystem)
	if err != nil {
		return Pair{}, err
	}
	user, err := Get(filename, keyUser)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		System: Format(system, data),
		User:   Format(user, data),
	}, nil
}
