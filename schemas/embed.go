// Package schemas holds the JSON Schemas that normalized model output must satisfy.
package schemas

import "embed"

// Files contains every *.schema.json file in this directory
//
//go:embed *.schema.json
var Files embed.FS

// Schema file names
const (
	ResumeAnalysis      = "resume_analysis.schema.json"
	QuestionImprovement = "question_improvement.schema.json"
)
