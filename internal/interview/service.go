// Package interview runs resume analysis and interview question improvement
// against a model client.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/redline/internal/ingestion"
	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/normalize"
	"github.com/jonathan/redline/internal/prompts"
	"github.com/jonathan/redline/internal/types"
)

// DefaultLanguage is used when an analysis request names no language
const DefaultLanguage = types.LanguageKorean

// AnalyzeInput is one resume analysis request
type AnalyzeInput struct {
	JobDescription string
	Data           []byte // raw resume file
	MediaType      string
	Filename       string
	Language       string
}

// Service orchestrates extraction, prompt building and response normalization
type Service struct {
	normalizer *normalize.Normalizer
	logger     logrus.FieldLogger
}

// NewService creates a Service backed by client
func NewService(client llm.Client, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		normalizer: normalize.New(client, logger),
		logger:     logger,
	}
}

// AnalyzeResume finds the claims an interviewer would press on.
func (s *Service) AnalyzeResume(ctx context.Context, in AnalyzeInput) (*types.ResumeAnalysis, error) {
	jd, lang, err := analyzeParams(in.JobDescription, in.Language)
	if err != nil {
		return nil, err
	}

	if len(in.Data) == 0 {
		return nil, inputErrorf("file", "file is required.")
	}
	doc, err := ingestion.Extract(in.Data, in.MediaType, in.Filename)
	if err != nil {
		return nil, extractionError(err)
	}
	return s.analyze(ctx, jd, lang, doc)
}

// AnalyzeResumeFile is AnalyzeResume for a resume on local disk; the file kind comes from its suffix.
func (s *Service) AnalyzeResumeFile(ctx context.Context, jobDescription, path, language string) (*types.ResumeAnalysis, error) {
	jd, lang, err := analyzeParams(jobDescription, language)
	if err != nil {
		return nil, err
	}

	doc, err := ingestion.ExtractFile(path)
	if err != nil {
		var unsupported *ingestion.UnsupportedTypeError
		var extractErr *ingestion.ExtractError
		if errors.As(err, &unsupported) || errors.As(err, &extractErr) {
			return nil, extractionError(err)
		}
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}
	return s.analyze(ctx, jd, lang, doc)
}

func (s *Service) analyze(ctx context.Context, jd string, lang types.Language, doc *ingestion.Document) (*types.ResumeAnalysis, error) {
	if doc.Text == "" {
		return nil, inputErrorf("file", "No text could be extracted from the resume.")
	}

	pair, err := prompts.BuildAnalyzePrompts(jd, doc.Text, string(lang))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"kind":        doc.Kind,
		"pages":       doc.Pages,
		"resume_hash": doc.Hash,
		"resume_len":  len([]rune(doc.Text)),
		"jd_len":      len([]rune(jd)),
		"language":    lang,
	}).Debug("analyzing resume")

	return s.normalizer.Analysis(ctx, llm.Request{System: pair.System, User: pair.User})
}

// analyzeParams checks the job description and language of an analysis request
func analyzeParams(jobDescription, language string) (string, types.Language, error) {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		return "", "", inputErrorf("job_description", "job_description is required.")
	}
	lang, err := parseLanguage(language)
	if err != nil {
		return "", "", err
	}
	return jd, lang, nil
}

// extractionError turns an ingestion failure into the input error shown to callers
func extractionError(err error) error {
	var unsupported *ingestion.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return &InputError{Field: "file", Message: "Only PDF/TXT is supported.", Cause: err}
	}
	return &InputError{Field: "file", Message: "Extraction failed: " + err.Error(), Cause: err}
}

// ImproveQuestion rewrites a generic interview question into a verifiable one.
func (s *Service) ImproveQuestion(ctx context.Context, req types.ImproveQuestionRequest) (*types.QuestionImprovement, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, inputErrorf("question", "question is required.")
	}

	pair, err := prompts.BuildImprovePrompts(req.JobDescription, question)
	if err != nil {
		return nil, err
	}

	return s.normalizer.Improvement(ctx, llm.Request{System: pair.System, User: pair.User})
}

// parseLanguage defaults an empty tag and rejects unknown ones
func parseLanguage(tag string) (types.Language, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return DefaultLanguage, nil
	}
	lang := types.Language(tag)
	if !lang.Valid() {
		return "", inputErrorf("language", "language must be one of: ko, en.")
	}
	return lang, nil
}
