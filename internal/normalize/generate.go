package normalize

import (
	"context"
	"errors"

	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/types"
	"github.com/sirupsen/logrus"
)

// MaxAttempts bounds model calls per request: the first call plus one retry
const MaxAttempts = 2

// RetryInstruction is appended to the user prompt on the retry
const RetryInstruction = "\n\nJSON ONLY, no markdown, no extra text."

// Mapper maps a decoded JSON tree onto a typed result
type Mapper[T any] func(tree any) (T, error)

// Normalizer calls the model and normalizes its output
type Normalizer struct {
	client llm.Client
	logger logrus.FieldLogger
}

// New creates a Normalizer. A nil logger falls back to the standard logrus logger.
func New(client llm.Client, logger logrus.FieldLogger) *Normalizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Normalizer{client: client, logger: logger}
}

// Analysis requests and normalizes a resume analysis
func (n *Normalizer) Analysis(ctx context.Context, req llm.Request) (*types.ResumeAnalysis, error) {
	return Generate(ctx, n, req, llm.TierStandard, MapAnalysis)
}

// Improvement requests and normalizes a question review
func (n *Normalizer) Improvement(ctx context.Context, req llm.Request) (*types.QuestionImprovement, error) {
	return Generate(ctx, n, req, llm.TierLite, MapImprovement)
}

// Parse strips, decodes and maps a single completion
func Parse[T any](raw string, mapper Mapper[T]) (T, error) {
	var zero T
	tree, err := Decode(StripFences(raw))
	if err != nil {
		return zero, &DecodeError{Attempt: 1, Cause: err}
	}
	return mapper(tree)
}

// Generate runs the request against the model and maps the output.
// Output that does not decode as JSON is retried once with RetryInstruction appended;
// model call failures and schema failures are returned without retrying.
func Generate[T any](ctx context.Context, n *Normalizer, req llm.Request, tier llm.ModelTier, mapper Mapper[T]) (T, error) {
	var zero T
	formatErr := &ResponseFormatError{}
	logger := n.logger.WithFields(logrus.Fields{
		"tier":  tier,
		"model": n.client.GetModel(tier),
	})

	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		current := req
		if attempt > 1 {
			current.User = req.User + RetryInstruction
		}

		raw, err := n.client.GenerateJSON(ctx, current, tier)
		if err != nil {
			logger.WithField("attempt", attempt).WithError(err).Warn("model request failed")
			return zero, asRequestError(err)
		}

		tree, err := Decode(StripFences(raw))
		if err != nil {
			decodeErr := &DecodeError{Attempt: attempt, Cause: err}
			formatErr.Attempts = append(formatErr.Attempts, decodeErr)
			logger.WithFields(logrus.Fields{
				"attempt":    attempt,
				"output_len": len(raw),
			}).WithError(err).Warn("model output is not valid JSON")
			continue
		}

		result, err := mapper(tree)
		if err != nil {
			logger.WithField("attempt", attempt).WithError(err).Warn("model output does not match schema")
			return zero, err
		}

		logger.WithField("attempt", attempt).Debug("model output normalized")
		return result, nil
	}

	return zero, formatErr
}

func asRequestError(err error) error {
	var reqErr *llm.RequestError
	if errors.As(err, &reqErr) {
		return err
	}
	return &llm.RequestError{Message: "model call failed", Cause: err}
}
