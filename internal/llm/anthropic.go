package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicClient implements Client for the Anthropic Messages API
type AnthropicClient struct {
	client anthropic.Client
	config *Config
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(config *Config, apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, requestError(ProviderAnthropic, "API key is required", nil)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	return &AnthropicClient{
		client: anthropic.NewClient(opts...),
		config: config,
	}, nil
}

// GenerateJSON sends the prompts as a single user turn with a system block.
// The Messages API has no JSON mode, so the prompt templates carry the JSON-only instruction.
func (c *AnthropicClient) GenerateJSON(ctx context.Context, req Request, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", requestError(ProviderAnthropic, "no model configured for tier "+string(tier), nil)
	}

	ctx, cancel := withTimeout(ctx, c.config.Timeout)
	defer cancel()

	maxTokens := c.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(modelName),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(c.config.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: req.User},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	response, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", requestError(ProviderAnthropic, "messages call failed", err)
	}

	if len(response.Content) == 0 {
		return "", requestError(ProviderAnthropic, "no content blocks in response", nil)
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// GetModel returns the model name for a tier
func (c *AnthropicClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *AnthropicClient) Close() error {
	return nil
}
