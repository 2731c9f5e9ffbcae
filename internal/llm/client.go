package llm

import (
	"context"
	"time"
)

// Request is a single chat-completion request made of a system and a user prompt
type Request struct {
	System string
	User   string
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON asks the model for a single JSON object and returns the raw completion text
	GenerateJSON(ctx context.Context, req Request, tier ModelTier) (string, error)
	// GetModel returns the provider model used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		client Client
		err    error
	)
	switch config.Provider {
	case ProviderGemini:
		client, err = NewGeminiClient(ctx, config, apiKey)
	case ProviderAnthropic:
		client, err = NewAnthropicClient(config, apiKey)
	default:
		client, err = NewOpenAIClient(config, apiKey)
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

// withTimeout applies the configured per-call timeout to ctx
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
