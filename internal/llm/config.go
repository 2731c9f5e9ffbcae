// Package llm provides model configuration and chat-completion clients for the supported providers.
// Every client asks the provider for a single JSON object and returns the raw completion text.
package llm

import (
	"fmt"
	"time"
)

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short single-question reviews
	TierLite ModelTier = "lite"
	// TierStandard is for full resume analysis
	TierStandard ModelTier = "standard"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions API (and compatible endpoints)
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic Messages API
	ProviderAnthropic Provider = "anthropic"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 60 * time.Second

// DefaultTemperature keeps output close to deterministic
const DefaultTemperature = 0.2

// DefaultMaxTokens caps completion length for providers that require it
const DefaultMaxTokens = 4096

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultConfig returns the default configuration (OpenAI)
func DefaultConfig() *Config {
	return DefaultOpenAIConfig()
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// DefaultAnthropicConfig returns the default Anthropic configuration
func DefaultAnthropicConfig() *Config {
	return &Config{
		Provider: ProviderAnthropic,
		Models: map[ModelTier]string{
			TierLite:     "claude-3-5-haiku-latest",
			TierStandard: "claude-sonnet-4-0",
		},
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
		Timeout:     DefaultTimeout,
	}
}

// ConfigForProvider returns the default configuration of a provider
func ConfigForProvider(p Provider) (*Config, error) {
	switch p {
	case ProviderOpenAI, "":
		return DefaultOpenAIConfig(), nil
	case ProviderGemini:
		return DefaultGeminiConfig(), nil
	case ProviderAnthropic:
		return DefaultAnthropicConfig(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", p)
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithAllModels returns a new Config that uses one model for every tier
func (c *Config) WithAllModels(model string) *Config {
	return c.WithModel(TierLite, model).WithModel(TierStandard, model)
}
