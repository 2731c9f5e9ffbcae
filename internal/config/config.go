// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/payment"
)

// Defaults for values that are not model or payment specific
const (
	DefaultPort           = 8000
	DefaultLanguage       = "ko"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultMaxUploadBytes = 10 << 20
)

// Duration is a time.Duration that reads "30s" style strings or bare seconds from JSON.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		parsed, err := parseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Config represents the service configuration.
// Values come from defaults, then an optional JSON file, then the environment.
type Config struct {
	// HTTP
	Port           int   `json:"port,omitempty"`
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty"`

	// Model
	LLMProvider     string   `json:"llm_provider,omitempty"`
	LLMModel        string   `json:"llm_model,omitempty"`
	LLMBaseURL      string   `json:"llm_base_url,omitempty"`
	LLMTimeout      Duration `json:"llm_timeout,omitempty"`
	OpenAIAPIKey    string   `json:"openai_api_key,omitempty"`
	GeminiAPIKey    string   `json:"gemini_api_key,omitempty"`
	AnthropicAPIKey string   `json:"anthropic_api_key,omitempty"`

	// Payment
	TossSecretKey  string   `json:"toss_secret_key,omitempty"`
	TossBaseURL    string   `json:"toss_api_base_url,omitempty"`
	PaymentAmount  int64    `json:"payment_amount,omitempty"`
	PaymentTimeout Duration `json:"payment_timeout,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty disables lead storage

	// Logging
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"` // "text" or "json"
}

// Default returns the built-in configuration
func Default() Config {
	pay := payment.DefaultConfig()
	return Config{
		Port:           DefaultPort,
		MaxUploadBytes: DefaultMaxUploadBytes,
		LLMProvider:    string(llm.ProviderOpenAI),
		LLMTimeout:     Duration(llm.DefaultTimeout),
		TossBaseURL:    pay.BaseURL,
		PaymentAmount:  pay.ExpectedAmount,
		PaymentTimeout: Duration(pay.Timeout),
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: defaults, then the JSON file at path
// (skipped when path is empty), then environment values from lookup.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields with non-empty environment values
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strVars := []struct {
		key string
		dst *string
	}{
		{"LLM_PROVIDER", &c.LLMProvider},
		{"OPENAI_MODEL", &c.LLMModel},
		{"LLM_MODEL", &c.LLMModel},
		{"LLM_BASE_URL", &c.LLMBaseURL},
		{"OPENAI_API_KEY", &c.OpenAIAPIKey},
		{"GEMINI_API_KEY", &c.GeminiAPIKey},
		{"ANTHROPIC_API_KEY", &c.AnthropicAPIKey},
		{"TOSS_SECRET_KEY", &c.TossSecretKey},
		{"TOSS_API_BASE_URL", &c.TossBaseURL},
		{"DATABASE_URL", &c.DatabaseURL},
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_FORMAT", &c.LogFormat},
	}
	for _, s := range strVars {
		if v, ok := get(s.key); ok {
			*s.dst = v
		}
	}

	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: PORT %q is not a number", v)
		}
		c.Port = port
	}
	if v, ok := get("REDLINE_PAYMENT_AMOUNT"); ok {
		amount, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: REDLINE_PAYMENT_AMOUNT %q is not a number", v)
		}
		c.PaymentAmount = amount
	}
	if v, ok := get("MAX_UPLOAD_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config error: MAX_UPLOAD_BYTES %q is not a number", v)
		}
		c.MaxUploadBytes = n
	}

	durations := []struct {
		key string
		dst *Duration
	}{
		{"LLM_TIMEOUT", &c.LLMTimeout},
		{"PAYMENT_TIMEOUT", &c.PaymentTimeout},
	}
	for _, d := range durations {
		if v, ok := get(d.key); ok {
			parsed, err := parseDuration(v)
			if err != nil {
				return fmt.Errorf("config error: %s: %w", d.key, err)
			}
			*d.dst = Duration(parsed)
		}
	}

	return nil
}

// parseDuration accepts Go duration strings and bare seconds
func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return d, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.PaymentAmount <= 0 {
		return fmt.Errorf("config error: 'payment_amount' must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config error: 'max_upload_bytes' must be positive")
	}
	if c.LLMTimeout < 0 || c.PaymentTimeout < 0 {
		return fmt.Errorf("config error: timeouts must be non-negative")
	}
	if _, err := llm.ConfigForProvider(llm.Provider(c.LLMProvider)); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: 'log_format' must be text or json")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer a config file over the built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	strs := []struct{ dst, def *string }{
		{&result.LLMProvider, &defaults.LLMProvider},
		{&result.LLMModel, &defaults.LLMModel},
		{&result.LLMBaseURL, &defaults.LLMBaseURL},
		{&result.OpenAIAPIKey, &defaults.OpenAIAPIKey},
		{&result.GeminiAPIKey, &defaults.GeminiAPIKey},
		{&result.AnthropicAPIKey, &defaults.AnthropicAPIKey},
		{&result.TossSecretKey, &defaults.TossSecretKey},
		{&result.TossBaseURL, &defaults.TossBaseURL},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	}
	for _, s := range strs {
		if *s.dst == "" {
			*s.dst = *s.def
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.PaymentAmount == 0 {
		result.PaymentAmount = defaults.PaymentAmount
	}
	if result.LLMTimeout == 0 {
		result.LLMTimeout = defaults.LLMTimeout
	}
	if result.PaymentTimeout == 0 {
		result.PaymentTimeout = defaults.PaymentTimeout
	}

	return result
}

// LLMConfig returns the model configuration for the selected provider
func (c *Config) LLMConfig() (*llm.Config, error) {
	cfg, err := llm.ConfigForProvider(llm.Provider(c.LLMProvider))
	if err != nil {
		return nil, err
	}
	if c.LLMModel != "" {
		cfg = cfg.WithAllModels(c.LLMModel)
	}
	cfg.BaseURL = c.LLMBaseURL
	if c.LLMTimeout > 0 {
		cfg.Timeout = time.Duration(c.LLMTimeout)
	}
	return cfg, nil
}

// APIKey returns the credential of the selected provider
func (c *Config) APIKey() string {
	switch llm.Provider(c.LLMProvider) {
	case llm.ProviderGemini:
		return c.GeminiAPIKey
	case llm.ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

// PaymentConfig returns the Toss gateway configuration
func (c *Config) PaymentConfig() payment.Config {
	return payment.Config{
		SecretKey:      c.TossSecretKey,
		BaseURL:        c.TossBaseURL,
		ExpectedAmount: c.PaymentAmount,
		Timeout:        time.Duration(c.PaymentTimeout),
	}
}
