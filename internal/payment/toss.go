package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

const confirmPath = "/v1/payments/confirm"

// maxErrorBody caps how much of a gateway error body is kept
const maxErrorBody = 64 << 10

// TossClient confirms payments with the Toss Payments API
type TossClient struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewTossClient creates a Toss client from cfg. An empty secret key is allowed
// here and reported as a GatewayError on the first confirmation.
func NewTossClient(cfg Config) *TossClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TossClient{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// tossError is the error body returned by the gateway
type tossError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Confirm posts the confirmation with basic auth and an idempotency key
func (c *TossClient) Confirm(ctx context.Context, conf Confirmation) error {
	if c.secretKey == "" {
		return &GatewayError{Detail: "TOSS_SECRET_KEY is not set."}
	}

	body, err := json.Marshal(conf)
	if err != nil {
		return &GatewayError{Detail: "failed to encode confirmation", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+confirmPath, bytes.NewReader(body))
	if err != nil {
		return &GatewayError{Detail: "failed to build request", Cause: err}
	}
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.secretKey+":")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", IdempotencyKey(conf))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Detail: "Toss confirm network error", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	gatewayErr := &GatewayError{
		StatusCode: resp.StatusCode,
		Detail:     strings.TrimSpace(string(raw)),
	}
	var parsed tossError
	if json.Unmarshal(raw, &parsed) == nil {
		gatewayErr.Code = parsed.Code
	}
	return gatewayErr
}
