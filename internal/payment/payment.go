// Package payment confirms payments with the Toss Payments gateway under a fixed-price policy.
package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults
const (
	DefaultBaseURL        = "https://api.tosspayments.com"
	DefaultExpectedAmount = 2000
	DefaultTimeout        = 20 * time.Second
)

// Config holds gateway credentials and the price policy
type Config struct {
	SecretKey      string
	BaseURL        string
	ExpectedAmount int64
	Timeout        time.Duration
}

// DefaultConfig returns a Config with the default gateway URL, price and timeout
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ExpectedAmount: DefaultExpectedAmount,
		Timeout:        DefaultTimeout,
	}
}

// Confirmation identifies a payment the client has already authorized
type Confirmation struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// IdempotencyKey derives the gateway idempotency key for a confirmation
func IdempotencyKey(c Confirmation) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d", c.PaymentKey, c.OrderID, c.Amount)))
	return hex.EncodeToString(sum[:])
}

// Gateway confirms a payment with the payment provider
type Gateway interface {
	Confirm(ctx context.Context, c Confirmation) error
}

// Service applies the price policy before calling the gateway
type Service struct {
	gateway  Gateway
	expected int64
	logger   logrus.FieldLogger
}

// NewService creates a payment Service
func NewService(gateway Gateway, expectedAmount int64, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{gateway: gateway, expected: expectedAmount, logger: logger}
}

// ExpectedAmount returns the configured price
func (s *Service) ExpectedAmount() int64 {
	return s.expected
}

// Confirm validates the amount and confirms the payment.
// An invalid amount never reaches the gateway. Failures are not retried.
func (s *Service) Confirm(ctx context.Context, c Confirmation) error {
	if c.Amount <= 0 || c.Amount != s.expected {
		return &InvalidAmountError{Amount: c.Amount, Expected: s.expected}
	}

	logger := s.logger.WithFields(logrus.Fields{
		"order_id": c.OrderID,
		"amount":   c.Amount,
	})

	if err := s.gateway.Confirm(ctx, c); err != nil {
		logger.WithError(err).Warn("payment confirmation failed")
		return err
	}

	logger.Info("payment confirmed")
	return nil
}
