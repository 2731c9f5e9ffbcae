package payment

import "fmt"

// InvalidAmountError is returned when the amount does not match the price policy
type InvalidAmountError struct {
	Amount   int64
	Expected int64
}

func (e *InvalidAmountError) Error() string {
	if e.Amount <= 0 {
		return "amount must be positive."
	}
	return fmt.Sprintf("amount must be exactly %d.", e.Expected)
}

// GatewayError is returned when the gateway rejects or cannot be reached for a confirmation.
// Detail is the gateway's response body when it sent one.
type GatewayError struct {
	StatusCode int
	Code       string
	Detail     string
	Cause      error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Detail, e.Cause)
	case e.Detail != "":
		return e.Detail
	default:
		return fmt.Sprintf("Toss confirm failed: %d", e.StatusCode)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}
