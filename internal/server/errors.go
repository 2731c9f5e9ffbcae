package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/redline/internal/interview"
	"github.com/jonathan/redline/internal/llm"
	"github.com/jonathan/redline/internal/normalize"
	"github.com/jonathan/redline/internal/payment"
	"github.com/jonathan/redline/internal/types"
)

// Error codes returned in the "error" field of failed responses
const (
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidAmount    = "invalid_amount"
	CodePaymentFailed    = "payment_failed"
	CodeModelUnavailable = "model_request_failed"
	CodeBadModelResponse = "invalid_model_response"
	CodeTooLarge         = "payload_too_large"
	CodeRateLimited      = "rate_limit_exceeded"
	CodeInternal         = "internal_error"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	status, _, _ := classify(err)
	return status
}

// classify maps an error to its status, error code and client-facing detail
func classify(err error) (int, string, string) {
	var (
		inputErr    *interview.InputError
		validErr    *ErrValidation
		fieldErrs   validator.ValidationErrors
		amountErr   *payment.InvalidAmountError
		gatewayErr  *payment.GatewayError
		requestErr  *llm.RequestError
		formatErr   *normalize.ResponseFormatError
		schemaErr   *normalize.SchemaValidationError
		tooLargeErr *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLargeErr):
		return http.StatusRequestEntityTooLarge, CodeTooLarge, "Upload is too large."
	case errors.As(err, &inputErr):
		return http.StatusBadRequest, CodeInvalidRequest, inputErr.Message
	case errors.As(err, &validErr):
		return http.StatusBadRequest, CodeInvalidRequest, validErr.Message
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, CodeInvalidRequest, types.ValidationMessage(fieldErrs)
	case errors.As(err, &amountErr):
		return http.StatusBadRequest, CodeInvalidAmount, amountErr.Error()
	case errors.As(err, &gatewayErr):
		// The payment widget treats any confirm failure as a client error
		return http.StatusBadRequest, CodePaymentFailed, gatewayErr.Error()
	case errors.As(err, &requestErr):
		return http.StatusBadGateway, CodeModelUnavailable, requestErr.Error()
	case errors.As(err, &formatErr):
		return http.StatusBadGateway, CodeBadModelResponse, "The model did not return valid JSON."
	case errors.As(err, &schemaErr):
		return http.StatusBadGateway, CodeBadModelResponse, "The model response did not match the expected format."
	default:
		return http.StatusInternalServerError, CodeInternal, "Internal server error."
	}
}
