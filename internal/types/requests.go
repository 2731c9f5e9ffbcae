//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate reports field errors under their JSON names
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Language is the output language requested for an analysis
type Language string

// Supported output languages
const (
	LanguageKorean  Language = "ko"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == LanguageKorean || l == LanguageEnglish
}

// ImproveQuestionRequest is the body of POST /api/improve-question
type ImproveQuestionRequest struct {
	Question       string `json:"question" validate:"required"`
	JobDescription string `json:"job_description,omitempty"`
}

// PaymentConfirmRequest is the body of POST /api/payment/confirm.
// Field names follow the payment widget's redirect parameters.
type PaymentConfirmRequest struct {
	PaymentKey string `json:"paymentKey" validate:"required"`
	OrderID    string `json:"orderId" validate:"required"`
	Amount     int64  `json:"amount"`
}

// LeadRequest is the body of POST /api/fakedoor/lead
type LeadRequest struct {
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Source string `json:"source,omitempty" validate:"omitempty,max=64"`
}

// StatusResponse is the generic {"status": "ok"} reply
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusOK is the success reply of endpoints that return no data
var StatusOK = StatusResponse{Status: "ok"}

// ValidationMessage turns validator field errors into a short human readable message.
// Other errors are returned as-is.
func ValidationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required.")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address.")
		case "max":
			msgs = append(msgs, fe.Field()+" must be at most "+fe.Param()+" characters.")
		default:
			msgs = append(msgs, fe.Field()+" is invalid.")
		}
	}
	return strings.Join(msgs, " ")
}

// Validate validates the ImproveQuestionRequest using the validator.
func (r *ImproveQuestionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the PaymentConfirmRequest using the validator.
func (r *PaymentConfirmRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LeadRequest using the validator.
func (r *LeadRequest) Validate() error {
	return validate.Struct(r)
}
