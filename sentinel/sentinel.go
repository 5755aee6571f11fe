package sentinel

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeMethodNotAllowed  Code = "method_not_allowed"
	CodeValidation        Code = "validation_error"
	CodeParse             Code = "parse_error"
	CodeInvalidOrderID    Code = "invalid_order_id"
	CodeMissingEmail      Code = "missing_email"
	CodeUpstream          Code = "upstream_error"
	CodeMissingInvoiceURL Code = "missing_invoice_url"
	CodeEmailDelivery     Code = "email_delivery_error"
	CodeInternal          Code = "internal_error"
)

// Guardian is a classified pipeline failure. Retryable marks failures worth
// a second attempt against the provider.
type Guardian struct {
	Code      Code
	Context   string
	Retryable bool
	Err       error
}

func (g *Guardian) Error() string {
	if g.Err != nil && g.Context == "" {
		return g.Err.Error()
	}
	return g.Context
}

func (g *Guardian) Unwrap() error {
	return g.Err
}

func New(code Code, format string, args ...any) *Guardian {
	return &Guardian{Code: code, Context: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, format string, args ...any) *Guardian {
	return &Guardian{Code: code, Context: fmt.Sprintf(format, args...), Err: err}
}

func Validation(format string, args ...any) *Guardian {
	return New(CodeValidation, format, args...)
}

func ParseError(err error, format string, args ...any) *Guardian {
	return Wrap(CodeParse, err, format, args...)
}

func InvalidOrderID(format string, args ...any) *Guardian {
	return New(CodeInvalidOrderID, format, args...)
}

func MissingEmail() *Guardian {
	return New(CodeMissingEmail, "customer email is required")
}

func Upstream(retryable bool, format string, args ...any) *Guardian {
	g := New(CodeUpstream, format, args...)
	g.Retryable = retryable
	return g
}

func MissingInvoiceURL() *Guardian {
	return New(CodeMissingInvoiceURL, "payment provider response has neither invoice_url nor payment_url")
}

func EmailDelivery(err error) *Guardian {
	return Wrap(CodeEmailDelivery, err, "email delivery failed: %v", err)
}

func CodeOf(err error) Code {
	var g *Guardian
	if errors.As(err, &g) {
		return g.Code
	}
	return CodeInternal
}

func IsRetryable(err error) bool {
	var g *Guardian
	if !errors.As(err, &g) {
		return false
	}
	return g.Retryable
}

// StatusOf maps a failure to the HTTP status surfaced to the webhook caller.
// Everything but a wrong method is reported as 500 so the commerce platform
// keeps the delivery in its own retry queue.
func StatusOf(err error) int {
	if CodeOf(err) == CodeMethodNotAllowed {
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}
