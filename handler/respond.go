package handler

import (
	"net/http"

	"paylink/model"
	"paylink/sentinel"
)

const successMessage = "Payment link created successfully"

// Respond maps a pipeline result to a status code and JSON body. It is shared
// by the fiber and Lambda entrypoints.
func Respond(outcome model.Outcome, err error) (int, any) {
	if err != nil {
		return sentinel.StatusOf(err), model.ErrorResponse{
			Error: errorMessage(err),
			Code:  string(sentinel.CodeOf(err)),
		}
	}

	body := model.SuccessResponse{
		Success:        true,
		Message:        successMessage,
		OrderID:        outcome.Order.OrderID,
		FiatCurrency:   outcome.Order.Currency,
		CryptoCurrency: outcome.Order.PayCurrency,
		EmailSent:      outcome.EmailSent,
	}
	if outcome.Mode == model.ModePayment {
		body.PaymentURL = outcome.Invoice.URL
	} else {
		body.InvoiceURL = outcome.Invoice.URL
	}
	return http.StatusOK, body
}

func MethodNotAllowed() (int, any) {
	return http.StatusMethodNotAllowed, model.MessageResponse{Message: "method not allowed"}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Error creating payment"
}
