package model

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentMode string

const (
	ModeInvoice PaymentMode = "invoice"
	ModePayment PaymentMode = "payment"
)

// RawID keeps a webhook identifier as its decimal text. Commerce platforms
// send ids that do not fit a float64 mantissa, so it is never decoded as a
// number.
type RawID string

func (r *RawID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*r = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		*r = RawID(strings.TrimSpace(unquoted))
		return nil
	}
	*r = RawID(s)
	return nil
}

type Customer struct {
	Email string `json:"email"`
}

type OrderEvent struct {
	ID          RawID     `json:"id"`
	OrderNumber RawID     `json:"order_number"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Customer    *Customer `json:"customer"`
	TotalPrice  string    `json:"total_price"`
	Currency    string    `json:"currency"`
}

// CustomerEmail prefers the top-level email and falls back to customer.email.
func (o OrderEvent) CustomerEmail() string {
	if e := strings.TrimSpace(o.Email); e != "" {
		return e
	}
	if o.Customer != nil {
		return strings.TrimSpace(o.Customer.Email)
	}
	return ""
}

type NormalizedOrder struct {
	OrderID     int64
	Amount      decimal.Decimal
	Currency    string
	PayCurrency string
	Email       string
	DisplayName string
}

type PaymentInvoice struct {
	URL        string
	ProviderID string
	Raw        []byte
}

type EmailDispatchResult struct {
	Delivered bool
	ID        string
}

type Email struct {
	To      string
	Subject string
	HTML    string
}

type ProviderRequest struct {
	PriceAmount      decimal.Decimal `json:"price_amount"`
	PriceCurrency    string          `json:"price_currency"`
	PayCurrency      string          `json:"pay_currency,omitempty"`
	OrderID          int64           `json:"order_id"`
	OrderDescription string          `json:"order_description"`
	SuccessURL       string          `json:"success_url,omitempty"`
	CancelURL        string          `json:"cancel_url,omitempty"`
	IsFeePaidByUser  *bool           `json:"is_fee_paid_by_user,omitempty"`
}

type ProviderResponse struct {
	ID         RawID  `json:"id"`
	PaymentID  RawID  `json:"payment_id"`
	InvoiceURL string `json:"invoice_url"`
	PaymentURL string `json:"payment_url"`
	Message    string `json:"message"`
}

// Link returns invoice_url, falling back to payment_url.
func (p ProviderResponse) Link() string {
	if p.InvoiceURL != "" {
		return p.InvoiceURL
	}
	return p.PaymentURL
}

func (p ProviderResponse) Reference() string {
	if p.ID != "" {
		return string(p.ID)
	}
	return string(p.PaymentID)
}

type Outcome struct {
	Order     NormalizedOrder
	Invoice   PaymentInvoice
	Mode      PaymentMode
	EmailSent bool
}

type SuccessResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	OrderID        int64  `json:"order_id"`
	FiatCurrency   string `json:"fiat_currency"`
	CryptoCurrency string `json:"crypto_currency,omitempty"`
	InvoiceURL     string `json:"invoice_url,omitempty"`
	PaymentURL     string `json:"payment_url,omitempty"`
	EmailSent      bool   `json:"email_sent"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
