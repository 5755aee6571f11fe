package adapter

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"paylink/model"
)

//go:embed templates/payment_link.html
var templateFS embed.FS

var paymentLinkTemplate = template.Must(template.ParseFS(templateFS, "templates/payment_link.html"))

type PaymentLinkEmail struct {
	OrderName  string
	Amount     string
	Currency   string
	PaymentURL string
	StoreName  string
}

func RenderPaymentLinkEmail(data PaymentLinkEmail) (string, error) {
	var buf bytes.Buffer
	if err := paymentLinkTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render payment link email: %w", err)
	}
	return buf.String(), nil
}

type resendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type ResendMailer struct {
	emails resendEmails
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{emails: resend.NewClient(apiKey).Emails, from: from}
}

func (m *ResendMailer) Send(ctx context.Context, email model.Email) (model.EmailDispatchResult, error) {
	sent, err := m.emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return model.EmailDispatchResult{}, err
	}
	slog.Info("Payment link email sent", "id", sent.Id)
	return model.EmailDispatchResult{Delivered: true, ID: sent.Id}, nil
}
