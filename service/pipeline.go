package service

import (
	"context"
	"fmt"
	"log/slog"

	"paylink/adapter"
	"paylink/metrics"
	"paylink/model"
	"paylink/sentinel"
)

type (
	PaymentIssuer interface {
		CreateInvoice(ctx context.Context, order model.NormalizedOrder) (model.PaymentInvoice, error)
	}

	Mailer interface {
		Send(ctx context.Context, email model.Email) (model.EmailDispatchResult, error)
	}

	PipelineConfig struct {
		Mode      model.PaymentMode
		StoreName string
	}

	// Pipeline runs intake, payment issuance and notification in order. It
	// holds no per-request state and is safe for concurrent use.
	Pipeline struct {
		cfg     PipelineConfig
		issuer  PaymentIssuer
		mailer  Mailer
		metrics *metrics.Recorder
	}
)

func NewPipeline(cfg PipelineConfig, issuer PaymentIssuer, mailer Mailer, rec *metrics.Recorder) *Pipeline {
	return &Pipeline{cfg: cfg, issuer: issuer, mailer: mailer, metrics: rec}
}

func (p *Pipeline) Mode() model.PaymentMode {
	return p.cfg.Mode
}

func (p *Pipeline) Process(ctx context.Context, order model.OrderEvent) (model.Outcome, error) {
	normalized, err := Normalize(order, p.cfg.Mode)
	if err != nil {
		slog.Warn("Rejected order webhook", "code", sentinel.CodeOf(err), "err", err)
		return model.Outcome{}, err
	}

	invoice, err := p.issuer.CreateInvoice(ctx, normalized)
	if err != nil {
		slog.Error("Error creating payment", "orderId", normalized.OrderID, "code", sentinel.CodeOf(err), "err", err)
		return model.Outcome{}, err
	}
	slog.Info("Payment link created", "orderId", normalized.OrderID, "currency", normalized.Currency, "providerId", invoice.ProviderID)

	outcome := model.Outcome{Order: normalized, Invoice: invoice, Mode: p.cfg.Mode}
	outcome.EmailSent = p.notify(ctx, normalized, invoice)
	return outcome, nil
}

// notify never fails the pipeline; the link is still returned to the caller.
func (p *Pipeline) notify(ctx context.Context, order model.NormalizedOrder, invoice model.PaymentInvoice) bool {
	html, err := adapter.RenderPaymentLinkEmail(adapter.PaymentLinkEmail{
		OrderName:  order.DisplayName,
		Amount:     order.Amount.String(),
		Currency:   order.Currency,
		PaymentURL: invoice.URL,
		StoreName:  p.cfg.StoreName,
	})
	if err == nil {
		_, err = p.mailer.Send(ctx, model.Email{
			To:      order.Email,
			Subject: fmt.Sprintf("Complete your payment for order #%s", order.DisplayName),
			HTML:    html,
		})
	}
	if err != nil {
		err = sentinel.EmailDelivery(err)
		slog.Error("Error sending payment email", "orderId", order.OrderID, "code", sentinel.CodeOf(err), "err", err)
		p.metrics.Email(false)
		return false
	}
	p.metrics.Email(true)
	return true
}
