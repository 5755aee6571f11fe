package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"paylink/metrics"
	"paylink/model"
	"paylink/sentinel"
)

const maxProviderBody = 1 << 20

type NowPaymentsOptions struct {
	BaseURL       string
	APIKey        string
	Mode          model.PaymentMode
	StoreName     string
	SuccessURL    string
	CancelURL     string
	FeePaidByUser bool
	Timeout       time.Duration
	RetryBackoff  time.Duration
	Debug         bool
}

// NowPaymentsAdapter creates invoices (or direct payments) on NOWPayments.
// A call makes at most two attempts; only transport failures, 408, 429 and
// 5xx responses are retried.
type NowPaymentsAdapter struct {
	client     *http.Client
	opts       NowPaymentsOptions
	maxRetries int
	metrics    *metrics.Recorder
}

func NewNowPaymentsAdapter(client *http.Client, opts NowPaymentsOptions, rec *metrics.Recorder) *NowPaymentsAdapter {
	slog.Info("Creating NowPaymentsAdapter", "baseUrl", opts.BaseURL, "mode", opts.Mode)
	return &NowPaymentsAdapter{
		client:     client,
		opts:       opts,
		maxRetries: 1,
		metrics:    rec,
	}
}

func (a *NowPaymentsAdapter) Endpoint() string {
	if a.opts.Mode == model.ModePayment {
		return a.opts.BaseURL + "/v1/payment"
	}
	return a.opts.BaseURL + "/v1/invoice"
}

func (a *NowPaymentsAdapter) BuildRequest(order model.NormalizedOrder) model.ProviderRequest {
	req := model.ProviderRequest{
		PriceAmount:      order.Amount,
		PriceCurrency:    order.Currency,
		OrderID:          order.OrderID,
		OrderDescription: fmt.Sprintf("Order #%s from %s", order.DisplayName, a.opts.StoreName),
	}
	if a.opts.Mode == model.ModePayment {
		req.PayCurrency = order.PayCurrency
		return req
	}
	feePaidByUser := a.opts.FeePaidByUser
	req.SuccessURL = a.opts.SuccessURL
	req.CancelURL = a.opts.CancelURL
	req.IsFeePaidByUser = &feePaidByUser
	return req
}

func (a *NowPaymentsAdapter) CreateInvoice(ctx context.Context, order model.NormalizedOrder) (model.PaymentInvoice, error) {
	body, err := sonic.ConfigFastest.Marshal(a.BuildRequest(order))
	if err != nil {
		return model.PaymentInvoice{}, sentinel.Wrap(sentinel.CodeInternal, err, "failed to marshal payment request: %v", err)
	}
	if a.opts.Debug {
		slog.Debug("NOWPayments request", "orderId", order.OrderID, "body", string(body))
	}

	var lastErr error
	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			slog.Warn("Retrying NOWPayments call", "orderId", order.OrderID, "attempt", attempt+1, "err", lastErr)
			if err := sleep(ctx, a.opts.RetryBackoff*time.Duration(attempt)); err != nil {
				return model.PaymentInvoice{}, lastErr
			}
		}

		invoice, err := a.send(ctx, attempt, body)
		if err == nil {
			return invoice, nil
		}
		lastErr = err
		if !sentinel.IsRetryable(err) {
			break
		}
	}
	return model.PaymentInvoice{}, lastErr
}

func (a *NowPaymentsAdapter) send(ctx context.Context, attempt int, body []byte) (model.PaymentInvoice, error) {
	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return model.PaymentInvoice{}, sentinel.Wrap(sentinel.CodeInternal, err, "failed to create payment request: %v", err)
	}
	req.Header.Set("x-api-key", a.opts.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := a.client.Do(req)
	if err != nil {
		a.metrics.ProviderCall(attempt, "error", time.Since(start))
		g := sentinel.Upstream(true, "NOWPayments unreachable: %v", err)
		g.Err = err
		if errors.Is(err, context.DeadlineExceeded) {
			g.Context = "NOWPayments request timed out"
		}
		return model.PaymentInvoice{}, g
	}
	defer res.Body.Close()
	a.metrics.ProviderCall(attempt, strconv.Itoa(res.StatusCode), time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxProviderBody))
	if err != nil {
		return model.PaymentInvoice{}, sentinel.Upstream(true, "failed to read NOWPayments response: %v", err)
	}
	if a.opts.Debug {
		slog.Debug("NOWPayments response", "status", res.StatusCode, "body", string(raw))
	}

	var data model.ProviderResponse
	decodeErr := sonic.ConfigFastest.Unmarshal(raw, &data)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		slog.Error("NOWPayments rejected request", "status", res.StatusCode, "body", string(raw))
		return model.PaymentInvoice{}, sentinel.Upstream(retryableStatus(res.StatusCode), "NOWPayments error: %s", providerMessage(data, raw, res.StatusCode))
	}
	if decodeErr != nil {
		slog.Error("NOWPayments returned malformed body", "status", res.StatusCode, "body", string(raw), "err", decodeErr)
		return model.PaymentInvoice{}, sentinel.Upstream(false, "NOWPayments returned a malformed response: %v", decodeErr)
	}

	link := data.Link()
	if link == "" {
		slog.Error("NOWPayments response without link", "status", res.StatusCode, "body", string(raw))
		return model.PaymentInvoice{}, sentinel.MissingInvoiceURL()
	}

	return model.PaymentInvoice{URL: link, ProviderID: data.Reference(), Raw: raw}, nil
}

func providerMessage(data model.ProviderResponse, raw []byte, status int) string {
	if data.Message != "" {
		return data.Message
	}
	if trimmed := strings.TrimSpace(string(raw)); trimmed != "" {
		return trimmed
	}
	return "status " + strconv.Itoa(status)
}

func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
