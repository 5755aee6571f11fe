package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paylink/model"
)

type fakeResend struct {
	req *resend.SendEmailRequest
	err error
}

func (f *fakeResend) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.req = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794"}, nil
}

func TestResendMailerSend(t *testing.T) {
	fake := &fakeResend{}
	m := &ResendMailer{emails: fake, from: "Zenitha <orders@zenitha.shop>"}

	res, err := m.Send(context.Background(), model.Email{To: "a@b.com", Subject: "Pay", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.True(t, res.Delivered)
	assert.Equal(t, "49a3999c-0ce1-4ea6-ab68-afcd6dc2e794", res.ID)
	assert.Equal(t, []string{"a@b.com"}, fake.req.To)
	assert.Equal(t, "Zenitha <orders@zenitha.shop>", fake.req.From)
	assert.Equal(t, "<p>x</p>", fake.req.Html)
}

func TestResendMailerSendError(t *testing.T) {
	m := &ResendMailer{emails: &fakeResend{err: errors.New("invalid api key")}}

	res, err := m.Send(context.Background(), model.Email{To: "a@b.com"})

	assert.EqualError(t, err, "invalid api key")
	assert.False(t, res.Delivered)
}

func TestRenderPaymentLinkEmail(t *testing.T) {
	html, err := RenderPaymentLinkEmail(PaymentLinkEmail{
		OrderName:  "1001",
		Amount:     "49.99",
		Currency:   "EUR",
		PaymentURL: "https://pay.example/x?a=1&b=2",
		StoreName:  "Zenitha",
	})
	require.NoError(t, err)

	assert.Contains(t, html, "order #1001")
	assert.Contains(t, html, "49.99 EUR")
	assert.Contains(t, html, `href="https://pay.example/x?a=1&amp;b=2"`)
}

func TestRenderPaymentLinkEmailEscapesOrderName(t *testing.T) {
	html, err := RenderPaymentLinkEmail(PaymentLinkEmail{OrderName: "<script>", PaymentURL: "https://pay.example/x"})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
}
