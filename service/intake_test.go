package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paylink/model"
	"paylink/sentinel"
)

func validOrder() model.OrderEvent {
	return model.OrderEvent{
		ID:         "987654321012",
		Name:       "#1001",
		Email:      "a@b.com",
		TotalPrice: "49.99",
		Currency:   "eur",
	}
}

func TestNormalizeScenario(t *testing.T) {
	n, err := Normalize(validOrder(), model.ModeInvoice)
	require.NoError(t, err)

	assert.Equal(t, int64(54321012), n.OrderID)
	assert.Equal(t, "EUR", n.Currency)
	assert.Equal(t, "49.99", n.Amount.String())
	assert.Equal(t, "a@b.com", n.Email)
	assert.Equal(t, "1001", n.DisplayName)
	assert.Empty(t, n.PayCurrency, "invoice mode leaves settlement to the provider")
}

func TestNormalizeMissingCurrencyDefaultsToBaseline(t *testing.T) {
	order := validOrder()
	order.Currency = ""

	n, err := Normalize(order, model.ModePayment)
	require.NoError(t, err)

	assert.Equal(t, "EUR", n.Currency)
	assert.Equal(t, "BTC", n.PayCurrency)
}

func TestNormalizeErrors(t *testing.T) {
	cases := []struct {
		name string
		edit func(*model.OrderEvent)
		code sentinel.Code
	}{
		{"unparseable amount", func(o *model.OrderEvent) { o.TotalPrice = "forty" }, sentinel.CodeParse},
		{"empty amount", func(o *model.OrderEvent) { o.TotalPrice = "" }, sentinel.CodeParse},
		{"non numeric id", func(o *model.OrderEvent) { o.ID = "gid://shopify/Order/abc" }, sentinel.CodeInvalidOrderID},
		{"missing id and number", func(o *model.OrderEvent) { o.ID = "" }, sentinel.CodeInvalidOrderID},
		{"missing email", func(o *model.OrderEvent) { o.Email = "" }, sentinel.CodeMissingEmail},
		{"blank email", func(o *model.OrderEvent) { o.Email = "   " }, sentinel.CodeMissingEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.edit(&order)

			_, err := Normalize(order, model.ModeInvoice)
			require.Error(t, err)
			assert.Equal(t, tc.code, sentinel.CodeOf(err))
		})
	}
}

func TestNormalizeFallsBackToOrderNumberAndCustomerEmail(t *testing.T) {
	order := validOrder()
	order.ID = ""
	order.OrderNumber = "1001"
	order.Email = ""
	order.Customer = &model.Customer{Email: "buyer@shop.test"}

	n, err := Normalize(order, model.ModeInvoice)
	require.NoError(t, err)

	assert.Equal(t, int64(1001), n.OrderID)
	assert.Equal(t, "buyer@shop.test", n.Email)
}

func TestNormalizeDoesNotValidateSign(t *testing.T) {
	order := validOrder()
	order.TotalPrice = "-5"

	n, err := Normalize(order, model.ModeInvoice)
	require.NoError(t, err)
	assert.Equal(t, "-5", n.Amount.String())
}

func TestReduceOrderID(t *testing.T) {
	cases := map[string]int64{
		"987654321012":        54321012,
		"5735245693123456789": 23456789,
		"12345678":            12345678,
		"42":                  42,
		"100000000":           0,
		" 12345 ":             12345,
	}
	for raw, want := range cases {
		got, err := ReduceOrderID(raw, OrderIDDigits)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
}

func TestReduceOrderIDRejectsNonDigits(t *testing.T) {
	for _, raw := range []string{"", "abc", "-1", "1.5e12", "12345678x"} {
		_, err := ReduceOrderID(raw, OrderIDDigits)
		assert.Equal(t, sentinel.CodeInvalidOrderID, sentinel.CodeOf(err), raw)
	}
}

func TestSelectPayCurrency(t *testing.T) {
	for _, fiat := range SupportedFiat {
		assert.Equal(t, DefaultCrypto, SelectPayCurrency(fiat), fiat)
	}
	for _, crypto := range SupportedCrypto {
		assert.Equal(t, crypto, SelectPayCurrency(crypto), crypto)
	}
	assert.Equal(t, DefaultCrypto, SelectPayCurrency("XYZ"))
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "EUR", NormalizeCurrency(""))
	assert.Equal(t, "USDT", NormalizeCurrency(" usdt "))
}
