package service

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"paylink/model"
	"paylink/sentinel"
)

const (
	BaselineFiat  = "EUR"
	DefaultCrypto = "BTC"
	OrderIDDigits = 8
)

var (
	SupportedFiat = []string{
		"USD", "EUR", "GBP", "CHF", "CAD", "AUD", "NZD", "JPY", "SEK", "NOK", "DKK", "PLN", "CZK", "HUF",
	}
	SupportedCrypto = []string{
		"BTC", "ETH", "USDT", "USDC", "XRP", "BNB", "SOL", "ADA", "DOGE", "TRX",
	}
)

// Normalize turns a raw webhook order into the view sent to the provider.
// PayCurrency is only resolved in payment mode; in invoice mode the provider
// picks the settlement currency on its hosted page.
func Normalize(order model.OrderEvent, mode model.PaymentMode) (model.NormalizedOrder, error) {
	currency := NormalizeCurrency(order.Currency)

	amount, err := decimal.NewFromString(strings.TrimSpace(order.TotalPrice))
	if err != nil {
		return model.NormalizedOrder{}, sentinel.ParseError(err, "invalid total_price %q", order.TotalPrice)
	}

	rawID := order.ID
	if rawID == "" {
		rawID = order.OrderNumber
	}
	orderID, err := ReduceOrderID(string(rawID), OrderIDDigits)
	if err != nil {
		return model.NormalizedOrder{}, err
	}

	email := order.CustomerEmail()
	if email == "" {
		return model.NormalizedOrder{}, sentinel.MissingEmail()
	}

	normalized := model.NormalizedOrder{
		OrderID:     orderID,
		Amount:      amount,
		Currency:    currency,
		Email:       email,
		DisplayName: displayName(order, orderID),
	}
	if mode == model.ModePayment {
		normalized.PayCurrency = SelectPayCurrency(currency)
	}
	return normalized, nil
}

func NormalizeCurrency(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return BaselineFiat
	}
	return c
}

// ReduceOrderID keeps the last digits decimal digits of a wide identifier and
// reads them as an integer. The result always fits a float64 mantissa when
// digits <= 15.
func ReduceOrderID(raw string, digits int) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, sentinel.InvalidOrderID("order id is missing")
	}
	tail := raw
	if len(tail) > digits {
		tail = tail[len(tail)-digits:]
	}
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, sentinel.InvalidOrderID("order id %q is not a number", raw)
		}
	}
	id, err := strconv.ParseInt(tail, 10, 64)
	if err != nil {
		return 0, sentinel.InvalidOrderID("order id %q is not a number", raw)
	}
	return id, nil
}

func SelectPayCurrency(currency string) string {
	switch {
	case slices.Contains(SupportedFiat, currency):
		return DefaultCrypto
	case slices.Contains(SupportedCrypto, currency):
		return currency
	default:
		return DefaultCrypto
	}
}

func displayName(order model.OrderEvent, orderID int64) string {
	if n := strings.TrimSpace(order.Name); n != "" {
		return strings.TrimPrefix(n, "#")
	}
	if order.OrderNumber != "" {
		return string(order.OrderNumber)
	}
	return strconv.FormatInt(orderID, 10)
}
