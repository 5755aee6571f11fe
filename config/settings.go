package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"paylink/model"
)

type ApplicationSettings struct {
	ServerPort string
	Debug      bool

	NowPaymentsAPIKey  string
	NowPaymentsBaseURL string
	PaymentMode        model.PaymentMode
	PaymentTimeout     time.Duration
	RetryBackoff       time.Duration
	SuccessURL         string
	CancelURL          string
	FeePaidByUser      bool
	StoreName          string

	ResendAPIKey string
	EmailFrom    string

	RedisAddr       string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

// LoadEnvironmentConfig resolves settings once at process start. A .env file
// in the working directory is optional; real environment variables win.
func LoadEnvironmentConfig() *ApplicationSettings {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "9999")
	v.SetDefault("DEBUG", false)
	v.SetDefault("NOWPAYMENTS_BASE_URL", "https://api.nowpayments.io")
	v.SetDefault("PAYMENT_MODE", string(model.ModeInvoice))
	v.SetDefault("PAYMENT_TIMEOUT", 10*time.Second)
	v.SetDefault("PAYMENT_RETRY_BACKOFF", 500*time.Millisecond)
	v.SetDefault("FEE_PAID_BY_USER", true)
	v.SetDefault("STORE_NAME", "Zenitha")
	v.SetDefault("EMAIL_FROM", "Zenitha <orders@zenitha.shop>")
	v.SetDefault("RATE_LIMIT_MAX", 60)
	v.SetDefault("RATE_LIMIT_WINDOW", time.Minute)
	return v
}

func FromViper(v *viper.Viper) *ApplicationSettings {
	return &ApplicationSettings{
		ServerPort:         strings.TrimPrefix(v.GetString("PORT"), ":"),
		Debug:              v.GetBool("DEBUG"),
		NowPaymentsAPIKey:  v.GetString("NOWPAYMENTS_API_KEY"),
		NowPaymentsBaseURL: strings.TrimRight(v.GetString("NOWPAYMENTS_BASE_URL"), "/"),
		PaymentMode:        parseMode(v.GetString("PAYMENT_MODE")),
		PaymentTimeout:     v.GetDuration("PAYMENT_TIMEOUT"),
		RetryBackoff:       v.GetDuration("PAYMENT_RETRY_BACKOFF"),
		SuccessURL:         v.GetString("SUCCESS_URL"),
		CancelURL:          v.GetString("CANCEL_URL"),
		FeePaidByUser:      v.GetBool("FEE_PAID_BY_USER"),
		StoreName:          v.GetString("STORE_NAME"),
		ResendAPIKey:       v.GetString("RESEND_API_KEY"),
		EmailFrom:          v.GetString("EMAIL_FROM"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RateLimitMax:       v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:    v.GetDuration("RATE_LIMIT_WINDOW"),
	}
}

func parseMode(raw string) model.PaymentMode {
	switch model.PaymentMode(strings.ToLower(strings.TrimSpace(raw))) {
	case model.ModePayment:
		return model.ModePayment
	case model.ModeInvoice:
		return model.ModeInvoice
	default:
		slog.Warn("Unknown PAYMENT_MODE, using invoice", "value", raw)
		return model.ModeInvoice
	}
}
