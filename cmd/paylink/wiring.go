package main

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"paylink/adapter"
	"paylink/config"
	"paylink/handler"
	"paylink/metrics"
	"paylink/service"
)

type components struct {
	settings *config.ApplicationSettings
	recorder *metrics.Recorder
	handler  *handler.OrderHandler
}

func build() components {
	settings := config.LoadEnvironmentConfig()

	level := slog.LevelInfo
	if settings.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	client := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        32,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   3 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 5 * time.Second,
		},
	}

	recorder := metrics.NewRecorder()

	issuer := adapter.NewNowPaymentsAdapter(client, adapter.NowPaymentsOptions{
		BaseURL:       settings.NowPaymentsBaseURL,
		APIKey:        settings.NowPaymentsAPIKey,
		Mode:          settings.PaymentMode,
		StoreName:     settings.StoreName,
		SuccessURL:    settings.SuccessURL,
		CancelURL:     settings.CancelURL,
		FeePaidByUser: settings.FeePaidByUser,
		Timeout:       settings.PaymentTimeout,
		RetryBackoff:  settings.RetryBackoff,
		Debug:         settings.Debug,
	}, recorder)

	mailer := adapter.NewResendMailer(settings.ResendAPIKey, settings.EmailFrom)

	pipeline := service.NewPipeline(service.PipelineConfig{
		Mode:      settings.PaymentMode,
		StoreName: settings.StoreName,
	}, issuer, mailer, recorder)

	return components{
		settings: settings,
		recorder: recorder,
		handler:  handler.NewOrderHandler(pipeline, recorder),
	}
}
