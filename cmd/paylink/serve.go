package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"paylink/handler"
	"paylink/storage"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook endpoint as an HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := build()

			opts := handler.ServerOptions{
				RateLimitMax:    c.settings.RateLimitMax,
				RateLimitWindow: c.settings.RateLimitWindow,
			}
			if c.settings.RedisAddr != "" {
				redisStorage := storage.NewRedisStorage(c.settings.RedisAddr)
				defer redisStorage.Close()
				opts.LimiterStorage = redisStorage
			}

			app := handler.NewApp(c.handler, c.recorder, opts)
			go shutdownOnSignal(app)

			slog.Info("server running", "port", c.settings.ServerPort, "mode", c.settings.PaymentMode)
			return app.Listen(":" + c.settings.ServerPort)
		},
	}
}

func shutdownOnSignal(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down gracefully...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
