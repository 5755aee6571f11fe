package handler

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"paylink/metrics"
)

type ServerOptions struct {
	RateLimitMax    int
	RateLimitWindow time.Duration
	// LimiterStorage shares rate limit counters across replicas; nil keeps
	// them in process memory.
	LimiterStorage fiber.Storage
}

func NewApp(h *OrderHandler, rec *metrics.Recorder, opts ServerOptions) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))

	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(rec.Handler()))

	webhook := []fiber.Handler{}
	if opts.RateLimitMax > 0 {
		webhook = append(webhook, limiter.New(limiter.Config{
			Max:        opts.RateLimitMax,
			Expiration: opts.RateLimitWindow,
			Storage:    opts.LimiterStorage,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many requests"})
			},
		}))
	}
	webhook = append(webhook, h.Order)
	app.All("/api/order", webhook...)

	return app
}
