package handler

import (
	"context"
	"log/slog"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"paylink/metrics"
	"paylink/model"
	"paylink/sentinel"
	"paylink/service"
)

type OrderHandler struct {
	pipeline *service.Pipeline
	metrics  *metrics.Recorder
}

func NewOrderHandler(p *service.Pipeline, rec *metrics.Recorder) *OrderHandler {
	return &OrderHandler{pipeline: p, metrics: rec}
}

func (h *OrderHandler) Order(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		h.metrics.Webhook(string(sentinel.CodeMethodNotAllowed))
		status, body := MethodNotAllowed()
		return c.Status(status).JSON(body)
	}

	slog.Info("Order webhook received", "requestId", c.Locals("requestid"))
	status, body := h.process(c.UserContext(), c.Body())
	return c.Status(status).JSON(body)
}

func (h *OrderHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "mode": h.pipeline.Mode()})
}

func (h *OrderHandler) process(ctx context.Context, payload []byte) (int, any) {
	var order model.OrderEvent
	if err := sonic.Unmarshal(payload, &order); err != nil {
		invalid := sentinel.Validation("invalid order payload: %v", err)
		h.metrics.Webhook(string(invalid.Code))
		return Respond(model.Outcome{}, invalid)
	}

	outcome, err := h.pipeline.Process(ctx, order)
	if err != nil {
		h.metrics.Webhook(string(sentinel.CodeOf(err)))
	} else {
		h.metrics.Webhook("success")
	}
	return Respond(outcome, err)
}
