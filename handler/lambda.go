package handler

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bytedance/sonic"

	"paylink/model"
	"paylink/sentinel"
)

// HandleAPIGateway serves the webhook as an API Gateway proxy integration.
// Failures are reported through the response status, never as a Lambda error.
func (h *OrderHandler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod != http.MethodPost {
		h.metrics.Webhook(string(sentinel.CodeMethodNotAllowed))
		status, body := MethodNotAllowed()
		return proxyResponse(status, body), nil
	}

	payload := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			status, body := Respond(model.Outcome{}, sentinel.Validation("invalid base64 body: %v", err))
			return proxyResponse(status, body), nil
		}
		payload = decoded
	}

	slog.Info("Order webhook received", "requestId", req.RequestContext.RequestID)
	status, body := h.process(ctx, payload)
	return proxyResponse(status, body), nil
}

func proxyResponse(status int, body any) events.APIGatewayProxyResponse {
	raw, err := sonic.Marshal(body)
	if err != nil {
		slog.Error("Failed to encode response", "err", err)
		status = http.StatusInternalServerError
		raw = []byte(`{"error":"Error creating payment","code":"internal_error"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}
}
