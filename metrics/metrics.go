package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is safe to use as a nil pointer; every method becomes a no-op.
type Recorder struct {
	registry         *prometheus.Registry
	webhooks         *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	providerAttempts *prometheus.CounterVec
	emails           *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	r := &Recorder{
		registry: registry,
		webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paylink",
			Name:      "webhooks_total",
			Help:      "Order webhooks handled, by outcome code.",
		}, []string{"code"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "paylink",
			Name:      "provider_request_duration_ms",
			Help:      "Payment provider call latency in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"status"}),
		providerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paylink",
			Name:      "provider_attempts_total",
			Help:      "Payment provider attempts, by attempt number.",
		}, []string{"attempt"}),
		emails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "paylink",
			Name:      "emails_total",
			Help:      "Payment link emails, by result.",
		}, []string{"result"}),
	}
	registry.MustRegister(r.webhooks, r.providerLatency, r.providerAttempts, r.emails)
	return r
}

func (r *Recorder) Webhook(code string) {
	if r == nil {
		return
	}
	r.webhooks.WithLabelValues(code).Inc()
}

func (r *Recorder) ProviderCall(attempt int, status string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.providerAttempts.WithLabelValues(attemptLabel(attempt)).Inc()
	r.providerLatency.WithLabelValues(status).Observe(float64(elapsed.Milliseconds()))
}

func (r *Recorder) Email(delivered bool) {
	if r == nil {
		return
	}
	result := "failed"
	if delivered {
		result = "delivered"
	}
	r.emails.WithLabelValues(result).Inc()
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func attemptLabel(attempt int) string {
	if attempt == 0 {
		return "first"
	}
	return "retry"
}
