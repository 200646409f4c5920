package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/michaelayoade/netops-backend-go/internal/config"
	"github.com/michaelayoade/netops-backend-go/internal/database/models"
)

// Collector exposes the platform's Prometheus metrics
type Collector struct {
	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Pipeline metrics
	samplesIngested     *prometheus.CounterVec
	alertTransitions    *prometheus.CounterVec
	notificationsQueued *prometheus.CounterVec
}

// NewCollector registers the platform metrics with the given name prefix
func NewCollector(cfg config.MetricsConfig) *Collector {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "netops"
	}

	return &Collector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		samplesIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_metric_samples_total",
				Help: "Total number of ingested metric samples",
			},
			[]string{"metric_type"},
		),
		alertTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_alert_transitions_total",
				Help: "Total number of alert state transitions",
			},
			[]string{"severity", "status"},
		),
		notificationsQueued: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_notifications_queued_total",
				Help: "Total number of notifications queued for delivery",
			},
			[]string{"channel"},
		),
	}
}

// RecordHTTPRequest counts one handled request
func (c *Collector) RecordHTTPRequest(method, path, status string, seconds float64) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordSample counts one ingested metric sample
func (c *Collector) RecordSample(metricType string) {
	c.samplesIngested.WithLabelValues(metricType).Inc()
}

// RecordNotificationQueued counts one queued notification
func (c *Collector) RecordNotificationQueued(channel string) {
	c.notificationsQueued.WithLabelValues(channel).Inc()
}

// HandleAlertTransition implements the alert event sink so every state
// transition is counted
func (c *Collector) HandleAlertTransition(_ context.Context, alert *models.Alert, status models.AlertStatus) error {
	c.alertTransitions.WithLabelValues(string(alert.Severity), string(status)).Inc()
	return nil
}
