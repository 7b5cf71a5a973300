// Package metrics exposes Prometheus counters for the usage events the
// application emits.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"giftwell/internal/models"
)

// Recorder owns the metric registry and the event counters.
type Recorder struct {
	registry *prometheus.Registry

	statusEvents    *prometheus.CounterVec
	gatewayFailures *prometheus.CounterVec
}

// NewRecorder creates a Recorder with all counters registered.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	statusEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "giftwell_usage_events_total",
		Help: "Categorical usage events emitted on confirmed mutations.",
	}, []string{"category", "action"})

	gatewayFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "giftwell_gateway_failures_total",
		Help: "Remote gateway calls that failed, by operation.",
	}, []string{"operation"})

	registry.MustRegister(statusEvents, gatewayFailures)

	return &Recorder{
		registry:        registry,
		statusEvents:    statusEvents,
		gatewayFailures: gatewayFailures,
	}
}

// StatusChanged records a confirmed item status change as the categorical
// event {category: "item", action: "Item Status: <label>"}.
func (r *Recorder) StatusChanged(v models.StatusValue) {
	r.statusEvents.WithLabelValues("item", "Item Status: "+v.Label()).Inc()
}

// GatewayFailure records a failed remote gateway call.
func (r *Recorder) GatewayFailure(operation string) {
	r.gatewayFailures.WithLabelValues(operation).Inc()
}

// Handler returns the /metrics scrape handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
