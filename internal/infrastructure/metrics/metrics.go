package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command Center metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "command_center",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "command_center",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Credential decisions per capability
	AuthModeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "command_center",
			Subsystem: "api",
			Name:      "auth_mode_total",
			Help:      "Credential decisions by capability and resolved mode",
		},
		[]string{"capability", "auth_mode"},
	)

	// Upstream call failures
	UpstreamErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "command_center",
			Subsystem: "api",
			Name:      "upstream_errors_total",
			Help:      "Total upstream call failures",
		},
		[]string{"upstream", "error_type"},
	)

	// Workflow triggers
	WorkflowTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "command_center",
			Subsystem: "api",
			Name:      "workflow_triggers_total",
			Help:      "Webhook workflow trigger attempts",
		},
		[]string{"workflow", "status"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordAuthMode records one credential decision.
func RecordAuthMode(capability, mode string) {
	AuthModeTotal.WithLabelValues(capability, mode).Inc()
}

// RecordUpstreamError records an upstream call failure.
func RecordUpstreamError(upstream, errorType string) {
	UpstreamErrorsTotal.WithLabelValues(upstream, errorType).Inc()
}

// RecordWorkflowTrigger records a workflow trigger attempt.
func RecordWorkflowTrigger(workflow, status string) {
	WorkflowTriggersTotal.WithLabelValues(workflow, status).Inc()
}

// Handler exposes the default registry for the metrics listener.
func Handler() http.Handler {
	return promhttp.Handler()
}
