package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// phases lists every value the phase gauge can take.
var phases = []string{"closed", "trading", "closing_hour"}

// Registry holds all Prometheus metrics.
type Registry struct {
	*prometheus.Registry

	// HTTP metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Refresh loop metrics
	cycles             prometheus.Counter
	cycleDuration      prometheus.Histogram
	decisions          *prometheus.CounterVec
	invocations        *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	phase              *prometheus.GaugeVec
	notifications      *prometheus.CounterVec
	wsClients          prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	// Register Go runtime metrics
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{
		Registry: reg,

		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
		),
	}

	reg.MustRegister(r.httpRequestsTotal)
	reg.MustRegister(r.httpRequestDuration)
	reg.MustRegister(r.httpRequestsInFlight)

	r.cycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_refresh_cycles_total",
			Help: "Total number of refresh cycles completed",
		},
	)
	r.cycleDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_refresh_cycle_duration_seconds",
			Help:    "Refresh cycle duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	r.decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_trigger_decisions_total",
			Help: "Trigger decisions by reason",
		},
		[]string{"reason", "run"},
	)
	r.invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_analysis_invocations_total",
			Help: "Sentiment analysis invocations by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)
	r.invocationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_analysis_duration_seconds",
			Help:    "Sentiment analysis latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"mode"},
	)
	r.phase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sentinel_market_phase",
			Help: "Current market phase (1 for the active phase)",
		},
		[]string{"phase"},
	)
	r.notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_notifications_total",
			Help: "Notifications sent by notifier and status",
		},
		[]string{"notifier", "status"},
	)
	r.wsClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_websocket_clients",
			Help: "Number of connected WebSocket clients",
		},
	)

	reg.MustRegister(r.cycles)
	reg.MustRegister(r.cycleDuration)
	reg.MustRegister(r.decisions)
	reg.MustRegister(r.invocations)
	reg.MustRegister(r.invocationDuration)
	reg.MustRegister(r.phase)
	reg.MustRegister(r.notifications)
	reg.MustRegister(r.wsClients)

	return r
}

// RecordRequest records metrics for an HTTP request.
func (r *Registry) RecordRequest(method, path string, status int, duration float64) {
	statusStr := statusToString(status)
	r.httpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	r.httpRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// InFlightInc increments in-flight requests.
func (r *Registry) InFlightInc() {
	r.httpRequestsInFlight.Inc()
}

// InFlightDec decrements in-flight requests.
func (r *Registry) InFlightDec() {
	r.httpRequestsInFlight.Dec()
}

// RecordCycle records a refresh cycle completion.
func (r *Registry) RecordCycle(d time.Duration) {
	r.cycles.Inc()
	r.cycleDuration.Observe(d.Seconds())
}

// RecordDecision records a trigger decision.
func (r *Registry) RecordDecision(reason string, run bool) {
	runStr := "false"
	if run {
		runStr = "true"
	}
	r.decisions.WithLabelValues(reason, runStr).Inc()
}

// RecordInvocation records a sentiment analysis call. outcome is "success",
// "error", "timeout" or "unavailable".
func (r *Registry) RecordInvocation(mode, outcome string, d time.Duration) {
	r.invocations.WithLabelValues(mode, outcome).Inc()
	r.invocationDuration.WithLabelValues(mode).Observe(d.Seconds())
}

// SetPhase marks phase as the active market phase.
func (r *Registry) SetPhase(phase string) {
	for _, p := range phases {
		v := 0.0
		if p == phase {
			v = 1
		}
		r.phase.WithLabelValues(p).Set(v)
	}
}

// RecordNotification records a notifier delivery.
func (r *Registry) RecordNotification(notifier, status string) {
	r.notifications.WithLabelValues(notifier, status).Inc()
}

// SetWebSocketClients sets the number of connected WebSocket clients.
func (r *Registry) SetWebSocketClients(n int) {
	r.wsClients.Set(float64(n))
}

func statusToString(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Handler returns the Prometheus exposition handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.Registry, promhttp.HandlerOpts{Registry: r.Registry})
}
