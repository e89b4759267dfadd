package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Request pipeline metrics
	APIRequests  *prometheus.CounterVec
	APIDuration  *prometheus.HistogramVec
	APIRetries   prometheus.Counter
	APITransport *prometheus.CounterVec

	// Token refresh metrics
	RefreshAttempts *prometheus.CounterVec
	RefreshShared   prometheus.Counter

	// Session metrics
	SessionTransitions *prometheus.CounterVec
	LoginAttempts      *prometheus.CounterVec

	// Reference server metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	AuthAttempts *prometheus.CounterVec
}

// New creates all metrics on the default Prometheus registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics on the given registerer. Tests pass a fresh
// registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_api_requests_total",
				Help: "Total outbound API requests by method and status",
			},
			[]string{"method", "status"},
		),
		APIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authgate_api_request_duration_seconds",
				Help:    "Outbound API request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		APIRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "authgate_api_retries_total",
			Help: "Total requests retried after a token refresh",
		}),
		APITransport: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_api_transport_errors_total",
				Help: "Total outbound transport errors by method",
			},
			[]string{"method"},
		),

		RefreshAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_token_refresh_total",
				Help: "Total token refresh calls by outcome",
			},
			[]string{"outcome"},
		),
		RefreshShared: factory.NewCounter(prometheus.CounterOpts{
			Name: "authgate_token_refresh_shared_total",
			Help: "Total requests that awaited an already in-flight refresh",
		}),

		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_session_transitions_total",
				Help: "Total session state transitions by target status",
			},
			[]string{"status"},
		),
		LoginAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_login_attempts_total",
				Help: "Total client login attempts by outcome",
			},
			[]string{"outcome"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_http_requests_total",
				Help: "Total HTTP requests served by the reference server",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "authgate_http_request_duration_seconds",
				Help:    "Reference server request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authgate_auth_attempts_total",
				Help: "Total server-side authentication attempts by outcome",
			},
			[]string{"endpoint", "outcome"},
		),
	}
}
