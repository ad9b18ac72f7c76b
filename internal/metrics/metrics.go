// Package metrics exposes service metrics in prometheus format
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nkiryanov/streamhub/internal/apperrors"
)

const namespace = "streamhub"

// Auth attempt outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // client side problem: bad credentials, token, input
	OutcomeError    = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	// Labels:
	//   - operation: "register", "login", "refresh"
	//   - outcome: "success", "rejected", "error"
	authAttempts *prometheus.CounterVec

	// Labels: method, route (chi route pattern), status
	httpRequests *prometheus.CounterVec

	// Labels: method, route
	httpDuration *prometheus.HistogramVec
}

// New creates metrics registered in own registry with go runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		authAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total number of register, login and refresh attempts",
			},
			[]string{"operation", "outcome"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of handled HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				// bcrypt dominates auth routes, so buckets go up to a few seconds
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
	}
}

// AuthAttempt records outcome of auth operation
func (m *Metrics) AuthAttempt(operation string, err error) {
	m.authAttempts.WithLabelValues(operation, outcome(err)).Inc()
}

// ObserveRequest records finished HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the registry in exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrConflict):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}
