// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the authentication flows.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service registers. A single instance is
// shared through fx so that tests can build an isolated registry.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	loginsTotal        *prometheus.CounterVec
	tokenRefreshTotal  *prometheus.CounterVec
	passwordResetTotal *prometheus.CounterVec
}

// New builds and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		loginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_logins_total",
				Help: "Login attempts by outcome.",
			},
			[]string{"outcome"},
		),
		tokenRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_token_refresh_total",
				Help: "Refresh-token exchanges by outcome.",
			},
			[]string{"outcome"},
		),
		passwordResetTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_password_reset_total",
				Help: "Password reset requests and completions.",
			},
			[]string{"stage"},
		),
	}

	m.registry.MustRegister(
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.loginsTotal,
		m.tokenRefreshTotal,
		m.passwordResetTotal,
	)

	return m
}

// ObserveLogin records a login attempt outcome ("success" or "failure").
func (m *Metrics) ObserveLogin(outcome string) {
	m.loginsTotal.WithLabelValues(outcome).Inc()
}

// ObserveTokenRefresh records a refresh exchange outcome.
func (m *Metrics) ObserveTokenRefresh(outcome string) {
	m.tokenRefreshTotal.WithLabelValues(outcome).Inc()
}

// ObservePasswordReset records a reset-flow stage ("requested" or "completed").
func (m *Metrics) ObservePasswordReset(stage string) {
	m.passwordResetTotal.WithLabelValues(stage).Inc()
}

// Handler returns the scrape endpoint handler for the private registry.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})

	return func(c echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())

		return nil
	}
}

// Middleware instruments every request with RPS, latency and in-flight gauges.
// The route template is used as the path label to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.httpInFlight.Inc()
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			method := c.Request().Method
			label := strconv.Itoa(status)

			m.httpRequestDuration.WithLabelValues(method, path, label).Observe(duration)
			m.httpRequestsTotal.WithLabelValues(method, path, label).Inc()
			m.httpInFlight.Dec()

			return err
		}
	}
}
