// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the HTTP surface and the
security pipeline.

Collected series:

  - portfolio_http_requests_total{method,route,status}
  - portfolio_http_request_duration_seconds{method,route,status}
  - portfolio_security_decisions_total{stage,outcome}
  - portfolio_ratelimit_store_fallbacks_total

Metrics are registered on an explicit [prometheus.Registerer] so tests can use
an isolated registry. Every method is safe on a nil *Metrics.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Stages and Outcomes

const (
	StageCORS      = "cors"
	StageRateLimit = "ratelimit"
	StageAuthn     = "authn"
	StageAuthz     = "authz"
	StageHandler   = "handler"

	OutcomeAllowed  = "allowed"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics owns every collector of the service.
type Metrics struct {
	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	securityDecisions   *prometheus.CounterVec
	storeFallbacks      prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors on registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		httpInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portfolio_http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		securityDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_security_decisions_total",
			Help: "Security pipeline decisions by stage and outcome.",
		}, []string{"stage", "outcome"}),
		storeFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_ratelimit_store_fallbacks_total",
			Help: "Rate-limit operations served by the local fallback store.",
		}),
		gatherer: registry,
	}
}

// NewWithRuntime registers the service collectors plus the Go runtime and process collectors.
func NewWithRuntime(registry *prometheus.Registry) *Metrics {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(registry)
}

// Decision counts one security pipeline outcome.
func (m *Metrics) Decision(stage, outcome string) {
	if m == nil {
		return
	}
	m.securityDecisions.WithLabelValues(stage, outcome).Inc()
}

// StoreFallback counts one operation served by the fallback rate-limit store.
func (m *Metrics) StoreFallback() {
	if m == nil {
		return
	}
	m.storeFallbacks.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// # HTTP Instrumentation

// Instrument records count, latency and in-flight gauge labelled by chi route pattern.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		startTime := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		labels := []string{request.Method, routePattern(request), strconv.Itoa(recorder.code)}
		m.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
		m.httpRequestsTotal.WithLabelValues(labels...).Inc()
	})
}

// routePattern keeps label cardinality bounded when the router has no match.
func routePattern(request *http.Request) string {
	if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
		if pattern := routeContext.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(body []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(body)
}
