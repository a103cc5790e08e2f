// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics collects and exposes Prometheus metrics for the API.

Two families are recorded:

  - HTTP: request counts and latencies labelled by chi route pattern.
  - Session: logins, session starts, expiry warnings and ends by reason.

The [Collector] registers into an injected [prometheus.Registerer], so tests
use a fresh registry and the server uses its own.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "collabconnect"

// Login outcomes.
const (
	LoginSucceeded = "success"
	LoginRejected  = "invalid_credentials"
	LoginFailed    = "error"
)

// Collector records HTTP and session metrics.
type Collector struct {
	registerer prometheus.Registerer

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	inFlight   prometheus.Gauge
	logins     *prometheus.CounterVec
	started    prometheus.Counter
	warnings   prometheus.Counter
	ended      *prometheus.CounterVec
	registered *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	collector := &Collector{
		registerer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions started by a successful login.",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_warnings_total",
			Help:      "Inactivity warnings delivered.",
		}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Sessions ended, by reason.",
		}, []string{"reason"}),
		registered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Accounts created, by resolved system role.",
		}, []string{"role"}),
	}

	reg.MustRegister(
		collector.requests,
		collector.latency,
		collector.inFlight,
		collector.logins,
		collector.started,
		collector.warnings,
		collector.ended,
		collector.registered,
	)

	return collector
}

// TrackActiveSessions exposes a gauge read from active at scrape time.
func (collector *Collector) TrackActiveSessions(active func() int) {
	collector.registerer.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Live session runtimes in this process.",
	}, func() float64 { return float64(active()) }))
}

// # Session Observer

// SessionStarted counts a new session.
func (collector *Collector) SessionStarted() { collector.started.Inc() }

// SessionWarned counts a delivered inactivity warning.
func (collector *Collector) SessionWarned() { collector.warnings.Inc() }

// SessionEnded counts an ended session.
func (collector *Collector) SessionEnded(reason string) {
	collector.ended.WithLabelValues(reason).Inc()
}

// # Auth Counters

// RecordLogin counts a login attempt.
func (collector *Collector) RecordLogin(outcome string) {
	collector.logins.WithLabelValues(outcome).Inc()
}

// RecordRegistration counts a created account by its system role.
func (collector *Collector) RecordRegistration(role string) {
	collector.registered.WithLabelValues(role).Inc()
}

// # HTTP

// Instrument measures every request. The route label is the chi pattern, so
// path parameters do not explode label cardinality.
func (collector *Collector) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		collector.inFlight.Inc()
		defer collector.inFlight.Dec()

		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		collector.requests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.code)).Inc()
		collector.latency.WithLabelValues(request.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.code = code
	writer.ResponseWriter.WriteHeader(code)
}

// Flush keeps event streams working through the wrapper.
func (writer *statusWriter) Flush() {
	if flusher, ok := writer.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Unwrap exposes the underlying writer to [http.ResponseController].
func (writer *statusWriter) Unwrap() http.ResponseWriter {
	return writer.ResponseWriter
}
