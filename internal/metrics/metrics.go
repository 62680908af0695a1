package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	RateLimitHitsTotal   *prometheus.CounterVec
	RateLimitErrorsTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// New - регистрирует коллекторы в reg (nil = дефолтный реестр)
func New(reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guru_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guru_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guru_requests_in_flight",
				Help: "Number of requests currently being processed",
			},
		),

		LLMRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guru_llm_requests_total",
				Help: "Total number of completion API requests",
			},
			[]string{"model", "status"},
		),
		LLMRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guru_llm_request_duration_seconds",
				Help:    "Completion API request duration in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model"},
		),

		RateLimitHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guru_rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		RateLimitErrorsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "guru_rate_limit_store_errors_total",
				Help: "Total number of rate limit store failures (request let through)",
			},
		),

		gatherer: gatherer,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(route, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *Metrics) RecordLLMRequest(model, status string, duration time.Duration) {
	m.LLMRequestsTotal.WithLabelValues(model, status).Inc()
	m.LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (m *Metrics) RecordRateLimitHit(route string) {
	m.RateLimitHitsTotal.WithLabelValues(route).Inc()
}

func (m *Metrics) RecordRateLimitError() {
	m.RateLimitErrorsTotal.Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}
