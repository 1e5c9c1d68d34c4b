package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the generation pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	jobSubmissions  prometheus.Counter
	jobOutcomes     *prometheus.CounterVec
	pollTicks       prometheus.Counter
	solverLatency   *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	jobSubmissions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_submissions_total",
		Help: "Total generation jobs submitted to the solver",
	})

	jobOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "generation_outcomes_total",
		Help: "Terminal generation job outcomes by state",
	}, []string{"state"})

	pollTicks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generation_poll_ticks_total",
		Help: "Total status polls issued against the solver",
	})

	solverLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solver_request_duration_seconds",
		Help:    "Latency of solver HTTP calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, jobSubmissions, jobOutcomes, pollTicks, solverLatency, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		jobSubmissions:  jobSubmissions,
		jobOutcomes:     jobOutcomes,
		pollTicks:       pollTicks,
		solverLatency:   solverLatency,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSubmission counts one generation job submission.
func (m *MetricsService) RecordSubmission() {
	if m == nil {
		return
	}
	m.jobSubmissions.Inc()
}

// RecordOutcome counts a terminal job state.
func (m *MetricsService) RecordOutcome(state string) {
	if m == nil {
		return
	}
	m.jobOutcomes.WithLabelValues(state).Inc()
}

// RecordPollTick counts one status poll against the solver.
func (m *MetricsService) RecordPollTick() {
	if m == nil {
		return
	}
	m.pollTicks.Inc()
}

// ObserveSolverCall records the latency of one solver HTTP call.
func (m *MetricsService) ObserveSolverCall(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.solverLatency.WithLabelValues(operation).Observe(duration.Seconds())
}
