package telemetry

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the characterization service.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	analysesTotal    *prometheus.CounterVec
	assessmentsTotal *prometheus.CounterVec
	laudosTotal      *prometheus.CounterVec
	extractionsTotal *prometheus.CounterVec
}

func NewMetrics(service string) *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laudo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "laudo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "laudo",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laudo",
			Subsystem: "pipeline",
			Name:      "analyses_total",
			Help:      "Completed document analyses by quality tier.",
		},
		[]string{"service", "tier"},
	)
	assessmentsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laudo",
			Subsystem: "pipeline",
			Name:      "assessments_total",
			Help:      "Completed eligibility assessments by outcome.",
		},
		[]string{"service", "outcome"},
	)
	laudosTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laudo",
			Subsystem: "pipeline",
			Name:      "laudos_issued_total",
			Help:      "Issued laudos by PCD classification.",
		},
		[]string{"service", "pcd_status"},
	)
	extractionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "laudo",
			Subsystem: "pipeline",
			Name:      "extractions_total",
			Help:      "Document extractions by method and result.",
		},
		[]string{"service", "method", "result"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		analysesTotal,
		assessmentsTotal,
		laudosTotal,
		extractionsTotal,
	)

	return &Metrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		analysesTotal:    analysesTotal,
		assessmentsTotal: assessmentsTotal,
		laudosTotal:      laudosTotal,
		extractionsTotal: extractionsTotal,
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/laudos/"):
		return "/v1/laudos/{laudo_id}"
	case strings.HasPrefix(path, "/v1/cases/"):
		return "/v1/cases/{cpf}"
	default:
		return path
	}
}

func (m *Metrics) RecordAnalysis(service, tier string) {
	m.analysesTotal.WithLabelValues(service, tier).Inc()
}

func (m *Metrics) RecordAssessment(service, outcome string) {
	m.assessmentsTotal.WithLabelValues(service, outcome).Inc()
}

func (m *Metrics) RecordLaudo(service string, pcdStatus bool) {
	m.laudosTotal.WithLabelValues(service, strconv.FormatBool(pcdStatus)).Inc()
}

func (m *Metrics) RecordExtraction(service, method, result string) {
	if method == "" {
		method = "unknown"
	}
	m.extractionsTotal.WithLabelValues(service, method, result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
