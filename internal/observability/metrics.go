package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects Prometheus metrics for the application.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	importRows    *prometheus.CounterVec
	importBatches *prometheus.CounterVec
	lockWaits     *prometheus.HistogramVec
}

// NewMetrics initialises the registry and base metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waybill_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "waybill_http_request_duration_seconds",
		Help:    "HTTP request duration per route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waybill_import_rows_total",
		Help: "Imported CSV rows by result (success or error).",
	}, []string{"result"})
	importBatches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "waybill_import_batches_total",
		Help: "Import batches by outcome (committed or aborted).",
	}, []string{"outcome"})
	lockWaits := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "waybill_named_lock_wait_seconds",
		Help:    "Time spent waiting for a named lock, by acquisition result.",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
	}, []string{"acquired"})
	registry.MustRegister(requests, duration, importRows, importBatches, lockWaits)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		importRows:      importRows,
		importBatches:   importBatches,
		lockWaits:       lockWaits,
	}
}

// Handler returns the http.Handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveImportRows records per-row import results for a finished batch.
func (m *Metrics) ObserveImportRows(success, failed int) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues("success").Add(float64(success))
	m.importRows.WithLabelValues("error").Add(float64(failed))
}

// ObserveImportBatch records a batch outcome.
func (m *Metrics) ObserveImportBatch(committed bool) {
	if m == nil {
		return
	}
	outcome := "committed"
	if !committed {
		outcome = "aborted"
	}
	m.importBatches.WithLabelValues(outcome).Inc()
}

// ObserveLockWait records how long a caller waited on a named lock.
func (m *Metrics) ObserveLockWait(acquired bool, waited time.Duration) {
	if m == nil {
		return
	}
	m.lockWaits.WithLabelValues(strconv.FormatBool(acquired)).Observe(waited.Seconds())
}

// Middleware records metrics for every HTTP request.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Registerer exposes the registry for custom metric registration.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
