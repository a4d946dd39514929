package metrics

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/bmi-api/internal/redact"
)

const (
	metricPrefix = "bmi_"

	// ResultSuccess and ResultError label the outcome of an operation.
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder holds the collectors registered for one process.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	gatherer prometheus.Gatherer

	operations       *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors with reg.
// When reg is also a prometheus.Gatherer, Handler serves its contents.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total service operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		operationLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "operation_latency_seconds",
				Help:    "Service operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		r.operations,
		r.operationLatency,
		r.httpRequests,
		r.httpLatency,
	)

	if g, ok := reg.(prometheus.Gatherer); ok {
		r.gatherer = g
	}
	return r
}

// ObserveOperation records the duration and result of a service operation.
func (r *Recorder) ObserveOperation(operation string, err error, duration time.Duration) {
	if r == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.operations.WithLabelValues(operation, result).Inc()
	r.operationLatency.WithLabelValues(operation, result).Observe(duration.Seconds())
}

// Middleware counts requests by chi route pattern, so path parameters do not
// explode label cardinality.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		route := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		r.httpRequests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
		r.httpLatency.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registered metrics in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil || r.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}

// RegisterDB adds connection pool statistics and a stored-measurement gauge
// for db to reg.
func RegisterDB(reg prometheus.Registerer, db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	reg.MustRegister(collectors.NewDBStatsCollector(db, "bmi"))
	reg.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: metricPrefix + "measurements_stored",
			Help: "Measurements currently stored",
		},
		func() float64 {
			return queryCount(db, logger, "SELECT COUNT(*) FROM measurements")
		},
	))
}

func queryCount(db *sql.DB, logger *slog.Logger, query string) float64 {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		logger.Warn("metrics query failed", "error", redact.Error(err))
		return 0
	}
	if count < 0 {
		return 0
	}
	return float64(count)
}
