// Package metrics provides Prometheus instrumentation for the storefront:
// the standard HTTP metrics plus counters for the shopping flow (cart
// mutations, orders placed, feedback reminders, KV hits and misses).
//
// Wire it up once at bootstrap:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, route path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jaivik",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jaivik",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// CartOps counts cart mutations by operation.
	CartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "cart",
			Name:      "operations_total",
			Help:      "Total cart mutations.",
		},
		[]string{"op"}, // "add" | "remove" | "set_quantity" | "clear"
	)

	// OrdersPlaced counts placed orders by result.
	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "orders",
			Name:      "placed_total",
			Help:      "Total order placement attempts.",
		},
		[]string{"result"}, // "ok" | "rejected"
	)

	// FeedbackReminders counts reminder lifecycle transitions.
	FeedbackReminders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "feedback",
			Name:      "reminders_total",
			Help:      "Feedback reminder transitions.",
		},
		[]string{"stage"}, // "scheduled" | "prompted" | "purged"
	)

	// KVHits / KVMisses track document store effectiveness.
	KVHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "kv",
			Name:      "hits_total",
			Help:      "Total KV document hits.",
		},
		[]string{"kind"}, // "cart" | "profile" | "orders" | "feedback"
	)
	KVMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "kv",
			Name:      "misses_total",
			Help:      "Total KV document misses.",
		},
		[]string{"kind"},
	)

	// QueueJobsProcessed counts processed queue jobs by status.
	QueueJobsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jaivik",
			Subsystem: "queue",
			Name:      "jobs_processed_total",
			Help:      "Total queue jobs processed.",
		},
		[]string{"status"}, // "success" | "failed"
	)

	// QueueJobDuration tracks how long queue jobs take.
	QueueJobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jaivik",
			Subsystem: "queue",
			Name:      "job_duration_seconds",
			Help:      "Duration of queue job processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"job_type"},
	)
)

// DefaultRegistry is the Prometheus registry the app registers against.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		CartOps,
		OrdersPlaced,
		FeedbackReminders,
		KVHits,
		KVMisses,
		QueueJobsProcessed,
		QueueJobDuration,
	)
}

// MustRegister adds collectors to the default registry, panicking on clash.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// responseRecorder wraps http.ResponseWriter to capture the status code.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration, total count and in-flight gauge for
// every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus metrics page. Mount on GET /metrics.
func Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}

// RecordQueueJob records a queue job result.
func RecordQueueJob(jobType, status string, start time.Time) {
	QueueJobsProcessed.WithLabelValues(status).Inc()
	QueueJobDuration.WithLabelValues(jobType).Observe(time.Since(start).Seconds())
}
