package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "dailygoals",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dailygoals",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dailygoals",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	tokensIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dailygoals",
			Subsystem: "tokens",
			Name:      "issued_total",
			Help:      "Total number of issued tokens by kind.",
		},
		[]string{"kind"},
	)

	tokenRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dailygoals",
			Subsystem: "tokens",
			Name:      "rejections_total",
			Help:      "Access tokens rejected by the auth gate, by reason.",
		},
		[]string{"reason"},
	)

	tokensPurged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dailygoals",
			Subsystem: "tokens",
			Name:      "purged_total",
			Help:      "Dead tokens deleted by the purge job.",
		},
		[]string{"kind"},
	)

	goalUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dailygoals",
			Subsystem: "goals",
			Name:      "upserts_total",
			Help:      "Daily goal upserts by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		tokensIssued,
		tokenRejections,
		tokensPurged,
		goalUpserts,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps next with HTTP metrics collection. The route label
// is the matched chi pattern, so ids never become label values.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := routePattern(r)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

func RecordTokenIssued(kind string) {
	tokensIssued.WithLabelValues(kind).Inc()
}

func RecordTokenRejected(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	tokenRejections.WithLabelValues(reason).Inc()
}

func RecordTokensPurged(kind string, n int64) {
	if n <= 0 {
		return
	}
	tokensPurged.WithLabelValues(kind).Add(float64(n))
}

func RecordGoalUpsert(inserted bool) {
	result := "updated"
	if inserted {
		result = "inserted"
	}
	goalUpserts.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
