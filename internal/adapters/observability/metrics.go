package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lite_pages/internal/domain"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lite", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lite", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	PageRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lite", Name: "page_renders_total", Help: "Rendered pages by kind and outcome."},
		[]string{"kind", "outcome"}, // kind: page|card|print|qr
	)
	AggregationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lite", Name: "aggregation_duration_seconds",
			Help:    "Content aggregation duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"}, // source: cache|store
	)
	ViewIncrements = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lite", Name: "view_increments_total", Help: "View counter updates."},
		[]string{"outcome"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "lite", Name: "cache_events_total", Help: "Cache hits/misses/sets."},
		[]string{"cache", "event"}, // event: hit|miss|set|error
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, PageRenders, AggregationLatency, ViewIncrements, CacheEvents)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// NewMetricsServer builds the standalone listener used when METRICS_ADDR is set.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObservePage(kind string, err error) {
	PageRenders.WithLabelValues(kind, LabelErr(err)).Inc()
}

func ObserveAggregation(source string, dur time.Duration) {
	AggregationLatency.WithLabelValues(source).Observe(dur.Seconds())
}

func ObserveView(err error) {
	ViewIncrements.WithLabelValues(LabelErr(err)).Inc()
}

func ObserveCache(cache, event string) {
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// LabelErr maps an error to a low-cardinality label.
func LabelErr(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAggregation):
		return "aggregation"
	case errors.Is(err, domain.ErrRender):
		return "render"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
