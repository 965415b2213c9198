package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latencies for the API server.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests handled, labeled by method, route, and status.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, duration)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// Observe records a completed request.
func (m *HTTPMetrics) Observe(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	method = normalizeLabel(method)
	route = normalizeLabel(route)
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CatalogMetrics counts catalog lifecycle events.
type CatalogMetrics struct {
	productsCreated prometheus.Counter
	productsDeleted prometheus.Counter
}

// NewCatalogMetrics registers the catalog counters on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "products_created_total",
		Help: "The total number of products created.",
	})
	deleted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "products_deleted_total",
		Help: "The total number of products deleted.",
	})
	reg.MustRegister(created, deleted)
	return &CatalogMetrics{
		productsCreated: created,
		productsDeleted: deleted,
	}
}

// IncProductsCreated increments the created-products counter.
func (m *CatalogMetrics) IncProductsCreated() {
	if m == nil || m.productsCreated == nil {
		return
	}
	m.productsCreated.Inc()
}

// IncProductsDeleted increments the deleted-products counter.
func (m *CatalogMetrics) IncProductsDeleted() {
	if m == nil || m.productsDeleted == nil {
		return
	}
	m.productsDeleted.Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
