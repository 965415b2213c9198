package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/products/mine", 200, 150*time.Millisecond)
	m.Observe("GET", "/api/v1/products/mine", 200, 50*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	var sawCounter, sawHistogram bool
	for _, mf := range mfs {
		switch mf.GetName() {
		case "http_requests_total":
			sawCounter = true
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected 2 requests, got %f", got)
			}
		case "http_request_duration_seconds":
			sawHistogram = true
			if got := mf.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
				t.Fatalf("expected 2 samples, got %d", got)
			}
		}
	}
	if !sawCounter || !sawHistogram {
		t.Fatalf("missing metric families: counter=%v histogram=%v", sawCounter, sawHistogram)
	}
}

func TestCatalogMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogMetrics(reg)

	m.IncProductsCreated()
	m.IncProductsCreated()
	m.IncProductsDeleted()

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		switch mf.GetName() {
		case "products_created_total":
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 2 {
				t.Fatalf("expected created=2, got %f", got)
			}
		case "products_deleted_total":
			if got := mf.GetMetric()[0].GetCounter().GetValue(); got != 1 {
				t.Fatalf("expected deleted=1, got %f", got)
			}
		}
	}
}

func TestNilReceiversAreSafe(t *testing.T) {
	var h *HTTPMetrics
	h.Observe("GET", "/", 200, time.Millisecond)

	var c *CatalogMetrics
	c.IncProductsCreated()
	c.IncProductsDeleted()
}
