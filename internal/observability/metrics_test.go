package observability

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IncCacheLookup("hit")
	m.AddPropagatedDocuments(3)
	m.AddEnrichmentGaps(1)
}

func TestMetricsRecordAndExpose(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/hybrid-query", "200", 20*time.Millisecond)
	m.ObserveAPI("GET", "/api/hybrid-query", "200", 30*time.Millisecond)
	m.IncCacheLookup("miss")
	m.AddPropagatedDocuments(150)
	m.AddPropagatedDocuments(0)

	if got := promtestutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/hybrid-query", "200")); got != 2 {
		t.Fatalf("api requests = %v", got)
	}
	if got := promtestutil.ToFloat64(m.propagatedDocs); got != 150 {
		t.Fatalf("propagated docs = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`bioof_api_requests_total{method="GET",route="/api/hybrid-query",status="200"} 2`,
		`bioof_gene_cache_lookups_total{result="miss"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestProbeOnce(t *testing.T) {
	m := New()
	m.probeOnce(context.Background(), nil, map[string]Probe{
		"postgres": func(context.Context) error { return nil },
		"mongo":    func(context.Context) error { return errors.New("down") },
	})
	if got := promtestutil.ToFloat64(m.storeUp.WithLabelValues("postgres")); got != 1 {
		t.Fatalf("postgres up = %v", got)
	}
	if got := promtestutil.ToFloat64(m.storeUp.WithLabelValues("mongo")); got != 0 {
		t.Fatalf("mongo up = %v", got)
	}
}
