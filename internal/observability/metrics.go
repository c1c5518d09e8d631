package observability

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/bioof-backend/internal/platform/logger"
)

const namespace = "bioof"

type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	cacheLookups    *prometheus.CounterVec
	propagatedDocs  prometheus.Counter
	enrichmentGaps  prometheus.Counter
	storeUp         *prometheus.GaugeVec
	storePingSecond *prometheus.GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	v := strings.TrimSpace(os.Getenv("METRICS_ENABLED"))
	if v == "" {
		return false
	}
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}

// Current returns the process-wide metrics, or nil before Init.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide metrics once.
func Init(log *logger.Logger) *Metrics {
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("Prometheus metrics initialized")
		}
	})
	return instance
}

// New builds an independent metrics set on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency by method, route and status.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "api_inflight_requests",
			Help:      "HTTP requests currently being served.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gene_cache_lookups_total",
			Help:      "Gene cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		propagatedDocs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schema_propagated_documents_total",
			Help:      "Documents matched by schema evolution mass updates.",
		}),
		enrichmentGaps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_enrichment_gaps_total",
			Help:      "Similarity candidates dropped because no document matched the symbol.",
		}),
		storeUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_up",
			Help:      "Backing store connectivity (1=up, 0=down).",
		}, []string{"store"}),
		storePingSecond: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_ping_seconds",
			Help:      "Backing store ping latency in seconds.",
		}, []string{"store"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.cacheLookups,
		m.propagatedDocs,
		m.enrichmentGaps,
		m.storeUp,
		m.storePingSecond,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) IncCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) AddPropagatedDocuments(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.propagatedDocs.Add(float64(n))
}

func (m *Metrics) AddEnrichmentGaps(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.enrichmentGaps.Add(float64(n))
}

// Probe pings one backing store.
type Probe func(ctx context.Context) error

// StartStoreProbes pings every store on interval until ctx is done.
func (m *Metrics) StartStoreProbes(ctx context.Context, log *logger.Logger, interval time.Duration, probes map[string]Probe) {
	if m == nil || len(probes) == 0 {
		return
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			m.probeOnce(ctx, log, probes)
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
		}
	}()
}

func (m *Metrics) probeOnce(ctx context.Context, log *logger.Logger, probes map[string]Probe) {
	for name, probe := range probes {
		pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
		start := time.Now()
		err := probe(pctx)
		cancel()
		if err != nil {
			m.storeUp.WithLabelValues(name).Set(0)
			if log != nil {
				log.Warn("Store probe failed", "store", name, "error", err)
			}
			continue
		}
		m.storeUp.WithLabelValues(name).Set(1)
		m.storePingSecond.WithLabelValues(name).Set(time.Since(start).Seconds())
	}
}
