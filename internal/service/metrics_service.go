package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/larissaOjeda/thesis-canvas/internal/models"
)

// counterPair tracks an event count and its summed duration so Snapshot
// can report averages without scraping the registry.
type counterPair struct {
	count   uint64
	totalNs uint64
}

func (c *counterPair) add(d time.Duration) {
	atomic.AddUint64(&c.count, 1)
	atomic.AddUint64(&c.totalNs, uint64(d.Nanoseconds()))
}

func (c *counterPair) averageMs() (uint64, float64) {
	n := atomic.LoadUint64(&c.count)
	if n == 0 {
		return 0, 0
	}
	total := atomic.LoadUint64(&c.totalNs)
	return n, float64(total) / float64(n) / float64(time.Millisecond)
}

// MetricsService owns the Prometheus registry and keeps cheap atomic
// aggregates for the system KPI endpoint.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec
	kpiComputeTime  *prometheus.HistogramVec

	hits     uint64
	misses   uint64
	requests counterPair
	dbQuery  counterPair
}

// NewMetricsService builds a registry with this service's collectors.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		kpiComputeTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kpi_compute_duration_seconds",
			Help:    "Duration of KPI computations including data loading",
			Buckets: prometheus.DefBuckets,
		}, []string{"kpi"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 { return float64(runtime.NumGoroutine()) })

	m.registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheHitRatio, m.cacheHits, m.cacheMisses,
		m.dbQueryDuration, m.kpiComputeTime,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// Handler exposes the Prometheus scrape handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one completed request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
	m.requests.add(d)
}

// RecordCacheOperation records one cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, d time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(d.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.hits, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.misses, 1)
	}
	hits := atomic.LoadUint64(&m.hits)
	if total := hits + atomic.LoadUint64(&m.misses); total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite records one cache set.
func (m *MetricsService) ObserveCacheWrite(d time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(d.Seconds())
}

// ObserveDBQuery records one database query under the given label.
func (m *MetricsService) ObserveDBQuery(label string, d time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(d.Seconds())
	m.dbQuery.add(d)
}

// ObserveKPICompute records end-to-end timing for one KPI, loading included.
func (m *MetricsService) ObserveKPICompute(kpi string, d time.Duration) {
	if m == nil {
		return
	}
	m.kpiComputeTime.WithLabelValues(kpi).Observe(d.Seconds())
}

// Snapshot returns the aggregate view served by the system KPI endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.hits)
	misses := atomic.LoadUint64(&m.misses)
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	requests, avgRequestMs := m.requests.averageMs()
	dbCount, avgDBMs := m.dbQuery.averageMs()

	return models.SystemMetrics{
		CacheHitRatio:            ratio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
