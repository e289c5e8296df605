package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report outcomes used as metric labels.
const (
	OutcomeSuccess      = "success"
	OutcomeInconsistent = "inconsistent"
	OutcomeFailed       = "failed"
	OutcomeCached       = "cached"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the report pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
	reportTotal     *prometheus.CounterVec
	chartDuration   *prometheus.HistogramVec
	droppedAnswers  prometheus.Counter
	unmatchedVotes  prometheus.Counter
	cleanedFiles    prometheus.Counter
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_generation_duration_seconds",
		Help:    "Duration of report generation by format and outcome",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"format", "outcome"})

	reportTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reports_generated_total",
		Help: "Reports generated by format and outcome",
	}, []string{"format", "outcome"})

	chartDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chart_render_duration_seconds",
		Help:    "Duration of chart rendering by chart kind",
		Buckets: prometheus.DefBuckets,
	}, []string{"chart"})

	droppedAnswers := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_dropped_answers_total",
		Help: "Answers dropped at ingestion because their references did not parse",
	})

	unmatchedVotes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_unmatched_votes_total",
		Help: "Votes referencing an alternative outside the period",
	})

	cleanedFiles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report_files_cleaned_total",
		Help: "Expired report files removed from storage",
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, reportDuration, reportTotal, chartDuration,
		droppedAnswers, unmatchedVotes, cleanedFiles,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		reportDuration:  reportDuration,
		reportTotal:     reportTotal,
		chartDuration:   chartDuration,
		droppedAnswers:  droppedAnswers,
		unmatchedVotes:  unmatchedVotes,
		cleanedFiles:    cleanedFiles,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveReport records one generation attempt.
func (m *MetricsService) ObserveReport(format, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(format, outcome).Observe(duration.Seconds())
	m.reportTotal.WithLabelValues(format, outcome).Inc()
}

// ObserveChart records the render time of one chart.
func (m *MetricsService) ObserveChart(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.chartDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordDataQuality adds dropped answers and unmatched votes of one report.
func (m *MetricsService) RecordDataQuality(dropped, unmatched int) {
	if m == nil {
		return
	}
	if dropped > 0 {
		m.droppedAnswers.Add(float64(dropped))
	}
	if unmatched > 0 {
		m.unmatchedVotes.Add(float64(unmatched))
	}
}

// RecordCleanup counts removed report files.
func (m *MetricsService) RecordCleanup(removed int) {
	if m == nil || removed <= 0 {
		return
	}
	m.cleanedFiles.Add(float64(removed))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}
