// Package prometheus registers and exposes the service metrics.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "caselens"

var (
	evaluationDurationBuckets = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60}
	httpDurationBuckets       = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	batchSizeBuckets          = []float64{1, 5, 10, 25, 50, 100, 250, 500}
)

// Metrics holds every collector the service exports.
type Metrics struct {
	registry *prometheus.Registry

	EvaluationsTotal    *prometheus.CounterVec
	EvaluationDuration  prometheus.Histogram
	EvaluationBatchSize prometheus.Histogram

	EmbeddingRequestsTotal *prometheus.CounterVec
	EmbeddingCacheHits     prometheus.Counter
	EmbeddingCacheMisses   prometheus.Counter

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		EvaluationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Batch evaluations by outcome.",
		}, []string{"status"}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of one batch evaluation.",
			Buckets:   evaluationDurationBuckets,
		}),
		EvaluationBatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_batch_size",
			Help:      "Number of test cases per evaluated batch.",
			Buckets:   batchSizeBuckets,
		}),

		EmbeddingRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Embedding provider calls by result.",
		}, []string{"result"}),
		EmbeddingCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_hits_total",
			Help:      "Embedding vectors served from cache.",
		}),
		EmbeddingCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_misses_total",
			Help:      "Embedding vectors that required a provider call.",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route.",
			Buckets:   httpDurationBuckets,
		}, []string{"method", "path"}),
	}
}

// ObserveEvaluation records one finished batch evaluation.
func (m *Metrics) ObserveEvaluation(status string, batchSize int, elapsed time.Duration) {
	m.EvaluationsTotal.WithLabelValues(status).Inc()
	m.EvaluationDuration.Observe(elapsed.Seconds())
	m.EvaluationBatchSize.Observe(float64(batchSize))
}

// ObserveEmbeddingRequest records one embedding provider call by result.
func (m *Metrics) ObserveEmbeddingRequest(result string) {
	m.EmbeddingRequestsTotal.WithLabelValues(result).Inc()
}

// AddEmbeddingCacheHits records vectors served from the cache.
func (m *Metrics) AddEmbeddingCacheHits(n int) {
	m.EmbeddingCacheHits.Add(float64(n))
}

// AddEmbeddingCacheMisses records vectors that required a provider call.
func (m *Metrics) AddEmbeddingCacheMisses(n int) {
	m.EmbeddingCacheMisses.Add(float64(n))
}

// ObserveHTTPRequest records one handled HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
