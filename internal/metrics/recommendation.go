package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recommendation pipeline Prometheus metrics.
var (
	ScoringRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookrec",
			Name:      "scoring_requests_total",
			Help:      "Total number of scoring backend requests",
		},
		[]string{"backend", "status"},
	)

	ScoringRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookrec",
			Name:      "scoring_request_duration_seconds",
			Help:      "Scoring backend request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	FallbackResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bookrec",
			Name:      "fallback_responses_total",
			Help:      "Total number of responses served from the fallback catalog",
		},
	)

	RecommendationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookrec",
			Name:      "recommendation_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	CorpusBooksIndexed = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "bookrec",
			Name:      "corpus_books_indexed",
			Help:      "Number of books in the active corpus index",
		},
	)
)

var recMetricsRegistered bool

// RegisterRecommendationMetrics registers Prometheus recommendation metrics. Must be called once from main.
func RegisterRecommendationMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScoringRequestsTotal)
	prometheus.MustRegister(ScoringRequestDuration)
	prometheus.MustRegister(FallbackResponsesTotal)
	prometheus.MustRegister(RecommendationCacheTotal)
	prometheus.MustRegister(CorpusBooksIndexed)
	recMetricsRegistered = true
}
