// Package metrics содержит Prometheus-метрики сервиса рекомендаций.
//
// Метрики регистрируются в глобальном реестре через promauto и отдаются на /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Статусы обработки запроса рекомендаций
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusUpstream = "upstream_error"
	StatusError    = "error"
)

var (
	// RecommendationsTotal: запросы рекомендаций по варианту, транспорту и итоговому статусу.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"variant", "transport", "status"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"variant", "transport"},
	)

	// RecommendationItems: сколько товаров вернули в ответе.
	RecommendationItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_items_returned",
			Help:    "Number of products returned per recommendation",
			Buckets: []float64{0, 1, 3, 5, 10, 20, 50},
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_catalog_products",
			Help: "Number of products in the last fetched catalog",
		},
	)

	// Внешние источники

	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_upstream_requests_total",
			Help: "Total number of requests to the shop API",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommender_upstream_duration_seconds",
			Help:    "Duration of shop API calls in seconds, retries included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// CircuitBreakerState: 0 = closed, 1 = half-open, 2 = open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommender_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Кэш каталога

	CatalogCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_catalog_cache_hits_total",
			Help: "Total number of catalog cache hits",
		},
	)

	CatalogCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_catalog_cache_misses_total",
			Help: "Total number of catalog cache misses",
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_events_published_total",
			Help: "Total number of recommendation events sent to Kafka",
		},
		[]string{"outcome"},
	)
)

// RecordRecommendation фиксирует результат одного запроса рекомендаций.
func RecordRecommendation(variant, transport, status string, items int, d time.Duration) {
	RecommendationsTotal.WithLabelValues(variant, transport, status).Inc()
	RecommendationDuration.WithLabelValues(variant, transport).Observe(d.Seconds())
	if status == StatusSuccess {
		RecommendationItems.Observe(float64(items))
	}
}

func RecordUpstream(endpoint string, err error, d time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func RecordCatalogCache(hit bool) {
	if hit {
		CatalogCacheHitsTotal.Inc()
		return
	}
	CatalogCacheMissesTotal.Inc()
}

func RecordEventPublished(err error) {
	if err != nil {
		EventsPublishedTotal.WithLabelValues("error").Inc()
		return
	}
	EventsPublishedTotal.WithLabelValues("ok").Inc()
}
