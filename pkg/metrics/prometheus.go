package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	WebhooksProcessed prometheus.Counter
	WebhookDuplicates prometheus.Counter
	WebhookTime       prometheus.Histogram
	LookupOutcomes    *prometheus.CounterVec
	CacheOutcomes     *prometheus.CounterVec
	UpstreamErrors    *prometheus.CounterVec
	AlertsCreated     prometheus.Counter
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		WebhooksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhooks_processed_total",
			Help:      "The total number of processed flight webhooks",
		}),
		WebhookDuplicates: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_duplicates_total",
			Help:      "The total number of duplicate webhook deliveries",
		}),
		WebhookTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "webhook_processing_time_seconds",
			Help:      "Time taken to reconcile a webhook delivery",
			Buckets:   prometheus.DefBuckets,
		}),
		LookupOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_lookups_total",
			Help:      "Flight validation lookups by outcome",
		}, []string{"outcome"}),
		CacheOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_cache_total",
			Help:      "Validation cache lookups by result",
		}, []string{"result"}),
		UpstreamErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Aviation provider errors by HTTP status",
		}, []string{"status"}),
		AlertsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_created_total",
			Help:      "The total number of provider alert subscriptions created",
		}),
	}
}
