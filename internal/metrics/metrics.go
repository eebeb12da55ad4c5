package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiscoverySearchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmosh_discovery_searches_total",
		Help: "Discovery searches by outcome (idle, ok, unavailable).",
	}, []string{"status"})

	DiscoveryDroppedRecordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmosh_discovery_dropped_records_total",
		Help: "Metadata records dropped because they had no usable title or could not be decoded.",
	})

	LookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookmosh_lookup_duration_seconds",
		Help:    "Duration of outbound metadata lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmosh_http_requests_total",
		Help: "Total number of HTTP requests served.",
	}, []string{"method", "status"})

	RealtimeSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bookmosh_realtime_subscribers",
		Help: "Currently registered realtime subscriptions.",
	})
)

var (
	PitMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmosh_pit_messages_total",
		Help: "Messages posted to pits.",
	})

	PollerQueryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmosh_poller_query_errors_total",
		Help: "Failed poller queries by query name.",
	}, []string{"query"})
)
