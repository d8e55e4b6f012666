package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Damage calculator metrics
var (
	DamageCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDamageCacheHits,
			Help: HelpTextDamageCacheHits,
		},
	)

	DamageCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameDamageCacheMisses,
			Help: HelpTextDamageCacheMisses,
		},
	)

	CatalogMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogMisses,
			Help: HelpTextCatalogMisses,
		},
		[]string{LabelKind},
	)

	HitsResolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHitsResolved,
			Help: HelpTextHitsResolved,
		},
	)
)

// Sync metrics
var (
	FlushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFlushesTotal,
			Help: HelpTextFlushesTotal,
		},
	)

	FlushBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameFlushBatchSize,
			Help:    HelpTextFlushBatchSize,
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	ImmediateSends = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameImmediateSends,
			Help: HelpTextImmediateSends,
		},
	)

	BatchesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBatchesReceived,
			Help: HelpTextBatchesReceived,
		},
	)

	BatchesMalformed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameBatchesMalformed,
			Help: HelpTextBatchesMalformed,
		},
	)

	PeersReached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePeersReached,
			Help: HelpTextPeersReached,
		},
	)

	PeerSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePeerSendFailures,
			Help: HelpTextPeerSendFailures,
		},
	)

	ConnectedPeers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameConnectedPeers,
			Help: HelpTextConnectedPeers,
		},
	)
)

// Event metrics
var (
	NotificationsSuppressed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotifySuppressed,
			Help: HelpTextNotifySuppressed,
		},
		[]string{LabelType},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerError,
			Help: HelpTextEventHandlerError,
		},
		[]string{LabelType},
	)
)
