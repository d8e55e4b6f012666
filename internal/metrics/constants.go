package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Damage calculator metric names
const (
	MetricNameDamageCacheHits   = "damage_cache_hits_total"
	MetricNameDamageCacheMisses = "damage_cache_misses_total"
	MetricNameCatalogMisses     = "catalog_misses_total"
	MetricNameHitsResolved      = "hits_resolved_total"
)

// Sync metric names
const (
	MetricNameFlushesTotal      = "damage_flushes_total"
	MetricNameFlushBatchSize    = "damage_flush_batch_size"
	MetricNameImmediateSends    = "damage_immediate_sends_total"
	MetricNameBatchesReceived   = "damage_batches_received_total"
	MetricNameBatchesMalformed  = "damage_batches_malformed_total"
	MetricNamePeersReached      = "broadcast_peers_reached_total"
	MetricNamePeerSendFailures  = "broadcast_peer_send_failures_total"
	MetricNameConnectedPeers    = "connected_peers"
	MetricNameNotifySuppressed  = "notifications_suppressed_total"
	MetricNameEventsPublished   = "events_published_total"
	MetricNameEventHandlerError = "event_handler_errors_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Damage calculator metric help text
const (
	HelpTextDamageCacheHits   = "Total number of damage computations served from cache"
	HelpTextDamageCacheMisses = "Total number of damage computations that ran the full formula"
	HelpTextCatalogMisses     = "Total number of weapon profile lookups that missed the catalog"
	HelpTextHitsResolved      = "Total number of combat hits resolved"
)

// Sync metric help text
const (
	HelpTextFlushesTotal      = "Total number of pending-damage ledger flushes"
	HelpTextFlushBatchSize    = "Number of entries per flushed damage batch"
	HelpTextImmediateSends    = "Total number of unbatched immediate damage sends"
	HelpTextBatchesReceived   = "Total number of damage batches received from peers"
	HelpTextBatchesMalformed  = "Total number of received damage batches dropped as malformed"
	HelpTextPeersReached      = "Total number of peers reached by damage broadcasts"
	HelpTextPeerSendFailures  = "Total number of per-peer broadcast send failures"
	HelpTextConnectedPeers    = "Current number of connected peers"
	HelpTextNotifySuppressed  = "Total number of damage notifications suppressed by throttling"
	HelpTextEventsPublished   = "Total number of events published"
	HelpTextEventHandlerError = "Total number of event handler errors"
)

// Metric label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelKind   = "kind"
)
