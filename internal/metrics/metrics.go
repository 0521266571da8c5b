package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videolib_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_rate_limited_requests_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"backend"},
	)

	// Library Metrics
	VideosCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videolib_videos_created_total",
			Help: "Total number of videos created",
		},
	)

	CollectionSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videolib_collection_size",
			Help: "Number of videos in the collection at the last load or save",
		},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_validation_failures_total",
			Help: "Schema validation failures by stage (request, record, invariant)",
		},
		[]string{"stage"},
	)

	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_search_queries_total",
			Help: "Server-side search queries by outcome",
		},
		[]string{"outcome"},
	)

	// Store Metrics
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videolib_store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"operation"},
	)

	StoreBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_store_bytes_total",
			Help: "Bytes read from or written to the collection file",
		},
		[]string{"operation"},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_events_published_total",
			Help: "Domain events published to the message broker",
		},
		[]string{"event", "status"},
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videolib_errors_total",
			Help: "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)
)

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordRateLimited records a rejected request
func RecordRateLimited(backend string) {
	RateLimitedTotal.WithLabelValues(backend).Inc()
}

// RecordVideoCreated records a successful creation
func RecordVideoCreated() {
	VideosCreatedTotal.Inc()
}

// SetCollectionSize updates the collection size gauge
func SetCollectionSize(n int) {
	CollectionSize.Set(float64(n))
}

// RecordValidationFailure records a schema failure at the given stage
func RecordValidationFailure(stage string) {
	ValidationFailuresTotal.WithLabelValues(stage).Inc()
}

// RecordSearch records a server-side search
func RecordSearch(hasResults bool) {
	outcome := "empty"
	if hasResults {
		outcome = "matched"
	}
	SearchQueriesTotal.WithLabelValues(outcome).Inc()
}

// RecordStoreOperation records a store operation
func RecordStoreOperation(operation, status string, duration float64, bytes int64) {
	StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	StoreOperationDuration.WithLabelValues(operation).Observe(duration)
	StoreBytesTotal.WithLabelValues(operation).Add(float64(bytes))
}

// RecordEventPublished records a publish attempt
func RecordEventPublished(event, status string) {
	EventsPublishedTotal.WithLabelValues(event, status).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
