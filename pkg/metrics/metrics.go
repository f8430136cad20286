package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry is the registry served on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Buckets tuned for store reads (ms) up to LLM round trips (tens of seconds)
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Document store metrics
	StoreRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Document store operation duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"store", "operation", "status"},
	)

	StoreRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_client_operation_total",
			Help: "Total number of document store operations",
		},
		[]string{"store", "operation", "status"},
	)

	// Cache Metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	CacheSize = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Number of entries in cache",
		},
		[]string{"cache_name"},
	)

	// Outbound service metrics (relay, LLM)
	UpstreamRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_client_request_duration_seconds",
			Help:    "Outbound request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"service", "status"},
	)

	// Business Metrics
	FormResolutions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shabad_form_resolutions_total",
			Help: "Inquiry form resolutions by outcome (primary, fallback, unavailable)",
		},
		[]string{"outcome"},
	)

	FormSubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shabad_form_submissions_total",
			Help: "Dynamic form submit attempts by outcome",
		},
		[]string{"outcome"},
	)

	InquirySubmissions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shabad_inquiry_submissions_total",
			Help: "Inquiries relayed by status",
		},
		[]string{"status"},
	)

	SuggestionRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shabad_suggestion_requests_total",
			Help: "AI paper suggestion requests by status",
		},
		[]string{"status"},
	)

	AnonymousSessions = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "shabad_anonymous_sessions_issued_total",
			Help: "Anonymous sessions issued",
		},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics collects infrastructure metrics periodically until stop is closed
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}

// RecordStoreOperation records duration and count for a document store call
func RecordStoreOperation(store, operation, status string, duration float64) {
	StoreRequestDuration.WithLabelValues(store, operation, status).Observe(duration)
	StoreRequestTotal.WithLabelValues(store, operation, status).Inc()
}
