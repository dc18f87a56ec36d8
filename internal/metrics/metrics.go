package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_library_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Catalog metrics
var (
	CatalogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_catalog_writes_total",
			Help: "Total number of whole-list catalog writes",
		},
		[]string{"kind", "status"},
	)

	CatalogWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_catalog_write_duration_seconds",
			Help:    "Catalog write duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	CatalogPrunedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_catalog_pruned_records_total",
			Help: "Total number of orphaned catalog records removed during reconciliation",
		},
		[]string{"kind"},
	)

	LibraryEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_library_entries",
			Help: "Number of catalogued entries per kind",
		},
		[]string{"kind"},
	)
)

// Ingestion metrics
var (
	ImportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_imports_total",
			Help: "Total number of import operations",
		},
		[]string{"kind", "status"},
	)

	ImportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_import_duration_seconds",
			Help:    "Duration of a complete import in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"kind"},
	)

	FilesCopiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_files_copied_total",
			Help: "Total number of source files copied into the content store",
		},
		[]string{"kind"},
	)

	BytesCopiedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_bytes_copied_total",
			Help: "Total number of bytes copied into the content store",
		},
		[]string{"kind"},
	)

	CleanupAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_cleanup_attempts_total",
			Help: "Best-effort removals of partially created entries",
		},
		[]string{"status"},
	)

	ImportsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "asset_library_imports_in_progress",
			Help: "Number of imports currently running",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_thumbnail_generations_total",
			Help: "Total number of thumbnail generation attempts",
		},
		[]string{"source", "status"},
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"source"},
	)

	ThumbnailFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_thumbnail_fallbacks_total",
			Help: "Number of times a decode strategy fell back to the next one",
		},
		[]string{"from", "to"},
	)

	ExternalToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_external_tool_duration_seconds",
			Help:    "Duration of ffmpeg, ffprobe and renderer invocations",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)
)

// Export metrics
var (
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_exports_total",
			Help: "Total number of zip exports",
		},
		[]string{"kind", "status"},
	)

	ExportBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asset_library_export_size_bytes",
			Help:    "Size of produced zip archives",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 10),
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asset_library_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_filesystem_retry_attempts_total",
			Help: "Total number of retried filesystem operations",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_filesystem_retry_success_total",
			Help: "Filesystem operations that succeeded after a retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_filesystem_retry_failures_total",
			Help: "Filesystem operations that failed after exhausting retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asset_library_filesystem_stale_errors_total",
			Help: "Stale file handle errors seen on network home directories",
		},
		[]string{"operation", "volume"},
	)
)

// App info
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "asset_library_app_info",
			Help: "Application build information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// ObserveSince records the seconds elapsed since start on a histogram vector.
func ObserveSince(h *prometheus.HistogramVec, start time.Time, labels ...string) {
	h.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
}

// StatusLabel maps an error to the "success"/"error" label pair used by
// the counters above.
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
