// Package metrics provides Prometheus instrumentation for the asset library.
//
// All metrics are prefixed with "asset_library_" and registered through
// promauto, so importing the package is enough to expose them on the
// /metrics endpoint the server binary starts when METRICS_ENABLED is true.
//
// # Metric Categories
//
// ## Catalog Metrics
//   - CatalogWritesTotal: whole-list writes by kind and status
//   - CatalogWriteDuration: write latency by kind
//   - CatalogPrunedTotal: orphaned records removed during reconciliation
//   - LibraryEntries: catalogued entries per kind (refreshed by Collector)
//
// ## Ingestion Metrics
//   - ImportsTotal, ImportDuration, ImportsInProgress
//   - FilesCopiedTotal, BytesCopiedTotal
//   - CleanupAttemptsTotal: best-effort removal of partial entries
//
// ## Thumbnail Metrics
//   - ThumbnailGenerationsTotal: attempts by source class and status
//   - ThumbnailGenerationDuration
//   - ThumbnailFallbacksTotal: decoder fallbacks (still -> wide_gamut, vips -> ffmpeg)
//   - ExternalToolDuration: ffmpeg, ffprobe and renderer invocations
//
// ## Export Metrics
//   - ExportsTotal, ExportBytes
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer implementation returned by
// NewFilesystemObserver, which keeps the filesystem package free of a
// Prometheus dependency.
package metrics
