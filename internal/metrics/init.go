package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	kinds := []string{"assets", "textures", "stockshots"}
	statuses := []string{"success", "error"}

	for _, kind := range kinds {
		for _, status := range statuses {
			CatalogWritesTotal.WithLabelValues(kind, status)
			ImportsTotal.WithLabelValues(kind, status)
			ExportsTotal.WithLabelValues(kind, status)
		}
		ImportsTotal.WithLabelValues(kind, "canceled")
		CatalogWriteDuration.WithLabelValues(kind)
		CatalogPrunedTotal.WithLabelValues(kind)
		LibraryEntries.WithLabelValues(kind)
		ImportDuration.WithLabelValues(kind)
		FilesCopiedTotal.WithLabelValues(kind)
		BytesCopiedTotal.WithLabelValues(kind)
	}

	for _, status := range statuses {
		CleanupAttemptsTotal.WithLabelValues(status)
	}

	sources := []string{"video", "still", "wide_gamut", "sequence", "model", "encoded"}
	for _, source := range sources {
		ThumbnailGenerationDuration.WithLabelValues(source)
		for _, status := range statuses {
			ThumbnailGenerationsTotal.WithLabelValues(source, status)
		}
	}

	ThumbnailFallbacksTotal.WithLabelValues("still", "wide_gamut")
	ThumbnailFallbacksTotal.WithLabelValues("vips", "ffmpeg")
	ThumbnailFallbacksTotal.WithLabelValues("seek", "first_frame")

	for _, tool := range []string{"ffmpeg", "ffprobe", "renderer"} {
		ExternalToolDuration.WithLabelValues(tool)
	}

	volumes := []string{"assets", "textures", "stockshots", "catalog", "unknown"}
	fsOps := []string{"stat", "readdir", "write", "copy", "remove"}
	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
		for _, op := range []string{"stat", "readdir"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
		}
	}
}
