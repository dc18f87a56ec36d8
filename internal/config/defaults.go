package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Catalog backends.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

const (
	defaultMaxDimension = 512
	defaultCodecTimeout = 60
	defaultBatchSize    = 10
	defaultBind         = "127.0.0.1:7878"
	defaultMetricsBind  = "127.0.0.1:9478"
)

// Default returns a configuration populated with the built-in defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDir: defaultLibraryDir(),
		},
		Catalog: Catalog{
			Backend: BackendSQLite,
		},
		Thumbnails: Thumbnails{
			MaxDimension: defaultMaxDimension,
			CodecTimeout: defaultCodecTimeout,
			FFmpegPath:   "ffmpeg",
			FFprobePath:  "ffprobe",
		},
		Ingest: Ingest{
			BatchSize: defaultBatchSize,
		},
		Server: Server{
			Bind:            defaultBind,
			MetricsEnabled:  false,
			MetricsBind:     defaultMetricsBind,
			LogHealthChecks: false,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

func defaultLibraryDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "asset-library")
	}
	return "~/.local/share/asset-library"
}
