package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"asset-library/internal/logging"
)

// applyEnv layers environment overrides on top of the file values.
func (c *Config) applyEnv() {
	c.Paths.LibraryDir = getEnv("ASSET_LIBRARY_DIR", c.Paths.LibraryDir)
	c.Catalog.Backend = getEnv("ASSET_LIBRARY_CATALOG_BACKEND", c.Catalog.Backend)
	c.Server.Bind = getEnv("ASSET_LIBRARY_BIND", c.Server.Bind)
	c.Server.MetricsBind = getEnv("METRICS_BIND", c.Server.MetricsBind)
	c.Server.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.Server.MetricsEnabled)
	c.Server.LogHealthChecks = getEnvBool("LOG_HEALTH_CHECKS", c.Server.LogHealthChecks)
	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Thumbnails.FFmpegPath = getEnv("FFMPEG_PATH", c.Thumbnails.FFmpegPath)
	c.Thumbnails.FFprobePath = getEnv("FFPROBE_PATH", c.Thumbnails.FFprobePath)
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}

	c.Catalog.Backend = strings.ToLower(strings.TrimSpace(c.Catalog.Backend))
	if c.Catalog.Backend == "" {
		c.Catalog.Backend = BackendSQLite
	}

	if c.Thumbnails.MaxDimension <= 0 {
		c.Thumbnails.MaxDimension = defaultMaxDimension
	}
	if c.Thumbnails.CodecTimeout <= 0 {
		c.Thumbnails.CodecTimeout = defaultCodecTimeout
	}
	if strings.TrimSpace(c.Thumbnails.FFmpegPath) == "" {
		c.Thumbnails.FFmpegPath = "ffmpeg"
	}
	if strings.TrimSpace(c.Thumbnails.FFprobePath) == "" {
		c.Thumbnails.FFprobePath = "ffprobe"
	}

	if c.Ingest.BatchSize <= 0 {
		c.Ingest.BatchSize = defaultBatchSize
	}

	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	c.Server.MetricsBind = strings.TrimSpace(c.Server.MetricsBind)
	if c.Server.MetricsBind == "" {
		c.Server.MetricsBind = defaultMetricsBind
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
