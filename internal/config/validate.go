package config

import (
	"errors"
	"fmt"
	"net"

	"asset-library/internal/logging"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set")
	}
	switch c.Catalog.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("catalog.backend must be %q or %q, got %q", BackendSQLite, BackendBadger, c.Catalog.Backend)
	}
	if c.Thumbnails.MaxDimension > 4096 {
		return fmt.Errorf("thumbnails.max_dimension must be at most 4096, got %d", c.Thumbnails.MaxDimension)
	}
	if c.Ingest.BatchSize > 1000 {
		return fmt.Errorf("ingest.batch_size must be at most 1000, got %d", c.Ingest.BatchSize)
	}
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind: %w", err)
	}
	if c.Server.MetricsEnabled {
		if _, _, err := net.SplitHostPort(c.Server.MetricsBind); err != nil {
			return fmt.Errorf("server.metrics_bind: %w", err)
		}
	}
	if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}
