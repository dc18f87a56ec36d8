package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LibraryDir string `toml:"library_dir"`
}

// Catalog selects the catalog persistence backend.
type Catalog struct {
	Backend string `toml:"backend"` // "sqlite" or "badger"
}

// Thumbnails contains preview generation settings.
type Thumbnails struct {
	MaxDimension    int      `toml:"max_dimension"`
	CodecTimeout    int      `toml:"codec_timeout"` // seconds
	FFmpegPath      string   `toml:"ffmpeg_path"`
	FFprobePath     string   `toml:"ffprobe_path"`
	RendererCommand []string `toml:"renderer_command"`
}

// Ingest contains import pipeline settings.
type Ingest struct {
	BatchSize int `toml:"batch_size"`
}

// Server contains HTTP API settings.
type Server struct {
	Bind            string `toml:"bind"`
	MetricsEnabled  bool   `toml:"metrics_enabled"`
	MetricsBind     string `toml:"metrics_bind"`
	LogHealthChecks bool   `toml:"log_health_checks"`
}

// Logging contains log output settings.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for the asset library.
//
// Configuration sections by subsystem:
//   - Paths: where the library lives
//   - Catalog: catalog backend selection
//   - Thumbnails: preview size, external tool paths and timeouts
//   - Ingest: copy batch size
//   - Server: API and metrics bind addresses
//   - Logging: log level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Catalog    Catalog    `toml:"catalog"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Ingest     Ingest     `toml:"ingest"`
	Server     Server     `toml:"server"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	if base, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && strings.TrimSpace(base) != "" {
		return expandPath(filepath.Join(base, "asset-library", "config.toml"))
	}
	return expandPath("~/.config/asset-library/config.toml")
}

// SampleConfig returns the commented sample configuration file.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. Environment
// overrides are applied after the file. The returned config has all path
// fields expanded. It also reports the resolved path and whether a file was
// found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// WriteSample writes the sample configuration to path, refusing to overwrite
// an existing file.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists: %s", expanded)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = os.Getenv("ASSET_LIBRARY_CONFIG")
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("asset-library.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CatalogPath returns the location of the catalog for the configured backend.
func (c *Config) CatalogPath() string {
	if c.Catalog.Backend == BackendBadger {
		return filepath.Join(c.Paths.LibraryDir, "catalog.badger")
	}
	return filepath.Join(c.Paths.LibraryDir, "catalog.db")
}

// LockPath returns the single-owner lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LibraryDir, ".catalog.lock")
}

// CodecTimeout returns the bound applied to every external tool invocation.
func (c *Config) CodecTimeout() time.Duration {
	return time.Duration(c.Thumbnails.CodecTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
