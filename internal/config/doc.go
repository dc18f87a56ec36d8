// Package config loads the asset library configuration.
//
// Values come from three layers, later layers winning: built-in defaults
// ([Default]), a TOML file, and environment variables. The file is looked up
// at the path given to [Load], then $ASSET_LIBRARY_CONFIG, then
// ~/.config/asset-library/config.toml, then ./asset-library.toml. A missing
// file is not an error.
//
// Supported environment overrides:
//
//   - ASSET_LIBRARY_DIR: library root (default: ~/.local/share/asset-library)
//   - ASSET_LIBRARY_CATALOG_BACKEND: sqlite or badger (default: sqlite)
//   - ASSET_LIBRARY_BIND: HTTP API address (default: 127.0.0.1:7878)
//   - METRICS_ENABLED: serve Prometheus metrics (default: false)
//   - METRICS_BIND: metrics address (default: 127.0.0.1:9478)
//   - LOG_HEALTH_CHECKS: log /health requests (default: false)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - FFMPEG_PATH, FFPROBE_PATH: external codec binaries
package config
