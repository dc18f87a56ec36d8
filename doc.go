// Package main provides the HTTP server for the asset library.
//
// The asset library keeps three kinds of production material in one
// directory tree: assets (an FBX model with its textures), textures (a set
// of image maps) and stockshots (a video clip or an image sequence). Every
// entry lives in its own UUID-named directory, is listed in a per-kind
// catalog and carries a thumbnail.png preview when one could be made.
//
// # Application Lifecycle
//
//  1. Configuration Loading: config.toml, then environment overrides, then
//     GOMEMLIMIT from the container memory limit
//  2. Directory Setup: the library root is created and checked for write access
//  3. Library Opening: catalog lock, sqlite or badger catalog, libvips,
//     ffmpeg and the optional model renderer
//  4. HTTP Server Setup: routes, logging, metrics and compression middleware
//  5. Graceful Shutdown: SIGINT/SIGTERM stop the servers and close the catalog
//
// # HTTP Server
//
// The application runs up to two HTTP servers:
//
//  1. Main Server (default 127.0.0.1:7878):
//     - /api/{kind} listing, renaming, deleting and exporting entries
//     - /api/assets, /api/textures, /api/stockshots for imports
//     - /api/progress streaming stockshot import progress as server-sent events
//     - /health, /livez and /version
//
//  2. Metrics Server (optional):
//     - Prometheus metrics endpoint (/metrics)
//
// # Environment Variables
//
// Environment variables override the config file:
//
//   - ASSET_LIBRARY_CONFIG: config file location
//   - ASSET_LIBRARY_DIR: library root
//   - ASSET_LIBRARY_BIND: API listen address
//   - METRICS_ENABLED: enable the metrics server
//   - LOG_LEVEL: logging level (debug/info/warn/error)
//   - ASSET_LIBRARY_WORKERS: cap on thumbnail rebuild workers
//   - ASSET_LIBRARY_MEMORY_LIMIT: container memory limit used to set GOMEMLIMIT
//
// # Build Requirements
//
// CGO is required for SQLite and libvips. FFmpeg is used at runtime for
// video frames and as the fallback decoder for wide-gamut stills.
//
// # Related Packages
//
//   - [asset-library/internal/library]: library operations
//   - [asset-library/internal/handlers]: HTTP request handlers
//   - [asset-library/internal/ingest]: import pipeline
//   - [asset-library/internal/catalog]: per-kind record lists
//   - [asset-library/internal/media]: thumbnail generation
//   - [asset-library/internal/startup]: initialization and logging
package main
