// Package startup handles startup and shutdown logging for the asset library
// server: the banner, build information, library directory checks, external
// tool availability and the registered HTTP routes.
//
// Configuration values themselves are loaded by package config; startup only
// reports and prepares them. [OpenLibrary] wires the store, catalog and
// thumbnail tools that the server and assetctl share.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X asset-library/internal/startup.Version=1.2.0 \
//	    -X asset-library/internal/startup.Commit=$(git rev-parse --short HEAD)"
//
// # Example Usage
//
//	cfg, path, exists, err := config.Load(configFlag)
//	if err != nil {
//	    logging.Fatal("Configuration error: %v", err)
//	}
//	startup.LogConfig(cfg, path, exists)
//	if err := startup.PrepareLibrary(cfg); err != nil {
//	    logging.Fatal("%v", err)
//	}
//	lib, err := startup.OpenLibrary(ctx, cfg)
//	if err != nil {
//	    logging.Fatal("Failed to open library: %v", err)
//	}
//	defer lib.Close()
package startup
