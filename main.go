package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"asset-library/internal/config"
	"asset-library/internal/handlers"
	"asset-library/internal/logging"
	"asset-library/internal/media"
	"asset-library/internal/memory"
	"asset-library/internal/metrics"
	"asset-library/internal/middleware"
	"asset-library/internal/startup"

	"github.com/gorilla/mux"
)

func main() {
	startTime := time.Now()

	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	// Load configuration
	cfg, resolvedPath, exists, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}
	logging.SetLevel(cfg.Logging.Level)
	startup.LogConfig(cfg, resolvedPath, exists)

	// Leave room outside the Go heap for libvips and ffmpeg
	memory.ConfigureFromEnv()

	if err := startup.PrepareLibrary(cfg); err != nil {
		logging.Fatal("%v", err)
	}

	// Open catalog and thumbnail tools
	catalogStart := time.Now()
	lib, err := startup.OpenLibrary(context.Background(), cfg)
	if err != nil {
		logging.Fatal("Failed to open library: %v", err)
	}
	startup.LogCatalogInit(cfg.Catalog.Backend, time.Since(catalogStart))
	startup.LogToolsInit(cfg, lib.VipsReady)

	// Metrics
	buildInfo := startup.GetBuildInfo()
	metrics.InitializeMetrics()
	metrics.AppInfo.WithLabelValues(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion).Set(1)
	collector := metrics.NewCollector(lib.Service, time.Minute)
	collector.Start()

	// Initialize handlers
	h := handlers.New(lib.Service)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, cfg.Server.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = cfg.Server.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply metrics middleware
	metricsHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	// Apply compression middleware
	compressionConfig := middleware.DefaultCompressionConfig()
	handler := middleware.Compression(compressionConfig)(metricsHandler)

	// Create server
	srv := &http.Server{
		Addr:         cfg.Server.Bind,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.Server.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", h.MetricsHandler())
		metricsSrv = &http.Server{
			Addr:              cfg.Server.MetricsBind,
			Handler:           metricsMux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	done := make(chan struct{})
	go func() {
		handleShutdown(srv, metricsSrv, collector, lib)
		close(done)
	}()

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Bind:            cfg.Server.Bind,
		MetricsBind:     cfg.Server.MetricsBind,
		MetricsEnabled:  cfg.Server.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Server error: %v", err)
	}
	<-done
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Import progress and saving; registered before the {kind} routes
	api.HandleFunc("/progress", h.StreamProgress).Methods("GET")
	api.HandleFunc("/assets", h.SaveAsset).Methods("POST")
	api.HandleFunc("/textures", h.SaveTexture).Methods("POST")
	api.HandleFunc("/stockshots", h.SaveStockshot).Methods("POST")
	api.HandleFunc("/stockshots/detect", h.DetectStockshot).Methods("POST")

	// Asset previews
	api.HandleFunc("/assets/{id}/thumbnail", h.SetAssetThumbnail).Methods("PUT")
	api.HandleFunc("/assets/{id}/thumbnail/render", h.RenderAssetThumbnail).Methods("POST")

	// Entries of any kind
	api.HandleFunc("/{kind}", h.ListEntries).Methods("GET")
	api.HandleFunc("/{kind}/thumbnails/rebuild", h.RebuildThumbnails).Methods("POST")
	api.HandleFunc("/{kind}/{id}", h.RenameEntry).Methods("PATCH")
	api.HandleFunc("/{kind}/{id}", h.DeleteEntry).Methods("DELETE")
	api.HandleFunc("/{kind}/{id}/export", h.ExportEntry).Methods("POST")
	api.HandleFunc("/{kind}/{id}/thumbnail", h.GetThumbnail).Methods("GET")

	return r
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector, lib *startup.Library) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Closing catalog")
	if err := lib.Close(); err != nil {
		logging.Warn("Catalog close error: %v", err)
	} else {
		startup.LogShutdownStepComplete("Catalog closed")
	}

	if lib.VipsReady {
		startup.LogShutdownStep("Shutting down libvips")
		media.ShutdownVips()
		startup.LogShutdownStepComplete("libvips stopped")
	}

	startup.LogShutdownComplete()
}
