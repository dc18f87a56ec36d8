package startup

import (
	"context"
	"fmt"

	"asset-library/internal/catalog"
	"asset-library/internal/codec"
	"asset-library/internal/config"
	"asset-library/internal/filesystem"
	"asset-library/internal/library"
	"asset-library/internal/logging"
	"asset-library/internal/media"
	"asset-library/internal/metrics"
	"asset-library/internal/store"
)

// Library is an opened asset library: the service plus the resources that
// must be released on exit.
type Library struct {
	Service   *library.Service
	Store     *store.Store
	VipsReady bool

	catalog *catalog.Catalog
}

// OpenLibrary wires the store, catalog and thumbnail generator described by
// cfg. The catalog lock is held until Close.
func OpenLibrary(ctx context.Context, cfg *config.Config) (*Library, error) {
	st := store.New(cfg.Paths.LibraryDir)

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(st.Volumes()))

	opts := media.Options{
		MaxDimension: cfg.Thumbnails.MaxDimension,
		Timeout:      cfg.CodecTimeout(),
	}

	vipsReady := false
	if err := media.InitVips(); err != nil {
		logging.Warn("libvips initialization failed: %v", err)
	} else {
		vipsReady = media.IsVipsAvailable()
	}
	if vipsReady {
		opts.Scaler = media.VipsScaler{}
	}

	ff := codec.New(cfg.Thumbnails.FFmpegPath, cfg.Thumbnails.FFprobePath, cfg.CodecTimeout(), cfg.Thumbnails.MaxDimension)
	if ff.Available() {
		opts.Codec = ff
	} else {
		logging.Debug("%s not found, video thumbnails disabled", cfg.Thumbnails.FFmpegPath)
	}

	if r := media.NewCommandRenderer(cfg.Thumbnails.RendererCommand); r != nil {
		opts.Renderer = r
	}

	cat, err := catalog.Open(ctx, catalog.Options{
		Backend:  cfg.Catalog.Backend,
		Path:     cfg.CatalogPath(),
		LockPath: cfg.LockPath(),
	}, st)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}

	return &Library{
		Service:   library.New(st, cat, media.NewGenerator(opts), cfg.Ingest.BatchSize),
		Store:     st,
		VipsReady: vipsReady,
		catalog:   cat,
	}, nil
}

// Close releases the catalog and its lock. libvips stays up: it cannot be
// restarted within one process, so binaries call media.ShutdownVips on exit.
func (l *Library) Close() error {
	return l.catalog.Close()
}
