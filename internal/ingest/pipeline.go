package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/logging"
	"asset-library/internal/metrics"
	"asset-library/internal/sequence"
	"asset-library/internal/store"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of files copied concurrently.
const DefaultBatchSize = 10

const statusThumbnail = "Generating thumbnail"

// ErrNoFiles is returned for an import without sources.
var ErrNoFiles = errors.New("no source files")

// EntryStore is the part of the content store the pipeline writes to.
type EntryStore interface {
	CreateEntry(kind assettypes.Kind) (id, dir string, err error)
	CopyFile(ctx context.Context, src, dir string) (name string, n int64, err error)
	AttemptCleanup(dir string) bool
}

// Appender adds finished records to the catalog.
type Appender interface {
	Append(ctx context.Context, kind assettypes.Kind, rec catalog.Record) error
}

// Thumbnailer writes entry previews. Both methods report success.
type Thumbnailer interface {
	ForFile(ctx context.Context, src, entryDir string) bool
	ForSequence(ctx context.Context, frames []string, entryDir string) bool
}

// AssetRequest describes an FBX model with optional textures.
type AssetRequest struct {
	Name     string
	FBXPath  string
	Textures []string
}

// TextureRequest describes a texture set.
type TextureRequest struct {
	Name  string
	Files []string
}

// StockshotRequest describes a detected stockshot selection.
type StockshotRequest struct {
	Name      string
	Selection sequence.Selection
}

// Pipeline runs imports.
type Pipeline struct {
	store     EntryStore
	catalog   Appender
	thumbs    Thumbnailer
	batchSize int
	now       func() time.Time
}

// New returns a pipeline. A batchSize below 1 uses DefaultBatchSize.
func New(s EntryStore, c Appender, thumbs Thumbnailer, batchSize int) *Pipeline {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		store:     s,
		catalog:   c,
		thumbs:    thumbs,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// SaveAsset stores the model and its textures. No thumbnail is generated
// here; model previews come from a renderer afterwards.
func (p *Pipeline) SaveAsset(ctx context.Context, req AssetRequest) (rec catalog.Record, err error) {
	kind := assettypes.KindAsset
	done := p.track(kind)
	defer func() { done(err) }()

	if req.FBXPath == "" {
		return catalog.Record{}, ErrNoFiles
	}
	if assettypes.Classify(req.FBXPath) != assettypes.SourceModel {
		return catalog.Record{}, fmt.Errorf("%s is not an FBX model", filepath.Base(req.FBXPath))
	}
	if err := checkNames(req.Textures); err != nil {
		return catalog.Record{}, err
	}

	id, dir, err := p.store.CreateEntry(kind)
	if err != nil {
		return catalog.Record{}, err
	}

	fbxName, err := p.copyFile(ctx, kind, req.FBXPath, dir)
	if err != nil {
		return catalog.Record{}, p.fail(ctx, dir, err)
	}

	texDir := filepath.Join(dir, store.TexturesDirName)
	for _, src := range req.Textures {
		if _, err := p.copyFile(ctx, kind, src, texDir); err != nil {
			return catalog.Record{}, p.fail(ctx, dir, err)
		}
	}

	rec = catalog.Record{
		ID:           id,
		Name:         nameOr(req.Name, stem(req.FBXPath)),
		CreatedAt:    p.now().UTC(),
		FBXFileName:  fbxName,
		TextureCount: len(req.Textures),
	}
	if err := p.catalog.Append(ctx, kind, rec); err != nil {
		return catalog.Record{}, p.fail(ctx, dir, err)
	}

	logging.Info("Imported asset %q (%s) with %d textures", rec.Name, id, rec.TextureCount)
	return rec, nil
}

// SaveTexture stores the files in order and thumbnails the first image.
func (p *Pipeline) SaveTexture(ctx context.Context, req TextureRequest) (rec catalog.Record, err error) {
	kind := assettypes.KindTexture
	done := p.track(kind)
	defer func() { done(err) }()

	if len(req.Files) == 0 {
		return catalog.Record{}, ErrNoFiles
	}
	if err := checkNames(req.Files); err != nil {
		return catalog.Record{}, err
	}

	id, dir, err := p.store.CreateEntry(kind)
	if err != nil {
		return catalog.Record{}, err
	}

	names := make([]string, 0, len(req.Files))
	for _, src := range req.Files {
		name, err := p.copyFile(ctx, kind, src, dir)
		if err != nil {
			return catalog.Record{}, p.fail(ctx, dir, err)
		}
		names = append(names, name)
	}

	for _, name := range names {
		if assettypes.IsImage(name) {
			p.thumbs.ForFile(ctx, filepath.Join(dir, name), dir)
			break
		}
	}

	rec = catalog.Record{
		ID:        id,
		Name:      nameOr(req.Name, stem(req.Files[0])),
		CreatedAt: p.now().UTC(),
		Files:     names,
		FileCount: len(names),
	}
	if err := p.catalog.Append(ctx, kind, rec); err != nil {
		return catalog.Record{}, p.fail(ctx, dir, err)
	}

	logging.Info("Imported texture %q (%s) with %d files", rec.Name, id, rec.FileCount)
	return rec, nil
}

// SaveStockshot copies the selection in batches, reporting progress to sink
// after each batch, then thumbnails and catalogs the entry. sink receives a
// nil event when SaveStockshot returns.
func (p *Pipeline) SaveStockshot(ctx context.Context, req StockshotRequest, sink ProgressSink) (rec catalog.Record, err error) {
	kind := assettypes.KindStockshot
	sink = sinkOrDiscard(sink)
	defer sink.Report(nil)

	done := p.track(kind)
	defer func() { done(err) }()

	sel := req.Selection
	if len(sel.Files) == 0 {
		return catalog.Record{}, ErrNoFiles
	}
	if sel.Type != assettypes.StockshotVideo && sel.Type != assettypes.StockshotSequence {
		return catalog.Record{}, fmt.Errorf("unknown stockshot type %q", sel.Type)
	}
	if sel.Type == assettypes.StockshotVideo && len(sel.Files) != 1 {
		return catalog.Record{}, fmt.Errorf("video stockshot takes one file, got %d", len(sel.Files))
	}
	if err := checkNames(sel.Files); err != nil {
		return catalog.Record{}, err
	}

	id, dir, err := p.store.CreateEntry(kind)
	if err != nil {
		return catalog.Record{}, err
	}

	names, err := p.copyBatches(ctx, kind, sel.Files, dir, sink)
	if err != nil {
		return catalog.Record{}, p.fail(ctx, dir, err)
	}

	if sel.Type == assettypes.StockshotSequence {
		sequence.SortNames(names)
	}

	sink.Report(&Progress{Current: len(names), Total: len(names), Status: statusThumbnail})
	if sel.Type == assettypes.StockshotVideo {
		p.thumbs.ForFile(ctx, filepath.Join(dir, names[0]), dir)
	} else {
		frames := make([]string, len(names))
		for i, name := range names {
			frames[i] = filepath.Join(dir, name)
		}
		p.thumbs.ForSequence(ctx, frames, dir)
	}

	rec = catalog.Record{
		ID:         id,
		Name:       nameOr(req.Name, sel.Name),
		CreatedAt:  p.now().UTC(),
		Files:      names,
		Type:       sel.Type,
		FrameCount: sel.FrameCount(),
	}
	if err := p.catalog.Append(ctx, kind, rec); err != nil {
		return catalog.Record{}, p.fail(ctx, dir, err)
	}

	logging.Info("Imported stockshot %q (%s): %s, %d frames", rec.Name, id, rec.Type, rec.FrameCount)
	return rec, nil
}

// copyBatches copies files into dir batchSize at a time. Stored names keep
// the input order.
func (p *Pipeline) copyBatches(ctx context.Context, kind assettypes.Kind, files []string, dir string, sink ProgressSink) ([]string, error) {
	total := len(files)
	names := make([]string, total)

	for start := 0; start < total; start += p.batchSize {
		end := min(start+p.batchSize, total)

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				name, err := p.copyFile(gctx, kind, files[i], dir)
				if err != nil {
					return err
				}
				names[i] = name
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		sink.Report(&Progress{
			Current: end,
			Total:   total,
			Status:  fmt.Sprintf("Copying files (%d/%d)", end, total),
		})
	}
	return names, nil
}

func (p *Pipeline) copyFile(ctx context.Context, kind assettypes.Kind, src, dir string) (string, error) {
	name, n, err := p.store.CopyFile(ctx, src, dir)
	if err != nil {
		return "", err
	}
	metrics.FilesCopiedTotal.WithLabelValues(string(kind)).Inc()
	metrics.BytesCopiedTotal.WithLabelValues(string(kind)).Add(float64(n))
	return name, nil
}

// fail removes the partial entry and returns err, marked as a cancellation
// when ctx is done.
func (p *Pipeline) fail(ctx context.Context, dir string, err error) error {
	p.store.AttemptCleanup(dir)
	if ctx.Err() != nil && !errors.Is(err, assettypes.ErrCanceled) {
		return fmt.Errorf("%w: %w", assettypes.ErrCanceled, err)
	}
	return err
}

var inFlight atomic.Int64

// track counts an import in metrics. The returned func records the outcome.
func (p *Pipeline) track(kind assettypes.Kind) func(error) {
	start := time.Now()
	metrics.ImportsInProgress.Set(float64(inFlight.Add(1)))

	return func(err error) {
		metrics.ImportsInProgress.Set(float64(inFlight.Add(-1)))
		metrics.ObserveSince(metrics.ImportDuration, start, string(kind))

		status := metrics.StatusLabel(err)
		if errors.Is(err, assettypes.ErrCanceled) {
			status = "canceled"
		}
		metrics.ImportsTotal.WithLabelValues(string(kind), status).Inc()
		if err != nil {
			logging.Warn("Import of %s failed: %v", kind, err)
		}
	}
}

// checkNames rejects selections where two sources would land on the same
// stored name.
func checkNames(paths []string) error {
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if _, dup := seen[name]; dup {
			return fmt.Errorf("two source files are named %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func nameOr(name, fallback string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	return fallback
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
