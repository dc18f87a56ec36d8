package library

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/logging"
	"asset-library/internal/workers"

	"golang.org/x/sync/errgroup"
)

// ErrNoRenderer is reported when a model preview is requested but no
// renderer is configured.
var ErrNoRenderer = errors.New("no model renderer configured")

// SetModelThumbnail stores a preview rendered by the UI for an asset.
func (s *Service) SetModelThumbnail(ctx context.Context, id string, image []byte) Result {
	dir, err := s.entryDir(assettypes.KindAsset, id)
	if err != nil {
		return failed(err)
	}
	if _, err := s.catalog.Get(ctx, assettypes.KindAsset, id); err != nil {
		return failed(err)
	}
	if err := s.thumbs.SaveEncoded(dir, image); err != nil {
		return failed(err)
	}
	return succeeded()
}

// RenderModelThumbnail renders an asset preview with the configured renderer.
func (s *Service) RenderModelThumbnail(ctx context.Context, id string) Result {
	dir, err := s.entryDir(assettypes.KindAsset, id)
	if err != nil {
		return failed(err)
	}
	rec, err := s.catalog.Get(ctx, assettypes.KindAsset, id)
	if err != nil {
		return failed(err)
	}
	if !s.thumbs.HasRenderer() {
		return failed(ErrNoRenderer)
	}
	if !s.thumbs.ForModel(ctx, filepath.Join(dir, rec.FBXFileName), dir) {
		return Result{Error: "failed to render a preview of " + rec.FBXFileName}
	}
	return succeeded()
}

// RebuildThumbnails regenerates previews for entries of kind that have none,
// or for all of them when force is set. Entries are processed by a bounded
// pool of workers.
func (s *Service) RebuildThumbnails(ctx context.Context, kind assettypes.Kind, force bool) (RebuildResult, error) {
	records, err := s.catalog.Load(ctx, kind)
	if err != nil {
		return RebuildResult{}, err
	}

	var generated, failedCount, skipped atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.ForMixed(len(records)))

	for _, rec := range records {
		rec := rec
		dir := filepath.Join(s.store.Root(kind), rec.ID)
		if !force && s.store.HasThumbnail(dir) {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			switch s.regenerate(gctx, kind, dir, rec) {
			case rebuildDone:
				generated.Add(1)
			case rebuildFailed:
				failedCount.Add(1)
			default:
				skipped.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	res := RebuildResult{
		Generated: int(generated.Load()),
		Failed:    int(failedCount.Load()),
		Skipped:   int(skipped.Load()),
	}
	logging.Info("Rebuilt %s thumbnails: %d generated, %d failed, %d skipped", kind, res.Generated, res.Failed, res.Skipped)
	return res, err
}

type rebuildOutcome int

const (
	rebuildSkipped rebuildOutcome = iota
	rebuildDone
	rebuildFailed
)

func (s *Service) regenerate(ctx context.Context, kind assettypes.Kind, dir string, rec catalog.Record) rebuildOutcome {
	outcome := func(ok bool) rebuildOutcome {
		if ok {
			return rebuildDone
		}
		return rebuildFailed
	}

	switch kind {
	case assettypes.KindAsset:
		if !s.thumbs.HasRenderer() || rec.FBXFileName == "" {
			return rebuildSkipped
		}
		return outcome(s.thumbs.ForModel(ctx, filepath.Join(dir, rec.FBXFileName), dir))

	case assettypes.KindTexture:
		for _, name := range rec.Files {
			if assettypes.IsImage(name) {
				return outcome(s.thumbs.ForFile(ctx, filepath.Join(dir, name), dir))
			}
		}
		return rebuildSkipped

	case assettypes.KindStockshot:
		if len(rec.Files) == 0 {
			return rebuildSkipped
		}
		if rec.Type == assettypes.StockshotVideo {
			return outcome(s.thumbs.ForFile(ctx, filepath.Join(dir, rec.Files[0]), dir))
		}
		frames := make([]string, len(rec.Files))
		for i, name := range rec.Files {
			frames[i] = filepath.Join(dir, name)
		}
		return outcome(s.thumbs.ForSequence(ctx, frames, dir))
	}
	return rebuildSkipped
}
