package library

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/export"
	"asset-library/internal/ingest"
	"asset-library/internal/logging"
	"asset-library/internal/store"
)

// Thumbnailer is the thumbnail generator as the service uses it.
type Thumbnailer interface {
	ingest.Thumbnailer
	ForModel(ctx context.Context, src, entryDir string) bool
	SaveEncoded(entryDir string, data []byte) error
	HasRenderer() bool
}

// Service runs library operations.
type Service struct {
	store    *store.Store
	catalog  *catalog.Catalog
	thumbs   Thumbnailer
	pipeline *ingest.Pipeline
}

// New returns a service over an opened catalog. batchSize is the stockshot
// copy batch width.
func New(st *store.Store, cat *catalog.Catalog, thumbs Thumbnailer, batchSize int) *Service {
	return &Service{
		store:    st,
		catalog:  cat,
		thumbs:   thumbs,
		pipeline: ingest.New(st, cat, thumbs, batchSize),
	}
}

// List returns the records of kind with ThumbnailPath filled in.
func (s *Service) List(ctx context.Context, kind assettypes.Kind) ([]catalog.Record, error) {
	records, err := s.catalog.Load(ctx, kind)
	if err != nil {
		return nil, err
	}
	for i := range records {
		dir := filepath.Join(s.store.Root(kind), records[i].ID)
		records[i].ThumbnailPath = s.previewPath(kind, dir, records[i])
	}
	return records, nil
}

// Get returns one record with ThumbnailPath filled in.
func (s *Service) Get(ctx context.Context, kind assettypes.Kind, id string) (catalog.Record, error) {
	dir, err := s.entryDir(kind, id)
	if err != nil {
		return catalog.Record{}, err
	}
	rec, err := s.catalog.Get(ctx, kind, id)
	if err != nil {
		return catalog.Record{}, err
	}
	rec.ThumbnailPath = s.previewPath(kind, dir, rec)
	return rec, nil
}

// Rename changes the display name of an entry.
func (s *Service) Rename(ctx context.Context, kind assettypes.Kind, id, name string) SaveResult {
	name = strings.TrimSpace(name)
	if name == "" {
		return SaveResult{Result: Result{Error: "name must not be empty"}}
	}
	if _, err := s.entryDir(kind, id); err != nil {
		return SaveResult{Result: failed(err)}
	}

	rec, err := s.catalog.Rename(ctx, kind, id, name)
	if err != nil {
		return SaveResult{Result: failed(err)}
	}
	logging.Info("Renamed %s %s to %q", kind, id, name)
	return SaveResult{Result: succeeded(), Item: &rec}
}

// Delete removes the entry directory, then its catalog record.
func (s *Service) Delete(ctx context.Context, kind assettypes.Kind, id string) Result {
	if _, err := s.entryDir(kind, id); err != nil {
		return failed(err)
	}
	if _, err := s.catalog.Get(ctx, kind, id); err != nil {
		return failed(err)
	}

	if err := s.store.RemoveEntry(kind, id); err != nil {
		return failed(err)
	}
	if err := s.catalog.Remove(ctx, kind, id); err != nil {
		return failed(err)
	}
	logging.Info("Deleted %s %s", kind, id)
	return succeeded()
}

// Export asks picker for a destination, suggesting <name>.zip, and writes
// the entry there.
func (s *Service) Export(ctx context.Context, kind assettypes.Kind, id string, picker SavePicker) ExportResult {
	dir, err := s.entryDir(kind, id)
	if err != nil {
		return ExportResult{Result: failed(err)}
	}
	rec, err := s.catalog.Get(ctx, kind, id)
	if err != nil {
		return ExportResult{Result: failed(err)}
	}

	dest, err := picker.PickSaveLocation(ctx, "Export "+rec.Name, suggestedArchiveName(rec.Name), zipFilters)
	if err != nil {
		return ExportResult{Result: failed(err)}
	}
	if dest == "" {
		return ExportResult{Result: canceled()}
	}

	res, err := export.Archive(ctx, kind, dir, dest)
	if err != nil {
		return ExportResult{Result: failed(err)}
	}
	return ExportResult{Result: succeeded(), Path: res.Path, Files: res.Files, Bytes: res.Bytes}
}

// Thumbnail returns the preview image of an entry: its thumbnail.png, or
// else the first common still among its files. An empty path means the entry
// has nothing to show.
func (s *Service) Thumbnail(ctx context.Context, kind assettypes.Kind, id string) (string, error) {
	rec, err := s.Get(ctx, kind, id)
	if err != nil {
		return "", err
	}
	return rec.ThumbnailPath, nil
}

// EntryCounts reports the number of entries per kind.
func (s *Service) EntryCounts(ctx context.Context) (map[string]int, error) {
	return s.catalog.EntryCounts(ctx)
}

// previewPath picks the image shown for an entry.
func (s *Service) previewPath(kind assettypes.Kind, dir string, rec catalog.Record) string {
	if s.store.HasThumbnail(dir) {
		return store.ThumbnailPath(dir)
	}

	var candidates []string
	switch kind {
	case assettypes.KindAsset:
		names, err := s.store.ListFiles(filepath.Join(dir, store.TexturesDirName))
		if err != nil {
			return ""
		}
		for _, name := range names {
			candidates = append(candidates, filepath.Join(dir, store.TexturesDirName, name))
		}
	case assettypes.KindTexture:
		for _, name := range rec.Files {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	case assettypes.KindStockshot:
		if rec.Type == assettypes.StockshotSequence && len(rec.Files) > 0 {
			candidates = append(candidates, filepath.Join(dir, rec.Files[0]))
		}
	}

	for _, path := range candidates {
		if assettypes.Classify(path) == assettypes.SourceStill {
			return path
		}
	}
	return ""
}

// entryDir validates an id from outside the process. Malformed ids are
// reported as not found.
func (s *Service) entryDir(kind assettypes.Kind, id string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("unknown kind %q", kind)
	}
	dir, err := s.store.EntryDir(kind, id)
	if errors.Is(err, store.ErrInvalidID) {
		return "", fmt.Errorf("%s %q: %w", kind, id, assettypes.ErrNotFound)
	}
	return dir, err
}

func suggestedArchiveName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == 0 {
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == ".." {
		clean = "export"
	}
	return clean + ".zip"
}
