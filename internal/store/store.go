package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"asset-library/internal/assettypes"
	"asset-library/internal/filesystem"
	"asset-library/internal/logging"
	"asset-library/internal/metrics"

	"github.com/google/uuid"
)

const (
	// ThumbnailFileName is the preview written into every entry directory.
	ThumbnailFileName = "thumbnail.png"
	// TexturesDirName holds the textures of an asset entry.
	TexturesDirName = "textures"
)

// ErrInvalidID is returned for ids that are not canonical UUIDs.
var ErrInvalidID = errors.New("invalid entry id")

// Store owns the per-kind directory roots under the library directory.
// Each item lives in <root>/<kind>/<uuid>/.
type Store struct {
	root  string
	retry filesystem.RetryConfig
}

// New returns a store rooted at libraryDir. Kind roots are created lazily.
func New(libraryDir string) *Store {
	return &Store{
		root:  filepath.Clean(libraryDir),
		retry: filesystem.DefaultRetryConfig(),
	}
}

// Root returns the directory holding entries of kind.
func (s *Store) Root(kind assettypes.Kind) string {
	return filepath.Join(s.root, string(kind))
}

// Volumes maps every kind root to its kind name, for metric labelling.
func (s *Store) Volumes() map[string]string {
	volumes := map[string]string{"catalog": s.root}
	for _, kind := range assettypes.Kinds {
		volumes[string(kind)] = s.Root(kind)
	}
	return volumes
}

// ValidateID reports whether id is a canonical UUID string, the only form
// CreateEntry produces.
func ValidateID(id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

// EntryDir returns the directory for an existing or future entry.
func (s *Store) EntryDir(kind assettypes.Kind, id string) (string, error) {
	if err := ValidateID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.Root(kind), id), nil
}

// CreateEntry allocates a fresh id and creates its directory. Asset entries
// also get a textures/ subdirectory.
func (s *Store) CreateEntry(kind assettypes.Kind) (string, string, error) {
	root := s.Root(kind)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", "", assettypes.NewStorageError("create root", root, err)
	}

	for {
		id := uuid.NewString()
		dir := filepath.Join(root, id)

		err := os.Mkdir(dir, 0o755)
		if errors.Is(err, os.ErrExist) {
			logging.Warn("Entry directory %s already exists, drawing a new id", dir)
			continue
		}
		if err != nil {
			return "", "", assettypes.NewStorageError("create entry", dir, err)
		}

		if kind == assettypes.KindAsset {
			texDir := filepath.Join(dir, TexturesDirName)
			if err := os.Mkdir(texDir, 0o755); err != nil {
				s.AttemptCleanup(dir)
				return "", "", assettypes.NewStorageError("create entry", texDir, err)
			}
		}

		logging.Debug("Created %s entry %s", kind, id)
		return id, dir, nil
	}
}

// CopyFile copies src into dir under its base name and returns that name and
// the number of bytes copied.
func (s *Store) CopyFile(ctx context.Context, src, dir string) (string, int64, error) {
	name := filepath.Base(src)
	dst := filepath.Join(dir, name)

	n, err := filesystem.CopyFile(ctx, src, dst)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", n, err
		}
		return "", n, assettypes.NewStorageError("copy", src, err)
	}
	return name, n, nil
}

// CopyInto copies sources into dir in order and returns the stored names in
// the same order. The first failure aborts the call.
func (s *Store) CopyInto(ctx context.Context, dir string, sources []string) ([]string, error) {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		name, _, err := s.CopyFile(ctx, src, dir)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// RemoveEntry deletes an entry directory and everything below it. Removing
// an entry that does not exist succeeds.
func (s *Store) RemoveEntry(kind assettypes.Kind, id string) error {
	dir, err := s.EntryDir(kind, id)
	if err != nil {
		return err
	}
	if err := filesystem.RemoveAll(dir); err != nil {
		return assettypes.NewStorageError("remove entry", dir, err)
	}
	return nil
}

// ListExistingIDs returns the names of the directories under the kind root.
// A root that was never created yields an empty set.
func (s *Store) ListExistingIDs(kind assettypes.Kind) (map[string]struct{}, error) {
	root := s.Root(kind)
	entries, err := filesystem.ReadDirWithRetry(root, s.retry)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, assettypes.NewStorageError("list entries", root, err)
	}

	ids := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			ids[e.Name()] = struct{}{}
		}
	}
	return ids, nil
}

// AttemptCleanup removes a partially created entry. Failures are logged and
// reported as false, never returned.
func (s *Store) AttemptCleanup(dir string) bool {
	if err := filesystem.RemoveAll(dir); err != nil {
		logging.Warn("Cleanup of %s failed: %v", dir, err)
		metrics.CleanupAttemptsTotal.WithLabelValues("error").Inc()
		return false
	}
	logging.Debug("Cleaned up partial entry %s", dir)
	metrics.CleanupAttemptsTotal.WithLabelValues("success").Inc()
	return true
}

// ThumbnailPath returns where the preview of the entry in dir lives.
func ThumbnailPath(dir string) string {
	return filepath.Join(dir, ThumbnailFileName)
}

// HasThumbnail reports whether the entry in dir has a preview on disk.
func (s *Store) HasThumbnail(dir string) bool {
	info, err := filesystem.StatWithRetry(ThumbnailPath(dir), s.retry)
	return err == nil && info.Mode().IsRegular()
}

// ListFiles returns the regular files directly inside dir, sorted by name.
func (s *Store) ListFiles(dir string) ([]string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, s.retry)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
