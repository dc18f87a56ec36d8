// Package export packs a library entry into a zip archive.
package export

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"asset-library/internal/assettypes"
	"asset-library/internal/logging"
	"asset-library/internal/metrics"
	"asset-library/internal/store"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// Result describes a written archive.
type Result struct {
	Path  string
	Files int
	Bytes int64
}

// Archive writes every regular file under entryDir to a zip at dest, except
// the top-level thumbnail. Names are relative and slash-separated. The
// archive is synced and closed before Archive returns nil; a failed archive
// is left in place for the caller to inspect or remove.
func Archive(ctx context.Context, kind assettypes.Kind, entryDir, dest string) (res Result, err error) {
	start := time.Now()
	defer func() {
		metrics.ExportsTotal.WithLabelValues(string(kind), metrics.StatusLabel(err)).Inc()
		if err != nil {
			logging.Warn("Export of %s to %s failed: %v", entryDir, dest, err)
			return
		}
		metrics.ExportBytes.Observe(float64(res.Bytes))
		logging.Info("Exported %d files from %s to %s in %v", res.Files, entryDir, dest, time.Since(start))
	}()

	info, err := os.Stat(entryDir)
	if err != nil {
		return Result{}, assettypes.NewStorageError("export", entryDir, err)
	}
	if !info.IsDir() {
		return Result{}, assettypes.NewStorageError("export", entryDir, fmt.Errorf("not a directory"))
	}

	out, err := os.Create(dest)
	if err != nil {
		return Result{}, assettypes.NewStorageError("export", dest, err)
	}
	closed := false
	defer func() {
		if !closed {
			_ = out.Close()
		}
	}()

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.BestCompression)
	})

	files, err := addTree(ctx, zw, entryDir)
	if err != nil {
		return Result{}, err
	}
	if err := zw.Close(); err != nil {
		return Result{}, assettypes.NewStorageError("export", dest, err)
	}
	if err := out.Sync(); err != nil {
		return Result{}, assettypes.NewStorageError("export", dest, err)
	}
	closed = true
	if err := out.Close(); err != nil {
		return Result{}, assettypes.NewStorageError("export", dest, err)
	}

	st, err := os.Stat(dest)
	if err != nil {
		return Result{}, assettypes.NewStorageError("export", dest, err)
	}
	return Result{Path: dest, Files: files, Bytes: st.Size()}, nil
}

func addTree(ctx context.Context, zw *zip.Writer, root string) (int, error) {
	files := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return assettypes.NewStorageError("export", path, err)
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", assettypes.ErrCanceled, err)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == store.ThumbnailFileName {
			return nil
		}

		if err := addFile(zw, path, filepath.ToSlash(rel)); err != nil {
			return assettypes.NewStorageError("export", path, err)
		}
		files++
		return nil
	})
	return files, err
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
