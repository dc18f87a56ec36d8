package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// partSuffix marks a copy in progress.
const partSuffix = ".part"

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	start := time.Now()
	defer func() { record("write", path, start, err) }()

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// CopyFile copies src to dst and returns the number of bytes written.
// The copy aborts with ctx.Err() when ctx is cancelled.
func CopyFile(ctx context.Context, src, dst string) (n int64, err error) {
	start := time.Now()
	defer func() { record("copy", dst, start, err) }()

	if err = ctx.Err(); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", src)
	}

	part := dst + partSuffix
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(part)
		}
	}()

	n, err = io.Copy(out, &ctxReader{ctx: ctx, r: in})
	if err != nil {
		_ = out.Close()
		return n, err
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return n, err
	}
	if err = out.Close(); err != nil {
		return n, err
	}
	if err = os.Rename(part, dst); err != nil {
		return n, err
	}
	return n, nil
}

// RemoveAll removes path and everything below it.
func RemoveAll(path string) (err error) {
	start := time.Now()
	defer func() { record("remove", path, start, err) }()
	return os.RemoveAll(path)
}

func record(op, path string, start time.Time, err error) {
	obs := observe()
	if obs == nil {
		return
	}
	obs.ObserveOperation(defaultResolver.Resolve(path), op, time.Since(start).Seconds(), err)
}

// ctxReader stops a copy between reads once the context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
