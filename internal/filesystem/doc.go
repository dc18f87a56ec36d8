/*
Package filesystem provides the low-level file operations the library is built
on: stale-handle tolerant stat and readdir, atomic writes, and cancellable
copies.

# Retry Behavior

Libraries frequently live under a home directory mounted over NFS. StatWithRetry
and ReadDirWithRetry retry ESTALE failures with exponential backoff:

  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Every other error is returned immediately.

# Atomic Writes

WriteFileAtomic writes to a temporary sibling and renames it over the target,
so readers never observe a half-written thumbnail or catalog snapshot.
CopyFile streams into "<dst>.part" and renames on success; a cancelled or
failed copy leaves no file at dst.

# Metrics

Operations report to an Observer installed with SetObserver. The metrics
package provides the Prometheus implementation; with no observer installed
nothing is recorded. Paths are labelled with a volume name via the
VolumeResolver installed with SetDefaultVolumeResolver:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "assets":     cfg.AssetsDir(),
	    "textures":   cfg.TexturesDir(),
	    "stockshots": cfg.StockshotsDir(),
	}))
	filesystem.SetObserver(metrics.NewFilesystemObserver())
*/
package filesystem
