// Package memory sets the Go soft memory limit for the server.
//
// libvips decodes EXR, PSD and HDR stills outside the Go heap, and ffmpeg
// runs as a child process, so only part of a container's memory belongs to
// Go. When ASSET_LIBRARY_MEMORY_LIMIT carries the container limit, the Go
// limit is set to ASSET_LIBRARY_MEMORY_RATIO of it (default 0.75). An explicit
// GOMEMLIMIT always wins.
package memory
