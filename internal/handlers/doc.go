// Package handlers exposes the asset library over a local HTTP API.
//
// It includes handlers for:
//   - Listing, renaming and deleting assets, textures and stockshots
//   - Saving new entries and detecting image sequences
//   - Zip export and thumbnail serving, replacement and rendering
//   - Import progress as server-sent events
//   - Health checks, version and metrics
package handlers
