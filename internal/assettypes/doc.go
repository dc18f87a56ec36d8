// Package assettypes provides shared type definitions for the asset library:
// the three asset kinds, stockshot types, extension classification and the
// error kinds every layer reports.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles.
//
// # Kinds
//
//	assettypes.KindAsset     // FBX models with textures
//	assettypes.KindTexture   // texture sets
//	assettypes.KindStockshot // videos and image sequences
//
// The kind string doubles as the catalog key and the storage root name.
//
// # Source classes
//
// Classify picks the thumbnail strategy for an input file:
//
//	switch assettypes.Classify(path) {
//	case assettypes.SourceVideo:
//	    // frame extraction
//	case assettypes.SourceStill:
//	    // in-process decode, falls back to the wide-gamut path
//	case assettypes.SourceWideGamut:
//	    // libvips, then ffmpeg
//	}
//
// # Errors
//
// ErrStorage, ErrNotFound, ErrDecode and ErrCanceled are matched with
// errors.Is. StorageError carries the failed operation and path.
package assettypes
