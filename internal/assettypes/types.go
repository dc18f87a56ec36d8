package assettypes

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Kind is one of the three asset categories the library stores.
type Kind string

const (
	// KindAsset is a 3D model (FBX) with optional textures.
	KindAsset Kind = "assets"
	// KindTexture is a set of texture images.
	KindTexture Kind = "textures"
	// KindStockshot is a video clip or an ordered image sequence.
	KindStockshot Kind = "stockshots"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindAsset, KindTexture, KindStockshot}

// ParseKind accepts the plural catalog key ("assets") as well as the
// singular form ("asset").
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assets", "asset", "model", "models":
		return KindAsset, nil
	case "textures", "texture":
		return KindTexture, nil
	case "stockshots", "stockshot":
		return KindStockshot, nil
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindAsset || k == KindTexture || k == KindStockshot
}

// StockshotType distinguishes a single video file from an image sequence.
type StockshotType string

const (
	// StockshotVideo is a single video file.
	StockshotVideo StockshotType = "video"
	// StockshotSequence is an ordered list of still frames.
	StockshotSequence StockshotType = "sequence"
)

// SourceClass selects the thumbnail strategy for an input file.
type SourceClass string

const (
	// SourceVideo is decoded through the video codec collaborator.
	SourceVideo SourceClass = "video"
	// SourceStill is a common still format the imaging library handles.
	SourceStill SourceClass = "still"
	// SourceWideGamut is an HDR or uncommon still format that needs libvips or ffmpeg.
	SourceWideGamut SourceClass = "wide_gamut"
	// SourceModel is a 3D model rendered by the scene renderer.
	SourceModel SourceClass = "model"
	// SourceOther is anything else.
	SourceOther SourceClass = "other"
)

// StillExtensions are the formats decoded in-process.
var StillExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// WideGamutExtensions are still formats that go through the dedicated
// decode-and-scale path.
var WideGamutExtensions = map[string]bool{
	".hdr":  true,
	".exr":  true,
	".tga":  true,
	".tif":  true,
	".tiff": true,
	".dds":  true,
	".psd":  true,
}

// VideoExtensions maps file extensions to whether they are supported video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".avi":  true,
	".mkv":  true,
	".webm": true,
	".m4v":  true,
	".mxf":  true,
	".wmv":  true,
	".mpeg": true,
	".mpg":  true,
}

// ModelExtensions are the model formats accepted for the asset kind.
var ModelExtensions = map[string]bool{
	".fbx": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".hdr":  "image/vnd.radiance",
	".exr":  "image/x-exr",
	".tga":  "image/x-tga",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".zip":  "application/zip",
}

// Ext returns the lowercase extension of path, including the leading dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// Classify returns the thumbnail strategy class for a file path.
func Classify(path string) SourceClass {
	ext := Ext(path)
	switch {
	case VideoExtensions[ext]:
		return SourceVideo
	case StillExtensions[ext]:
		return SourceStill
	case WideGamutExtensions[ext]:
		return SourceWideGamut
	case ModelExtensions[ext]:
		return SourceModel
	}
	return SourceOther
}

// IsVideo reports whether path has a video extension.
func IsVideo(path string) bool {
	return VideoExtensions[Ext(path)]
}

// IsImage reports whether path is any still image the library can thumbnail.
func IsImage(path string) bool {
	ext := Ext(path)
	return StillExtensions[ext] || WideGamutExtensions[ext]
}

// GetMimeType returns the MIME type for a file path.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(path string) string {
	if mime, ok := MimeTypes[Ext(path)]; ok {
		return mime
	}
	return "application/octet-stream"
}

// ExtensionList returns the keys of an extension map without the leading
// dot, sorted, as file-picker filters expect them.
func ExtensionList(exts map[string]bool) []string {
	out := make([]string, 0, len(exts))
	for ext := range exts {
		out = append(out, strings.TrimPrefix(ext, "."))
	}
	sort.Strings(out)
	return out
}
