package catalog

import (
	"time"

	"asset-library/internal/assettypes"
)

// Record is one catalogued item. Fields that only apply to some kinds are
// omitted from JSON when empty.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// ThumbnailPath is derived from ID whenever records are listed and is
	// stripped before persisting.
	ThumbnailPath string `json:"thumbnailPath,omitempty"`

	// Asset
	FBXFileName  string `json:"fbxFileName,omitempty"`
	TextureCount int    `json:"textureCount,omitempty"`

	// Texture and stockshot
	Files     []string `json:"files,omitempty"`
	FileCount int      `json:"fileCount,omitempty"`

	// Stockshot
	Type       assettypes.StockshotType `json:"type,omitempty"`
	FrameCount int                      `json:"frameCount,omitempty"`
}

// clone returns a deep copy so callers cannot alias catalog state.
func (r Record) clone() Record {
	if r.Files != nil {
		r.Files = append([]string(nil), r.Files...)
	}
	return r
}

func cloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.clone()
	}
	return out
}
