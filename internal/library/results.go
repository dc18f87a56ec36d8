package library

import (
	"errors"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
)

// Result is the outcome shared by every operation.
type Result struct {
	Success  bool   `json:"success"`
	Canceled bool   `json:"canceled,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AssetSelection is the result of picking a model and its textures.
type AssetSelection struct {
	Result
	FBXPath      string   `json:"fbxPath,omitempty"`
	TexturePaths []string `json:"texturePaths,omitempty"`
	DefaultName  string   `json:"defaultName,omitempty"`
}

// FileSelection is the result of picking textures or a stockshot.
type FileSelection struct {
	Result
	Files       []string                 `json:"files,omitempty"`
	DefaultName string                   `json:"defaultName,omitempty"`
	Type        assettypes.StockshotType `json:"type,omitempty"`
	FrameCount  int                      `json:"frameCount,omitempty"`
}

// SaveResult carries the record created or renamed by an operation.
type SaveResult struct {
	Result
	Item *catalog.Record `json:"item,omitempty"`
}

// ExportResult reports a written archive.
type ExportResult struct {
	Result
	Path  string `json:"path,omitempty"`
	Files int    `json:"files,omitempty"`
	Bytes int64  `json:"bytes,omitempty"`
}

// RebuildResult counts the outcome of a thumbnail rebuild.
type RebuildResult struct {
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

func succeeded() Result {
	return Result{Success: true}
}

func canceled() Result {
	return Result{Canceled: true}
}

// failed maps err onto a Result. Cancellation is not a failure.
func failed(err error) Result {
	if errors.Is(err, assettypes.ErrCanceled) {
		return canceled()
	}
	return Result{Error: err.Error()}
}
