package library

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"asset-library/internal/assettypes"
	"asset-library/internal/ingest"
	"asset-library/internal/sequence"
)

// ImportAsset picks one FBX file, then optional textures. Dismissing the
// texture picker imports the model alone.
func (s *Service) ImportAsset(ctx context.Context, picker FilePicker) AssetSelection {
	models, err := picker.PickFiles(ctx, "Select the FBX file", modelFilters, false)
	if err != nil {
		return AssetSelection{Result: failed(err)}
	}
	if len(models) == 0 || models[0] == "" {
		return AssetSelection{Result: canceled()}
	}
	fbx := models[0]
	if assettypes.Classify(fbx) != assettypes.SourceModel {
		return AssetSelection{Result: Result{Error: filepath.Base(fbx) + " is not an FBX file"}}
	}

	textures, err := picker.PickFiles(ctx, "Select textures (optional)", textureFilters, true)
	if err != nil && !errors.Is(err, assettypes.ErrCanceled) {
		return AssetSelection{Result: failed(err)}
	}

	return AssetSelection{
		Result:       succeeded(),
		FBXPath:      fbx,
		TexturePaths: textures,
		DefaultName:  stem(fbx),
	}
}

// ImportTextures picks a texture set.
func (s *Service) ImportTextures(ctx context.Context, picker FilePicker) FileSelection {
	files, err := picker.PickFiles(ctx, "Select textures", textureFilters, true)
	if err != nil {
		return FileSelection{Result: failed(err)}
	}
	if len(files) == 0 {
		return FileSelection{Result: canceled()}
	}
	return FileSelection{
		Result:      succeeded(),
		Files:       files,
		DefaultName: stem(files[0]),
		FrameCount:  len(files),
	}
}

// ImportStockshot picks a video or frames and resolves the full sequence.
func (s *Service) ImportStockshot(ctx context.Context, picker FilePicker) FileSelection {
	files, err := picker.PickFiles(ctx, "Select a video or image sequence", stockFilters, true)
	if err != nil {
		return FileSelection{Result: failed(err)}
	}
	if len(files) == 0 {
		return FileSelection{Result: canceled()}
	}
	return s.DetectStockshot(files)
}

// DetectStockshot runs sequence detection on an explicit file list.
func (s *Service) DetectStockshot(files []string) FileSelection {
	sel, err := sequence.Detect(files)
	if err != nil {
		return FileSelection{Result: failed(err)}
	}
	return FileSelection{
		Result:      succeeded(),
		Files:       sel.Files,
		DefaultName: sel.Name,
		Type:        sel.Type,
		FrameCount:  sel.FrameCount(),
	}
}

// Selection converts a stockshot pick back into the form the ingest
// pipeline takes.
func (f FileSelection) Selection() sequence.Selection {
	return sequence.Selection{
		Type:  f.Type,
		Files: append([]string(nil), f.Files...),
		Name:  f.DefaultName,
	}
}

// SaveAsset imports a model and its textures.
func (s *Service) SaveAsset(ctx context.Context, req ingest.AssetRequest) SaveResult {
	rec, err := s.pipeline.SaveAsset(ctx, req)
	if err != nil {
		return SaveResult{Result: failed(err)}
	}
	return SaveResult{Result: succeeded(), Item: &rec}
}

// SaveTexture imports a texture set.
func (s *Service) SaveTexture(ctx context.Context, req ingest.TextureRequest) SaveResult {
	rec, err := s.pipeline.SaveTexture(ctx, req)
	if err != nil {
		return SaveResult{Result: failed(err)}
	}
	return SaveResult{Result: succeeded(), Item: &rec}
}

// SaveStockshot imports a stockshot, reporting copy progress to sink.
func (s *Service) SaveStockshot(ctx context.Context, req ingest.StockshotRequest, sink ingest.ProgressSink) SaveResult {
	rec, err := s.pipeline.SaveStockshot(ctx, req, sink)
	if err != nil {
		return SaveResult{Result: failed(err)}
	}
	return SaveResult{Result: succeeded(), Item: &rec}
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
