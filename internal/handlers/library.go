package handlers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"asset-library/internal/assettypes"
	"asset-library/internal/catalog"
	"asset-library/internal/ingest"
	"asset-library/internal/library"
	"asset-library/internal/logging"
	"asset-library/internal/sequence"
)

// maxThumbnailBody bounds an uploaded preview image.
const maxThumbnailBody = 32 << 20

type saveAssetRequest struct {
	Name         string   `json:"name"`
	FBXPath      string   `json:"fbxPath"`
	TexturePaths []string `json:"texturePaths"`
}

type saveFilesRequest struct {
	Name  string                   `json:"name"`
	Type  assettypes.StockshotType `json:"type,omitempty"`
	Files []string                 `json:"files"`
}

type renameRequest struct {
	Name string `json:"name"`
}

type exportRequest struct {
	Destination string `json:"destination"`
}

// ListEntries returns every entry of a kind.
func (h *Handlers) ListEntries(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}

	records, err := h.lib.List(r.Context(), kind)
	if err != nil {
		logging.Error("failed to list %s: %v", kind, err)
		writeJSONError(w, "failed to list "+string(kind), errorStatus(err))
		return
	}
	if records == nil {
		records = []catalog.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, records)
}

// SaveAsset imports a model with its textures.
func (h *Handlers) SaveAsset(w http.ResponseWriter, r *http.Request) {
	var req saveAssetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.lib.SaveAsset(r.Context(), ingest.AssetRequest{
		Name:     req.Name,
		FBXPath:  req.FBXPath,
		Textures: req.TexturePaths,
	})
	writeResult(w, res.Result, res)
}

// SaveTexture imports a texture set.
func (h *Handlers) SaveTexture(w http.ResponseWriter, r *http.Request) {
	var req saveFilesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.lib.SaveTexture(r.Context(), ingest.TextureRequest{
		Name:  req.Name,
		Files: req.Files,
	})
	writeResult(w, res.Result, res)
}

// SaveStockshot imports a video or image sequence. Progress goes to the
// event stream. Without a type the files are run through sequence
// detection first.
func (h *Handlers) SaveStockshot(w http.ResponseWriter, r *http.Request) {
	var req saveFilesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sel := sequence.Selection{Type: req.Type, Files: req.Files}
	if sel.Type == "" {
		detected := h.lib.DetectStockshot(req.Files)
		if !detected.Success {
			writeResult(w, detected.Result, library.SaveResult{Result: detected.Result})
			return
		}
		sel = detected.Selection()
	}

	res := h.lib.SaveStockshot(r.Context(), ingest.StockshotRequest{
		Name:      req.Name,
		Selection: sel,
	}, h.progress)
	writeResult(w, res.Result, res)
}

// DetectStockshot resolves the stockshot a set of picked files belongs to.
func (h *Handlers) DetectStockshot(w http.ResponseWriter, r *http.Request) {
	var req saveFilesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.lib.DetectStockshot(req.Files)
	writeResult(w, res.Result, res)
}

// RenameEntry changes the display name of an entry.
func (h *Handlers) RenameEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}
	var req renameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.lib.Rename(r.Context(), kind, mux.Vars(r)["id"], req.Name)
	writeResult(w, res.Result, res)
}

// DeleteEntry removes an entry and its files.
func (h *Handlers) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}

	res := h.lib.Delete(r.Context(), kind, mux.Vars(r)["id"])
	writeResult(w, res, res)
}

// ExportEntry writes an entry to a zip archive at the requested destination.
// An empty destination cancels.
func (h *Handlers) ExportEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}
	var req exportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res := h.lib.Export(r.Context(), kind, mux.Vars(r)["id"], library.StaticSaveLocation(req.Destination))
	writeResult(w, res.Result, res)
}

// GetThumbnail serves the preview image of an entry.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}

	path, err := h.lib.Thumbnail(r.Context(), kind, mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, err.Error(), errorStatus(err))
		return
	}
	if path == "" {
		writeJSONError(w, "no preview available", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "no-cache")
	http.ServeFile(w, r, path)
}

// SetAssetThumbnail stores an image rendered by the client as the preview
// of an asset.
func (h *Handlers) SetAssetThumbnail(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxThumbnailBody))
	if err != nil {
		writeJSONError(w, "failed to read image: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		writeJSONError(w, "empty image", http.StatusBadRequest)
		return
	}

	res := h.lib.SetModelThumbnail(r.Context(), mux.Vars(r)["id"], data)
	writeResult(w, res, res)
}

// RenderAssetThumbnail renders an asset preview with the configured renderer.
func (h *Handlers) RenderAssetThumbnail(w http.ResponseWriter, r *http.Request) {
	res := h.lib.RenderModelThumbnail(r.Context(), mux.Vars(r)["id"])
	writeResult(w, res, res)
}

// RebuildThumbnails regenerates missing previews of a kind, or all of them
// with ?force=true.
func (h *Handlers) RebuildThumbnails(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindVar(w, r)
	if !ok {
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := h.lib.RebuildThumbnails(r.Context(), kind, force)
	if err != nil {
		logging.Error("thumbnail rebuild for %s failed: %v", kind, err)
		writeJSONError(w, err.Error(), errorStatus(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, res)
}
