package handlers

import (
	"net/http"
	"runtime"
	"time"

	"asset-library/internal/logging"
	"asset-library/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Error   string `json:"error,omitempty"`

	// Entries per kind, from the catalog
	Entries map[string]int `json:"entries,omitempty"`

	// Import streams currently attached
	ProgressSubscribers int `json:"progressSubscribers"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck reports service health. The catalog must be readable for the
// service to count as healthy.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:              statusHealthy,
		Version:             startup.Version,
		Uptime:              time.Since(h.startTime).Round(time.Second).String(),
		ProgressSubscribers: h.progress.Subscribers(),
		GoVersion:           runtime.Version(),
		NumCPU:              runtime.NumCPU(),
		NumGoroutine:        runtime.NumGoroutine(),
	}

	counts, err := h.lib.EntryCounts(r.Context())
	if err != nil {
		logging.Warn("Health check could not read catalog: %v", err)
		response.Status = statusDegraded
		response.Error = err.Error()
		writeJSONStatus(w, http.StatusServiceUnavailable, response)
		return
	}
	response.Entries = counts

	writeJSONStatus(w, http.StatusOK, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}
