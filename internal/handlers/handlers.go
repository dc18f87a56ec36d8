package handlers

import (
	"time"

	"asset-library/internal/library"
)

// Handlers serves the library over HTTP.
type Handlers struct {
	lib       *library.Service
	progress  *ProgressHub
	startTime time.Time
}

// New returns handlers for lib. Stockshot imports report to the returned
// handlers' progress hub.
func New(lib *library.Service) *Handlers {
	return &Handlers{
		lib:       lib,
		progress:  NewProgressHub(),
		startTime: time.Now(),
	}
}

// Progress returns the hub behind GET /api/progress.
func (h *Handlers) Progress() *ProgressHub {
	return h.progress
}
