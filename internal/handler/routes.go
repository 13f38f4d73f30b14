package handler

import (
	"net/http"
)

// APIPrefix is the version prefix of every JSON route
const APIPrefix = "/api/v1"

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Capture  *CaptureHandler
	Document *DocumentHandler
	Stats    *StatsHandler
}

// RegisterRoutes mounts the API on mux (Go 1.22+ enhanced patterns).
// When scanDir is set its files are served under /scans/.
func RegisterRoutes(mux *http.ServeMux, h *Handlers, scanDir string) {
	// Health check
	mux.HandleFunc("GET /health", h.Document.HealthCheck)

	// Capture routes (simulate_capture kept for older clients)
	mux.HandleFunc("POST "+APIPrefix+"/capture", h.Capture.Capture)
	mux.HandleFunc("POST "+APIPrefix+"/simulate_capture", h.Capture.Capture)

	// Document routes
	mux.HandleFunc("GET "+APIPrefix+"/documents", h.Document.ListDocuments)
	mux.HandleFunc("GET "+APIPrefix+"/documents/export", h.Stats.ExportRegister) // Wins over {id}: more specific pattern
	mux.HandleFunc("GET "+APIPrefix+"/documents/{id}", h.Document.GetDocument)
	mux.HandleFunc("POST "+APIPrefix+"/documents/{id}/sign", h.Document.SignDocument)

	// Stats routes
	mux.HandleFunc("GET "+APIPrefix+"/stats", h.Stats.Dashboard)
	mux.HandleFunc("GET "+APIPrefix+"/stats/distribution", h.Stats.Distribution)

	// Scanned images
	if scanDir != "" {
		mux.Handle("GET /scans/", http.StripPrefix("/scans/", http.FileServer(http.Dir(scanDir))))
	}
}
