package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"govdoc/internal/domain/services"
	"govdoc/internal/httputil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StatsHandler serves dashboard figures and the register export
type StatsHandler struct {
	stats  services.StatsService
	export services.ExportService
	logger *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(stats services.StatsService, export services.ExportService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		export: export,
		logger: logger,
	}
}

// Dashboard returns totals and the completion rate
// GET /api/v1/stats
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.stats.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, "", dash)
}

// Distribution returns per-status counts
// GET /api/v1/stats/distribution
func (h *StatsHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	dist, err := h.stats.Distribution(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, "", dist)
}

// ExportRegister streams the document register as an XLSX attachment
// GET /api/v1/documents/export
func (h *StatsHandler) ExportRegister(w http.ResponseWriter, r *http.Request) {
	data, err := h.export.ExportRegisterXLSX(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	filename := fmt.Sprintf("register-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
