package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"govdoc/internal/config"
	"govdoc/internal/domain"
	"govdoc/internal/domain/services"
	"govdoc/internal/httputil"
	"govdoc/internal/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CaptureSuccessMessage is returned with a freshly registered document
const CaptureSuccessMessage = "采集识别成功"

// CaptureHandler triggers intake of a scanned page
type CaptureHandler struct {
	workflow    services.WorkflowService
	defaultPath string
	scanDir     string
	logger      *slog.Logger
}

// NewCaptureHandler creates a capture handler. Requests without an image_path
// ingest defaultPath, the scanner's fixed output file. When scanDir is set an
// explicit image_path must point inside it.
func NewCaptureHandler(workflow services.WorkflowService, defaultPath, scanDir string, logger *slog.Logger) *CaptureHandler {
	return &CaptureHandler{
		workflow:    workflow,
		defaultPath: defaultPath,
		scanDir:     scanDir,
		logger:      logger,
	}
}

// Capture runs the intake workflow on one image
// POST /api/v1/capture
func (h *CaptureHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var req services.CaptureRequest
	if err := httputil.ParseOptionalJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, &domain.ValidationError{Message: err.Error()})
		return
	}

	if err := validateCaptureRequest(&req); err != nil {
		handleError(w, r, h.logger, &domain.ValidationError{Message: fmt.Sprintf("invalid capture request: %v", err)})
		return
	}

	imagePath := req.ImagePath
	if imagePath == "" {
		imagePath = h.defaultPath
	} else if h.scanDir != "" {
		if err := utils.ValidateScanPath(h.scanDir, imagePath); err != nil {
			handleError(w, r, h.logger, &domain.ValidationError{Message: err.Error()})
			return
		}
	}

	doc, err := h.workflow.ProcessNewScan(r.Context(), imagePath)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, CaptureSuccessMessage, doc)
}

func validateCaptureRequest(req *services.CaptureRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ImagePath, validation.Length(0, config.MaxImagePathLength)),
	)
}
