package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"govdoc/internal/domain"
	"govdoc/internal/domain/services"
	"govdoc/internal/httputil"
)

const (
	// AlreadySignedMessage answers a sign request for a signed document
	AlreadySignedMessage = "该公文此前已完成签收"
	signedMessageFormat  = "《%s》签收成功"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{
		docService: docService,
		logger:     logger,
	}
}

// ListDocuments returns every document, newest first
// GET /api/v1/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docService.ListDocuments(r.Context())
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, "", docs)
}

// GetDocument retrieves a document by ID
// GET /api/v1/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	doc, err := h.docService.GetDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondData(w, http.StatusOK, "", doc)
}

// SignDocument confirms receipt of a document. Repeating it is not an error.
// POST /api/v1/documents/{id}/sign
func (h *DocumentHandler) SignDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	doc, alreadySigned, err := h.docService.SignDocument(r.Context(), id)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if alreadySigned {
		httputil.RespondData(w, http.StatusOK, AlreadySignedMessage, doc)
		return
	}
	httputil.RespondData(w, http.StatusOK, fmt.Sprintf(signedMessageFormat, doc.Title), doc)
}

// HealthCheck reports liveness
// GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("invalid document id %q", raw)}
	}
	return id, nil
}
