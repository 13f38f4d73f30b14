package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"govdoc/internal/domain"
	"govdoc/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Domain errors carry their own status through domain.HTTPError.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	detail := "internal server error"

	var httpErr domain.HTTPError
	var persistErr *domain.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		// Driver errors carry file paths and SQL; only the operation is reported
		status = persistErr.StatusCode()
		detail = "failed to " + persistErr.Op
	case errors.As(err, &httpErr):
		status = httpErr.StatusCode()
		detail = httpErr.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			"path", r.URL.Path,
			"status", status,
			"request_id", httputil.GetRequestID(r),
			"error", err,
		)
	}

	extras := map[string]interface{}{}
	if id := httputil.GetRequestID(r); id != "" {
		extras["request_id"] = id
	}
	httputil.RespondErrorWithExtras(w, status, detail, extras)
}
