package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"portal/internal/domain"
	"portal/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Client errors carry the error text; anything else is logged and hidden.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var conflictErr *domain.ConflictError

	switch status := domain.StatusCode(err); {
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	default:
		httputil.RespondError(w, status, err.Error())
	}
}
