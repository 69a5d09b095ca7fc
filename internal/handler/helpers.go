package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"assistant/internal/domain"
	"assistant/internal/httputil"
)

// handleError converts domain errors to RFC 7807 responses. The error kind
// travels in the "kind" field so clients can tell missing, invalid and
// upstream failures apart.
func handleError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)
	extras := map[string]interface{}{"kind": kind}

	var conflictErr *domain.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		extras["resource_id"] = conflictErr.ResourceID
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), extras)
	case kind == domain.KindNotFound:
		httputil.RespondErrorWithExtras(w, http.StatusNotFound, err.Error(), extras)
	case kind == domain.KindValidation:
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), extras)
	case kind == domain.KindDependency:
		httputil.RespondErrorWithExtras(w, http.StatusBadGateway, err.Error(), extras)
	case kind == domain.KindUnauthorized:
		httputil.RespondErrorWithExtras(w, http.StatusUnauthorized, err.Error(), extras)
	case kind == domain.KindForbidden:
		httputil.RespondErrorWithExtras(w, http.StatusForbidden, err.Error(), extras)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httputil.RespondErrorWithExtras(w, http.StatusServiceUnavailable, "request cancelled", extras)
	default:
		logger.Error("request failed", "error", err, "kind", kind)
		httputil.RespondErrorWithExtras(w, http.StatusInternalServerError, "internal server error", extras)
	}
}

// PathParam extracts a required path parameter, responding 400 when empty.
func PathParam(w http.ResponseWriter, r *http.Request, name, label string) (string, bool) {
	v := r.PathValue(name)
	if v == "" {
		httputil.RespondError(w, http.StatusBadRequest, label+" is required")
		return "", false
	}
	return v, true
}
