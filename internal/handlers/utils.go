package handlers

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/services"
	"aicoach-backend/pkg/httputil"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// principalOrAbort reads the principal placed on the context by the auth middleware.
// It answers 401 and returns false when the route was mounted without it.
func principalOrAbort(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Unauthorized")
		return auth.Principal{}, false
	}
	return p, true
}

// respondServiceError maps service errors to status codes. Persistence details are
// logged, never sent to the client.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, action string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		httputil.RespondError(w, http.StatusBadRequest, strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": "))
	case errors.Is(err, services.ErrNotAuthorized):
		httputil.RespondError(w, http.StatusForbidden, "Not authorized to view this session")
	default:
		logger.Error(action+" failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
