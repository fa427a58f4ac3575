package handlers

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/services"
	"aicoach-backend/pkg/httputil"
	"net/http"

	"go.uber.org/zap"
)

// SessionHandlers handles HTTP requests related to coaching sessions.
type SessionHandlers struct {
	sessionService *services.SessionService
	logger         *zap.Logger
}

// NewSessionHandlers creates a new SessionHandlers instance.
func NewSessionHandlers(sessionService *services.SessionService, logger *zap.Logger) *SessionHandlers {
	return &SessionHandlers{sessionService: sessionService, logger: logger}
}

// HandleListSessions handles GET /sessions.
func (h *SessionHandlers) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrAbort(w, r)
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListSessions(r.Context(), p)
	if err != nil {
		respondServiceError(w, h.logger, "list sessions", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, sessions)
}

// HandleCreateSession handles POST /sessions.
func (h *SessionHandlers) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrAbort(w, r)
	if !ok {
		return
	}

	var req models.CreateSessionRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.sessionService.CreateSession(r.Context(), p, req.CoachType)
	if err != nil {
		respondServiceError(w, h.logger, "create session", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, session)
}
