package handlers

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/services"
	"aicoach-backend/pkg/httputil"
	"net/http"

	"go.uber.org/zap"
)

// ChatHandlers handles chat turns and message history.
type ChatHandlers struct {
	chatService    *services.ChatService
	messageService *services.MessageService
	logger         *zap.Logger
}

// NewChatHandlers creates a new ChatHandlers instance.
func NewChatHandlers(chatService *services.ChatService, messageService *services.MessageService, logger *zap.Logger) *ChatHandlers {
	return &ChatHandlers{
		chatService:    chatService,
		messageService: messageService,
		logger:         logger,
	}
}

// HandleChat handles POST /chat.
func (h *ChatHandlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrAbort(w, r)
	if !ok {
		return
	}

	var req models.ChatRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.chatService.Chat(r.Context(), p, req)
	if err != nil {
		respondServiceError(w, h.logger, "process chat message", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, resp)
}

// HandleListMessages handles GET /messages?sessionId=.
func (h *ChatHandlers) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	p, ok := principalOrAbort(w, r)
	if !ok {
		return
	}

	messages, err := h.messageService.ListForSession(r.Context(), p, r.URL.Query().Get("sessionId"))
	if err != nil {
		respondServiceError(w, h.logger, "list messages", err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, messages)
}
