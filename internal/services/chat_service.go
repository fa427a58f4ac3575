package services

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/coach"
	"aicoach-backend/internal/models"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ChatService runs one chat turn: authorize, store the user message, ask the coach,
// store the reply.
type ChatService struct {
	messages *MessageService
	coach    coach.Responder
	logger   *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(messages *MessageService, responder coach.Responder, logger *zap.Logger) *ChatService {
	return &ChatService{
		messages: messages,
		coach:    responder,
		logger:   logger.Named("chat"),
	}
}

// Chat processes a user message for sessionID and returns the coach reply.
// If the user message cannot be stored the coach is not consulted.
func (s *ChatService) Chat(ctx context.Context, p auth.Principal, req models.ChatRequest) (*models.ChatResponse, error) {
	text := strings.TrimSpace(req.Message)
	if req.SessionID == "" || text == "" {
		return nil, fmt.Errorf("%w: sessionId and message are required", ErrInvalidInput)
	}

	authz, err := s.messages.AuthorizeSession(ctx, p, req.SessionID)
	if err != nil {
		return nil, err
	}

	turn, err := s.messages.BeginTurn(ctx, authz, req.Message)
	if err != nil {
		return nil, err
	}

	reply := s.coach.Respond(ctx, req.Message)

	if _, _, err := turn.Complete(ctx, reply); err != nil {
		return nil, err
	}

	s.logger.Debug("chat turn stored", zap.String("session_id", authz.ID()), zap.Int("reply_len", len(reply)))
	return &models.ChatResponse{Response: reply}, nil
}
