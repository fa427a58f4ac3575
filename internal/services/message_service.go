package services

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AuthorizedSession proves that a principal owns a session. It can only be obtained
// from MessageService.AuthorizeSession; the zero value authorizes nothing.
type AuthorizedSession struct {
	session   models.Session
	principal auth.Principal
}

// ID returns the session id.
func (a AuthorizedSession) ID() string { return a.session.ID }

func (a AuthorizedSession) valid() bool {
	return a.session.ID != "" && a.principal.ID != "" && a.session.UserID == a.principal.ID
}

// MessageService handles chat messages. Every operation requires the caller to own
// the parent session.
type MessageService struct {
	store  store.Store
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewMessageService creates a new MessageService.
func NewMessageService(s store.Store, logger *zap.Logger) *MessageService {
	return &MessageService{
		store:  s,
		logger: logger.Named("messages"),
		newID:  newID,
		now:    nowUTC,
	}
}

// AuthorizeSession checks that sessionID exists and belongs to p. A missing session
// and a foreign session both yield ErrNotAuthorized.
func (s *MessageService) AuthorizeSession(ctx context.Context, p auth.Principal, sessionID string) (AuthorizedSession, error) {
	if sessionID == "" {
		return AuthorizedSession{}, fmt.Errorf("%w: sessionId is required", ErrInvalidInput)
	}

	session, err := s.store.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Info("session lookup denied", zap.String("session_id", sessionID), zap.String("user_id", p.ID))
			return AuthorizedSession{}, ErrNotAuthorized
		}
		return AuthorizedSession{}, fmt.Errorf("%w: get session: %w", ErrPersistence, err)
	}
	if session.UserID != p.ID {
		s.logger.Info("session lookup denied", zap.String("session_id", sessionID), zap.String("user_id", p.ID))
		return AuthorizedSession{}, ErrNotAuthorized
	}
	return AuthorizedSession{session: *session, principal: p}, nil
}

// ListForSession returns the session's messages in chronological order.
func (s *MessageService) ListForSession(ctx context.Context, p auth.Principal, sessionID string) ([]models.MessageResponse, error) {
	authz, err := s.AuthorizeSession(ctx, p, sessionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.ListMessagesBySession(ctx, authz.ID())
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", ErrPersistence, err)
	}
	resp := make([]models.MessageResponse, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, models.NewMessageResponse(row))
	}
	return resp, nil
}

// Turn is a chat turn whose user message is already stored.
type Turn struct {
	svc     *MessageService
	authz   AuthorizedSession
	UserMsg models.Message
}

// BeginTurn stores the user half of a turn.
func (s *MessageService) BeginTurn(ctx context.Context, authz AuthorizedSession, userText string) (*Turn, error) {
	msg, err := s.appendMessage(ctx, authz, models.RoleUser, userText, time.Time{})
	if err != nil {
		return nil, err
	}
	return &Turn{svc: s, authz: authz, UserMsg: *msg}, nil
}

// Complete stores the assistant half of the turn. Its timestamp is strictly later
// than the user message's.
func (t *Turn) Complete(ctx context.Context, assistantText string) (models.Message, models.Message, error) {
	msg, err := t.svc.appendMessage(ctx, t.authz, models.RoleAssistant, assistantText, t.UserMsg.CreatedAt)
	if err != nil {
		return t.UserMsg, models.Message{}, err
	}
	return t.UserMsg, *msg, nil
}

// AppendTurn stores a user message followed by an assistant message.
func (s *MessageService) AppendTurn(ctx context.Context, authz AuthorizedSession, userText, assistantText string) (models.Message, models.Message, error) {
	turn, err := s.BeginTurn(ctx, authz, userText)
	if err != nil {
		return models.Message{}, models.Message{}, err
	}
	return turn.Complete(ctx, assistantText)
}

func (s *MessageService) appendMessage(ctx context.Context, authz AuthorizedSession, role models.Role, content string, notBefore time.Time) (*models.Message, error) {
	if !authz.valid() {
		return nil, ErrNotAuthorized
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown message role %q", ErrInvalidInput, role)
	}

	createdAt := s.now()
	if !notBefore.IsZero() {
		// Stores keep microseconds and order by createdat alone, so the later message
		// must land on a strictly later microsecond.
		floor := notBefore.Truncate(time.Microsecond).Add(time.Microsecond)
		if createdAt.Before(floor) {
			createdAt = floor
		}
	}

	msg, err := s.store.CreateMessage(ctx, store.CreateMessageParams{
		ID:        s.newID(),
		SessionID: authz.ID(),
		Role:      role,
		Content:   content,
		CreatedAt: createdAt,
	})
	if err != nil {
		s.logger.Error("append message failed",
			zap.String("session_id", authz.ID()),
			zap.String("role", string(role)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: append %s message: %w", ErrPersistence, role, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: append %s message: %w", ErrPersistence, role, store.ErrEmptyResult)
	}
	return msg, nil
}
