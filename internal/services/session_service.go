package services

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SessionService handles coaching-session business logic, always scoped to a principal.
type SessionService struct {
	store  store.Store
	logger *zap.Logger
	newID  func() string
	now    func() time.Time
}

// NewSessionService creates a new SessionService.
func NewSessionService(s store.Store, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  s,
		logger: logger.Named("sessions"),
		newID:  newID,
		now:    nowUTC,
	}
}

// ListSessions returns the principal's sessions, newest first. No sessions is an
// empty slice, not an error.
func (s *SessionService) ListSessions(ctx context.Context, p auth.Principal) ([]models.SessionResponse, error) {
	rows, err := s.store.ListSessionsByUser(ctx, p.ID)
	if err != nil {
		s.logger.Error("list sessions failed", zap.String("user_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: list sessions: %w", ErrPersistence, err)
	}

	resp := make([]models.SessionResponse, 0, len(rows))
	for _, row := range rows {
		// The store filters by owner; this keeps a misbehaving backend from leaking rows.
		if row.UserID != p.ID {
			s.logger.Error("store returned a foreign session", zap.String("session_id", row.ID))
			continue
		}
		resp = append(resp, models.NewSessionResponse(row))
	}
	return resp, nil
}

// CreateSession stores a new session for the principal and returns the record as
// the store reports it back.
func (s *SessionService) CreateSession(ctx context.Context, p auth.Principal, coachType string) (*models.SessionResponse, error) {
	coachType = strings.TrimSpace(coachType)
	if coachType == "" {
		return nil, fmt.Errorf("%w: coachType is required", ErrInvalidInput)
	}

	created, err := s.store.CreateSession(ctx, store.CreateSessionParams{
		ID:        s.newID(),
		UserID:    p.ID,
		CoachType: coachType,
		CreatedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("create session failed", zap.String("user_id", p.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: create session: %w", ErrPersistence, err)
	}
	if created == nil {
		return nil, fmt.Errorf("%w: create session: %w", ErrPersistence, store.ErrEmptyResult)
	}

	s.logger.Info("session created", zap.String("session_id", created.ID), zap.String("coach_type", created.CoachType))
	resp := models.NewSessionResponse(*created)
	return &resp, nil
}
