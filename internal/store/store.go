package store

import (
	"aicoach-backend/internal/models"
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrEmptyResult is returned when a write succeeds at the transport level but the
// store hands back no record.
var ErrEmptyResult = errors.New("store returned no record")

// CreateSessionParams contains parameters for creating a session.
// The caller generates the ID and timestamp; the store persists them as given.
type CreateSessionParams struct {
	ID        string
	UserID    string
	CoachType string
	CreatedAt time.Time
}

// CreateMessageParams contains parameters for creating a chat message.
type CreateMessageParams struct {
	ID        string
	SessionID string
	Role      models.Role
	Content   string
	CreatedAt time.Time
}

// Store defines the interface for persistence operations on sessions and messages.
// This allows for mocking in tests and switching between the hosted REST API and a
// direct Postgres connection.
type Store interface {
	// Session operations
	ListSessionsByUser(ctx context.Context, userID string) ([]models.Session, error) // createdat DESC
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)
	CreateSession(ctx context.Context, arg CreateSessionParams) (*models.Session, error)

	// Message operations
	ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error) // createdat ASC
	CreateMessage(ctx context.Context, arg CreateMessageParams) (*models.Message, error)
}
