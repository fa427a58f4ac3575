package postgres

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// PostgresStore talks to the hosted database directly over a pgx pool.
// Table names are quoted because the schema was created with capitalised names.
type PostgresStore struct {
	db      *pgxpool.Pool
	timeout time.Duration
	logger  *zap.Logger
}

// NewPostgresStore creates a store over db. timeout bounds every query.
func NewPostgresStore(db *pgxpool.Pool, timeout time.Duration, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout, logger: logger.Named("postgres_store")}
}

func (s *PostgresStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// --- Session Methods ---

const listSessionsByUser = `-- name: ListSessionsByUser :many
SELECT id::text, userid::text, coachtype, createdat
FROM "Session"
WHERE userid::text = $1
ORDER BY createdat DESC;
`

// ListSessionsByUser returns the sessions owned by userID, newest first.
func (s *PostgresStore) ListSessionsByUser(ctx context.Context, userID string) ([]models.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, listSessionsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	defer rows.Close()

	items := []models.Session{}
	for rows.Next() {
		var i models.Session
		if err := rows.Scan(&i.ID, &i.UserID, &i.CoachType, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning session row: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating session rows: %w", err)
	}
	return items, nil
}

const getSessionByID = `-- name: GetSessionByID :one
SELECT id::text, userid::text, coachtype, createdat
FROM "Session"
WHERE id::text = $1;
`

// GetSessionByID returns store.ErrNotFound if the session does not exist.
func (s *PostgresStore) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var i models.Session
	err := s.db.QueryRow(ctx, getSessionByID, id).Scan(&i.ID, &i.UserID, &i.CoachType, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("error scanning session: %w", err)
	}
	return &i, nil
}

const createSession = `-- name: CreateSession :one
INSERT INTO "Session" (id, userid, coachtype, createdat)
VALUES ($1, $2, $3, $4)
RETURNING id::text, userid::text, coachtype, createdat;
`

// CreateSession inserts a session and returns the stored row.
func (s *PostgresStore) CreateSession(ctx context.Context, arg store.CreateSessionParams) (*models.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var i models.Session
	err := s.db.QueryRow(ctx, createSession, arg.ID, arg.UserID, arg.CoachType, arg.CreatedAt).
		Scan(&i.ID, &i.UserID, &i.CoachType, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEmptyResult
		}
		s.logPgError("CreateSession", err)
		return nil, fmt.Errorf("database error creating session: %w", err)
	}
	return &i, nil
}

// --- Message Methods ---

const listMessagesBySession = `-- name: ListMessagesBySession :many
SELECT id::text, sessionid::text, role, content, createdat
FROM "Message"
WHERE sessionid::text = $1
ORDER BY createdat ASC;
`

// ListMessagesBySession returns a session's messages, oldest first.
func (s *PostgresStore) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Query(ctx, listMessagesBySession, sessionID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	items := []models.Message{}
	for rows.Next() {
		var i models.Message
		var role string
		if err := rows.Scan(&i.ID, &i.SessionID, &role, &i.Content, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message row: %w", err)
		}
		i.Role = models.Role(role)
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}
	return items, nil
}

const createMessage = `-- name: CreateMessage :one
INSERT INTO "Message" (id, sessionid, role, content, createdat)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text, sessionid::text, role, content, createdat;
`

// CreateMessage inserts a message and returns the stored row.
func (s *PostgresStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var i models.Message
	var role string
	err := s.db.QueryRow(ctx, createMessage, arg.ID, arg.SessionID, string(arg.Role), arg.Content, arg.CreatedAt).
		Scan(&i.ID, &i.SessionID, &role, &i.Content, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrEmptyResult
		}
		s.logPgError("CreateMessage", err)
		return nil, fmt.Errorf("database error creating message: %w", err)
	}
	i.Role = models.Role(role)
	return &i, nil
}

func (s *PostgresStore) logPgError(op string, err error) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		s.logger.Error("postgres error",
			zap.String("op", op),
			zap.String("code", pgErr.Code),
			zap.String("message", pgErr.Message),
			zap.String("detail", pgErr.Detail))
		return
	}
	s.logger.Error("query failed", zap.String("op", op), zap.Error(err))
}
