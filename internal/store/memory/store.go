// Package memory is an in-process store.Store used for local development in
// test mode and by unit tests. Data is lost on restart.
package memory

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"context"
	"fmt"
	"sort"
	"sync"
)

// Compile-time check to ensure MemoryStore implements store.Store
var _ store.Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	messages map[string][]models.Message // keyed by session id
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		messages: make(map[string][]models.Message),
	}
}

// ListSessionsByUser returns the sessions owned by userID, newest first.
func (s *MemoryStore) ListSessionsByUser(_ context.Context, userID string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := []models.Session{}
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			items = append(items, sess)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

// GetSessionByID retrieves a session by id.
// Returns store.ErrNotFound if it does not exist.
func (s *MemoryStore) GetSessionByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &sess, nil
}

// CreateSession inserts a session and returns the stored row.
func (s *MemoryStore) CreateSession(_ context.Context, arg store.CreateSessionParams) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[arg.ID]; exists {
		return nil, fmt.Errorf("session %s already exists", arg.ID)
	}
	sess := models.Session{
		ID:        arg.ID,
		UserID:    arg.UserID,
		CoachType: arg.CoachType,
		CreatedAt: arg.CreatedAt.UTC(),
	}
	s.sessions[arg.ID] = sess
	return &sess, nil
}

// ListMessagesBySession returns a session's messages, oldest first.
func (s *MemoryStore) ListMessagesBySession(_ context.Context, sessionID string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Message, len(s.messages[sessionID]))
	copy(items, s.messages[sessionID])
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// CreateMessage rejects messages for unknown sessions, like the foreign key on the hosted table.
func (s *MemoryStore) CreateMessage(_ context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[arg.SessionID]; !ok {
		return nil, fmt.Errorf("session %s: %w", arg.SessionID, store.ErrNotFound)
	}
	msg := models.Message{
		ID:        arg.ID,
		SessionID: arg.SessionID,
		Role:      arg.Role,
		Content:   arg.Content,
		CreatedAt: arg.CreatedAt.UTC(),
	}
	s.messages[arg.SessionID] = append(s.messages[arg.SessionID], msg)
	return &msg, nil
}
