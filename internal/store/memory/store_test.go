package memory

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSessions(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.CreateSession(ctx, store.CreateSessionParams{ID: "a", UserID: "u1", CoachType: "career", CreatedAt: base})
	require.NoError(t, err)
	_, err = s.CreateSession(ctx, store.CreateSessionParams{ID: "b", UserID: "u1", CoachType: "fitness", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)
	_, err = s.CreateSession(ctx, store.CreateSessionParams{ID: "c", UserID: "u2", CoachType: "career", CreatedAt: base})
	require.NoError(t, err)

	_, err = s.CreateSession(ctx, store.CreateSessionParams{ID: "a", UserID: "u1"})
	assert.Error(t, err, "duplicate ids are rejected")

	sessions, err := s.ListSessionsByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "b", sessions[0].ID)
	assert.Equal(t, "a", sessions[1].ID)

	none, err := s.ListSessionsByUser(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = s.GetSessionByID(ctx, "zzz")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStoreMessages(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_, err := s.CreateMessage(ctx, store.CreateMessageParams{ID: "m0", SessionID: "missing", Role: models.RoleUser, CreatedAt: base})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.CreateSession(ctx, store.CreateSessionParams{ID: "s", UserID: "u1", CoachType: "career", CreatedAt: base})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, store.CreateMessageParams{ID: "m2", SessionID: "s", Role: models.RoleAssistant, Content: "later", CreatedAt: base.Add(time.Second)})
	require.NoError(t, err)
	_, err = s.CreateMessage(ctx, store.CreateMessageParams{ID: "m1", SessionID: "s", Role: models.RoleUser, Content: "earlier", CreatedAt: base})
	require.NoError(t, err)

	msgs, err := s.ListMessagesBySession(ctx, "s")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "m1", msgs[0].ID)
	assert.Equal(t, "m2", msgs[1].ID)
}
