package api

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/coach"
	"aicoach-backend/internal/handlers"
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/services"
	"aicoach-backend/internal/store"
	"aicoach-backend/internal/store/memory"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// countingStore records every call that reaches the store.
type countingStore struct {
	store.Store
	calls int32
}

func (c *countingStore) ListSessionsByUser(ctx context.Context, userID string) ([]models.Session, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.Store.ListSessionsByUser(ctx, userID)
}

func (c *countingStore) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.Store.GetSessionByID(ctx, id)
}

func (c *countingStore) CreateSession(ctx context.Context, arg store.CreateSessionParams) (*models.Session, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.Store.CreateSession(ctx, arg)
}

func (c *countingStore) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.Store.ListMessagesBySession(ctx, sessionID)
}

func (c *countingStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.Store.CreateMessage(ctx, arg)
}

// tokenVerifier maps fixed tokens to principals.
type tokenVerifier map[string]string

func (v tokenVerifier) Resolve(_ context.Context, credential string) (auth.Principal, error) {
	if id, ok := v[credential]; ok {
		return auth.Principal{ID: id}, nil
	}
	return auth.Principal{}, auth.ErrInvalidCredential
}

const (
	tokenA = "token-for-a"
	tokenB = "token-for-b"
)

func setupRouter(t *testing.T) (*chi.Mux, *countingStore) {
	t.Helper()
	logger := zap.NewNop()
	cs := &countingStore{Store: memory.NewMemoryStore()}

	sessionSvc := services.NewSessionService(cs, logger)
	messageSvc := services.NewMessageService(cs, logger)
	chatSvc := services.NewChatService(messageSvc, coach.PlaceholderResponder{}, logger)

	verifier := auth.NewTestModeVerifier(tokenVerifier{tokenA: "principal-a", tokenB: "principal-b"})

	r := NewRouter(RouterDependencies{
		SessionHandler: handlers.NewSessionHandlers(sessionSvc, logger),
		ChatHandler:    handlers.NewChatHandlers(chatSvc, messageSvc, logger),
		Verifier:       verifier,
		Logger:         logger,
		AllowedOrigins: []string{"http://localhost:3000"},
		RequestTimeout: 5 * time.Second,
	})
	return r, cs
}

func doRequest(r http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createSession(t *testing.T, r http.Handler, token, coachType string) models.SessionResponse {
	t.Helper()
	resp := doRequest(r, http.MethodPost, "/sessions", token, map[string]string{"coachType": coachType})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var session models.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	return session
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupRouter(t)

	resp := doRequest(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var body models.HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Message)
}

func TestCreateSessionWithBypassCredential(t *testing.T) {
	r, _ := setupRouter(t)

	resp := doRequest(r, http.MethodPost, "/sessions", auth.DevBypassCredential, map[string]string{"coachType": "career"})
	require.Equal(t, http.StatusOK, resp.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	assert.NotEmpty(t, raw["id"])
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", raw["userId"])
	assert.Equal(t, "career", raw["coachType"])
	assert.NotEmpty(t, raw["createdAt"])
}

func TestMissingAuthorizationMakesNoStoreCalls(t *testing.T) {
	r, cs := setupRouter(t)

	routes := []struct{ method, target string }{
		{http.MethodGet, "/sessions"},
		{http.MethodPost, "/sessions"},
		{http.MethodPost, "/chat"},
		{http.MethodGet, "/messages?sessionId=anything"},
	}
	for _, rt := range routes {
		resp := doRequest(r, rt.method, rt.target, "", map[string]string{"coachType": "career"})
		assert.Equal(t, http.StatusUnauthorized, resp.Code, "%s %s", rt.method, rt.target)

		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Error)
	}
	assert.Zero(t, atomic.LoadInt32(&cs.calls))
}

func TestBearerSchemeWithoutTokenIsMissing(t *testing.T) {
	r, cs := setupRouter(t)

	for _, header := range []string{"Bearer ", "bearer", "Bearer    "} {
		req := httptest.NewRequest(http.MethodGet, "/sessions", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.JSONEq(t, `{"error":"Missing Authorization header"}`, rec.Body.String(), "header %q", header)
	}
	assert.Zero(t, atomic.LoadInt32(&cs.calls))
}

func TestInvalidTokenIsUnauthorized(t *testing.T) {
	r, cs := setupRouter(t)

	resp := doRequest(r, http.MethodGet, "/sessions", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Zero(t, atomic.LoadInt32(&cs.calls))
}

func TestMessagesForForeignSessionIsForbidden(t *testing.T) {
	r, _ := setupRouter(t)
	owned := createSession(t, r, tokenB, "career")

	resp := doRequest(r, http.MethodGet, "/messages?sessionId="+owned.ID, tokenA, nil)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	missing := doRequest(r, http.MethodGet, "/messages?sessionId=no-such-session", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, missing.Code)
	assert.Equal(t, resp.Body.String(), missing.Body.String())
}

func TestChatForForeignSessionIsForbidden(t *testing.T) {
	r, cs := setupRouter(t)
	owned := createSession(t, r, tokenB, "career")
	before := atomic.LoadInt32(&cs.calls)

	resp := doRequest(r, http.MethodPost, "/chat", tokenA, models.ChatRequest{SessionID: owned.ID, Message: "hi"})
	assert.Equal(t, http.StatusForbidden, resp.Code)
	// Only the ownership lookup reached the store.
	assert.Equal(t, before+1, atomic.LoadInt32(&cs.calls))
}

func TestChatTurnRoundTrip(t *testing.T) {
	r, _ := setupRouter(t)
	session := createSession(t, r, tokenA, "career")

	resp := doRequest(r, http.MethodPost, "/chat", tokenA, models.ChatRequest{SessionID: session.ID, Message: "I want a raise"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var chat models.ChatResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &chat))
	assert.Contains(t, chat.Response, "I want a raise")

	resp = doRequest(r, http.MethodGet, "/messages?sessionId="+session.ID, tokenA, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var msgs []models.MessageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, "I want a raise", msgs[0].Content)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
	assert.Equal(t, chat.Response, msgs[1].Content)
	assert.Equal(t, session.ID, msgs[1].SessionID)
}

func TestListSessionsOnlyReturnsOwn(t *testing.T) {
	r, _ := setupRouter(t)
	createSession(t, r, tokenA, "career")
	createSession(t, r, tokenB, "fitness")

	resp := doRequest(r, http.MethodGet, "/sessions", tokenA, nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var sessions []models.SessionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, "principal-a", sessions[0].UserID)
	assert.Equal(t, "career", sessions[0].CoachType)
}

func TestListSessionsEmptyIsArray(t *testing.T) {
	r, _ := setupRouter(t)

	resp := doRequest(r, http.MethodGet, "/sessions", tokenA, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestBadRequests(t *testing.T) {
	r, _ := setupRouter(t)

	resp := doRequest(r, http.MethodPost, "/sessions", tokenA, map[string]string{"coachType": ""})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte(`{not json`)))
	req.Header.Set("Authorization", "Bearer "+tokenA)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp = doRequest(r, http.MethodGet, "/messages", tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
