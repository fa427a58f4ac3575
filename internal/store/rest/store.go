// Package rest implements store.Store on top of the hosted PostgREST API
// ({baseURL}/rest/v1/{table}).
package rest

import (
	"aicoach-backend/internal/models"
	"aicoach-backend/internal/store"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	sessionTable = "Session"
	messageTable = "Message"
)

// Compile-time check to ensure RESTStore implements store.Store
var _ store.Store = (*RESTStore)(nil)

// RESTStore issues table-scoped select/insert requests against PostgREST.
type RESTStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewRESTStore creates a store for the project at baseURL, authenticating with apiKey.
// timeout bounds every round-trip.
func NewRESTStore(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *RESTStore {
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/") + "/rest/v1",
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.Named("rest_store"),
	}
}

// sessionRow and messageRow mirror the lowercase column names of the hosted tables.
type sessionRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userid"`
	CoachType string    `json:"coachtype"`
	CreatedAt timestamp `json:"createdat"`
}

func (r sessionRow) model() models.Session {
	return models.Session{ID: r.ID, UserID: r.UserID, CoachType: r.CoachType, CreatedAt: time.Time(r.CreatedAt)}
}

type messageRow struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionid"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt timestamp `json:"createdat"`
}

func (r messageRow) model() models.Message {
	return models.Message{ID: r.ID, SessionID: r.SessionID, Role: models.Role(r.Role), Content: r.Content, CreatedAt: time.Time(r.CreatedAt)}
}

// --- Session Methods ---

func (s *RESTStore) ListSessionsByUser(ctx context.Context, userID string) ([]models.Session, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("userid", "eq."+userID)
	q.Set("order", "createdat.desc")

	var rows []sessionRow
	if err := s.do(ctx, http.MethodGet, sessionTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("error querying sessions: %w", err)
	}
	items := make([]models.Session, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.model())
	}
	return items, nil
}

// GetSessionByID retrieves a session by id.
// Returns store.ErrNotFound if it does not exist.
func (s *RESTStore) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)

	var rows []sessionRow
	if err := s.do(ctx, http.MethodGet, sessionTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("error querying session: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNotFound
	}
	i := rows[0].model()
	return &i, nil
}

// CreateSession inserts a session and returns the stored row.
func (s *RESTStore) CreateSession(ctx context.Context, arg store.CreateSessionParams) (*models.Session, error) {
	body := map[string]string{
		"id":        arg.ID,
		"userid":    arg.UserID,
		"coachtype": arg.CoachType,
		"createdat": arg.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	var rows []sessionRow
	if err := s.do(ctx, http.MethodPost, sessionTable, nil, body, &rows); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrEmptyResult
	}
	i := rows[0].model()
	return &i, nil
}

// --- Message Methods ---

func (s *RESTStore) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.Message, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("sessionid", "eq."+sessionID)
	q.Set("order", "createdat.asc")

	var rows []messageRow
	if err := s.do(ctx, http.MethodGet, messageTable, q, nil, &rows); err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	items := make([]models.Message, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.model())
	}
	return items, nil
}

// CreateMessage inserts a message and returns the stored row.
func (s *RESTStore) CreateMessage(ctx context.Context, arg store.CreateMessageParams) (*models.Message, error) {
	body := map[string]string{
		"id":        arg.ID,
		"sessionid": arg.SessionID,
		"role":      string(arg.Role),
		"content":   arg.Content,
		"createdat": arg.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	var rows []messageRow
	if err := s.do(ctx, http.MethodPost, messageTable, nil, body, &rows); err != nil {
		return nil, fmt.Errorf("error creating message: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrEmptyResult
	}
	i := rows[0].model()
	return &i, nil
}

// APIError is returned when PostgREST answers with a non-2xx status.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
}

// Error implements error.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("postgrest: status %d", e.Status)
	}
	return fmt.Sprintf("postgrest: status %d: %s (%s)", e.Status, e.Message, e.Code)
}

func (s *RESTStore) do(ctx context.Context, method, table string, query url.Values, body any, out any) error {
	endpoint := s.baseURL + "/" + table
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("request failed", zap.String("method", method), zap.String("table", table), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		s.logger.Warn("postgrest error",
			zap.String("method", method),
			zap.String("table", table),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
