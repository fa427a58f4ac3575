package models

import (
	"time"
)

// --- Request Structs ---

// CreateSessionRequest defines the expected body for POST /sessions.
type CreateSessionRequest struct {
	CoachType string `json:"coachType"`
}

// ChatRequest defines the expected body for POST /chat.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// --- Response Structs ---

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the unauthenticated root endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SessionResponse is the wire shape of a coaching session.
type SessionResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CoachType string    `json:"coachType"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageResponse is the wire shape of a chat message.
type MessageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatResponse carries the coach reply for one chat turn.
type ChatResponse struct {
	Response string `json:"response"`
}

// NewSessionResponse maps a stored session to its API representation.
func NewSessionResponse(s Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		CoachType: s.CoachType,
		CreatedAt: s.CreatedAt.UTC(),
	}
}

// NewMessageResponse maps a stored message to its API representation.
func NewMessageResponse(m Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID,
		SessionID: m.SessionID,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
