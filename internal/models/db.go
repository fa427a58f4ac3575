package models

import (
	"time"
)

// Role identifies who authored a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Session represents a coaching session row.
// Column names follow the hosted schema, which uses lowercase identifiers.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"userid"`
	CoachType string    `db:"coachtype"`
	CreatedAt time.Time `db:"createdat"`
}

// Message represents a single chat message row belonging to a session.
type Message struct {
	ID        string    `db:"id"`
	SessionID string    `db:"sessionid"`
	Role      Role      `db:"role"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"createdat"`
}
