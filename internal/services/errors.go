package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Custom errors shared by the services. Handlers map them to status codes.
var (
	// ErrNotAuthorized covers both a missing session and a session owned by someone
	// else, so callers cannot detect whether a session exists.
	ErrNotAuthorized = errors.New("not authorized to access this session")
	ErrPersistence   = errors.New("persistence failure")
	ErrInvalidInput  = errors.New("input validation failed")
)

// defaults for id and clock; tests replace them.
func newID() string      { return uuid.NewString() }
func nowUTC() time.Time { return time.Now().UTC() }
