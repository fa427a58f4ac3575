package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Principal is the authenticated identity making a request.
type Principal struct {
	ID string
}

// ErrUnauthenticated is the root of every credential failure. All of them map to 401.
var ErrUnauthenticated = errors.New("unauthenticated")

var (
	ErrMissingCredential   = fmt.Errorf("%w: missing credential", ErrUnauthenticated)
	ErrMalformedCredential = fmt.Errorf("%w: malformed credential", ErrUnauthenticated)
	ErrExpiredCredential   = fmt.Errorf("%w: credential expired", ErrUnauthenticated)
	ErrInvalidCredential   = fmt.Errorf("%w: credential rejected", ErrUnauthenticated)
	ErrIdentityUnavailable = fmt.Errorf("%w: identity service unavailable", ErrUnauthenticated)
)

// Verifier resolves a bearer credential to a Principal.
type Verifier interface {
	Resolve(ctx context.Context, credential string) (Principal, error)
}

// ExtractCredential strips the "Bearer " scheme (any case) from an Authorization
// header value. A value without a scheme is returned as-is, trimmed. A bare scheme
// yields "".
func ExtractCredential(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return header
}
