package auth

import (
	"context"
)

// Development bypass values used by local frontend tooling.
const (
	DevBypassCredential  = "debug_token"
	DevBypassPrincipalID = "00000000-0000-0000-0000-000000000001"
)

// TestModeVerifier resolves DevBypassCredential to a fixed principal and delegates
// every other credential to next. It must only be constructed when test mode is
// explicitly enabled.
type TestModeVerifier struct {
	next Verifier
}

// NewTestModeVerifier wraps next. A nil next rejects every non-bypass credential.
func NewTestModeVerifier(next Verifier) *TestModeVerifier {
	return &TestModeVerifier{next: next}
}

// Resolve implements Verifier.
func (v *TestModeVerifier) Resolve(ctx context.Context, credential string) (Principal, error) {
	if credential == DevBypassCredential {
		return Principal{ID: DevBypassPrincipalID}, nil
	}
	if credential == "" {
		return Principal{}, ErrMissingCredential
	}
	if v.next == nil {
		return Principal{}, ErrInvalidCredential
	}
	return v.next.Resolve(ctx, credential)
}
