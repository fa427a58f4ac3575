package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	calls []string
	id    string
	err   error
}

func (s *stubVerifier) Resolve(_ context.Context, credential string) (Principal, error) {
	s.calls = append(s.calls, credential)
	if s.err != nil {
		return Principal{}, s.err
	}
	return Principal{ID: s.id}, nil
}

func TestTestModeVerifierBypass(t *testing.T) {
	next := &stubVerifier{id: "real-user"}
	v := NewTestModeVerifier(next)

	p, err := v.Resolve(context.Background(), DevBypassCredential)
	require.NoError(t, err)
	assert.Equal(t, DevBypassPrincipalID, p.ID)
	assert.Empty(t, next.calls, "bypass must not reach the identity service")
}

func TestTestModeVerifierDelegates(t *testing.T) {
	next := &stubVerifier{id: "real-user"}
	v := NewTestModeVerifier(next)

	p, err := v.Resolve(context.Background(), "some.jwt.value")
	require.NoError(t, err)
	assert.Equal(t, "real-user", p.ID)
	assert.Equal(t, []string{"some.jwt.value"}, next.calls)

	next.err = ErrInvalidCredential
	_, err = v.Resolve(context.Background(), "other.jwt.value")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestTestModeVerifierWithoutDelegate(t *testing.T) {
	v := NewTestModeVerifier(nil)

	_, err := v.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = v.Resolve(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{ID: "u-1"})
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", p.ID)
}
