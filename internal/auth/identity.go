package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// IdentityServiceVerifier delegates token verification to the hosted auth API
// (GET {baseURL}/auth/v1/user). Results are never cached.
//
// Before the remote call the token is parsed without signature verification to
// reject values that are not JWTs at all or whose exp claim has already passed.
// Signature checks stay with the identity service.
type IdentityServiceVerifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
	parser   *jwt.Parser
	now      func() time.Time
	logger   *zap.Logger
}

// NewIdentityServiceVerifier creates a verifier for the project at baseURL.
func NewIdentityServiceVerifier(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *IdentityServiceVerifier {
	return &IdentityServiceVerifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/auth/v1/user",
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		parser:   jwt.NewParser(),
		now:      time.Now,
		logger:   logger.Named("identity"),
	}
}

// expiryLeeway tolerates clock skew against the identity service before a token
// is rejected locally as expired.
const expiryLeeway = 30 * time.Second

type identityUser struct {
	ID string `json:"id"`
}

// Resolve implements Verifier.
func (v *IdentityServiceVerifier) Resolve(ctx context.Context, credential string) (Principal, error) {
	if credential == "" {
		return Principal{}, ErrMissingCredential
	}
	if err := v.precheck(credential); err != nil {
		return Principal{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: build request: %v", ErrIdentityUnavailable, err)
	}
	req.Header.Set("apikey", v.apiKey)
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Warn("identity service call failed", zap.Error(err))
		return Principal{}, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		v.logger.Info("identity service rejected token", zap.Int("status", resp.StatusCode))
		return Principal{}, ErrInvalidCredential
	default:
		_, _ = io.Copy(io.Discard, resp.Body)
		v.logger.Warn("identity service returned unexpected status", zap.Int("status", resp.StatusCode))
		return Principal{}, fmt.Errorf("%w: status %d", ErrIdentityUnavailable, resp.StatusCode)
	}

	var user identityUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return Principal{}, fmt.Errorf("%w: decode user: %v", ErrIdentityUnavailable, err)
	}
	if user.ID == "" {
		return Principal{}, ErrInvalidCredential
	}
	return Principal{ID: user.ID}, nil
}

func (v *IdentityServiceVerifier) precheck(credential string) error {
	claims := jwt.MapClaims{}
	if _, _, err := v.parser.ParseUnverified(credential, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if exp != nil && !v.now().Before(exp.Time.Add(expiryLeeway)) {
		return ErrExpiredCredential
	}
	return nil
}
