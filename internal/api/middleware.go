package api

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/pkg/httputil"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// --- Principal Middleware ---

// PrincipalMiddleware resolves the Authorization header through verifier.
// If valid, it injects the Principal into the request context; otherwise it answers
// 401 before the handler (and therefore any store call) runs.
func PrincipalMiddleware(verifier auth.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := auth.ExtractCredential(r.Header.Get("Authorization"))
			if credential == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			principal, err := verifier.Resolve(r.Context(), credential)
			if err != nil {
				status, message := authFailure(err)
				if errors.Is(err, auth.ErrIdentityUnavailable) {
					logger.Warn("token verification unavailable", zap.String("path", r.URL.Path), zap.Error(err))
				} else {
					logger.Info("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				}
				httputil.RespondError(w, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		return http.StatusUnauthorized, "Missing Authorization header"
	case errors.Is(err, auth.ErrMalformedCredential):
		return http.StatusUnauthorized, "Malformed token"
	case errors.Is(err, auth.ErrExpiredCredential):
		return http.StatusUnauthorized, "Token has expired"
	case errors.Is(err, auth.ErrIdentityUnavailable):
		return http.StatusUnauthorized, "Unable to verify token"
	default:
		return http.StatusUnauthorized, "Invalid authentication"
	}
}

// --- Request Logging ---

// RequestLogger logs one line per request with zap.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("request",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
