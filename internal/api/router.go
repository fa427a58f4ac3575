package api

import (
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/handlers"
	"aicoach-backend/internal/models"
	"aicoach-backend/pkg/httputil"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	SessionHandler *handlers.SessionHandlers
	ChatHandler    *handlers.ChatHandlers
	Verifier       auth.Verifier
	Logger         *zap.Logger
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	if deps.SessionHandler == nil || deps.ChatHandler == nil || deps.Verifier == nil {
		panic("router dependencies are incomplete")
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// --- CORS Configuration ---
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Public Routes ---
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, models.HealthResponse{
			Status:  "ok",
			Message: "AI Coach Backend is running",
		})
	})

	// --- Authenticated Routes ---
	r.Group(func(r chi.Router) {
		r.Use(PrincipalMiddleware(deps.Verifier, logger))

		r.Get("/sessions", deps.SessionHandler.HandleListSessions)
		r.Post("/sessions", deps.SessionHandler.HandleCreateSession)
		r.Post("/chat", deps.ChatHandler.HandleChat)
		r.Get("/messages", deps.ChatHandler.HandleListMessages)
	})

	return r
}
