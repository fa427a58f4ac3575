package main

import (
	"aicoach-backend/internal/api"
	"aicoach-backend/internal/auth"
	"aicoach-backend/internal/coach"
	"aicoach-backend/internal/config"
	"aicoach-backend/internal/handlers"
	"aicoach-backend/internal/logging"
	"aicoach-backend/internal/services"
	"aicoach-backend/internal/store"
	"aicoach-backend/internal/store/memory"
	"aicoach-backend/internal/store/postgres"
	"aicoach-backend/internal/store/rest"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if !cfg.DotEnvLoaded {
		logger.Warn("Could not load .env file, using environment variables only")
	}
	logger.Info("Starting AI Coach Backend...",
		zap.String("port", cfg.HTTPPort),
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("supabase_url", cfg.SupabaseURL),
		zap.Bool("gemini_key_set", cfg.GeminiAPIKey != ""),
		zap.Bool("auth_test_mode", cfg.AuthTestMode))

	// 2. Initialize Store
	st, closeStore, err := buildStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	// 3. Identity Verification
	var verifier auth.Verifier
	if cfg.SupabaseURL != "" {
		verifier = auth.NewIdentityServiceVerifier(cfg.SupabaseURL, cfg.SupabaseKey, cfg.IdentityTimeout, logger)
	}
	if cfg.AuthTestMode {
		logger.Warn("AUTH_TEST_MODE is enabled; the development bypass credential is accepted")
		verifier = auth.NewTestModeVerifier(verifier)
	}

	// 4. Coach Responder
	responder, err := coach.NewResponder(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.AITimeout, logger)
	if err != nil {
		logger.Fatal("Failed to initialize coach responder", zap.Error(err))
	}

	// --- Initialize Services ---
	sessionService := services.NewSessionService(st, logger)
	messageService := services.NewMessageService(st, logger)
	chatService := services.NewChatService(messageService, responder, logger)

	// --- Initialize Handlers ---
	sessionHandler := handlers.NewSessionHandlers(sessionService, logger)
	chatHandler := handlers.NewChatHandlers(chatService, messageService, logger)

	// 5. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		SessionHandler: sessionHandler,
		ChatHandler:    chatHandler,
		Verifier:       verifier,
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	// 6. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Could not listen", zap.String("addr", server.Addr), zap.Error(err))
		}
	}()

	<-stopChan
	logger.Info("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("Server shutdown complete.")
}

// buildStore selects the persistence backend. The returned func releases its resources.
func buildStore(cfg *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBackendREST:
		return rest.NewRESTStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StoreTimeout, logger), func() {}, nil

	case config.StoreBackendPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create connection pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("Database schema ensured")
		}
		logger.Info("Database connection pool established")
		return postgres.NewPostgresStore(pool, cfg.StoreTimeout, logger), pool.Close, nil

	case config.StoreBackendMemory:
		logger.Warn("Using in-memory store; data is lost on restart")
		return memory.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
