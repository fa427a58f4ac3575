package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends selectable through STORE_BACKEND.
const (
	StoreBackendREST     = "rest"
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// DefaultGeminiModel is the completion model used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-2.0-flash"

// LogConfig controls the zap logger built at startup.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort       string
	AllowedOrigins []string

	// SupabaseURL is the base URL shared by the identity service and the REST store.
	SupabaseURL string
	SupabaseKey string

	StoreBackend string
	DatabaseURL  string
	AutoMigrate  bool

	GeminiAPIKey string
	GeminiModel  string

	// AuthTestMode enables the development bypass credential. Never set in production.
	AuthTestMode bool

	IdentityTimeout time.Duration
	StoreTimeout    time.Duration
	AITimeout       time.Duration
	RequestTimeout  time.Duration

	Log LogConfig

	// DotEnvLoaded reports whether a .env file was read by LoadConfig.
	DotEnvLoaded bool
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	dotEnvErr := godotenv.Load()
	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}
	cfg.DotEnvLoaded = dotEnvErr == nil
	return cfg, nil
}

// FromEnv builds a Config from the current process environment without touching .env files.
func FromEnv() (*Config, error) {
	var err error
	cfg := &Config{
		HTTPPort:       getEnv("PORT", "8000"),
		AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001,http://localhost")),
		SupabaseURL:    strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseKey:    getEnv("SUPABASE_KEY", ""),
		StoreBackend:   strings.ToLower(getEnv("STORE_BACKEND", StoreBackendREST)),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		GeminiAPIKey:   strings.TrimSpace(getEnv("GEMINI_API_KEY", "")),
		GeminiModel:    getEnv("GEMINI_MODEL", DefaultGeminiModel),
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
	}

	if cfg.AuthTestMode, err = getBool("AUTH_TEST_MODE", false); err != nil {
		return nil, err
	}
	if cfg.AutoMigrate, err = getBool("AUTO_MIGRATE", false); err != nil {
		return nil, err
	}
	if cfg.IdentityTimeout, err = getSeconds("IDENTITY_TIMEOUT_SECONDS", 10); err != nil {
		return nil, err
	}
	if cfg.StoreTimeout, err = getSeconds("STORE_TIMEOUT_SECONDS", 10); err != nil {
		return nil, err
	}
	if cfg.AITimeout, err = getSeconds("AI_TIMEOUT_SECONDS", 30); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getSeconds("REQUEST_TIMEOUT_SECONDS", 60); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case StoreBackendREST:
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the %q store", c.StoreBackend)
		}
	case StoreBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %q store", c.StoreBackend)
		}
	case StoreBackendMemory:
		if !c.AuthTestMode {
			return fmt.Errorf("the %q store is only allowed with AUTH_TEST_MODE=true", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	// The identity service is always needed unless everything runs in test mode.
	if !c.AuthTestMode && (c.SupabaseURL == "" || c.SupabaseKey == "") {
		return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for token verification")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
// An empty variable counts as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getSeconds(key string, fallback int) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return time.Duration(fallback) * time.Second, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive number of seconds", key, raw)
	}
	return time.Duration(n) * time.Second, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
