package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/forgo/shelf/internal/database"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	StaticDir       string
	LogLevel        string
}

// StoreConfig holds document store connection settings
type StoreConfig struct {
	URI            string
	Database       string
	Namespace      string
	User           string
	Password       string
	OpTimeout      time.Duration
	ConnectRetries int
	ConnectBackoff time.Duration
}

// RateLimitConfig holds per-client request limits. RPS of 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads an optional .env file and then configuration from environment
// variables with sensible defaults. Variables already set in the environment
// win over the file.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			Env:             getEnv("SERVER_ENV", "development"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			StaticDir:       getEnv("STATIC_DIR", "./frontend"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			URI:            getEnv("MONGO_URI", getEnv("STORE_URI", "")),
			Database:       getEnv("DB_NAME", ""),
			Namespace:      getEnv("DB_NAMESPACE", "shelf"),
			User:           getEnv("DB_USER", ""),
			Password:       getEnv("DB_PASSWORD", ""),
			OpTimeout:      getDurationEnv("STORE_OP_TIMEOUT", database.DefaultOpTimeout),
			ConnectRetries: getIntEnv("STORE_CONNECT_RETRIES", 3),
			ConnectBackoff: getDurationEnv("STORE_CONNECT_BACKOFF", 2*time.Second),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloatEnv("RATE_LIMIT_RPS", 0),
			Burst: getIntEnv("RATE_LIMIT_BURST", 0),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Database returns the persistence settings in the form the database
// package expects.
func (c *Config) Database() database.Config {
	return database.Config{
		URI:       c.Store.URI,
		Database:  c.Store.Database,
		Namespace: c.Store.Namespace,
		User:      c.Store.User,
		Password:  c.Store.Password,
		Timeout:   c.Store.OpTimeout,
	}
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Server.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	} else if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a number between 1 and 65535, got '%s'", c.Server.Port))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SERVER_SHUTDOWN_TIMEOUT must be positive"))
	}

	// Store validation
	if c.Store.URI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	} else if _, err := database.DriverFor(c.Store.URI); err != nil {
		errs = append(errs, fmt.Errorf("MONGO_URI: %w", err))
	}
	if c.Store.OpTimeout <= 0 {
		errs = append(errs, errors.New("STORE_OP_TIMEOUT must be positive"))
	}
	if c.Store.ConnectRetries < 0 {
		errs = append(errs, errors.New("STORE_CONNECT_RETRIES must not be negative"))
	}

	// Rate limit validation
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	if c.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_BURST must not be negative"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
