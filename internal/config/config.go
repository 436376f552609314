package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	JWT      JWTConfig
	App      AppConfig
	Session  SessionConfig
	Leave    LeaveConfig
}

// DatabaseConfig holds the relational backend settings. An empty URL
// selects the JSON document backend.
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// StorageConfig locates the JSON document used when no database is configured.
type StorageConfig struct {
	DataDir  string
	DataFile string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type SessionConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

type LeaveConfig struct {
	ApprovalLevels int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	idleTime, err := time.ParseDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_IDLE_TIME: %w", err)
	}
	connectTimeout, err := time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:             getEnv("DATABASE_URL", ""),
		MaxConns:        int32(maxConns),
		MaxConnIdleTime: idleTime,
		ConnectTimeout:  connectTimeout,
	}

	config.Storage = StorageConfig{
		DataDir:  getEnv("DATA_DIR", "data"),
		DataFile: getEnv("DATA_FILE", "db.json"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	purgeInterval, err := time.ParseDuration(getEnv("SESSION_PURGE_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_PURGE_INTERVAL: %w", err)
	}
	config.Session = SessionConfig{TTL: sessionTTL, PurgeInterval: purgeInterval}

	levels, err := strconv.Atoi(getEnv("LEAVE_APPROVAL_LEVELS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_APPROVAL_LEVELS: %w", err)
	}
	config.Leave = LeaveConfig{ApprovalLevels: levels}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.Database.ConnectTimeout <= 0 {
		return fmt.Errorf("DB_CONNECT_TIMEOUT must be positive")
	}
	if !c.UsePostgres() && strings.TrimSpace(c.Storage.DataFile) == "" {
		return fmt.Errorf("DATA_FILE is required when DATABASE_URL is not set")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.PurgeInterval <= 0 {
		return fmt.Errorf("SESSION_PURGE_INTERVAL must be positive")
	}
	if c.Leave.ApprovalLevels < 1 {
		return fmt.Errorf("LEAVE_APPROVAL_LEVELS must be at least 1")
	}
	return nil
}

// UsePostgres reports whether a connection string selects the relational backend.
func (c *Config) UsePostgres() bool {
	return strings.TrimSpace(c.Database.URL) != ""
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
