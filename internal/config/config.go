package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPlaceholderPassword is assigned to accounts created offline on a terminal
const DefaultPlaceholderPassword = "ChangeMe123!"

// Config holds all application configuration
type Config struct {
	NodeEnv        string
	Port           string
	JWTSecret      string
	AccessTokenTTL time.Duration
	AutoMigrate    bool
	Database       DatabaseConfig
	Sync           SyncConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       string
	Username   string
	Password   string
	Database   string
	SQLitePath string
	Silent     bool

	// Embedded PostgreSQL, used when Host is localhost and no password is set
	EmbeddedDataPath string
	EmbeddedPort     int
}

// Embedded reports whether Connect should run its own PostgreSQL process
func (c DatabaseConfig) Embedded() bool {
	return c.Host == "localhost" && c.Password == ""
}

// SyncConfig holds push/pull tuning
type SyncConfig struct {
	PushTimeout         time.Duration
	PullCursorLag       time.Duration
	PlaceholderPassword string
	Audit               bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg := &Config{
		NodeEnv:        getEnv("NODE_ENV", "development"),
		Port:           getEnv("PORT", "3210"),
		JWTSecret:      jwtSecret,
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", time.Hour),
		AutoMigrate:    getBoolEnv("AUTO_MIGRATE", true),
		Database:       LoadDatabase(),
		Sync: SyncConfig{
			PushTimeout:         getDurationEnv("SYNC_PUSH_TIMEOUT", 60*time.Second),
			PullCursorLag:       getDurationEnv("SYNC_PULL_CURSOR_LAG", 0),
			PlaceholderPassword: getEnv("SYNC_PLACEHOLDER_PASSWORD", DefaultPlaceholderPassword),
			Audit:               getBoolEnv("SYNC_AUDIT", true),
		},
	}

	if cfg.Sync.PushTimeout <= 0 {
		return nil, fmt.Errorf("SYNC_PUSH_TIMEOUT must be positive, got %s", cfg.Sync.PushTimeout)
	}
	if cfg.Sync.PullCursorLag < 0 {
		return nil, fmt.Errorf("SYNC_PULL_CURSOR_LAG must not be negative, got %s", cfg.Sync.PullCursorLag)
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings, for tools that never issue tokens
func LoadDatabase() DatabaseConfig {
	_ = godotenv.Load()

	return DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		Host:       getEnv("PG_HOST", "localhost"),
		Port:       getEnv("PG_PORT", "5432"),
		Username:   getEnv("PG_USERNAME", "postgres"),
		Password:   os.Getenv("PG_PASSWORD"),
		Database:   getEnv("PG_DATABASE", "storesync"),
		SQLitePath: getEnv("SQLITE_PATH", "./storesync.db"),
		Silent:     getBoolEnv("DB_SILENT", false),

		EmbeddedDataPath: getEnv("PG_EMBEDDED_PATH", "./db_data"),
		EmbeddedPort:     getIntEnv("PG_EMBEDDED_PORT", 5433),
	}
}

// getEnv gets environment variable with default value
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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationEnv accepts Go durations ("90s") or plain seconds ("90")
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs := getIntEnv(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
