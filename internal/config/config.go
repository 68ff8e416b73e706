package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Password hashing schemes for newly stored hashes
const (
	PasswordSchemeBcrypt       = "bcrypt"
	PasswordSchemeLegacySHA256 = "legacy-sha256"
)

// devJWTSecret is only accepted when ENVIRONMENT=dev
const devJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	DBSchema    string // Per-environment Postgres schema (set as search_path)
	JWTSecret   string
	CORSOrigins string
	// Auth policy
	PasswordScheme  string
	SignupAllowRole bool // Allow signup to request a role other than "user"
	// Portal lookup cache
	PortalCacheSize int
	PortalCacheTTL  time.Duration
	// Operations
	AutoMigrate bool
	LogDir      string
	LogMaxFiles int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBSchema:        getSchema(env),
		JWTSecret:       getEnv("JWT_SECRET", getDefaultJWTSecret(env)),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		PasswordScheme:  getEnv("PASSWORD_SCHEME", PasswordSchemeBcrypt),
		SignupAllowRole: getEnv("SIGNUP_ALLOW_ROLE", "false") == "true",
		PortalCacheSize: getEnvInt("PORTAL_CACHE_SIZE", 256),
		PortalCacheTTL:  getEnvDuration("PORTAL_CACHE_TTL", 5*time.Minute),
		AutoMigrate:     getEnv("AUTO_MIGRATE", "true") == "true",
		LogDir:          getEnv("LOG_DIR", ""),
		LogMaxFiles:     getEnvInt("LOG_MAX_FILES", 10),
	}
}

// Validate rejects configurations that would be unsafe to serve with
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required outside the dev environment")
	}
	if c.Environment == "prod" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be changed in production")
	}
	switch c.PasswordScheme {
	case PasswordSchemeBcrypt, PasswordSchemeLegacySHA256:
	default:
		return errors.New("PASSWORD_SCHEME must be bcrypt or legacy-sha256")
	}
	return nil
}

// getDefaultJWTSecret returns a well-known secret in dev and nothing elsewhere
func getDefaultJWTSecret(env string) string {
	if env == "dev" {
		return devJWTSecret
	}
	return ""
}

// getSchema returns the Postgres schema based on environment
func getSchema(env string) string {
	// Allow manual override via DB_SCHEMA env var
	if schema := os.Getenv("DB_SCHEMA"); schema != "" {
		return schema
	}

	switch env {
	case "prod":
		return "public"
	case "test":
		return "portal_test"
	default:
		return "portal_dev"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
