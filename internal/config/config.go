package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// EnvProduction is the APP_ENV value that turns off error details and enforces a real JWT secret.
	EnvProduction = "production"

	// DefaultJWTSecret is only acceptable outside of production.
	DefaultJWTSecret = "secret"

	// DefaultTokenTTL is how long issued session tokens stay valid.
	DefaultTokenTTL = 30 * 24 * time.Hour
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env                    string
	ServerPort             string
	MySQLDSN               string
	RedisAddr              string
	RedisDB                int
	RedisPass              string
	JWTSecret              string
	TokenTTL               time.Duration
	FrontendURL            string
	SwaggerHost            string
	LogLevel               string
	AuthRateLimit          float64
	AllowAdminRegistration bool
	ResetDB                bool
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:                    getEnv("APP_ENV", "development"),
		ServerPort:             getEnv("SERVER_PORT", "5000"),
		MySQLDSN:               getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/storefront?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:              getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		RedisPass:              os.Getenv("REDIS_PASSWORD"),
		JWTSecret:              getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:               getEnvDuration("TOKEN_TTL", DefaultTokenTTL),
		FrontendURL:            getEnv("FRONTEND_URL", "http://localhost:8080"),
		SwaggerHost:            os.Getenv("SWAGGER_HOST"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		AuthRateLimit:          getEnvFloat("AUTH_RATE_LIMIT", 10),
		AllowAdminRegistration: getEnvBool("ALLOW_ADMIN_REGISTRATION", false),
		ResetDB:                getEnvBool("RESET_DB", false),
	}
}

// IsProduction reports whether the service runs with a production posture.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

// Validate rejects settings that must never reach production.
func (c *Config) Validate() error {
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
