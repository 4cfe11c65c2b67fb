package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type Config struct {
	Port           string
	AllowedOrigins []string
	FrontendURL    string

	DatabaseURL          string
	DBDriver             string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int

	RedisURL            string
	RedisPassword       string
	LeaderboardCacheTTL time.Duration

	OpenRouterBaseURL string
	OpenRouterAPIKey  string
	OpenRouterReferer string
	OpenRouterTitle   string
	AIMaxAttempts     int
	AIInitialBackoff  time.Duration
	AIRequestTimeout  time.Duration

	JWTSecret     string
	SeatTokenTTL  time.Duration
	CleanupPeriod time.Duration

	LogLevel  string
	LogFormat string
}

func LoadConfig() *Config {
	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" && trimmed != frontendURL {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database
	dbDriver := GetEnv("DB_DRIVER", "pgx")
	dbURL := GetEnv("DATABASE_URL", GetEnv("DATABASE_URI", ""))
	if dbURL != "" && dbDriver == "pgx" {
		dbURL = withSimpleProtocol(dbURL)
	}

	return &Config{
		Port:           GetEnv("PORT", "8080"),
		AllowedOrigins: allowedOrigins,
		FrontendURL:    frontendURL,

		DatabaseURL:          dbURL,
		DBDriver:             dbDriver,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),

		RedisURL:            GetEnv("REDIS_URL", ""),
		RedisPassword:       GetEnv("REDIS_PASSWORD", ""),
		LeaderboardCacheTTL: GetEnvAsDuration("LEADERBOARD_CACHE_TTL_SECONDS", 30, time.Second),

		OpenRouterBaseURL: GetEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterAPIKey:  GetEnv("OPENROUTER_API_KEY", ""),
		OpenRouterReferer: GetEnv("OPENROUTER_REFERER", frontendURL),
		OpenRouterTitle:   GetEnv("OPENROUTER_TITLE", "AI Board Game Arena"),
		AIMaxAttempts:     GetEnvAsInt("AI_MAX_ATTEMPTS", 3),
		AIInitialBackoff:  GetEnvAsDuration("AI_INITIAL_BACKOFF_MS", 2000, time.Millisecond),
		AIRequestTimeout:  GetEnvAsDuration("AI_REQUEST_TIMEOUT_SECONDS", 60, time.Second),

		// Security
		JWTSecret:     GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		SeatTokenTTL:  GetEnvAsDuration("SEAT_TOKEN_TTL_MINUTES", 24*60, time.Minute),
		CleanupPeriod: GetEnvAsDuration("SESSION_CLEANUP_INTERVAL_MINUTES", 10, time.Minute),

		LogLevel:  GetEnv("LOG_LEVEL", "info"),
		LogFormat: GetEnv("LOG_FORMAT", "text"),
	}
}

// withSimpleProtocol appends the pgx option required behind PgBouncer.
func withSimpleProtocol(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return dbURL
	}
	q := u.Query()
	if q.Get("default_query_exec_mode") == "" {
		q.Set("default_query_exec_mode", "simple_protocol")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn("Invalid integer value, using default", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
