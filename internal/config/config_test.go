package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "DATABASE_URI", "DB_DRIVER", "ALLOWED_ORIGINS", "FRONTEND_URL", "AI_MAX_ATTEMPTS", "AI_INITIAL_BACKOFF_MS", "OPENROUTER_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 3, cfg.AIMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.AIInitialBackoff)
	assert.Equal(t, time.Minute, cfg.AIRequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SeatTokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowedOrigins)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("FRONTEND_URL", "https://arena.example.com")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example.com ,,https://arena.example.com")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/arena?sslmode=disable")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("AI_MAX_ATTEMPTS", "5")
	t.Setenv("AI_INITIAL_BACKOFF_MS", "250")
	t.Setenv("LEADERBOARD_CACHE_TTL_SECONDS", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"https://arena.example.com", "https://a.example.com"}, cfg.AllowedOrigins)
	assert.Contains(t, cfg.DatabaseURL, "default_query_exec_mode=simple_protocol")
	assert.Contains(t, cfg.DatabaseURL, "sslmode=disable")
	assert.Equal(t, 5, cfg.AIMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.AIInitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)
}

func TestLoadConfigLeavesPQURLUntouched(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/arena")
	t.Setenv("DB_DRIVER", "postgres")

	assert.Equal(t, "postgres://u:p@db:5432/arena", LoadConfig().DatabaseURL)
}
