package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/iamasit07/4-in-a-row-arena/internal/config"
	"github.com/iamasit07/4-in-a-row-arena/internal/repository/memory"
	"github.com/iamasit07/4-in-a-row-arena/internal/repository/postgres"
	"github.com/iamasit07/4-in-a-row-arena/internal/repository/redis"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
)

type stores struct {
	Scores game.ScoreStore
	// nil without a database
	Games *postgres.GameRepo

	closers []func() error
}

func (s *stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	return postgres.Open(ctx, postgres.Options{
		Driver:             cfg.DBDriver,
		URL:                cfg.DatabaseURL,
		MaxOpenConns:       cfg.DBMaxOpenConns,
		MaxIdleConns:       cfg.DBMaxIdleConns,
		ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
	})
}

// openStores picks Postgres when DATABASE_URL is set and the in-memory store
// otherwise. Redis, when configured, caches leaderboard reads; an unreachable
// Redis only disables the cache.
func openStores(ctx context.Context, cfg *config.Config, logger *log.Logger) (*stores, error) {
	s := &stores{}

	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set, scores are kept in memory and history is disabled")
		s.Scores = memory.NewScoreRepo()
	} else {
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db.Close)

		logger.Info("Running database migrations...", "driver", cfg.DBDriver)
		if err := postgres.RunMigrations(ctx, db); err != nil {
			s.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}

		s.Scores = postgres.NewScoreRepo(db)
		s.Games = postgres.NewGameRepo(db)
	}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logger.Warn("Redis unavailable, leaderboard cache disabled", "error", err)
		} else {
			s.closers = append(s.closers, client.Close)
			s.Scores = redis.NewCachedScoreStore(s.Scores, redis.NewRedisCache(client), cfg.LeaderboardCacheTTL, logger)
			logger.Info("Leaderboard cache enabled", "ttl", cfg.LeaderboardCacheTTL)
		}
	}

	return s, nil
}
