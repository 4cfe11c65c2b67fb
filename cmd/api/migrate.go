package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/iamasit07/4-in-a-row-arena/internal/config"
	"github.com/iamasit07/4-in-a-row-arena/internal/repository/postgres"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(cli *CLI) error {
	cfg := config.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, cli.Debug)

	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx := context.Background()
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Running database migrations...", "driver", cfg.DBDriver)
	if err := postgres.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migration completed successfully")
	return nil
}
