package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

type ScoreRepo struct {
	DB *sql.DB
}

func NewScoreRepo(db *sql.DB) *ScoreRepo {
	return &ScoreRepo{DB: db}
}

func (r *ScoreRepo) Append(ctx context.Context, entry domain.ScoreEntry) (domain.ScoreEntry, error) {
	query := `
	INSERT INTO leaderboard (player_name, score, created_at)
	VALUES ($1, $2, COALESCE($3::timestamptz, NOW()))
	RETURNING id, created_at;
	`

	var createdAt sql.NullTime
	if !entry.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: entry.CreatedAt, Valid: true}
	}

	err := r.DB.QueryRowContext(ctx, query, entry.Name, entry.Score, createdAt).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return domain.ScoreEntry{}, fmt.Errorf("failed to insert score: %w", err)
	}
	return entry, nil
}

// List returns the top entries by score; ties go to the older entry.
func (r *ScoreRepo) List(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	query := `
	SELECT id, player_name, score, created_at
	FROM leaderboard
	ORDER BY score DESC, id ASC
	LIMIT $1;
	`

	var limitArg any
	if limit > 0 {
		limitArg = limit
	}

	rows, err := r.DB.QueryContext(ctx, query, limitArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.ScoreEntry{}
	for rows.Next() {
		var e domain.ScoreEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	return entries, nil
}
