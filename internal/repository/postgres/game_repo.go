package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// SaveGame stores a finished game. Saving the same game twice overwrites the
// earlier result.
func (r *GameRepo) SaveGame(ctx context.Context, record domain.GameRecord) error {
	boardJSON, err := json.Marshal(record.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	var winner sql.NullString
	if record.Winner != "" {
		winner = sql.NullString{String: record.Winner, Valid: true}
	}

	query := `
	INSERT INTO game (game_id, seat_a, seat_b, winner, reason, total_moves, duration_seconds, started_at, finished_at, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		board_state = EXCLUDED.board_state;
	`

	_, err = r.DB.ExecContext(ctx, query,
		record.GameID, record.SeatA, record.SeatB, winner, record.Reason,
		record.TotalMoves, record.DurationSeconds, record.StartedAt, record.FinishedAt, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}
	return nil
}

const selectGame = `
	SELECT game_id, seat_a, seat_b, winner, reason, total_moves, duration_seconds,
	       started_at, finished_at, board_state
	FROM game`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (domain.GameRecord, error) {
	var (
		record    domain.GameRecord
		winner    sql.NullString
		boardJSON []byte
	)
	err := row.Scan(
		&record.GameID,
		&record.SeatA,
		&record.SeatB,
		&winner,
		&record.Reason,
		&record.TotalMoves,
		&record.DurationSeconds,
		&record.StartedAt,
		&record.FinishedAt,
		&boardJSON,
	)
	if err != nil {
		return domain.GameRecord{}, err
	}

	record.Winner = winner.String
	if len(boardJSON) > 0 {
		if err := json.Unmarshal(boardJSON, &record.Board); err != nil {
			return domain.GameRecord{}, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return record, nil
}

// GetGameByID returns domain.ErrGameNotFound when no game has that id.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (domain.GameRecord, error) {
	record, err := scanGame(r.DB.QueryRowContext(ctx, selectGame+` WHERE game_id = $1;`, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GameRecord{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.GameRecord{}, fmt.Errorf("failed to get game by ID: %w", err)
	}
	return record, nil
}

// ListRecent returns the most recently finished games first.
func (r *GameRepo) ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, selectGame+` ORDER BY finished_at DESC LIMIT $1;`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := []domain.GameRecord{}
	for rows.Next() {
		record, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game history: %w", err)
	}
	return games, nil
}
