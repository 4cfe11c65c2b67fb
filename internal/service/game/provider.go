package game

import (
	"context"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/ai"
)

// MoveProvider supplies the column a seat plays. Implementations should
// return a member of domain.ValidMoves(board); the session validates the
// column again when applying it.
type MoveProvider interface {
	RequestMove(ctx context.Context, board domain.Board, seat domain.Seat) (int, error)
}

// AIMover is satisfied by *ai.Client.
type AIMover interface {
	RequestMove(ctx context.Context, board domain.Board, seat domain.Seat, apiKey string, notify ai.Notifier) int
}

// EngineMover is satisfied by *bot.Engine.
type EngineMover interface {
	BestMove(board domain.Board, seat domain.SeatID, difficulty string) int
}

// humanProvider waits for the column delivered through Session.SubmitMove.
type humanProvider struct {
	input <-chan int
}

func (p humanProvider) RequestMove(ctx context.Context, _ domain.Board, _ domain.Seat) (int, error) {
	select {
	case <-ctx.Done():
		return -1, ctx.Err()
	case column := <-p.input:
		return column, nil
	}
}

type aiProvider struct {
	client AIMover
	apiKey string
	notify ai.Notifier
}

func (p aiProvider) RequestMove(ctx context.Context, board domain.Board, seat domain.Seat) (int, error) {
	column := p.client.RequestMove(ctx, board, seat, p.apiKey, p.notify)
	if column < 0 {
		return -1, domain.ErrNoValidMoves
	}
	return column, nil
}

type engineProvider struct {
	engine     EngineMover
	difficulty string
}

func (p engineProvider) RequestMove(ctx context.Context, board domain.Board, seat domain.Seat) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}
	column := p.engine.BestMove(board, seat.ID, p.difficulty)
	if column < 0 {
		return -1, domain.ErrNoValidMoves
	}
	return column, nil
}
