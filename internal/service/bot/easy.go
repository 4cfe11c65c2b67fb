package bot

import "github.com/iamasit07/4-in-a-row-arena/internal/domain"

// easyMove takes a winning column, otherwise blocks the opponent's winning
// column, otherwise plays at random.
func (e *Engine) easyMove(board domain.Board, seat domain.SeatID) int {
	validColumns := domain.ValidMoves(board)

	for _, col := range validColumns {
		if _, won := winsAt(board, col, seat); won {
			return col
		}
	}

	opponent := domain.Opponent(seat)
	for _, col := range validColumns {
		if _, won := winsAt(board, col, opponent); won {
			return col
		}
	}

	return e.pick(validColumns)
}
