package bot

import (
	"math"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

const (
	hardDepth = 6

	scoreMinimaxWin  = 1000000
	scoreMinimaxLoss = -1000000
)

// Columns are searched center first so alpha-beta prunes earlier.
var searchOrder = [domain.Columns]int{3, 2, 4, 1, 5, 0, 6}

// minimaxMove runs an alpha-beta search depth plies deep.
func minimaxMove(board domain.Board, seat domain.SeatID, depth int) int {
	opponent := domain.Opponent(seat)
	best := -1
	bestScore := math.MinInt
	alpha, beta := math.MinInt, math.MaxInt

	for _, col := range searchOrder {
		if !domain.IsValidMove(board, col) {
			continue
		}
		next, won := winsAt(board, col, seat)
		if won {
			return col
		}

		score := minimax(next, depth-1, depth, alpha, beta, false, seat, opponent)
		if best < 0 || score > bestScore {
			best, bestScore = col, score
		}
		alpha = max(alpha, bestScore)
	}

	return best
}

func minimax(board domain.Board, depth, maxDepth, alpha, beta int, maximizing bool, seat, opponent domain.SeatID) int {
	if depth == 0 || domain.IsFull(board) {
		return evaluateBoard(board, seat)
	}

	if maximizing {
		value := math.MinInt
		for _, col := range searchOrder {
			if !domain.IsValidMove(board, col) {
				continue
			}
			next, won := winsAt(board, col, seat)
			if won {
				// sooner wins score higher
				return scoreMinimaxWin - (maxDepth - depth)
			}
			value = max(value, minimax(next, depth-1, maxDepth, alpha, beta, false, seat, opponent))
			alpha = max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value
	}

	value := math.MaxInt
	for _, col := range searchOrder {
		if !domain.IsValidMove(board, col) {
			continue
		}
		next, won := winsAt(board, col, opponent)
		if won {
			return scoreMinimaxLoss + (maxDepth - depth)
		}
		value = min(value, minimax(next, depth-1, maxDepth, alpha, beta, true, seat, opponent))
		beta = min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value
}
