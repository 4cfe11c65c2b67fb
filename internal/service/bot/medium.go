package bot

import "github.com/iamasit07/4-in-a-row-arena/internal/domain"

// heuristicMove scores every playable column one ply deep and returns the
// best one; ties go to the column closest to the center.
func heuristicMove(board domain.Board, seat domain.SeatID) int {
	opponent := domain.Opponent(seat)
	currentThreat := winningThreat(board, opponent)
	center := domain.Columns / 2

	best, bestScore := -1, 0
	for _, col := range domain.ValidMoves(board) {
		score := 0

		own, row, _ := domain.ApplyMove(board, col, seat)
		if _, won := domain.CheckWin(own, seat, domain.Coord{Row: row, Col: col}); won {
			score += scoreWinNow
		}
		theirs, _, _ := domain.ApplyMove(board, col, opponent)
		if _, won := domain.CheckWin(theirs, opponent, domain.Coord{Row: row, Col: col}); won {
			score += scoreBlockWin
		}

		score += winningThreat(own, seat)
		if winningThreat(own, opponent) < currentThreat {
			score += scoreBlockWinThreat
		}

		score += evaluateThreats(own, row, col, seat)
		score += evaluateThreats(theirs, row, col, opponent) / 2

		switch abs(col - center) {
		case 0:
			score += scoreCenter
		case 1:
			score += scoreNearCenter
		case 2:
			score += scoreEdge
		}

		if best < 0 || score > bestScore || (score == bestScore && abs(col-center) < abs(best-center)) {
			best, bestScore = col, score
		}
	}

	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
