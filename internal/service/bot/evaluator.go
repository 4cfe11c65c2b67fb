package bot

import "github.com/iamasit07/4-in-a-row-arena/internal/domain"

// Column scores of the heuristic player, highest priority first.
const (
	scoreWinNow          = 100000
	scoreBlockWin        = 10000
	scoreCreateWinThreat = 8000
	scoreBlockWinThreat  = 5000
	scoreThreeInRow      = 400
	scoreTwoInRow        = 100
	scoreSingle          = 25
	scoreCenter          = 30
	scoreNearCenter      = 20
	scoreEdge            = 5
)

// Position weights used by the minimax leaf evaluation.
const (
	positionWeight   = 10
	twoInRowWeight   = 50
	threeInRowWeight = 500
)

// Only the positive half of each axis; the negative half is walked by negating.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// evaluateBoard scores a position from seat's point of view.
func evaluateBoard(board domain.Board, seat domain.SeatID) int {
	opponent := domain.Opponent(seat)
	score := 0

	for row := 0; row < domain.Rows; row++ {
		for col := 0; col < domain.Columns; col++ {
			switch board[row][col] {
			case seat:
				score += evaluateCell(board, row, col, seat)
			case opponent:
				score -= evaluateCell(board, row, col, opponent)
			}
		}
	}

	center := domain.Columns / 2
	for row := 0; row < domain.Rows; row++ {
		switch board[row][center] {
		case seat:
			score += positionWeight * 2
		case opponent:
			score -= positionWeight * 2
		}
	}

	return score
}

func evaluateCell(board domain.Board, row, col int, seat domain.SeatID) int {
	score := positionWeight
	for _, run := range runsThrough(board, row, col, seat) {
		switch {
		case run >= 3:
			score += threeInRowWeight
		case run == 2:
			score += twoInRowWeight
		}
	}
	return score
}

// evaluateThreats scores the extendable runs through (row, col).
func evaluateThreats(board domain.Board, row, col int, seat domain.SeatID) int {
	score := 0
	for _, run := range runsThrough(board, row, col, seat) {
		switch {
		case run >= 3:
			score += scoreThreeInRow
		case run == 2:
			score += scoreTwoInRow
		case run == 1:
			score += scoreSingle
		}
	}
	return score
}

// runsThrough returns, per axis, how many neighbours of (row, col) belong to
// seat. Axes that cannot be extended to a playable cell are skipped.
func runsThrough(board domain.Board, row, col int, seat domain.SeatID) []int {
	runs := make([]int, 0, len(directions))
	for _, dir := range directions {
		forward := domain.CountInDirection(board, row, col, dir[0], dir[1], seat, 0)
		back := domain.CountInDirection(board, row, col, -dir[0], -dir[1], seat, 0)
		if !canExtend(board, row, col, dir[0], dir[1], forward, back) {
			continue
		}
		runs = append(runs, forward+back)
	}
	return runs
}

// winningThreat measures how many immediate wins seat has and whether the
// opponent can take them all away with one block.
func winningThreat(board domain.Board, seat domain.SeatID) int {
	var winning []int
	for _, col := range domain.ValidMoves(board) {
		if _, won := winsAt(board, col, seat); won {
			winning = append(winning, col)
		}
	}

	switch len(winning) {
	case 0:
		return 0
	case 1:
		blocked, _, _ := domain.ApplyMove(board, winning[0], domain.Opponent(seat))
		for _, col := range domain.ValidMoves(blocked) {
			if _, won := winsAt(blocked, col, seat); won {
				return scoreCreateWinThreat / 2
			}
		}
		return scoreCreateWinThreat / 4
	default:
		return scoreCreateWinThreat
	}
}

func canExtend(board domain.Board, row, col, deltaRow, deltaCol, forward, back int) bool {
	r, c := row+deltaRow*(forward+1), col+deltaCol*(forward+1)
	if playable(board, r, c) {
		return true
	}
	r, c = row-deltaRow*(back+1), col-deltaCol*(back+1)
	return playable(board, r, c)
}

// playable reports whether the next disk dropped into col lands on (row, col).
func playable(board domain.Board, row, col int) bool {
	if !domain.InBounds(row, col) || board[row][col] != domain.Empty {
		return false
	}
	return row == domain.Rows-1 || board[row+1][col] != domain.Empty
}
