package domain

// WinningLine is an ordered run of same-owner, collinear, contiguous cells.
type WinningLine []Coord

type axis struct {
	deltaRow, deltaCol int
}

// Checked in this order: horizontal, vertical, diagonal ascending ("/"),
// diagonal descending ("\"). The first qualifying axis is reported.
var axes = [4]axis{
	{0, 1},
	{1, 0},
	{-1, 1},
	{1, 1},
}

// CheckWin only looks at the lines passing through lastMove, which must be the
// cell of the move just applied. Each axis is extended at most ToWin-1 cells in
// both directions, so the cost is bounded and independent of the board.
func CheckWin(b Board, seat SeatID, lastMove Coord) (WinningLine, bool) {
	if !IsSeat(seat) || !InBounds(lastMove.Row, lastMove.Col) || b[lastMove.Row][lastMove.Col] != seat {
		return nil, false
	}

	for _, a := range axes {
		back := CountInDirection(b, lastMove.Row, lastMove.Col, -a.deltaRow, -a.deltaCol, seat, ToWin-1)
		forward := CountInDirection(b, lastMove.Row, lastMove.Col, a.deltaRow, a.deltaCol, seat, ToWin-1)

		if back+forward+1 < ToWin {
			continue
		}

		line := make(WinningLine, 0, back+forward+1)
		r, c := lastMove.Row-back*a.deltaRow, lastMove.Col-back*a.deltaCol
		for i := 0; i <= back+forward; i++ {
			line = append(line, Coord{Row: r, Col: c})
			r += a.deltaRow
			c += a.deltaCol
		}
		return line, true
	}

	return nil, false
}
