package domain

import (
	"strconv"
	"strings"
)

// Board is a value type: assigning or passing a Board copies every cell.
// Row 0 is the top row, row Rows-1 the bottom one.
type Board [Rows][Columns]CellState

// Coord addresses one cell of the board.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewBoard() Board {
	return Board{}
}

func InBounds(row, col int) bool {
	return row >= 0 && row < Rows && col >= 0 && col < Columns
}

func (b Board) Cell(row, col int) CellState {
	return b[row][col]
}

func IsValidMove(b Board, column int) bool {
	if column < 0 || column >= Columns {
		return false
	}

	// a column accepts a disk as long as its top cell is free
	return b[0][column] == Empty
}

// ValidMoves returns the playable columns in ascending order.
func ValidMoves(b Board) []int {
	validMoves := make([]int, 0, Columns)
	for col := 0; col < Columns; col++ {
		if b[0][col] == Empty {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// ApplyMove drops a disk for seat into column and returns the resulting board
// together with the row the disk landed on. b itself is never modified.
func ApplyMove(b Board, column int, seat SeatID) (Board, int, error) {
	if column < 0 || column >= Columns || !IsSeat(seat) {
		return b, -1, ErrInvalidMove
	}

	// shifting the disk from the bottom row upward till the first free cell
	for row := Rows - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = seat
			return b, row, nil
		}
	}

	return b, -1, ErrColumnFull
}

func IsFull(b Board) bool {
	for c := 0; c < Columns; c++ {
		if b[0][c] == Empty {
			return false
		}
	}

	return true
}

// CountInDirection counts consecutive disks of seat starting next to
// (row, col) and walking by (deltaRow, deltaCol). At most limit cells are
// inspected; a limit <= 0 means up to the board edge.
func CountInDirection(b Board, row, col, deltaRow, deltaCol int, seat SeatID, limit int) int {
	count := 0
	r, c := row+deltaRow, col+deltaCol
	for InBounds(r, c) && b[r][c] == seat {
		count++
		if limit > 0 && count == limit {
			break
		}
		r += deltaRow
		c += deltaCol
	}
	return count
}

// String renders the board as rows of comma separated cell values,
// top row first, e.g. "0, 0, 1, 2, 0, 0, 0".
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < Rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < Columns; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Itoa(int(b[r][c])))
		}
	}
	return sb.String()
}

// Ints converts the board into a plain matrix, for JSON storage.
func (b Board) Ints() [][]int {
	out := make([][]int, Rows)
	for r := range out {
		out[r] = make([]int, Columns)
		for c := range out[r] {
			out[r][c] = int(b[r][c])
		}
	}
	return out
}
