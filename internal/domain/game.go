package domain

// Game is the rules-level state of one match. It knows nothing about who
// chooses the moves.
type Game struct {
	Board       Board
	Current     SeatID
	State       GameState
	Winner      SeatID
	WinningLine WinningLine
	MoveCount   int
	LastMove    *Coord
}

// NewGame returns a game in the Playing state with SeatA to move.
func NewGame() *Game {
	return &Game{
		Board:   NewBoard(),
		Current: SeatA,
		State:   StatePlaying,
		Winner:  Empty,
	}
}

// IdleGame returns an empty board that accepts no moves.
func IdleGame() *Game {
	g := NewGame()
	g.State = StateIdle
	return g
}

// Apply plays column for the current seat, then evaluates win, then draw,
// and otherwise hands the turn to the other seat. On error the game is left
// untouched.
func (g *Game) Apply(column int) (Coord, error) {
	if g.State != StatePlaying {
		return Coord{}, ErrNotPlaying
	}

	if column < 0 || column >= Columns {
		return Coord{}, ErrInvalidMove
	}

	board, row, err := ApplyMove(g.Board, column, g.Current)
	if err != nil {
		return Coord{}, err
	}

	g.Board = board
	g.MoveCount++
	last := Coord{Row: row, Col: column}
	g.LastMove = &last

	if line, won := CheckWin(g.Board, g.Current, last); won {
		g.State = StateWinner
		g.Winner = g.Current
		g.WinningLine = line
		return last, nil
	}

	if IsFull(g.Board) {
		g.State = StateDraw
		return last, nil
	}

	g.Current = Opponent(g.Current)

	return last, nil
}

// Abort drops the game back to Idle, keeping the board for inspection.
func (g *Game) Abort() {
	g.State = StateIdle
}

func (g *Game) IsFinished() bool {
	return g.State.IsTerminal()
}
