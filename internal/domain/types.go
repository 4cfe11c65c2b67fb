package domain

import "errors"

// CellState is the content of one board cell. A seat is identified by the
// piece it drops, so SeatID and CellState share the same values.
type CellState int

const (
	Empty CellState = 0
	SeatA CellState = 1
	SeatB CellState = 2
)

type SeatID = CellState

const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// Opponent returns the other seat.
func Opponent(seat SeatID) SeatID {
	if seat == SeatA {
		return SeatB
	}
	return SeatA
}

// IsSeat reports whether s names one of the two seats.
func IsSeat(s SeatID) bool {
	return s == SeatA || s == SeatB
}

// to represent the game status
type GameState string

const (
	StateIdle    GameState = "idle"
	StatePlaying GameState = "playing"
	StateWinner  GameState = "winner"
	StateDraw    GameState = "draw"
)

// IsTerminal reports whether the state only leaves through a reset.
func (s GameState) IsTerminal() bool {
	return s == StateWinner || s == StateDraw
}

// Fixed score recorded for every win.
const WinScore = 1

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove Error = "invalid move"
	ErrColumnFull  Error = "column is full"

	ErrDuplicateModel     Error = "both AI seats use the same model, select two different models"
	ErrMissingModel       Error = "AI seat has no model selected"
	ErrMissingCredentials Error = "an API key is required to start a game with AI seats"
	ErrUnknownSeatKind    Error = "unknown seat kind"

	ErrNotIdle          Error = "game is not idle"
	ErrNotPlaying       Error = "game is not in progress"
	ErrTurnInProgress   Error = "a turn is already in progress"
	ErrNotYourTurn      Error = "not your turn"
	ErrNotHumanSeat     Error = "seat is not controlled by a human"
	ErrNotAwaitingInput Error = "seat is not waiting for input"
	ErrNoValidMoves     Error = "no valid moves available"
	ErrStaleTurn        Error = "turn discarded, the game changed while it was in flight"
	ErrUnknownSeat      Error = "unknown seat"
	ErrGameNotFound     Error = "game not found"
)

// IsConfigurationError reports whether err blocks the Idle to Playing transition.
func IsConfigurationError(err error) bool {
	for _, target := range []error{ErrDuplicateModel, ErrMissingModel, ErrMissingCredentials, ErrUnknownSeatKind} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
