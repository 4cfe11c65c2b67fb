package bot

import (
	rand "math/rand/v2"
	"sync"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/pkg/randutil"
)

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Engine is the built-in opponent used by engine seats. It is safe for
// concurrent use.
type Engine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine uses rng for tie breaking and the easy level's random moves. A
// nil rng is seeded from the operating system.
func NewEngine(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = randutil.NewRandom()
	}
	return &Engine{rng: rng}
}

// BestMove returns a playable column for seat, or -1 on a full board.
// Unknown difficulties play at medium strength.
func (e *Engine) BestMove(board domain.Board, seat domain.SeatID, difficulty string) int {
	if len(domain.ValidMoves(board)) == 0 {
		return -1
	}

	switch difficulty {
	case DifficultyEasy:
		return e.easyMove(board, seat)
	case DifficultyHard:
		return minimaxMove(board, seat, hardDepth)
	default:
		return heuristicMove(board, seat)
	}
}

func (e *Engine) pick(columns []int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return columns[e.rng.IntN(len(columns))]
}

// winsAt reports whether dropping a disk for seat into column completes a line.
func winsAt(board domain.Board, column int, seat domain.SeatID) (domain.Board, bool) {
	next, row, err := domain.ApplyMove(board, column, seat)
	if err != nil {
		return board, false
	}
	_, won := domain.CheckWin(next, seat, domain.Coord{Row: row, Col: column})
	return next, won
}
