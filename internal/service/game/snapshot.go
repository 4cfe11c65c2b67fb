package game

import (
	"time"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

// Snapshot is a read-only copy of a session, safe to hand to other
// goroutines and to encode as JSON.
type Snapshot struct {
	ID             string             `json:"id"`
	State          domain.GameState   `json:"state"`
	Board          [][]int            `json:"board"`
	CurrentSeat    domain.SeatID      `json:"currentSeat"`
	Winner         domain.SeatID      `json:"winner,omitempty"`
	WinningLine    domain.WinningLine `json:"winningLine"`
	LastMove       *domain.Coord      `json:"lastMove,omitempty"`
	MoveCount      int                `json:"moveCount"`
	Seats          [2]domain.Seat     `json:"seats"`
	Log            []domain.LogEntry  `json:"log"`
	TurnInProgress bool               `json:"turnInProgress"`
	HasCredentials bool               `json:"hasCredentials"`
	Epoch          uint64             `json:"epoch"`
	Version        uint64             `json:"version"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// Summary is the short listing form of a session.
type Summary struct {
	ID        string           `json:"id"`
	State     domain.GameState `json:"state"`
	SeatA     string           `json:"seatA"`
	SeatB     string           `json:"seatB"`
	MoveCount int              `json:"moveCount"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ID:        s.ID,
		State:     s.game.State,
		SeatA:     s.seats[0].DisplayName(),
		SeatB:     s.seats[1].DisplayName(),
		MoveCount: s.game.MoveCount,
		UpdatedAt: s.updatedAt,
	}
}

// changedLocked records a state change and returns the snapshot to publish.
func (s *Session) changedLocked() Snapshot {
	s.version++
	s.updatedAt = s.clock.Now()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	var line domain.WinningLine
	if len(s.game.WinningLine) > 0 {
		line = append(domain.WinningLine(nil), s.game.WinningLine...)
	}
	var last *domain.Coord
	if s.game.LastMove != nil {
		c := *s.game.LastMove
		last = &c
	}

	return Snapshot{
		ID:             s.ID,
		State:          s.game.State,
		Board:          s.game.Board.Ints(),
		CurrentSeat:    s.game.Current,
		Winner:         s.game.Winner,
		WinningLine:    line,
		LastMove:       last,
		MoveCount:      s.game.MoveCount,
		Seats:          s.seats,
		Log:            s.log.Entries(),
		TurnInProgress: s.turnInProgress,
		HasCredentials: s.effectiveKeyLocked() != "",
		Epoch:          s.epoch,
		Version:        s.version,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
}
