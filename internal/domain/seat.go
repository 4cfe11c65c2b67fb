package domain

import "strings"

// SeatKind selects the move provider backing a seat.
type SeatKind string

const (
	KindHuman  SeatKind = "human"
	KindAI     SeatKind = "ai"
	KindEngine SeatKind = "engine"
)

type SeatStatus string

const (
	StatusIdle     SeatStatus = "idle"
	StatusWaiting  SeatStatus = "waiting"
	StatusThinking SeatStatus = "thinking"
)

// SeatConfig describes how a seat chooses its moves. Model is only used by
// AI seats and Difficulty only by engine seats.
type SeatConfig struct {
	Kind       SeatKind `json:"kind"`
	Model      string   `json:"model,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
}

// Normalize trims identifiers and clears fields that do not apply to Kind.
func (c SeatConfig) Normalize() SeatConfig {
	c.Model = strings.TrimSpace(c.Model)
	c.Difficulty = strings.ToLower(strings.TrimSpace(c.Difficulty))
	switch c.Kind {
	case KindAI:
		c.Difficulty = ""
	case KindEngine:
		c.Model = ""
		if c.Difficulty == "" {
			c.Difficulty = "medium"
		}
	default:
		c.Model = ""
		c.Difficulty = ""
	}
	return c
}

func (c SeatConfig) Validate() error {
	switch c.Kind {
	case KindHuman, KindEngine:
		return nil
	case KindAI:
		if c.Model == "" {
			return ErrMissingModel
		}
		return nil
	}
	return ErrUnknownSeatKind
}

type Seat struct {
	ID     SeatID     `json:"id"`
	Label  string     `json:"label"`
	Piece  string     `json:"piece"`
	Config SeatConfig `json:"config"`
	Status SeatStatus `json:"status"`
}

// DisplayName is the name used in the game log and on the leaderboard: the
// model identifier for AI seats, the label otherwise.
func (s Seat) DisplayName() string {
	if s.Config.Kind == KindAI && s.Config.Model != "" {
		return s.Config.Model
	}
	return s.Label
}

// DefaultSeats returns the two seats, both AI, using the first two catalog models.
func DefaultSeats() [2]Seat {
	return [2]Seat{
		{
			ID:     SeatA,
			Label:  "Player 1",
			Piece:  "P1",
			Config: SeatConfig{Kind: KindAI, Model: DefaultModels[0].Value},
			Status: StatusIdle,
		},
		{
			ID:     SeatB,
			Label:  "Player 2",
			Piece:  "P2",
			Config: SeatConfig{Kind: KindAI, Model: DefaultModels[1].Value},
			Status: StatusIdle,
		},
	}
}

// SeatIndex maps a seat to its position in a [2]Seat array.
func SeatIndex(id SeatID) int {
	if id == SeatB {
		return 1
	}
	return 0
}

// ParseSeat accepts "a"/"b", "1"/"2" and "player1"/"player2".
func ParseSeat(s string) (SeatID, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "1", "player1", "seat_a":
		return SeatA, true
	case "b", "2", "player2", "seat_b":
		return SeatB, true
	}
	return Empty, false
}
