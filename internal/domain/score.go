package domain

import "time"

type ScoreEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"playerName"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// GameRecord is the persisted summary of a finished game.
type GameRecord struct {
	GameID          string    `json:"gameId"`
	SeatA           string    `json:"seatA"`
	SeatB           string    `json:"seatB"`
	Winner          string    `json:"winner,omitempty"`
	Reason          string    `json:"reason"`
	TotalMoves      int       `json:"totalMoves"`
	DurationSeconds int       `json:"durationSeconds"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	Board           [][]int   `json:"board,omitempty"`
}

const (
	ReasonConnectFour = "connect_four"
	ReasonDraw        = "draw"
)
