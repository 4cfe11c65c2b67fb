package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
)

// HistoryReader is satisfied by *postgres.GameRepo.
type HistoryReader interface {
	ListRecent(ctx context.Context, limit int) ([]domain.GameRecord, error)
	GetGameByID(ctx context.Context, gameID string) (domain.GameRecord, error)
}

type HistoryHandler struct {
	Games HistoryReader
}

func NewHistoryHandler(games HistoryReader) *HistoryHandler {
	return &HistoryHandler{Games: games}
}

type historyItem struct {
	ID              string `json:"id"`
	SeatA           string `json:"seatA"`
	SeatB           string `json:"seatB"`
	Winner          string `json:"winner,omitempty"`
	Result          string `json:"result"` // "win", "draw"
	EndReason       string `json:"endReason"`
	MovesCount      int    `json:"movesCount"`
	DurationSeconds int    `json:"durationSeconds"`
	FinishedAt      string `json:"finishedAt"`
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		badRequest(c, "Limit must be a positive integer")
		return
	}

	records, err := h.Games.ListRecent(c.Request.Context(), min(limit, maxLeaderboardLimit))
	if err != nil {
		respondError(c, err)
		return
	}

	history := make([]historyItem, 0, len(records))
	for _, g := range records {
		item := historyItem{
			ID:              g.GameID,
			SeatA:           g.SeatA,
			SeatB:           g.SeatB,
			Winner:          g.Winner,
			Result:          "draw",
			EndReason:       g.Reason,
			MovesCount:      g.TotalMoves,
			DurationSeconds: g.DurationSeconds,
			FinishedAt:      g.FinishedAt.UTC().Format(time.RFC3339),
		}
		if g.Winner != "" {
			item.Result = "win"
		}
		history = append(history, item)
	}

	c.JSON(http.StatusOK, history)
}

// GetGameDetails returns one finished game including its final board.
func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	record, err := h.Games.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
