package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
)

// SpectatorCounter is satisfied by *websocket.ConnectionManager.
type SpectatorCounter interface {
	Count(gameID string) int
}

type WatchHandler struct {
	SessionManager *game.SessionManager
	Spectators     SpectatorCounter
}

func NewWatchHandler(sm *game.SessionManager, spectators SpectatorCounter) *WatchHandler {
	return &WatchHandler{SessionManager: sm, Spectators: spectators}
}

type liveGameResponse struct {
	GameID         string `json:"gameId"`
	State          string `json:"state"`
	SeatA          string `json:"seatA"`
	SeatB          string `json:"seatB"`
	SpectatorCount int    `json:"spectatorCount"`
	MoveCount      int    `json:"moveCount"`
	UpdatedAt      string `json:"updatedAt"`
}

// GetLiveGames lists the sessions held in memory, most recently updated first.
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	summaries := h.SessionManager.List()

	response := make([]liveGameResponse, 0, len(summaries))
	for _, g := range summaries {
		item := liveGameResponse{
			GameID:    g.ID,
			State:     string(g.State),
			SeatA:     g.SeatA,
			SeatB:     g.SeatB,
			MoveCount: g.MoveCount,
			UpdatedAt: g.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if h.Spectators != nil {
			item.SpectatorCount = h.Spectators.Count(g.ID)
		}
		response = append(response, item)
	}

	c.JSON(http.StatusOK, response)
}
