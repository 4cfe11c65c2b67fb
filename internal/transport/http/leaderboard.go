package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
	maxPlayerNameLength     = 100
)

type LeaderboardHandler struct {
	Scores game.ScoreStore
}

func NewLeaderboardHandler(scores game.ScoreStore) *LeaderboardHandler {
	return &LeaderboardHandler{Scores: scores}
}

func (h *LeaderboardHandler) Leaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLeaderboardLimit)))
	if err != nil || limit < 1 {
		badRequest(c, "Limit must be a positive integer")
		return
	}
	limit = min(limit, maxLeaderboardLimit)

	entries, err := h.Scores.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []domain.ScoreEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *LeaderboardHandler) SubmitScore(c *gin.Context) {
	var req struct {
		PlayerName string `json:"playerName"`
		Score      *int   `json:"score"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.PlayerName == "" || len(req.PlayerName) > maxPlayerNameLength {
		badRequest(c, "Player name must be between 1 and 100 characters")
		return
	}
	if req.Score == nil || *req.Score < 0 {
		badRequest(c, "Score must be a non-negative integer")
		return
	}

	entry, err := h.Scores.Append(c.Request.Context(), domain.ScoreEntry{Name: req.PlayerName, Score: *req.Score})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}
