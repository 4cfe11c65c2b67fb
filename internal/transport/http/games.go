package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/domain"
	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
	"github.com/iamasit07/4-in-a-row-arena/internal/transport/http/middleware"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
)

type GameHandler struct {
	SessionManager *game.SessionManager
	Tokens         *auth.SeatTokens
	logger         *log.Logger
}

func NewGameHandler(sm *game.SessionManager, tokens *auth.SeatTokens, logger *log.Logger) *GameHandler {
	return &GameHandler{SessionManager: sm, Tokens: tokens, logger: logger.WithPrefix("games")}
}

type createGameRequest struct {
	SeatA  *domain.SeatConfig `json:"seatA"`
	SeatB  *domain.SeatConfig `json:"seatB"`
	APIKey string             `json:"apiKey"`
}

type createGameResponse struct {
	Game   game.Snapshot     `json:"game"`
	Tokens map[string]string `json:"tokens"`
}

func (h *GameHandler) Models(c *gin.Context) {
	c.JSON(http.StatusOK, domain.ModelCatalog())
}

// CreateGame opens a session, applies the optional seat configuration and
// returns one seat token per seat.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid input")
		return
	}

	session := h.SessionManager.CreateSession()
	configs := map[domain.SeatID]*domain.SeatConfig{domain.SeatA: req.SeatA, domain.SeatB: req.SeatB}
	for seat, cfg := range configs {
		if cfg == nil {
			continue
		}
		if err := session.ConfigureSeat(seat, *cfg); err != nil {
			_ = h.SessionManager.RemoveSession(session.ID)
			badRequest(c, err.Error())
			return
		}
	}
	if req.APIKey != "" {
		session.SetCredentials(req.APIKey)
	}

	tokens := make(map[string]string, 2)
	for seat, name := range map[domain.SeatID]string{domain.SeatA: "a", domain.SeatB: "b"} {
		token, err := h.Tokens.Issue(session.ID, seat)
		if err != nil {
			_ = h.SessionManager.RemoveSession(session.ID)
			respondError(c, err)
			return
		}
		tokens[name] = token
	}

	h.logger.Info("Game created", "game", session.ID)
	c.JSON(http.StatusCreated, createGameResponse{Game: session.Snapshot(), Tokens: tokens})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.SessionManager.RemoveSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) ConfigureSeat(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	seat, ok := domain.ParseSeat(c.Param("seat"))
	if !ok {
		badRequest(c, domain.ErrUnknownSeat.Error())
		return
	}

	var cfg domain.SeatConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	if err := session.ConfigureSeat(seat, cfg); err != nil {
		if errors.Is(err, domain.ErrNotIdle) {
			respondError(c, err)
			return
		}
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) SetCredentials(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	session.SetCredentials(req.APIKey)
	c.JSON(http.StatusOK, gin.H{"hasCredentials": session.Snapshot().HasCredentials})
}

func (h *GameHandler) StartGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Start(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) ResetGame(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Reset()
	c.JSON(http.StatusOK, session.Snapshot())
}

// SubmitMove hands a human seat's column to the waiting turn. The move is
// applied by the turn itself, so the response only acknowledges it.
func (h *GameHandler) SubmitMove(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	seat, ok := middleware.SeatFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing seat token"})
		return
	}

	var req struct {
		Column *int `json:"column"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		badRequest(c, "Column is required")
		return
	}

	if err := session.SubmitMove(seat, *req.Column); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"accepted": true, "column": *req.Column})
}

func (h *GameHandler) session(c *gin.Context) (*game.Session, bool) {
	session, err := h.SessionManager.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return session, true
}
