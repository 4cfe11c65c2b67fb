package http

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
	"github.com/iamasit07/4-in-a-row-arena/internal/transport/http/middleware"
	"github.com/iamasit07/4-in-a-row-arena/internal/transport/websocket"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
)

// Deps are the collaborators the router serves. History and WebSocket are
// optional; their routes are only registered when set.
type Deps struct {
	SessionManager *game.SessionManager
	Tokens         *auth.SeatTokens
	Scores         game.ScoreStore
	History        HistoryReader
	WebSocket      *websocket.Handler
	AllowedOrigins []string
	Logger         *log.Logger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = log.Default()
	}

	gameHandler := NewGameHandler(d.SessionManager, d.Tokens, d.Logger)
	watchHandler := NewWatchHandler(d.SessionManager, nil)
	if d.WebSocket != nil {
		watchHandler.Spectators = d.WebSocket.ConnManager
	}
	leaderboardHandler := NewLeaderboardHandler(d.Scores)

	router := gin.New()
	router.Use(middleware.RequestLogger(d.Logger), gin.Recovery())
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins, d.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "games": d.SessionManager.Count()})
	})

	api := router.Group("/api")
	{
		api.GET("/models", gameHandler.Models)

		api.GET("/games", watchHandler.GetLiveGames)
		api.POST("/games", gameHandler.CreateGame)
		api.GET("/games/:id", gameHandler.GetGame)

		// either seat token of the game authorises changes to it
		owned := api.Group("/games/:id", middleware.SeatAuthMiddleware(d.Tokens))
		owned.DELETE("", gameHandler.DeleteGame)
		owned.PUT("/seats/:seat", gameHandler.ConfigureSeat)
		owned.PUT("/credentials", gameHandler.SetCredentials)
		owned.POST("/start", gameHandler.StartGame)
		owned.POST("/reset", gameHandler.ResetGame)
		owned.POST("/moves", gameHandler.SubmitMove)

		api.GET("/leaderboard", leaderboardHandler.Leaderboard)
		api.POST("/leaderboard", leaderboardHandler.SubmitScore)

		if d.History != nil {
			historyHandler := NewHistoryHandler(d.History)
			api.GET("/history", historyHandler.GetHistory)
			api.GET("/history/:id", historyHandler.GetGameDetails)
		}
	}

	// auth for moves is carried inside the websocket messages
	if d.WebSocket != nil {
		router.GET("/ws/games/:id", func(c *gin.Context) {
			d.WebSocket.HandleWebSocket(c.Writer, c.Request, c.Param("id"))
		})
	}

	return router
}
