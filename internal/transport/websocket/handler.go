package websocket

import (
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/iamasit07/4-in-a-row-arena/internal/service/game"
	"github.com/iamasit07/4-in-a-row-arena/pkg/auth"
	"github.com/iamasit07/4-in-a-row-arena/pkg/uid"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler streams session snapshots to watchers and accepts human moves.
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Tokens         *auth.SeatTokens
	Upgrader       websocket.Upgrader
	logger         *log.Logger
}

// NewHandler accepts upgrades from allowedOrigins; an empty list accepts any
// origin. Watchers of a session are disconnected once the manager removes it.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, tokens *auth.SeatTokens, allowedOrigins []string, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	sm.OnRemove(cm.CloseGame)
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Tokens:         tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("ws"),
	}
}

// HandleWebSocket upgrades the request and serves gameID's stream until the
// client goes away.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request, gameID string) {
	session, err := h.SessionManager.GetSession(gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Upgrade error", "game", gameID, "error", err)
		return
	}

	h.handleConnection(conn, session)
}

func (h *Handler) handleConnection(conn *websocket.Conn, session *game.Session) {
	connID := uid.GenerateGameID()
	logger := h.logger.With("game", session.ID, "conn", connID)

	h.ConnManager.AddConnection(connID, session.ID, conn)
	snapshots := &snapshotSender{send: func(msg ServerMessage) error {
		return h.ConnManager.SendMessage(connID, msg)
	}}
	unsubscribe := session.Subscribe(func(snap game.Snapshot) {
		if err := snapshots.Send(snap, false); err != nil {
			logger.Debug("Snapshot write failed", "error", err)
		}
	})

	done := make(chan struct{})
	defer func() {
		close(done)
		unsubscribe()
		h.ConnManager.RemoveConnection(connID)
		logger.Debug("Connection closed")
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.Ping(connID); err != nil {
					return
				}
			}
		}
	}()

	if err := snapshots.Send(session.Snapshot(), true); err != nil {
		return
	}
	logger.Debug("Connection initialized")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Client disconnected unexpectedly", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(connID, "Invalid message format")
			continue
		}

		h.processMessage(connID, session, snapshots, msg)
	}
}

func (h *Handler) processMessage(connID string, session *game.Session, snapshots *snapshotSender, msg ClientMessage) {
	switch msg.Type {
	case TypeMove:
		claims, err := h.Tokens.Validate(msg.Token, session.ID)
		if err != nil {
			h.sendError(connID, "Invalid seat token")
			return
		}
		if err := session.SubmitMove(claims.Seat, msg.Column); err != nil {
			h.sendError(connID, err.Error())
		}

	case TypeSnapshot:
		_ = snapshots.Send(session.Snapshot(), true)

	default:
		h.sendError(connID, "Unknown message type")
	}
}

func (h *Handler) sendError(connID, message string) {
	_ = h.ConnManager.SendMessage(connID, ServerMessage{Type: TypeError, Message: message})
}

// snapshotSender forwards one connection's snapshots in Version order.
// Sessions publish outside their lock, so an older snapshot can arrive after
// a newer one; it is dropped.
type snapshotSender struct {
	mu      sync.Mutex
	sent    bool
	version uint64
	send    func(ServerMessage) error
}

// Send writes snap unless a newer version already went out. With repeat the
// current version may be sent again.
func (s *snapshotSender) Send(snap game.Snapshot, repeat bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sent && (snap.Version < s.version || (snap.Version == s.version && !repeat)) {
		return nil
	}
	s.sent = true
	s.version = snap.Version
	return s.send(ServerMessage{Type: TypeSnapshot, Game: &snap})
}
