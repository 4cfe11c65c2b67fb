package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// ConnectionManager tracks the sockets watching each game.
type ConnectionManager struct {
	connections map[string]*websocket.Conn // connID → socket
	games       map[string]string          // connID → gameID

	// gorilla connections support one concurrent writer
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		games:       make(map[string]string),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

func (cm *ConnectionManager) AddConnection(connID, gameID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.connections[connID] = conn
	cm.games[connID] = gameID
	cm.writeMu[connID] = &sync.Mutex{}
}

func (cm *ConnectionManager) RemoveConnection(connID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if conn, exists := cm.connections[connID]; exists {
		conn.Close()
		delete(cm.connections, connID)
		delete(cm.games, connID)
		delete(cm.writeMu, connID)
	}
}

// SendMessage writes message as JSON to one connection. Unknown connections
// are ignored.
func (cm *ConnectionManager) SendMessage(connID string, message ServerMessage) error {
	cm.mu.RLock()
	conn, exists := cm.connections[connID]
	mu, muExists := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

func (cm *ConnectionManager) Ping(connID string) error {
	cm.mu.RLock()
	conn, exists := cm.connections[connID]
	mu, muExists := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// CloseGame sends a going-away close frame to every watcher of gameID and
// drops their connections.
func (cm *ConnectionManager) CloseGame(gameID string) {
	cm.mu.RLock()
	var targets []string
	for connID, g := range cm.games {
		if g == gameID {
			targets = append(targets, connID)
		}
	}
	cm.mu.RUnlock()

	for _, connID := range targets {
		cm.closeFrame(connID, "game removed")
		cm.RemoveConnection(connID)
	}
}

func (cm *ConnectionManager) closeFrame(connID, reason string) {
	cm.mu.RLock()
	conn, exists := cm.connections[connID]
	mu, muExists := cm.writeMu[connID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return
	}

	mu.Lock()
	defer mu.Unlock()
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, reason),
		time.Now().Add(writeWait))
}

// Count returns the number of connections watching gameID.
func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	n := 0
	for _, g := range cm.games {
		if g == gameID {
			n++
		}
	}
	return n
}
