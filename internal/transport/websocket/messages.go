package websocket

import "github.com/iamasit07/4-in-a-row-arena/internal/service/game"

const (
	TypeSnapshot = "snapshot"
	TypeError    = "error"
	TypeMove     = "move"
)

type ServerMessage struct {
	Type    string         `json:"type"`
	Game    *game.Snapshot `json:"game,omitempty"`
	Message string         `json:"message,omitempty"`
}

type ClientMessage struct {
	Type   string `json:"type"`
	Column int    `json:"column"`
	Token  string `json:"token,omitempty"`
}
