package observer

import "github.com/andrescamacho/amalgam-go/internal/application/game/dtos"

// Client message types
const (
	TypeMove = "MOVE"
	TypePing = "PING"
)

// Server message types
const (
	TypeSnapshot = "SNAPSHOT"
	TypeTurn     = "TURN"
	TypeError    = "ERROR"
	TypePong     = "PONG"
)

// ClientMessage is what a browser sends, e.g. {"type":"MOVE","direction":"up"}
type ClientMessage struct {
	Type      string `json:"type"`
	Direction string `json:"direction,omitempty"`
}

// TurnSummary is the delta part of a TURN message
type TurnSummary struct {
	Direction    string         `json:"direction"`
	CellsClaimed int            `json:"cells_claimed"`
	Mined        map[string]int `json:"mined,omitempty"`
	Crafted      map[string]int `json:"crafted,omitempty"`
}

// ServerMessage is pushed to observers
type ServerMessage struct {
	Type     string            `json:"type"`
	Turn     *TurnSummary      `json:"turn,omitempty"`
	Snapshot *dtos.SnapshotDTO `json:"snapshot,omitempty"`
	Error    string            `json:"error,omitempty"`
}
