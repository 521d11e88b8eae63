package grpc

import (
	"time"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	ledgerQueries "github.com/andrescamacho/amalgam-go/internal/application/ledger/queries"
)

type StartGameRequest struct {
	GridSize       int     `json:"grid_size,omitempty"`
	ResourceChance float64 `json:"resource_chance,omitempty"`
	MiningCap      int     `json:"mining_cap,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`
}

type StartGameResponse struct {
	SessionID string            `json:"session_id"`
	Snapshot  *dtos.SnapshotDTO `json:"snapshot"`
}

type SubmitDirectionRequest struct {
	SessionID string `json:"session_id"`
	Direction string `json:"direction"`
}

type PositionMessage struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type CraftMessage struct {
	Output string `json:"output"`
	Times  int    `json:"times"`
}

type SubmitDirectionResponse struct {
	Direction    string            `json:"direction"`
	Changed      bool              `json:"changed"`
	CellsClaimed []PositionMessage `json:"cells_claimed,omitempty"`
	Crafted      []CraftMessage    `json:"crafted,omitempty"`
	Mined        map[string]int    `json:"mined,omitempty"`
	TurnCount    int               `json:"turn_count"`
	Snapshot     *dtos.SnapshotDTO `json:"snapshot"`
}

type GetStateRequest struct {
	SessionID string `json:"session_id"`
}

type GetStateResponse struct {
	Snapshot  *dtos.SnapshotDTO `json:"snapshot"`
	CreatedAt time.Time         `json:"created_at"`
}

type ListSessionsRequest struct{}

type SessionSummary struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	TurnCount int       `json:"turn_count"`
	Territory int       `json:"territory"`
}

type ListSessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

// GetCraftingTreeRequest with an empty SessionID returns the bare recipe tree
type GetCraftingTreeRequest struct {
	SessionID string `json:"session_id,omitempty"`
}

type GetCraftingTreeResponse struct {
	Root          *dtos.CraftingNodeDTO `json:"root"`
	CatalogDigest string                `json:"catalog_digest"`
}

type GetHistoryRequest struct {
	SessionID   string     `json:"session_id"`
	Since       *time.Time `json:"since,omitempty"`
	Until       *time.Time `json:"until,omitempty"`
	Direction   string     `json:"direction,omitempty"`
	CraftedOnly bool       `json:"crafted_only,omitempty"`
	Limit       int        `json:"limit,omitempty"`
	Offset      int        `json:"offset,omitempty"`
	OrderBy     string     `json:"order_by,omitempty"`
}

type GetHistoryResponse struct {
	Turns []*ledgerQueries.TurnRecordDTO `json:"turns"`
	Total int                            `json:"total"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	ActiveSessions int    `json:"active_sessions"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}
