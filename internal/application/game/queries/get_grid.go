package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GetGridQuery returns a read-only copy of a session's board
type GetGridQuery struct {
	SessionID string
}

// GetGridResponse holds the board rows and territory size
type GetGridResponse struct {
	Size      int
	Territory int
	Cells     [][]dtos.CellDTO
}

// GetGridHandler handles the GetGrid query
type GetGridHandler struct {
	sessions session.Repository
}

// NewGetGridHandler creates a new GetGridHandler
func NewGetGridHandler(sessions session.Repository) *GetGridHandler {
	return &GetGridHandler{sessions: sessions}
}

// Handle executes the GetGrid query
func (h *GetGridHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetGridQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetGridQuery")
	}

	s, err := findSession(ctx, h.sessions, query.SessionID)
	if err != nil {
		return nil, err
	}

	grid := s.Grid()
	return &GetGridResponse{
		Size:      grid.Size(),
		Territory: grid.OwnedCount(),
		Cells:     dtos.GridToDTO(grid, s.Engine().MiningCap()),
	}, nil
}
