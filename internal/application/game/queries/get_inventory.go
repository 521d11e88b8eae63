package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GetInventoryQuery returns a read-only copy of a session's inventory
type GetInventoryQuery struct {
	SessionID string
}

// GetInventoryResponse lists positive counts in catalog order.
// Counts includes zero entries left behind by combination.
type GetInventoryResponse struct {
	Items  []dtos.InventoryItemDTO
	Counts map[string]int
}

// GetInventoryHandler handles the GetInventory query
type GetInventoryHandler struct {
	sessions session.Repository
}

// NewGetInventoryHandler creates a new GetInventoryHandler
func NewGetInventoryHandler(sessions session.Repository) *GetInventoryHandler {
	return &GetInventoryHandler{sessions: sessions}
}

// Handle executes the GetInventory query
func (h *GetInventoryHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetInventoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetInventoryQuery")
	}

	s, err := findSession(ctx, h.sessions, query.SessionID)
	if err != nil {
		return nil, err
	}

	inv := s.Inventory()
	return &GetInventoryResponse{
		Items:  dtos.InventoryToDTO(inv, s.Engine().Catalog()),
		Counts: inv,
	}, nil
}
