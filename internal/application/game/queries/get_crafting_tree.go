package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/amalgam-go/internal/application/game/dtos"
	"github.com/andrescamacho/amalgam-go/internal/application/mediator"
	"github.com/andrescamacho/amalgam-go/internal/domain/catalog"
	"github.com/andrescamacho/amalgam-go/internal/domain/session"
)

// GetCraftingTreeQuery returns the recipe tree. With a SessionID the nodes carry
// that session's inventory counts; without one every count is zero.
type GetCraftingTreeQuery struct {
	SessionID string
}

type GetCraftingTreeResponse struct {
	Root          *dtos.CraftingNodeDTO
	CatalogDigest string
}

// GetCraftingTreeHandler handles the GetCraftingTree query
type GetCraftingTreeHandler struct {
	sessions session.Repository
	catalog  *catalog.Catalog
}

func NewGetCraftingTreeHandler(sessions session.Repository, cat *catalog.Catalog) *GetCraftingTreeHandler {
	if cat == nil {
		cat = catalog.Default()
	}
	return &GetCraftingTreeHandler{sessions: sessions, catalog: cat}
}

// Handle executes the GetCraftingTree query
func (h *GetCraftingTreeHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetCraftingTreeQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetCraftingTreeQuery")
	}

	cat := h.catalog
	var counts map[string]int
	if query.SessionID != "" {
		s, err := findSession(ctx, h.sessions, query.SessionID)
		if err != nil {
			return nil, err
		}
		cat = s.Engine().Catalog()
		counts = s.Inventory()
	}

	return &GetCraftingTreeResponse{
		Root:          dtos.CraftingTreeToDTO(cat.Tree(counts)),
		CatalogDigest: cat.Digest(),
	}, nil
}
